package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestParseStatusFromString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Status
		wantErr bool
	}{
		{name: "valid lowercase", input: "sent", want: StatusSent},
		{name: "valid uppercase with spaces", input: " IN_PROGRESS ", want: StatusInProgress},
		{name: "invalid", input: "queued", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseStatusFromString(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("ParseStatusFromString() error = %v, want ErrValidation", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseStatusFromString() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseStatusFromString() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStatusIsTerminal(t *testing.T) {
	t.Parallel()

	if StatusPending.IsTerminal() || StatusInProgress.IsTerminal() {
		t.Fatal("pending and in_progress must not be terminal")
	}
	if !StatusSent.IsTerminal() || !StatusFailed.IsTerminal() {
		t.Fatal("sent and failed must be terminal")
	}
}

func TestNotificationValidate(t *testing.T) {
	t.Parallel()

	valid := Notification{
		RecipientID: "a9c7e6a4-1111-2222-3333-444455556666",
		Body:        "hello",
		Status:      StatusPending,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(n *Notification)
	}{
		{name: "missing recipient", mutate: func(n *Notification) { n.RecipientID = " " }},
		{name: "empty body", mutate: func(n *Notification) { n.Body = "" }},
		{name: "body too long", mutate: func(n *Notification) { n.Body = strings.Repeat("x", MaxBodyLength+1) }},
		{name: "invalid status", mutate: func(n *Notification) { n.Status = "archived" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n := valid
			tt.mutate(&n)
			if err := n.Validate(); !errors.Is(err, ErrValidation) {
				t.Fatalf("Validate() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestParseAttemptOutcomeFromString(t *testing.T) {
	t.Parallel()

	got, err := ParseAttemptOutcomeFromString("Success")
	if err != nil {
		t.Fatalf("ParseAttemptOutcomeFromString() unexpected error = %v", err)
	}
	if got != OutcomeSuccess {
		t.Fatalf("ParseAttemptOutcomeFromString() = %s, want %s", got, OutcomeSuccess)
	}

	_, err = ParseAttemptOutcomeFromString("partial")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("ParseAttemptOutcomeFromString() error = %v, want ErrValidation", err)
	}
}

func TestRecipientValidate(t *testing.T) {
	t.Parallel()

	valid := Recipient{
		Email:             "user@example.com",
		PreferredChannels: []Channel{ChannelTelegram},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error = %v", err)
	}

	noEmail := Recipient{}
	if err := noEmail.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("Validate() error = %v, want ErrValidation", err)
	}

	badEmail := Recipient{Email: "not-an-address"}
	if err := badEmail.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("Validate() error = %v, want ErrValidation", err)
	}

	badPreference := Recipient{
		Email:             "user@example.com",
		PreferredChannels: []Channel{"fax"},
	}
	if err := badPreference.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("Validate() error = %v, want ErrValidation", err)
	}
}
