package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kursadbilgin/notify-relay/internal/domain"
	"github.com/kursadbilgin/notify-relay/internal/queue"
	"go.uber.org/zap"
)

func newTestNotificationService(
	t *testing.T,
	notifications *fakeNotificationRepo,
	recipients *fakeRecipientRepo,
	attempts *fakeAttemptRepo,
	publisher *fakePublisher,
) *NotificationService {
	t.Helper()

	if notifications == nil {
		notifications = &fakeNotificationRepo{}
	}
	if recipients == nil {
		recipients = &fakeRecipientRepo{}
	}
	if attempts == nil {
		attempts = &fakeAttemptRepo{}
	}
	if publisher == nil {
		publisher = &fakePublisher{}
	}

	svc, err := NewNotificationService(notifications, recipients, attempts, publisher, zap.NewNop())
	if err != nil {
		t.Fatalf("NewNotificationService() error = %v", err)
	}
	return svc
}

func TestNotificationServiceSend(t *testing.T) {
	t.Parallel()

	var created *domain.Notification
	var publishedMsg queue.DeliveryMessage

	notifications := &fakeNotificationRepo{
		createFn: func(ctx context.Context, n *domain.Notification) error {
			created = n
			return nil
		},
	}
	recipients := &fakeRecipientRepo{
		getByEmailFn: func(ctx context.Context, email string) (*domain.Recipient, error) {
			if email != "user@example.com" {
				return nil, domain.ErrNotFound
			}
			return &domain.Recipient{ID: "r1", Email: email}, nil
		},
	}
	publisher := &fakePublisher{
		publishFn: func(ctx context.Context, msg queue.DeliveryMessage) error {
			publishedMsg = msg
			return nil
		},
	}

	svc := newTestNotificationService(t, notifications, recipients, nil, publisher)

	notification, err := svc.Send(context.Background(), SendParams{
		RecipientEmail: "user@example.com",
		Body:           "  hello  ",
		CorrelationID:  "req-42",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if created == nil {
		t.Fatal("notification was not persisted")
	}
	if created.Status != domain.StatusPending {
		t.Fatalf("status = %s, want pending", created.Status)
	}
	if created.RecipientID != "r1" {
		t.Fatalf("recipient_id = %s, want r1", created.RecipientID)
	}
	if created.Body != "hello" {
		t.Fatalf("body = %q, want trimmed %q", created.Body, "hello")
	}
	if created.MaxRetries != domain.DefaultMaxRetries {
		t.Fatalf("max_retries = %d, want %d", created.MaxRetries, domain.DefaultMaxRetries)
	}
	if notification.ID == "" {
		t.Fatal("notification id is empty")
	}
	if publishedMsg.NotificationID != notification.ID {
		t.Fatalf("published id = %s, want %s", publishedMsg.NotificationID, notification.ID)
	}
	if publishedMsg.CorrelationID != "req-42" {
		t.Fatalf("correlation id = %s, want req-42", publishedMsg.CorrelationID)
	}
}

func TestNotificationServiceSendUnknownRecipient(t *testing.T) {
	t.Parallel()

	svc := newTestNotificationService(t, nil, &fakeRecipientRepo{}, nil, nil)

	_, err := svc.Send(context.Background(), SendParams{
		RecipientEmail: "ghost@example.com",
		Body:           "hello",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Send() error = %v, want ErrNotFound", err)
	}
}

func TestNotificationServiceSendValidation(t *testing.T) {
	t.Parallel()

	recipients := &fakeRecipientRepo{
		getByEmailFn: func(ctx context.Context, email string) (*domain.Recipient, error) {
			return &domain.Recipient{ID: "r1", Email: email}, nil
		},
	}
	svc := newTestNotificationService(t, nil, recipients, nil, nil)

	tests := []struct {
		name   string
		params SendParams
	}{
		{name: "missing email", params: SendParams{Body: "hello"}},
		{name: "missing body", params: SendParams{RecipientEmail: "user@example.com"}},
		{name: "body too long", params: SendParams{
			RecipientEmail: "user@example.com",
			Body:           strings.Repeat("x", domain.MaxBodyLength+1),
		}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Send(context.Background(), tt.params)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("Send() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestNotificationServiceSendPublishFailure(t *testing.T) {
	t.Parallel()

	var failedID string
	notifications := &fakeNotificationRepo{
		markFailedFn: func(ctx context.Context, id string, lastError string) error {
			failedID = id
			if lastError == "" {
				t.Error("last_error must explain the enqueue failure")
			}
			return nil
		},
	}
	recipients := &fakeRecipientRepo{
		getByEmailFn: func(ctx context.Context, email string) (*domain.Recipient, error) {
			return &domain.Recipient{ID: "r1", Email: email}, nil
		},
	}
	publisher := &fakePublisher{
		publishFn: func(ctx context.Context, msg queue.DeliveryMessage) error {
			return errors.New("broker unavailable")
		},
	}

	svc := newTestNotificationService(t, notifications, recipients, nil, publisher)

	_, err := svc.Send(context.Background(), SendParams{
		RecipientEmail: "user@example.com",
		Body:           "hello",
	})
	if err == nil {
		t.Fatal("Send() error = nil, want enqueue failure")
	}
	if failedID == "" {
		t.Fatal("notification was not marked failed after publish error")
	}
}

func TestNotificationServiceListAttempts(t *testing.T) {
	t.Parallel()

	notifications := &fakeNotificationRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Notification, error) {
			if id != "n1" {
				return nil, domain.ErrNotFound
			}
			return &domain.Notification{ID: "n1", Status: domain.StatusSent}, nil
		},
	}
	attempts := &fakeAttemptRepo{
		getByNotificationIDFn: func(ctx context.Context, notificationID string) ([]domain.DeliveryAttempt, error) {
			return []domain.DeliveryAttempt{
				{ID: "a1", NotificationID: notificationID, Channel: domain.ChannelEmail, Outcome: domain.OutcomeSuccess},
			}, nil
		},
	}

	svc := newTestNotificationService(t, notifications, nil, attempts, nil)

	got, err := svc.ListAttempts(context.Background(), "n1")
	if err != nil {
		t.Fatalf("ListAttempts() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "a1" {
		t.Fatalf("attempts = %v, want one row a1", got)
	}

	if _, err := svc.ListAttempts(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("ListAttempts(missing) error = %v, want ErrNotFound", err)
	}
}

func TestNotificationServiceRetry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      domain.Status
		wantErr     error
		wantPublish bool
	}{
		{name: "failed is retried", status: domain.StatusFailed, wantPublish: true},
		{name: "sent conflicts", status: domain.StatusSent, wantErr: domain.ErrConflict},
		{name: "pending conflicts", status: domain.StatusPending, wantErr: domain.ErrConflict},
		{name: "in_progress conflicts", status: domain.StatusInProgress, wantErr: domain.ErrConflict},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			published := false
			notifications := &fakeNotificationRepo{
				getByIDFn: func(ctx context.Context, id string) (*domain.Notification, error) {
					return &domain.Notification{ID: id, Status: tt.status}, nil
				},
			}
			publisher := &fakePublisher{
				publishFn: func(ctx context.Context, msg queue.DeliveryMessage) error {
					published = true
					return nil
				},
			}

			svc := newTestNotificationService(t, notifications, nil, nil, publisher)

			err := svc.Retry(context.Background(), "n1")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Retry() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Retry() error = %v", err)
			}
			if published != tt.wantPublish {
				t.Fatalf("published = %v, want %v", published, tt.wantPublish)
			}
		})
	}
}
