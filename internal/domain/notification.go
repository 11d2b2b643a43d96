package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status represents the lifecycle state of a notification.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusSent       Status = "sent"
	StatusFailed     Status = "failed"
)

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusSent, StatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether the orchestrator performs no further
// transitions from this state on its own. A failed notification may still
// be re-driven by an external retry.
func (s Status) IsTerminal() bool {
	return s == StatusSent || s == StatusFailed
}

func ParseStatusFromString(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: invalid status %q", ErrValidation, s)
	}
	return st, nil
}

const (
	// DefaultMaxRetries bounds top-level delivery rounds after the first.
	DefaultMaxRetries = 3

	MaxBodyLength = 5000
)

// Notification is the unit of delivery work. Its body is immutable once
// created; all other mutable fields are owned by the delivery orchestrator
// until the notification reaches a terminal state.
type Notification struct {
	ID           string   `gorm:"type:uuid;primaryKey"`
	RecipientID  string   `gorm:"type:uuid;not null"`
	Body         string   `gorm:"type:text;not null"`
	Status       Status   `gorm:"type:varchar(20);not null"`
	AttemptCount int      `gorm:"not null;default:0"`
	LastChannel  *Channel `gorm:"type:varchar(20)"`
	LastError    string   `gorm:"type:text;not null;default:''"`
	RetryCount   int      `gorm:"not null;default:0"`
	MaxRetries   int      `gorm:"not null;default:3"`
	NextRetryAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	SentAt       *time.Time
}

func (n *Notification) Validate() error {
	if strings.TrimSpace(n.RecipientID) == "" {
		return fmt.Errorf("%w: recipient id is required", ErrValidation)
	}
	if strings.TrimSpace(n.Body) == "" {
		return fmt.Errorf("%w: body is required", ErrValidation)
	}
	if len([]rune(n.Body)) > MaxBodyLength {
		return fmt.Errorf("%w: body exceeds %d characters", ErrValidation, MaxBodyLength)
	}
	if !n.Status.IsValid() {
		return fmt.Errorf("%w: invalid status %q", ErrValidation, n.Status)
	}
	return nil
}
