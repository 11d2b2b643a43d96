package domain

import (
	"fmt"
	"strings"
	"time"
)

// AttemptOutcome is the result of one channel try.
type AttemptOutcome string

const (
	OutcomeSuccess AttemptOutcome = "success"
	OutcomeFailure AttemptOutcome = "failure"
)

func (o AttemptOutcome) String() string { return string(o) }

func (o AttemptOutcome) IsValid() bool {
	return o == OutcomeSuccess || o == OutcomeFailure
}

func ParseAttemptOutcomeFromString(s string) (AttemptOutcome, error) {
	o := AttemptOutcome(strings.ToLower(strings.TrimSpace(s)))
	if !o.IsValid() {
		return "", fmt.Errorf("%w: invalid attempt outcome %q", ErrValidation, s)
	}
	return o, nil
}

// DeliveryAttempt is the append-only audit record of a single channel try.
// Attempts are never mutated or deleted; together they form the durable
// history of every try across every delivery round.
type DeliveryAttempt struct {
	ID             string         `gorm:"type:uuid;primaryKey"`
	NotificationID string         `gorm:"type:uuid;not null"`
	Channel        Channel        `gorm:"type:varchar(20);not null"`
	Outcome        AttemptOutcome `gorm:"type:varchar(10);not null"`
	Error          string         `gorm:"type:text;not null;default:''"`
	CreatedAt      time.Time
}
