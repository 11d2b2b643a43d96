package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Recipient holds a delivery target's contact identifiers. The email
// address is the unique contact key; phone number and telegram chat id are
// optional secondaries. PreferredChannels lists channels in priority order
// and may be empty. The orchestrator treats recipients as read-only.
type Recipient struct {
	ID                string    `gorm:"type:uuid;primaryKey"`
	Email             string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	PhoneNumber       string    `gorm:"type:varchar(20);not null;default:''"`
	TelegramChatID    string    `gorm:"type:varchar(100);not null;default:''"`
	PreferredChannels []Channel `gorm:"type:jsonb;serializer:json"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (r *Recipient) Validate() error {
	email := strings.TrimSpace(r.Email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: invalid email address %q", ErrValidation, email)
	}
	for _, ch := range r.PreferredChannels {
		if !ch.IsValid() {
			return fmt.Errorf("%w: invalid preferred channel %q", ErrValidation, ch)
		}
	}
	return nil
}
