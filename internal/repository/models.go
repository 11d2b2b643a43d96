package repository

import (
	"time"

	"github.com/kursadbilgin/notify-relay/internal/domain"
)

// RecipientModel is the persistence model for the recipients table.
type RecipientModel struct {
	ID                string           `gorm:"type:uuid;primaryKey"`
	Email             string           `gorm:"type:varchar(255);not null;uniqueIndex"`
	PhoneNumber       string           `gorm:"type:varchar(20);not null;default:''"`
	TelegramChatID    string           `gorm:"type:varchar(100);not null;default:''"`
	PreferredChannels []domain.Channel `gorm:"type:jsonb;serializer:json"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (RecipientModel) TableName() string {
	return "recipients"
}

// NotificationModel is the persistence model for the notifications table.
type NotificationModel struct {
	ID           string          `gorm:"type:uuid;primaryKey"`
	RecipientID  string          `gorm:"type:uuid;not null"`
	Body         string          `gorm:"type:text;not null"`
	Status       domain.Status   `gorm:"type:varchar(20);not null"`
	AttemptCount int             `gorm:"not null;default:0"`
	LastChannel  *domain.Channel `gorm:"type:varchar(20)"`
	LastError    string          `gorm:"type:text;not null;default:''"`
	RetryCount   int             `gorm:"not null;default:0"`
	MaxRetries   int             `gorm:"not null;default:3"`
	NextRetryAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	SentAt       *time.Time
}

func (NotificationModel) TableName() string {
	return "notifications"
}

// DeliveryAttemptModel is the persistence model for delivery_attempts.
type DeliveryAttemptModel struct {
	ID             string                `gorm:"type:uuid;primaryKey"`
	NotificationID string                `gorm:"type:uuid;not null"`
	Channel        domain.Channel        `gorm:"type:varchar(20);not null"`
	Outcome        domain.AttemptOutcome `gorm:"type:varchar(10);not null"`
	Error          string                `gorm:"type:text;not null;default:''"`
	CreatedAt      time.Time
}

func (DeliveryAttemptModel) TableName() string {
	return "delivery_attempts"
}

func recipientModelFromDomain(r *domain.Recipient) *RecipientModel {
	if r == nil {
		return nil
	}

	return &RecipientModel{
		ID:                r.ID,
		Email:             r.Email,
		PhoneNumber:       r.PhoneNumber,
		TelegramChatID:    r.TelegramChatID,
		PreferredChannels: r.PreferredChannels,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func recipientModelToDomain(m *RecipientModel) *domain.Recipient {
	if m == nil {
		return nil
	}

	return &domain.Recipient{
		ID:                m.ID,
		Email:             m.Email,
		PhoneNumber:       m.PhoneNumber,
		TelegramChatID:    m.TelegramChatID,
		PreferredChannels: m.PreferredChannels,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func notificationModelFromDomain(n *domain.Notification) *NotificationModel {
	if n == nil {
		return nil
	}

	return &NotificationModel{
		ID:           n.ID,
		RecipientID:  n.RecipientID,
		Body:         n.Body,
		Status:       n.Status,
		AttemptCount: n.AttemptCount,
		LastChannel:  n.LastChannel,
		LastError:    n.LastError,
		RetryCount:   n.RetryCount,
		MaxRetries:   n.MaxRetries,
		NextRetryAt:  n.NextRetryAt,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
		SentAt:       n.SentAt,
	}
}

func notificationModelToDomain(m *NotificationModel) *domain.Notification {
	if m == nil {
		return nil
	}

	return &domain.Notification{
		ID:           m.ID,
		RecipientID:  m.RecipientID,
		Body:         m.Body,
		Status:       m.Status,
		AttemptCount: m.AttemptCount,
		LastChannel:  m.LastChannel,
		LastError:    m.LastError,
		RetryCount:   m.RetryCount,
		MaxRetries:   m.MaxRetries,
		NextRetryAt:  m.NextRetryAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		SentAt:       m.SentAt,
	}
}

func attemptModelFromDomain(a *domain.DeliveryAttempt) *DeliveryAttemptModel {
	if a == nil {
		return nil
	}

	return &DeliveryAttemptModel{
		ID:             a.ID,
		NotificationID: a.NotificationID,
		Channel:        a.Channel,
		Outcome:        a.Outcome,
		Error:          a.Error,
		CreatedAt:      a.CreatedAt,
	}
}

func attemptModelToDomain(m *DeliveryAttemptModel) *domain.DeliveryAttempt {
	if m == nil {
		return nil
	}

	return &domain.DeliveryAttempt{
		ID:             m.ID,
		NotificationID: m.NotificationID,
		Channel:        m.Channel,
		Outcome:        m.Outcome,
		Error:          m.Error,
		CreatedAt:      m.CreatedAt,
	}
}
