package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kursadbilgin/notify-relay/internal/domain"
	"github.com/kursadbilgin/notify-relay/internal/queue"
	"github.com/kursadbilgin/notify-relay/internal/repository"
	"go.uber.org/zap"
)

// SendParams is the intake request for one notification.
type SendParams struct {
	RecipientEmail string
	Body           string
	CorrelationID  string
}

// NotificationService is the intake side of the system: it accepts a
// delivery request, persists the notification in pending, and hands the
// id to the queue. Delivery itself happens asynchronously in the worker.
type NotificationService struct {
	notifications repository.NotificationRepository
	recipients    repository.RecipientRepository
	attempts      repository.AttemptRepository
	publisher     queue.Publisher
	logger        *zap.Logger
}

func NewNotificationService(
	notifications repository.NotificationRepository,
	recipients repository.RecipientRepository,
	attempts repository.AttemptRepository,
	publisher queue.Publisher,
	logger *zap.Logger,
) (*NotificationService, error) {
	if notifications == nil {
		return nil, fmt.Errorf("notification repository is required")
	}
	if recipients == nil {
		return nil, fmt.Errorf("recipient repository is required")
	}
	if attempts == nil {
		return nil, fmt.Errorf("attempt repository is required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("publisher is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &NotificationService{
		notifications: notifications,
		recipients:    recipients,
		attempts:      attempts,
		publisher:     publisher,
		logger:        logger,
	}, nil
}

func (s *NotificationService) Send(ctx context.Context, params SendParams) (*domain.Notification, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	email := strings.TrimSpace(params.RecipientEmail)
	if email == "" {
		return nil, fmt.Errorf("%w: recipient email is required", domain.ErrValidation)
	}

	recipient, err := s.recipients.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	notification := &domain.Notification{
		ID:          uuid.NewString(),
		RecipientID: recipient.ID,
		Body:        strings.TrimSpace(params.Body),
		Status:      domain.StatusPending,
		MaxRetries:  domain.DefaultMaxRetries,
	}
	if err := notification.Validate(); err != nil {
		return nil, err
	}

	if err := s.notifications.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	msg := queue.DeliveryMessage{
		NotificationID: notification.ID,
		CorrelationID:  strings.TrimSpace(params.CorrelationID),
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.logger.Error("failed to enqueue notification",
			zap.String("notificationId", notification.ID),
			zap.Error(err),
		)
		if updateErr := s.notifications.MarkFailed(ctx, notification.ID, "failed to enqueue delivery"); updateErr != nil {
			s.logger.Error("failed to mark notification as failed after publish error",
				zap.String("notificationId", notification.ID),
				zap.Error(updateErr),
			)
		}
		return nil, fmt.Errorf("failed to enqueue notification: %w", err)
	}

	s.logger.Info("notification accepted",
		zap.String("notificationId", notification.ID),
		zap.String("recipientId", recipient.ID),
	)

	return notification, nil
}

func (s *NotificationService) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: notification id is required", domain.ErrValidation)
	}
	return s.notifications.GetByID(ctx, strings.TrimSpace(id))
}

func (s *NotificationService) ListAttempts(ctx context.Context, notificationID string) ([]domain.DeliveryAttempt, error) {
	trimmed := strings.TrimSpace(notificationID)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: notification id is required", domain.ErrValidation)
	}

	if _, err := s.notifications.GetByID(ctx, trimmed); err != nil {
		return nil, err
	}

	return s.attempts.GetByNotificationID(ctx, trimmed)
}

func (s *NotificationService) List(
	ctx context.Context,
	params repository.ListParams,
) ([]domain.Notification, int64, error) {
	return s.notifications.List(ctx, params)
}

// Retry re-drives a failed notification through a fresh delivery round.
func (s *NotificationService) Retry(ctx context.Context, id string) error {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return fmt.Errorf("%w: notification id is required", domain.ErrValidation)
	}

	notification, err := s.notifications.GetByID(ctx, trimmed)
	if err != nil {
		return err
	}
	if notification.Status != domain.StatusFailed {
		return fmt.Errorf("%w: only failed notifications can be retried (status is %s)",
			domain.ErrConflict, notification.Status)
	}

	msg := queue.DeliveryMessage{NotificationID: notification.ID}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to enqueue retry: %w", err)
	}

	s.logger.Info("manual retry enqueued", zap.String("notificationId", notification.ID))
	return nil
}
