package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kursadbilgin/notify-relay/internal/channel"
	"github.com/kursadbilgin/notify-relay/internal/domain"
	"github.com/kursadbilgin/notify-relay/internal/observability"
	"github.com/kursadbilgin/notify-relay/internal/repository"
	"go.uber.org/zap"
)

// DeliveryOutcome tags a completed delivery call.
type DeliveryOutcome string

const (
	// OutcomeSent means a channel accepted the message during this call.
	OutcomeSent DeliveryOutcome = "sent"
	// OutcomeAlreadySent means a previous call already delivered the
	// notification; this call had no side effects.
	OutcomeAlreadySent DeliveryOutcome = "already_sent"
)

// DeliveryError signals that every channel in the resolved order failed.
// It is the cue for the surrounding queue machinery to schedule another
// full delivery round.
type DeliveryError struct {
	NotificationID string
	LastError      string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("all channels exhausted for notification %s: %s", e.NotificationID, e.LastError)
}

// Orchestrator drives one notification through its resolved channel order,
// recording every attempt and owning the notification's status
// transitions until it reaches a terminal state.
type Orchestrator struct {
	notifications repository.NotificationRepository
	recipients    repository.RecipientRepository
	attempts      repository.AttemptRepository
	transports    channel.Registry
	logger        *zap.Logger
	metrics       *observability.Metrics
	now           func() time.Time
}

func NewOrchestrator(
	notifications repository.NotificationRepository,
	recipients repository.RecipientRepository,
	attempts repository.AttemptRepository,
	transports channel.Registry,
	logger *zap.Logger,
) (*Orchestrator, error) {
	if notifications == nil {
		return nil, fmt.Errorf("notification repository is required")
	}
	if recipients == nil {
		return nil, fmt.Errorf("recipient repository is required")
	}
	if attempts == nil {
		return nil, fmt.Errorf("attempt repository is required")
	}
	if len(transports) == 0 {
		return nil, fmt.Errorf("transport registry is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Orchestrator{
		notifications: notifications,
		recipients:    recipients,
		attempts:      attempts,
		transports:    transports,
		logger:        logger,
		now:           time.Now,
	}, nil
}

func (o *Orchestrator) SetMetrics(metrics *observability.Metrics) {
	if o == nil {
		return
	}
	o.metrics = metrics
}

// Deliver is safe to invoke more than once for the same id: an
// already-sent notification short-circuits with no side effects, which is
// what makes at-least-once queue delivery tolerable.
func (o *Orchestrator) Deliver(ctx context.Context, notificationID string) (DeliveryOutcome, error) {
	notification, err := o.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return "", fmt.Errorf("failed to load notification: %w", err)
	}

	if notification.Status == domain.StatusSent {
		o.logger.Info("notification already sent, skipping redelivery",
			zap.String("notificationId", notification.ID),
		)
		return OutcomeAlreadySent, nil
	}

	recipient, err := o.recipients.GetByID(ctx, notification.RecipientID)
	if err != nil {
		return "", fmt.Errorf("failed to load recipient: %w", err)
	}

	if err := o.notifications.MarkInProgress(ctx, notification.ID); err != nil {
		return "", fmt.Errorf("failed to mark notification in progress: %w", err)
	}

	order := domain.ResolveChannelOrder(recipient.PreferredChannels)

	var lastError string
	for _, ch := range order {
		sendErr := o.sendVia(ctx, ch, notification, recipient)

		if sendErr == nil {
			if err := o.notifications.MarkSent(ctx, notification.ID, ch, o.now().UTC()); err != nil {
				return "", fmt.Errorf("failed to mark notification sent: %w", err)
			}
			if err := o.recordAttempt(ctx, notification.ID, ch, domain.OutcomeSuccess, ""); err != nil {
				return "", err
			}
			if o.metrics != nil {
				o.metrics.IncDeliveryAttempt(ch.String(), domain.OutcomeSuccess.String())
				o.metrics.IncNotificationSent(ch.String())
			}

			o.logger.Info("notification delivered",
				zap.String("notificationId", notification.ID),
				zap.String("channel", ch.String()),
			)
			return OutcomeSent, nil
		}

		lastError = sendErr.Error()
		o.logger.Warn("channel try failed",
			zap.String("notificationId", notification.ID),
			zap.String("channel", ch.String()),
			zap.Error(sendErr),
		)

		if err := o.notifications.RecordTry(ctx, notification.ID, ch, lastError); err != nil {
			return "", fmt.Errorf("failed to record try: %w", err)
		}
		if err := o.recordAttempt(ctx, notification.ID, ch, domain.OutcomeFailure, lastError); err != nil {
			return "", err
		}
		if o.metrics != nil {
			o.metrics.IncDeliveryAttempt(ch.String(), domain.OutcomeFailure.String())
		}
	}

	if lastError == "" {
		lastError = "all channels failed"
	}

	if err := o.notifications.MarkFailed(ctx, notification.ID, lastError); err != nil {
		return "", fmt.Errorf("failed to mark notification failed: %w", err)
	}

	return "", &DeliveryError{
		NotificationID: notification.ID,
		LastError:      lastError,
	}
}

func (o *Orchestrator) sendVia(
	ctx context.Context,
	ch domain.Channel,
	notification *domain.Notification,
	recipient *domain.Recipient,
) error {
	transport, ok := o.transports.For(ch)
	if !ok {
		return &channel.TransportError{
			Channel: ch.String(),
			Reason:  fmt.Sprintf("no transport registered for channel %s", ch),
		}
	}

	sendStart := o.now()
	sendErr := transport.Send(ctx, notification, recipient)
	if o.metrics != nil {
		o.metrics.ObserveSendDuration(ch.String(), o.now().Sub(sendStart))
	}

	return sendErr
}

func (o *Orchestrator) recordAttempt(
	ctx context.Context,
	notificationID string,
	ch domain.Channel,
	outcome domain.AttemptOutcome,
	attemptErr string,
) error {
	attempt := &domain.DeliveryAttempt{
		ID:             uuid.NewString(),
		NotificationID: notificationID,
		Channel:        ch,
		Outcome:        outcome,
		Error:          attemptErr,
		CreatedAt:      o.now().UTC(),
	}

	if err := o.attempts.Create(ctx, attempt); err != nil {
		return fmt.Errorf("failed to record delivery attempt: %w", err)
	}
	return nil
}
