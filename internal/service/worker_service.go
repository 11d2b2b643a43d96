package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/kursadbilgin/notify-relay/internal/domain"
	"github.com/kursadbilgin/notify-relay/internal/lock"
	"github.com/kursadbilgin/notify-relay/internal/observability"
	"github.com/kursadbilgin/notify-relay/internal/queue"
	"github.com/kursadbilgin/notify-relay/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	minWorkerConcurrency = 1
	baseRetryDelay       = time.Second
	maxRetryDelay        = 60 * time.Second
	maxRetryJitterMillis = 250
	deliveryLockTTL      = 2 * time.Minute
)

// Deliverer runs one full delivery pass for a notification id.
type Deliverer interface {
	Deliver(ctx context.Context, notificationID string) (DeliveryOutcome, error)
}

// WorkerService consumes the delivery queue and executes one delivery per
// message, serialized per notification id by an advisory lock. A delivery
// whose channels are all exhausted is scheduled for a bounded number of
// exponential-backoff retry rounds.
type WorkerService struct {
	notifications repository.NotificationRepository
	consumer      queue.Consumer
	deliverer     Deliverer
	locker        lock.Locker
	logger        *zap.Logger
	metrics       *observability.Metrics
	concurrency   int
	now           func() time.Time
	randIntn      func(n int) int
}

func NewWorkerService(
	notifications repository.NotificationRepository,
	consumer queue.Consumer,
	deliverer Deliverer,
	locker lock.Locker,
	concurrency int,
	logger *zap.Logger,
) (*WorkerService, error) {
	if notifications == nil {
		return nil, fmt.Errorf("notification repository is required")
	}
	if consumer == nil {
		return nil, fmt.Errorf("consumer is required")
	}
	if deliverer == nil {
		return nil, fmt.Errorf("deliverer is required")
	}
	if locker == nil {
		return nil, fmt.Errorf("locker is required")
	}
	if concurrency < minWorkerConcurrency {
		concurrency = minWorkerConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WorkerService{
		notifications: notifications,
		consumer:      consumer,
		deliverer:     deliverer,
		locker:        locker,
		logger:        logger,
		concurrency:   concurrency,
		now:           time.Now,
		randIntn:      rand.Intn,
	}, nil
}

func (s *WorkerService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

// Start consumes the delivery queue until context cancellation.
func (s *WorkerService) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	g, groupCtx := errgroup.WithContext(ctx)
	for i := 0; i < s.concurrency; i++ {
		workerID := i + 1

		g.Go(func() error {
			s.logger.Info("worker started", zap.Int("workerId", workerID))

			err := s.consumer.Consume(groupCtx, s.processMessage)
			if err != nil {
				s.logger.Error("worker stopped with error",
					zap.Int("workerId", workerID),
					zap.Error(err),
				)
				return err
			}

			s.logger.Info("worker stopped", zap.Int("workerId", workerID))
			return nil
		})
	}

	return g.Wait()
}

func (s *WorkerService) processMessage(ctx context.Context, msg queue.DeliveryMessage) error {
	lease, acquired, err := s.locker.Acquire(ctx, "notification:"+msg.NotificationID, deliveryLockTTL)
	if err != nil {
		return fmt.Errorf("failed to acquire delivery lock: %w", err)
	}
	if !acquired {
		// Another worker holds this notification; requeue the message
		// instead of racing it.
		return fmt.Errorf("notification %s is locked by another worker", msg.NotificationID)
	}
	defer func() {
		if releaseErr := lease.Release(ctx); releaseErr != nil {
			s.logger.Warn("failed to release delivery lock",
				zap.String("notificationId", msg.NotificationID),
				zap.Error(releaseErr),
			)
		}
	}()

	if s.metrics != nil {
		s.metrics.IncWorkerInFlight()
		defer s.metrics.DecWorkerInFlight()
	}

	outcome, deliverErr := s.deliverer.Deliver(ctx, msg.NotificationID)
	if deliverErr == nil {
		if outcome == OutcomeAlreadySent {
			s.logger.Info("duplicate delivery skipped",
				zap.String("notificationId", msg.NotificationID),
			)
		}
		return nil
	}

	if errors.Is(deliverErr, domain.ErrNotFound) {
		s.logger.Warn("notification not found, skipping",
			zap.String("notificationId", msg.NotificationID),
		)
		return nil
	}

	var deliveryErr *DeliveryError
	if errors.As(deliverErr, &deliveryErr) {
		return s.scheduleRetryRound(ctx, msg.NotificationID, deliveryErr)
	}

	return deliverErr
}

func (s *WorkerService) scheduleRetryRound(ctx context.Context, notificationID string, deliveryErr *DeliveryError) error {
	notification, err := s.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return fmt.Errorf("failed to load notification for retry decision: %w", err)
	}

	maxRetries := notification.MaxRetries
	if maxRetries <= 0 {
		maxRetries = domain.DefaultMaxRetries
	}

	if notification.RetryCount >= maxRetries {
		s.logger.Error("delivery retries exhausted",
			zap.String("notificationId", notificationID),
			zap.Int("retryCount", notification.RetryCount),
			zap.String("lastError", deliveryErr.LastError),
		)
		if s.metrics != nil {
			s.metrics.IncNotificationFailed("retries_exhausted")
		}
		return nil
	}

	nextRetryAt := s.now().Add(s.computeRetryDelay(notification.RetryCount + 1))
	if err := s.notifications.ScheduleRetry(ctx, notificationID, nextRetryAt); err != nil {
		return fmt.Errorf("failed to schedule retry: %w", err)
	}

	s.logger.Info("delivery retry scheduled",
		zap.String("notificationId", notificationID),
		zap.Int("round", notification.RetryCount+1),
		zap.Time("nextRetryAt", nextRetryAt),
		zap.String("lastError", deliveryErr.LastError),
	)
	if s.metrics != nil {
		s.metrics.IncRetryScheduled()
	}

	return nil
}

func (s *WorkerService) computeRetryDelay(round int) time.Duration {
	if round < 1 {
		round = 1
	}

	delay := baseRetryDelay
	for i := 1; i < round; i++ {
		delay *= 2
		if delay >= maxRetryDelay {
			delay = maxRetryDelay
			break
		}
	}

	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}

	jitterMillis := 0
	if s.randIntn != nil && maxRetryJitterMillis > 0 {
		jitterMillis = s.randIntn(maxRetryJitterMillis + 1)
	}

	return delay + time.Duration(jitterMillis)*time.Millisecond
}
