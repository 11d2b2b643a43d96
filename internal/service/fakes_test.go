package service

import (
	"context"
	"time"

	"github.com/kursadbilgin/notify-relay/internal/domain"
	"github.com/kursadbilgin/notify-relay/internal/lock"
	"github.com/kursadbilgin/notify-relay/internal/queue"
	"github.com/kursadbilgin/notify-relay/internal/repository"
)

type fakeNotificationRepo struct {
	createFn           func(ctx context.Context, n *domain.Notification) error
	getByIDFn          func(ctx context.Context, id string) (*domain.Notification, error)
	listFn             func(ctx context.Context, params repository.ListParams) ([]domain.Notification, int64, error)
	markInProgressFn   func(ctx context.Context, id string) error
	recordTryFn        func(ctx context.Context, id string, channel domain.Channel, tryErr string) error
	markSentFn         func(ctx context.Context, id string, channel domain.Channel, sentAt time.Time) error
	markFailedFn       func(ctx context.Context, id string, lastError string) error
	scheduleRetryFn    func(ctx context.Context, id string, nextRetryAt time.Time) error
	clearNextRetryFn   func(ctx context.Context, id string) error
	getDueForRetryFn   func(ctx context.Context, limit int) ([]domain.Notification, error)
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, n)
}

func (f *fakeNotificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	if f.getByIDFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeNotificationRepo) List(ctx context.Context, params repository.ListParams) ([]domain.Notification, int64, error) {
	if f.listFn == nil {
		return nil, 0, nil
	}
	return f.listFn(ctx, params)
}

func (f *fakeNotificationRepo) MarkInProgress(ctx context.Context, id string) error {
	if f.markInProgressFn == nil {
		return nil
	}
	return f.markInProgressFn(ctx, id)
}

func (f *fakeNotificationRepo) RecordTry(ctx context.Context, id string, channel domain.Channel, tryErr string) error {
	if f.recordTryFn == nil {
		return nil
	}
	return f.recordTryFn(ctx, id, channel, tryErr)
}

func (f *fakeNotificationRepo) MarkSent(ctx context.Context, id string, channel domain.Channel, sentAt time.Time) error {
	if f.markSentFn == nil {
		return nil
	}
	return f.markSentFn(ctx, id, channel, sentAt)
}

func (f *fakeNotificationRepo) MarkFailed(ctx context.Context, id string, lastError string) error {
	if f.markFailedFn == nil {
		return nil
	}
	return f.markFailedFn(ctx, id, lastError)
}

func (f *fakeNotificationRepo) ScheduleRetry(ctx context.Context, id string, nextRetryAt time.Time) error {
	if f.scheduleRetryFn == nil {
		return nil
	}
	return f.scheduleRetryFn(ctx, id, nextRetryAt)
}

func (f *fakeNotificationRepo) ClearNextRetryAt(ctx context.Context, id string) error {
	if f.clearNextRetryFn == nil {
		return nil
	}
	return f.clearNextRetryFn(ctx, id)
}

func (f *fakeNotificationRepo) GetDueForRetry(ctx context.Context, limit int) ([]domain.Notification, error) {
	if f.getDueForRetryFn == nil {
		return nil, nil
	}
	return f.getDueForRetryFn(ctx, limit)
}

type fakeRecipientRepo struct {
	createFn     func(ctx context.Context, r *domain.Recipient) error
	getByIDFn    func(ctx context.Context, id string) (*domain.Recipient, error)
	getByEmailFn func(ctx context.Context, email string) (*domain.Recipient, error)
}

func (f *fakeRecipientRepo) Create(ctx context.Context, r *domain.Recipient) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, r)
}

func (f *fakeRecipientRepo) GetByID(ctx context.Context, id string) (*domain.Recipient, error) {
	if f.getByIDFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeRecipientRepo) GetByEmail(ctx context.Context, email string) (*domain.Recipient, error) {
	if f.getByEmailFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.getByEmailFn(ctx, email)
}

type fakeAttemptRepo struct {
	createFn              func(ctx context.Context, a *domain.DeliveryAttempt) error
	getByNotificationIDFn func(ctx context.Context, notificationID string) ([]domain.DeliveryAttempt, error)
}

func (f *fakeAttemptRepo) Create(ctx context.Context, a *domain.DeliveryAttempt) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, a)
}

func (f *fakeAttemptRepo) GetByNotificationID(ctx context.Context, notificationID string) ([]domain.DeliveryAttempt, error) {
	if f.getByNotificationIDFn == nil {
		return nil, nil
	}
	return f.getByNotificationIDFn(ctx, notificationID)
}

func (f *fakeAttemptRepo) CountByNotificationID(ctx context.Context, notificationID string) (int64, error) {
	attempts, err := f.GetByNotificationID(ctx, notificationID)
	if err != nil {
		return 0, err
	}
	return int64(len(attempts)), nil
}

type fakePublisher struct {
	publishFn func(ctx context.Context, msg queue.DeliveryMessage) error
}

func (f *fakePublisher) Publish(ctx context.Context, msg queue.DeliveryMessage) error {
	if f.publishFn == nil {
		return nil
	}
	return f.publishFn(ctx, msg)
}

func (f *fakePublisher) Close() error { return nil }

type fakeConsumer struct {
	consumeFn func(ctx context.Context, handler queue.MessageHandler) error
}

func (f *fakeConsumer) Consume(ctx context.Context, handler queue.MessageHandler) error {
	if f.consumeFn == nil {
		<-ctx.Done()
		return nil
	}
	return f.consumeFn(ctx, handler)
}

func (f *fakeConsumer) Close() error { return nil }

type fakeLease struct {
	releaseFn func(ctx context.Context) error
}

func (f *fakeLease) Release(ctx context.Context) error {
	if f.releaseFn == nil {
		return nil
	}
	return f.releaseFn(ctx)
}

type fakeLocker struct {
	acquireFn func(ctx context.Context, key string, ttl time.Duration) (lock.Lease, bool, error)
}

func (f *fakeLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (lock.Lease, bool, error) {
	if f.acquireFn == nil {
		return &fakeLease{}, true, nil
	}
	return f.acquireFn(ctx, key, ttl)
}

type fakeTransport struct {
	kind   domain.Channel
	sendFn func(ctx context.Context, n *domain.Notification, r *domain.Recipient) error
}

func (f *fakeTransport) Kind() domain.Channel { return f.kind }

func (f *fakeTransport) Send(ctx context.Context, n *domain.Notification, r *domain.Recipient) error {
	if f.sendFn == nil {
		return nil
	}
	return f.sendFn(ctx, n, r)
}

type fakeDeliverer struct {
	deliverFn func(ctx context.Context, notificationID string) (DeliveryOutcome, error)
}

func (f *fakeDeliverer) Deliver(ctx context.Context, notificationID string) (DeliveryOutcome, error) {
	if f.deliverFn == nil {
		return OutcomeSent, nil
	}
	return f.deliverFn(ctx, notificationID)
}
