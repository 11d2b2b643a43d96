package repository

import (
	"context"
	"errors"
	"time"

	"github.com/kursadbilgin/notify-relay/internal/domain"
	"gorm.io/gorm"
)

type ListParams struct {
	Status      *domain.Status
	RecipientID *string
	From        *time.Time
	To          *time.Time
	Page        int
	PageSize    int
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	List(ctx context.Context, params ListParams) ([]domain.Notification, int64, error)
	MarkInProgress(ctx context.Context, id string) error
	RecordTry(ctx context.Context, id string, channel domain.Channel, tryErr string) error
	MarkSent(ctx context.Context, id string, channel domain.Channel, sentAt time.Time) error
	MarkFailed(ctx context.Context, id string, lastError string) error
	ScheduleRetry(ctx context.Context, id string, nextRetryAt time.Time) error
	ClearNextRetryAt(ctx context.Context, id string) error
	GetDueForRetry(ctx context.Context, limit int) ([]domain.Notification, error)
}

type GormNotificationRepo struct {
	db *gorm.DB
}

func NewGormNotificationRepo(db *gorm.DB) *GormNotificationRepo {
	return &GormNotificationRepo{db: db}
}

func (r *GormNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	model := notificationModelFromDomain(n)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if n != nil {
		*n = *notificationModelToDomain(model)
	}
	return nil
}

func (r *GormNotificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	var model NotificationModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return notificationModelToDomain(&model), nil
}

func (r *GormNotificationRepo) List(ctx context.Context, params ListParams) ([]domain.Notification, int64, error) {
	query := r.db.WithContext(ctx).Model(&NotificationModel{})

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.RecipientID != nil {
		query = query.Where("recipient_id = ?", *params.RecipientID)
	}
	if params.From != nil {
		query = query.Where("created_at >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("created_at <= ?", *params.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := max(params.Page, 1)
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 50
	}
	pageSize = min(pageSize, 100)

	var models []NotificationModel
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	notifications := make([]domain.Notification, 0, len(models))
	for i := range models {
		notifications = append(notifications, *notificationModelToDomain(&models[i]))
	}

	return notifications, total, nil
}

func (r *GormNotificationRepo) MarkInProgress(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, map[string]any{
		"status": domain.StatusInProgress,
	})
}

// RecordTry applies the per-try bookkeeping shared by successful and failed
// channel tries: the counter, the last channel, and the last error text.
func (r *GormNotificationRepo) RecordTry(ctx context.Context, id string, channel domain.Channel, tryErr string) error {
	return r.updateByID(ctx, id, map[string]any{
		"attempt_count": gorm.Expr("attempt_count + 1"),
		"last_channel":  channel,
		"last_error":    tryErr,
	})
}

func (r *GormNotificationRepo) MarkSent(ctx context.Context, id string, channel domain.Channel, sentAt time.Time) error {
	return r.updateByID(ctx, id, map[string]any{
		"status":        domain.StatusSent,
		"sent_at":       sentAt,
		"attempt_count": gorm.Expr("attempt_count + 1"),
		"last_channel":  channel,
		"last_error":    "",
		"next_retry_at": nil,
	})
}

func (r *GormNotificationRepo) MarkFailed(ctx context.Context, id string, lastError string) error {
	return r.updateByID(ctx, id, map[string]any{
		"status":     domain.StatusFailed,
		"last_error": lastError,
	})
}

func (r *GormNotificationRepo) ScheduleRetry(ctx context.Context, id string, nextRetryAt time.Time) error {
	return r.updateByID(ctx, id, map[string]any{
		"retry_count":   gorm.Expr("retry_count + 1"),
		"next_retry_at": nextRetryAt,
	})
}

func (r *GormNotificationRepo) ClearNextRetryAt(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, map[string]any{
		"next_retry_at": nil,
	})
}

func (r *GormNotificationRepo) GetDueForRetry(ctx context.Context, limit int) ([]domain.Notification, error) {
	var models []NotificationModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND next_retry_at <= ?", domain.StatusFailed, time.Now()).
		Order("next_retry_at ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	notifications := make([]domain.Notification, 0, len(models))
	for i := range models {
		notifications = append(notifications, *notificationModelToDomain(&models[i]))
	}

	return notifications, nil
}

func (r *GormNotificationRepo) updateByID(ctx context.Context, id string, fields map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&NotificationModel{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
