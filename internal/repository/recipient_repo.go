package repository

import (
	"context"
	"errors"

	"github.com/kursadbilgin/notify-relay/internal/domain"
	"gorm.io/gorm"
)

type RecipientRepository interface {
	Create(ctx context.Context, r *domain.Recipient) error
	GetByID(ctx context.Context, id string) (*domain.Recipient, error)
	GetByEmail(ctx context.Context, email string) (*domain.Recipient, error)
}

type GormRecipientRepo struct {
	db *gorm.DB
}

func NewGormRecipientRepo(db *gorm.DB) *GormRecipientRepo {
	return &GormRecipientRepo{db: db}
}

func (r *GormRecipientRepo) Create(ctx context.Context, recipient *domain.Recipient) error {
	model := recipientModelFromDomain(recipient)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrConflict
		}
		return err
	}
	if recipient != nil {
		*recipient = *recipientModelToDomain(model)
	}
	return nil
}

func (r *GormRecipientRepo) GetByID(ctx context.Context, id string) (*domain.Recipient, error) {
	var model RecipientModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return recipientModelToDomain(&model), nil
}

func (r *GormRecipientRepo) GetByEmail(ctx context.Context, email string) (*domain.Recipient, error) {
	var model RecipientModel
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return recipientModelToDomain(&model), nil
}
