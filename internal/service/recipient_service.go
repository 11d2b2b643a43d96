package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/kursadbilgin/notify-relay/internal/domain"
	"github.com/kursadbilgin/notify-relay/internal/repository"
	"go.uber.org/zap"
)

// RecipientService manages delivery targets on behalf of the intake API.
type RecipientService struct {
	recipients repository.RecipientRepository
	logger     *zap.Logger
}

func NewRecipientService(recipients repository.RecipientRepository, logger *zap.Logger) (*RecipientService, error) {
	if recipients == nil {
		return nil, fmt.Errorf("recipient repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RecipientService{
		recipients: recipients,
		logger:     logger,
	}, nil
}

func (s *RecipientService) Register(ctx context.Context, recipient *domain.Recipient) (*domain.Recipient, error) {
	if recipient == nil {
		return nil, fmt.Errorf("%w: recipient is required", domain.ErrValidation)
	}

	recipient.Email = strings.ToLower(strings.TrimSpace(recipient.Email))
	recipient.PhoneNumber = strings.TrimSpace(recipient.PhoneNumber)
	recipient.TelegramChatID = strings.TrimSpace(recipient.TelegramChatID)
	if err := recipient.Validate(); err != nil {
		return nil, err
	}

	recipient.ID = strings.TrimSpace(recipient.ID)
	if recipient.ID == "" {
		recipient.ID = uuid.NewString()
	}

	if err := s.recipients.Create(ctx, recipient); err != nil {
		return nil, err
	}

	s.logger.Info("recipient registered",
		zap.String("recipientId", recipient.ID),
		zap.String("email", recipient.Email),
	)
	return recipient, nil
}

func (s *RecipientService) GetByID(ctx context.Context, id string) (*domain.Recipient, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: recipient id is required", domain.ErrValidation)
	}
	return s.recipients.GetByID(ctx, strings.TrimSpace(id))
}
