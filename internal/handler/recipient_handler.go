package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/notify-relay/internal/domain"
)

type RecipientService interface {
	Register(ctx context.Context, recipient *domain.Recipient) (*domain.Recipient, error)
	GetByID(ctx context.Context, id string) (*domain.Recipient, error)
}

type RecipientHandler struct {
	service RecipientService
}

func NewRecipientHandler(svc RecipientService) (*RecipientHandler, error) {
	if svc == nil {
		return nil, fmt.Errorf("recipient service is required")
	}
	return &RecipientHandler{service: svc}, nil
}

func RegisterRecipientRoutes(router fiber.Router, svc RecipientService) error {
	h, err := NewRecipientHandler(svc)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/recipients", h.RegisterRecipient)
	v1.Get("/recipients/:id", h.GetRecipient)

	return nil
}

type registerRecipientRequest struct {
	Email             string   `json:"email"`
	PhoneNumber       string   `json:"phoneNumber"`
	TelegramChatID    string   `json:"telegramChatId"`
	PreferredChannels []string `json:"preferredChannels"`
}

type recipientResponse struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	PhoneNumber       string    `json:"phoneNumber,omitempty"`
	TelegramChatID    string    `json:"telegramChatId,omitempty"`
	PreferredChannels []string  `json:"preferredChannels"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (h *RecipientHandler) RegisterRecipient(c *fiber.Ctx) error {
	var req registerRecipientRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	preferred := make([]domain.Channel, 0, len(req.PreferredChannels))
	for _, raw := range req.PreferredChannels {
		channel, err := domain.ParseChannelFromString(raw)
		if err != nil {
			return toHTTPError(err)
		}
		preferred = append(preferred, channel)
	}

	recipient, err := h.service.Register(c.Context(), &domain.Recipient{
		Email:             req.Email,
		PhoneNumber:       req.PhoneNumber,
		TelegramChatID:    req.TelegramChatID,
		PreferredChannels: preferred,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(toRecipientResponse(recipient))
}

func (h *RecipientHandler) GetRecipient(c *fiber.Ctx) error {
	recipient, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toRecipientResponse(recipient))
}

func toRecipientResponse(r *domain.Recipient) recipientResponse {
	if r == nil {
		return recipientResponse{}
	}

	preferred := make([]string, 0, len(r.PreferredChannels))
	for _, channel := range r.PreferredChannels {
		preferred = append(preferred, channel.String())
	}

	return recipientResponse{
		ID:                r.ID,
		Email:             r.Email,
		PhoneNumber:       r.PhoneNumber,
		TelegramChatID:    r.TelegramChatID,
		PreferredChannels: preferred,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}
