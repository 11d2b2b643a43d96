package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/notify-relay/internal/domain"
	"github.com/kursadbilgin/notify-relay/internal/transport"
	"go.uber.org/zap"
)

type stubRecipientService struct {
	registerFn func(ctx context.Context, recipient *domain.Recipient) (*domain.Recipient, error)
	getByIDFn  func(ctx context.Context, id string) (*domain.Recipient, error)
}

func (s *stubRecipientService) Register(ctx context.Context, recipient *domain.Recipient) (*domain.Recipient, error) {
	if s.registerFn != nil {
		return s.registerFn(ctx, recipient)
	}
	return nil, errors.New("not implemented")
}

func (s *stubRecipientService) GetByID(ctx context.Context, id string) (*domain.Recipient, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func newRecipientTestApp(t *testing.T, svc RecipientService) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{
		ErrorHandler: transport.ErrorHandler(zap.NewNop()),
	})

	if err := RegisterRecipientRoutes(app, svc); err != nil {
		t.Fatalf("RegisterRecipientRoutes() error = %v", err)
	}

	return app
}

func TestRecipientIntegration_RegisterRecipient(t *testing.T) {
	t.Parallel()

	svc := &stubRecipientService{
		registerFn: func(ctx context.Context, recipient *domain.Recipient) (*domain.Recipient, error) {
			if err := recipient.Validate(); err != nil {
				return nil, err
			}
			if recipient.Email == "taken@example.com" {
				return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
			}
			recipient.ID = "r-created"
			return recipient, nil
		},
	}

	app := newRecipientTestApp(t, svc)

	validBody := `{"email":"user@example.com","telegramChatId":"12345","preferredChannels":["telegram","email"]}`
	resp, body := performRequest(t, app, http.MethodPost, "/v1/recipients", validBody)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", resp.StatusCode, string(body))
	}
	var created map[string]any
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if created["id"] != "r-created" {
		t.Fatalf("id = %v, want r-created", created["id"])
	}

	invalidEmailBody := `{"email":"not-an-email"}`
	resp, _ = performRequest(t, app, http.MethodPost, "/v1/recipients", invalidEmailBody)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for invalid email", resp.StatusCode)
	}

	unknownChannelBody := `{"email":"user@example.com","preferredChannels":["pigeon"]}`
	resp, _ = performRequest(t, app, http.MethodPost, "/v1/recipients", unknownChannelBody)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for unknown channel", resp.StatusCode)
	}

	duplicateBody := `{"email":"taken@example.com"}`
	resp, _ = performRequest(t, app, http.MethodPost, "/v1/recipients", duplicateBody)
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("status = %d, want 409 for duplicate email", resp.StatusCode)
	}
}

func TestRecipientIntegration_GetRecipient(t *testing.T) {
	t.Parallel()

	svc := &stubRecipientService{
		getByIDFn: func(ctx context.Context, id string) (*domain.Recipient, error) {
			if id == "r-found" {
				return &domain.Recipient{
					ID:                "r-found",
					Email:             "user@example.com",
					PreferredChannels: []domain.Channel{domain.ChannelSMS},
				}, nil
			}
			return nil, domain.ErrNotFound
		},
	}

	app := newRecipientTestApp(t, svc)

	resp, body := performRequest(t, app, http.MethodGet, "/v1/recipients/r-found", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if parsed["email"] != "user@example.com" {
		t.Fatalf("email = %v, want user@example.com", parsed["email"])
	}

	resp, _ = performRequest(t, app, http.MethodGet, "/v1/recipients/not-exists", "")
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
