package transport

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/notify-relay/internal/domain"
	"go.uber.org/zap"
)

func TestErrorHandlerStatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "fiber error keeps its code", err: fiber.NewError(fiber.StatusTeapot, "teapot"), wantStatus: fiber.StatusTeapot},
		{name: "validation maps to 400", err: fmt.Errorf("%w: body is required", domain.ErrValidation), wantStatus: fiber.StatusBadRequest},
		{name: "not found maps to 404", err: fmt.Errorf("%w: no such notification", domain.ErrNotFound), wantStatus: fiber.StatusNotFound},
		{name: "conflict maps to 409", err: fmt.Errorf("%w: already sent", domain.ErrConflict), wantStatus: fiber.StatusConflict},
		{name: "unknown maps to 500", err: errors.New("boom"), wantStatus: fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
			app.Get("/fail", func(c *fiber.Ctx) error {
				return tt.err
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fail", nil))
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}
