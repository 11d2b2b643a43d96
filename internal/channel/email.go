package channel

import (
	"context"
	"fmt"

	"github.com/mrz1836/postmark"
	"github.com/kursadbilgin/notify-relay/internal/domain"
)

const emailSubject = "Notification"

// EmailConfig holds the outbound mail sender settings, read once at startup.
type EmailConfig struct {
	ServerToken  string
	AccountToken string
	FromAddress  string
}

type emailSender interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

// EmailTransport delivers a notification body to the recipient's email
// address through Postmark. The address is the recipient's unique contact
// key and is validated upstream.
type EmailTransport struct {
	client emailSender
	from   string
}

func NewEmailTransport(cfg EmailConfig) *EmailTransport {
	t := &EmailTransport{from: cfg.FromAddress}
	if cfg.ServerToken != "" && cfg.AccountToken != "" {
		t.client = postmark.NewClient(cfg.ServerToken, cfg.AccountToken)
	}
	return t
}

func (t *EmailTransport) Kind() domain.Channel { return domain.ChannelEmail }

func (t *EmailTransport) Send(ctx context.Context, notification *domain.Notification, recipient *domain.Recipient) error {
	if t == nil || t.client == nil {
		return newConfigError(domain.ChannelEmail.String(), "mail sender credentials not configured")
	}
	if t.from == "" {
		return newConfigError(domain.ChannelEmail.String(), "sender address not configured")
	}

	resp, err := t.client.SendEmail(ctx, postmark.Email{
		From:     t.from,
		To:       recipient.Email,
		Subject:  emailSubject,
		TextBody: notification.Body,
	})
	if err != nil {
		return &TransportError{
			Channel: domain.ChannelEmail.String(),
			Reason:  err.Error(),
			Cause:   err,
		}
	}
	if resp.ErrorCode > 0 {
		return &TransportError{
			Channel: domain.ChannelEmail.String(),
			Reason:  fmt.Sprintf("postmark error %d: %s", resp.ErrorCode, resp.Message),
		}
	}

	return nil
}
