package channel

import (
	"context"

	"github.com/kursadbilgin/notify-relay/internal/domain"
)

// SMSTransport is a policy stub: it enforces the phone-number precondition
// and otherwise reports success without an external call. Wiring a real
// SMS gateway replaces the body of Send only.
type SMSTransport struct{}

func NewSMSTransport() *SMSTransport { return &SMSTransport{} }

func (t *SMSTransport) Kind() domain.Channel { return domain.ChannelSMS }

func (t *SMSTransport) Send(ctx context.Context, notification *domain.Notification, recipient *domain.Recipient) error {
	if recipient == nil || recipient.PhoneNumber == "" {
		return &TransportError{
			Channel: domain.ChannelSMS.String(),
			Reason:  "missing phone number",
		}
	}
	return nil
}
