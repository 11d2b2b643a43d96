package queue

import (
	"fmt"
	"strings"
)

// DeliveryMessage is the broker payload: one notification id per unit of
// work. The broker guarantees at-least-once delivery, so the same id may
// reach a worker more than once.
type DeliveryMessage struct {
	NotificationID string `json:"notificationId"`
	CorrelationID  string `json:"correlationId,omitempty"`
}

func (m DeliveryMessage) Validate() error {
	if strings.TrimSpace(m.NotificationID) == "" {
		return fmt.Errorf("notificationId is required")
	}
	return nil
}
