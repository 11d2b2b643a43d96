package channel

import (
	"errors"
	"strings"
)

// ErrNotConfigured marks a transport whose credentials were absent at
// startup. The transport fails fast without attempting a network call.
var ErrNotConfigured = errors.New("transport not configured")

// TransportError is a channel-specific delivery failure. It is non-fatal
// to the orchestration loop: the orchestrator records it as a failed
// attempt and moves on to the next channel.
type TransportError struct {
	Channel string
	Reason  string
	Cause   error
}

func (e *TransportError) Error() string {
	if e == nil {
		return "<nil>"
	}

	parts := make([]string, 0, 2)
	if reason := strings.TrimSpace(e.Reason); reason != "" {
		parts = append(parts, reason)
	}
	if e.Cause != nil && e.Cause.Error() != e.Reason {
		parts = append(parts, e.Cause.Error())
	}
	if len(parts) == 0 {
		return "transport error"
	}
	return strings.Join(parts, ": ")
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newConfigError(channel string, reason string) *TransportError {
	return &TransportError{
		Channel: channel,
		Reason:  reason,
		Cause:   ErrNotConfigured,
	}
}

// IsConfigError reports whether a failure was caused by missing transport
// configuration rather than the outbound call itself.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}
