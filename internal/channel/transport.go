package channel

import (
	"context"

	"github.com/kursadbilgin/notify-relay/internal/domain"
)

// Transport is the outbound delivery port for one channel. A transport
// performs exactly one outbound call per Send invocation and never retries
// internally; retry and fallback are the orchestrator's responsibility.
type Transport interface {
	Kind() domain.Channel
	Send(ctx context.Context, notification *domain.Notification, recipient *domain.Recipient) error
}

// Registry binds every channel in the universe to its transport. It is
// built once at startup and read-only afterwards.
type Registry map[domain.Channel]Transport

func NewRegistry(transports ...Transport) Registry {
	registry := make(Registry, len(transports))
	for _, t := range transports {
		if t == nil {
			continue
		}
		registry[t.Kind()] = t
	}
	return registry
}

func (r Registry) For(ch domain.Channel) (Transport, bool) {
	t, ok := r[ch]
	return t, ok
}
