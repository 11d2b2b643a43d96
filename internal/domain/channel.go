package domain

import (
	"fmt"
	"strings"
)

// Channel represents a delivery medium.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelTelegram Channel = "telegram"
)

func (c Channel) String() string { return string(c) }

func (c Channel) IsValid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelTelegram:
		return true
	}
	return false
}

func ParseChannelFromString(s string) (Channel, error) {
	ch := Channel(strings.ToLower(strings.TrimSpace(s)))
	if !ch.IsValid() {
		return "", fmt.Errorf("%w: invalid channel %q", ErrValidation, s)
	}
	return ch, nil
}

// CanonicalChannelOrder is the default fallback sequence when a recipient
// declares no preference.
var CanonicalChannelOrder = []Channel{ChannelEmail, ChannelSMS, ChannelTelegram}

// ResolveChannelOrder builds the full fallback sequence for one delivery.
// Unknown names in the preferred list are dropped, duplicates collapse to
// their first occurrence, and any channel the preference misses is appended
// in canonical order. The result is always a permutation of the full
// channel universe.
func ResolveChannelOrder(preferred []Channel) []Channel {
	order := make([]Channel, 0, len(CanonicalChannelOrder))
	seen := make(map[Channel]struct{}, len(CanonicalChannelOrder))

	for _, ch := range preferred {
		if !ch.IsValid() {
			continue
		}
		if _, ok := seen[ch]; ok {
			continue
		}
		seen[ch] = struct{}{}
		order = append(order, ch)
	}

	for _, ch := range CanonicalChannelOrder {
		if _, ok := seen[ch]; ok {
			continue
		}
		seen[ch] = struct{}{}
		order = append(order, ch)
	}

	return order
}
