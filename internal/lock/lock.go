package lock

import (
	"context"
	"time"
)

// Lease is a held advisory lock. Release is safe to call once; releasing
// an expired lease is a no-op.
type Lease interface {
	Release(ctx context.Context) error
}

// Locker serializes work on a shared key. The delivery worker takes a
// per-notification lock so two consumers handling a redelivered message
// cannot race the same notification past its already-sent check.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Lease, bool, error)
}
