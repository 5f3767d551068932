// Package ratelimit implements a fixed-window attempt counter keyed by an
// arbitrary string such as a client IP or "verify_<user id>".
package ratelimit

import (
	"context"
	"time"

	"github.com/janusipm/brandvigilante/internal/timex"
)

// Bucket is the state of one key's current window.
type Bucket struct {
	Count       int
	WindowStart time.Time
}

// Store persists buckets. Get reports ok=false for unknown keys.
//
// Hit records one attempt atomically: when key is unknown or its window
// started at least window ago it opens a new bucket {1, now}, otherwise it
// increments the count. It returns the bucket after the update.
type Store interface {
	Get(ctx context.Context, key string) (b Bucket, ok bool, err error)
	Hit(ctx context.Context, key string, now time.Time, window time.Duration) (Bucket, error)
	Delete(ctx context.Context, key string) error
}

// Limiter allows at most max attempts per key within a fixed window.
type Limiter struct {
	store  Store
	window time.Duration
	max    int
	clock  timex.Clock
}

// New returns a Limiter over store. A nil clock means wall time.
func New(store Store, window time.Duration, max int, clock timex.Clock) *Limiter {
	if clock == nil {
		clock = timex.SystemClock{}
	}
	return &Limiter{store: store, window: window, max: max, clock: clock}
}

// Allow records an attempt for key and reports whether it is within the
// limit. The first attempt opens a window with count 1; attempts past max
// are refused until the window has elapsed. Refused attempts do not move
// the window start.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	b, err := l.store.Hit(ctx, key, l.clock.Now(), l.window)
	if err != nil {
		return false, err
	}
	return b.Count <= l.max, nil
}

// Reset forgets key, e.g. after a successful sign-in.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.store.Delete(ctx, key)
}

// Window is the length of one counting window.
func (l *Limiter) Window() time.Duration { return l.window }
