package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps buckets in a process-local map. Counters are not shared
// between instances; use RedisStore when running more than one.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]Bucket
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]Bucket)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Bucket, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[key]
	return b, ok, nil
}

// Hit updates the bucket under the store mutex. Expiry is otherwise
// enforced by Sweep.
func (s *MemoryStore) Hit(_ context.Context, key string, now time.Time, window time.Duration) (Bucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[key]
	if !ok || now.Sub(b.WindowStart) >= window {
		b = Bucket{WindowStart: now}
	}
	b.Count++
	s.buckets[key] = b
	return b, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
	return nil
}

// Sweep drops buckets whose window ended before now and returns how many
// were removed.
func (s *MemoryStore) Sweep(now time.Time, window time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, b := range s.buckets {
		if now.Sub(b.WindowStart) >= window {
			delete(s.buckets, key)
			removed++
		}
	}
	return removed
}

// Len reports how many buckets are held.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

// StartJanitor sweeps every interval until ctx is cancelled. The returned
// channel is closed once the goroutine exits.
func (s *MemoryStore) StartJanitor(ctx context.Context, interval, window time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.Sweep(now, window)
			}
		}
	}()
	return done
}
