package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janusipm/brandvigilante/internal/timex"
)

func TestCache_Expiry(t *testing.T) {
	clock := &timex.FixedClock{T: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New[int](time.Minute, clock)

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	clock.Advance(59 * time.Second)
	_, ok = c.Get("a")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok, "entry expires exactly at ttl")
}

func TestCache_GetOrLoad(t *testing.T) {
	clock := &timex.FixedClock{T: time.Now()}
	c := New[string](time.Minute, clock)

	calls := 0
	load := func(context.Context) (string, error) {
		calls++
		return "stats", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrLoad(context.Background(), "k", load)
		require.NoError(t, err)
		assert.Equal(t, "stats", v)
	}
	assert.Equal(t, 1, calls)

	clock.Advance(2 * time.Minute)
	_, err := c.GetOrLoad(context.Background(), "k", load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	boom := errors.New("boom")
	_, err = c.GetOrLoad(context.Background(), "other", func(context.Context) (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
	_, ok := c.Get("other")
	assert.False(t, ok, "errors are not cached")
}

func TestCache_GetOrLoad_ConcurrentMissesShareOneLoad(t *testing.T) {
	c := New[int](time.Minute, nil)

	var calls atomic.Int32
	release := make(chan struct{})
	load := func(context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	const callers = 20
	var wg sync.WaitGroup
	results := make([]int, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.GetOrLoad(context.Background(), "stats", load)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestCache_GetOrLoad_SharedErrorIsNotCached(t *testing.T) {
	c := New[int](time.Minute, nil)
	boom := errors.New("boom")

	_, err := c.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	v, err := c.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestCache_SweepAndDelete(t *testing.T) {
	clock := &timex.FixedClock{T: time.Now()}
	c := New[int](time.Minute, clock)

	c.Set("old", 1)
	clock.Advance(30 * time.Second)
	c.Set("new", 2)
	clock.Advance(45 * time.Second)

	assert.Equal(t, 1, c.Sweep())
	assert.Equal(t, 1, c.Len())

	c.Delete("new")
	assert.Equal(t, 0, c.Len())
}

func TestCache_StartJanitor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := New[int](time.Nanosecond, nil)
	c.Set("a", 1)

	done := c.StartJanitor(ctx, time.Millisecond)
	require.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
