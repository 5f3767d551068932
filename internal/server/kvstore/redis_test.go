package kvstore

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStorage(client, "bv:csrf:"), mr
}

func TestRedisStorage_SetGetDelete(t *testing.T) {
	s, mr := newStorage(t)

	val, err := s.Get("tok")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, s.Set("tok", []byte("raw"), time.Hour))
	assert.True(t, mr.Exists("bv:csrf:tok"))
	assert.Equal(t, time.Hour, mr.TTL("bv:csrf:tok"))

	val, err = s.Get("tok")
	require.NoError(t, err)
	assert.Equal(t, []byte("raw"), val)

	require.NoError(t, s.Delete("tok"))
	val, err = s.Get("tok")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisStorage_Expires(t *testing.T) {
	s, mr := newStorage(t)
	require.NoError(t, s.Set("tok", []byte("raw"), time.Minute))

	mr.FastForward(2 * time.Minute)
	val, err := s.Get("tok")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisStorage_ResetKeepsOtherPrefixes(t *testing.T) {
	s, mr := newStorage(t)
	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, s.Set("b", []byte("2"), 0))
	require.NoError(t, mr.Set("bv:ratelimit:x", "keep"))

	require.NoError(t, s.Reset())
	assert.False(t, mr.Exists("bv:csrf:a"))
	assert.False(t, mr.Exists("bv:csrf:b"))
	assert.True(t, mr.Exists("bv:ratelimit:x"))
	assert.NoError(t, s.Close())
}

func TestRedisStorage_EmptyKeyIsIgnored(t *testing.T) {
	s, mr := newStorage(t)

	require.NoError(t, s.Set("", []byte("x"), 0))
	assert.Empty(t, mr.Keys())
	val, err := s.Get("")
	require.NoError(t, err)
	assert.Nil(t, val)
}
