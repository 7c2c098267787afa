package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClockedStore() (*MemoryStore, *time.Time) {
	current := time.Now()
	s := NewMemory()
	s.Now = func() time.Time { return current }
	return s, &current
}

func TestSetEXAndGet(t *testing.T) {
	s, clock := newClockedStore()

	require.NoError(t, s.SetEX(context.Background(), "k", "v", time.Minute))

	v, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	*clock = clock.Add(61 * time.Second)
	_, err = s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetEXZeroTTLIsNoop(t *testing.T) {
	s, _ := newClockedStore()

	require.NoError(t, s.SetEX(context.Background(), "k", "v", 0))
	_, err := s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetMissing(t *testing.T) {
	s, _ := newClockedStore()

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDel(t *testing.T) {
	s, _ := newClockedStore()

	require.NoError(t, s.SetEX(context.Background(), "k", "v", time.Minute))
	require.NoError(t, s.Del(context.Background(), "k"))

	_, err := s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent key is fine.
	require.NoError(t, s.Del(context.Background(), "k"))
}

func TestIncr(t *testing.T) {
	s, _ := newClockedStore()

	for want := int64(1); want <= 3; want++ {
		n, err := s.Incr(context.Background(), "counter")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
}

func TestExpireNXOnlySetsFirstTTL(t *testing.T) {
	s, clock := newClockedStore()

	_, err := s.Incr(context.Background(), "counter")
	require.NoError(t, err)
	require.NoError(t, s.ExpireNX(context.Background(), "counter", time.Minute))

	// A later ExpireNX must not extend the window.
	*clock = clock.Add(30 * time.Second)
	require.NoError(t, s.ExpireNX(context.Background(), "counter", time.Minute))

	*clock = clock.Add(31 * time.Second)
	_, err = s.Get(context.Background(), "counter")
	assert.ErrorIs(t, err, ErrNotFound)

	// The next increment starts a fresh counter.
	n, err := s.Incr(context.Background(), "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestIncrPreservesTTL(t *testing.T) {
	s, clock := newClockedStore()

	_, err := s.Incr(context.Background(), "counter")
	require.NoError(t, err)
	require.NoError(t, s.ExpireNX(context.Background(), "counter", time.Minute))

	*clock = clock.Add(30 * time.Second)
	_, err = s.Incr(context.Background(), "counter")
	require.NoError(t, err)

	*clock = clock.Add(31 * time.Second)
	_, err = s.Get(context.Background(), "counter")
	assert.ErrorIs(t, err, ErrNotFound)
}
