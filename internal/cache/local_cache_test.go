package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestLocalCache_Expiry(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	c := NewLocalCache[int64, bool](30*time.Second, WithClock(clock.Now), WithCleanupInterval(0))
	defer c.Close()

	c.Set(1, true)
	v, ok := c.Get(1)
	assert.True(t, ok)
	assert.True(t, v)

	clock.Advance(29 * time.Second)
	_, ok = c.Get(1)
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = c.Get(1)
	assert.False(t, ok, "entry expires exactly at ttl")
}

func TestLocalCache_SetWithTTLAndTake(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	c := NewLocalCache[string, string](time.Minute, WithClock(clock.Now), WithCleanupInterval(0))
	defer c.Close()

	c.SetWithTTL("short", "x", time.Second)
	c.Set("long", "y")
	assert.Equal(t, 2, c.Len())

	clock.Advance(2 * time.Second)
	assert.Equal(t, 1, c.Len())

	v, ok := c.Take("long")
	assert.True(t, ok)
	assert.Equal(t, "y", v)
	_, ok = c.Get("long")
	assert.False(t, ok)
}

func TestLocalCache_PurgeAndClear(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	c := NewLocalCache[int, int](time.Second, WithClock(clock.Now), WithCleanupInterval(0))
	defer c.Close()

	for i := 0; i < 5; i++ {
		c.Set(i, i)
	}
	clock.Advance(time.Second)
	c.purge()
	assert.Equal(t, 0, c.Len())

	c.Set(9, 9)
	c.Clear()
	_, ok := c.Get(9)
	assert.False(t, ok)
}

func TestLocalCache_CloseIsIdempotent(t *testing.T) {
	c := NewLocalCache[int, int](time.Second, WithCleanupInterval(time.Millisecond))
	c.Close()
	c.Close()
}
