package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClockedMemory(ttl time.Duration) (*Memory, *time.Time) {
	clock := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	m := NewMemory(ttl)
	m.now = func() time.Time { return clock }
	return m, &clock
}

func TestMemory_HitWithinTTL(t *testing.T) {
	m, clock := newClockedMemory(300 * time.Second)

	m.Set("stock:VNM:365", "payload")
	*clock = clock.Add(299 * time.Second)

	got, ok := m.Get("stock:VNM:365")
	require.True(t, ok)
	assert.Equal(t, "payload", got)
}

func TestMemory_ExpiredEntryIsAbsent(t *testing.T) {
	m, clock := newClockedMemory(300 * time.Second)

	m.Set("stock:VNM:365", "payload")
	*clock = clock.Add(300 * time.Second)

	_, ok := m.Get("stock:VNM:365")
	assert.False(t, ok)
	// Lazy expiry removed the slot on read.
	assert.Zero(t, m.Len())
}

func TestMemory_MissOnUnknownKey(t *testing.T) {
	m, _ := newClockedMemory(time.Minute)
	_, ok := m.Get("stock:HPG:365")
	assert.False(t, ok)
}

func TestMemory_SetReplacesWholeEntry(t *testing.T) {
	m, clock := newClockedMemory(300 * time.Second)

	m.Set("k", "stale")
	*clock = clock.Add(200 * time.Second)
	m.Set("k", "fresh")

	// The rewrite restarted the clock: 200s later the original would have
	// expired but the replacement has not.
	*clock = clock.Add(200 * time.Second)
	got, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, "fresh", got)
	assert.Equal(t, 1, m.Len())
}

func TestMemory_KeysAreIndependent(t *testing.T) {
	m, clock := newClockedMemory(300 * time.Second)

	m.Set("a", 1)
	*clock = clock.Add(200 * time.Second)
	m.Set("b", 2)
	*clock = clock.Add(150 * time.Second)

	_, ok := m.Get("a")
	assert.False(t, ok)
	got, ok := m.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	m := NewMemory(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%4)
			for j := 0; j < 100; j++ {
				m.Set(key, j)
				m.Get(key)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, m.Len())
}
