package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAllowUpToCeiling(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	l := New(30, time.Minute, WithNow(func() time.Time { return now }))

	for i := 0; i < 30; i++ {
		require.Truef(t, l.Allow(), "admission %d should pass", i+1)
	}
	require.False(t, l.Allow(), "31st admission in the same window must be rejected")
	require.Equal(t, 30, l.Len(), "rejection must not record a timestamp")
}

func TestWindowPruneRestoresCapacity(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	l := New(2, time.Minute, WithNow(func() time.Time { return now }))

	require.True(t, l.Allow())
	require.True(t, l.Allow())
	require.False(t, l.Allow())

	// advance past the window: old stamps are pruned
	now = now.Add(61 * time.Second)
	require.True(t, l.Allow())
	require.Equal(t, 1, l.Len())
}

func TestPartialPrune(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	l := New(2, time.Minute, WithNow(func() time.Time { return now }))

	require.True(t, l.Allow()) // t=0
	now = base.Add(30 * time.Second)
	require.True(t, l.Allow()) // t=30s
	now = base.Add(45 * time.Second)
	require.False(t, l.Allow())

	// t=0 stamp ages out, t=30s stays
	now = base.Add(70 * time.Second)
	require.True(t, l.Allow())
	require.False(t, l.Allow())
}

func TestConcurrentAdmissionsNeverExceedCeiling(t *testing.T) {
	l := New(30, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow() {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 30, admitted)
}
