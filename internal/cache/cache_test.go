package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache() *Cache {
	return New(time.Hour, 0, map[string]time.Duration{"Short": 50 * time.Millisecond}, nil)
}

func TestGetOrComputeCachesValue(t *testing.T) {
	c := newTestCache()
	calls := 0
	compute := func() ([]int, error) {
		calls++
		return []int{2012, 2011}, nil
	}

	first, err := GetOrCompute(c, "Tournament.Seasons", Key(520), compute)
	require.NoError(t, err)
	second, err := GetOrCompute(c, "Tournament.Seasons", Key(520), compute)
	require.NoError(t, err)

	assert.Equal(t, []int{2012, 2011}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, c.Len("Tournament.Seasons"))
}

func TestGetOrComputeKeysAreIndependent(t *testing.T) {
	c := newTestCache()

	a, err := GetOrCompute(c, "Tournament.EventCount", Key(1), func() (int, error) { return 10, nil })
	require.NoError(t, err)
	b, err := GetOrCompute(c, "Tournament.EventCount", Key(2), func() (int, error) { return 20, nil })
	require.NoError(t, err)
	other, err := GetOrCompute(c, "SeasonTournaments", Key(1), func() (int, error) { return 30, nil })
	require.NoError(t, err)

	assert.Equal(t, 10, a)
	assert.Equal(t, 20, b)
	assert.Equal(t, 30, other)
	assert.Equal(t, []string{"SeasonTournaments", "Tournament.EventCount"}, c.Names())
}

func TestGetOrComputeDoesNotCacheErrors(t *testing.T) {
	c := newTestCache()
	boom := errors.New("database unavailable")
	calls := 0

	_, err := GetOrCompute(c, Global, "Tournaments", func() (string, error) {
		calls++
		return "", boom
	})
	assert.ErrorIs(t, err, boom)

	value, err := GetOrCompute(c, Global, "Tournaments", func() (string, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", value)
	assert.Equal(t, 2, calls)
}

func TestGetOrComputeDeduplicatesConcurrentMisses(t *testing.T) {
	c := newTestCache()
	var calls atomic.Int32
	release := make(chan struct{})

	const callers = 16
	var wg sync.WaitGroup
	results := make([]int, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := GetOrCompute(c, "Tournaments.Table", Key("filter", 1, 20), func() (int, error) {
				calls.Add(1)
				<-release
				return 42, nil
			})
			if err == nil {
				results[i] = v
			}
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestGetOrComputeTypeMismatch(t *testing.T) {
	c := newTestCache()
	_, err := GetOrCompute(c, Global, "Tournaments", func() (int, error) { return 1, nil })
	require.NoError(t, err)

	_, err = GetOrCompute(c, Global, "Tournaments", func() (string, error) { return "x", nil })
	assert.Error(t, err)
}

func TestEvict(t *testing.T) {
	c := newTestCache()
	_, _ = GetOrCompute(c, Global, "InProgressEvents", func() (int, error) { return 3, nil })

	assert.True(t, c.Evict(Global, "InProgressEvents"))
	assert.False(t, c.Evict(Global, "InProgressEvents"))
	assert.False(t, c.Evict("Unknown", "key"))
	assert.Zero(t, c.Len(Global))
}

func TestEvictAllReturnsCount(t *testing.T) {
	c := newTestCache()
	for i := 0; i < 3; i++ {
		_, err := GetOrCompute(c, "TournamentEvents.Table", Key(i), func() (int, error) { return i, nil })
		require.NoError(t, err)
	}

	assert.Equal(t, 3, c.EvictAll("TournamentEvents.Table"))
	assert.Equal(t, 0, c.EvictAll("TournamentEvents.Table"))
	assert.Equal(t, 0, c.EvictAll("NeverUsed"))
}

func TestEvictionDuringComputeDiscardsResult(t *testing.T) {
	c := newTestCache()

	value, err := GetOrCompute(c, "PlayerTournaments", Key(4920), func() (string, error) {
		c.EvictAll("PlayerTournaments")
		return "stale", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "stale", value)
	assert.Zero(t, c.Len("PlayerTournaments"))
}

func TestPerCacheExpiration(t *testing.T) {
	c := newTestCache()
	calls := 0
	compute := func() (int, error) {
		calls++
		return calls, nil
	}

	_, _ = GetOrCompute(c, "Short", "k", compute)
	time.Sleep(80 * time.Millisecond)
	value, err := GetOrCompute(c, "Short", "k", compute)

	require.NoError(t, err)
	assert.Equal(t, 2, value)
}

func TestKeyIsDeterministic(t *testing.T) {
	type filter struct {
		From  *int   `json:"from,omitempty"`
		Level string `json:"level,omitempty"`
	}
	season := 2001

	a := Key(filter{From: &season, Level: "G"}, "date DESC", 20, 1)
	b := Key(filter{From: &season, Level: "G"}, "date DESC", 20, 1)
	c := Key(filter{From: &season, Level: "M"}, "date DESC", 20, 1)
	d := Key(filter{From: &season, Level: "G"}, "date DESC", 20, 2)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
	assert.Equal(t, `[{"from":2001,"level":"G"},"date DESC",20,1]`, a)
}
