package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"morpheus/storage"
)

type countingStats struct {
	hits   int
	misses int
}

func (c *countingStats) Hit()  { c.hits++ }
func (c *countingStats) Miss() { c.misses++ }

func newTestService(policy TTLPolicy, at time.Time) (*Service, *countingStats, func(time.Time)) {
	svc := New(storage.NewMemDB(), policy)
	stats := &countingStats{}
	svc.SetStats(stats)
	current := at
	svc.SetClock(func() time.Time { return current })
	return svc, stats, func(t time.Time) { current = t }
}

func TestTTLForLongestPrefixWins(t *testing.T) {
	policy := TTLPolicy{
		Default: time.Minute,
		PerPrefix: map[string]time.Duration{
			"builders:":      time.Hour,
			"builders:temp:": 15 * time.Minute,
		},
	}
	require.Equal(t, time.Minute, policy.TTLFor("other:key"))
	require.Equal(t, time.Hour, policy.TTLFor("builders:local:abc"))
	require.Equal(t, 15*time.Minute, policy.TTLFor("builders:temp:abc"))
}

func TestPutGetRoundTrip(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, stats, _ := newTestService(TTLPolicy{Default: time.Minute}, start)

	require.NoError(t, svc.Put("k", []byte("payload")))
	payload, found, err := svc.Get("k")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("payload"), payload)
	require.Equal(t, 1, stats.hits)
	require.Equal(t, 0, stats.misses)
}

func TestGetExpiredEntry(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, stats, advance := newTestService(TTLPolicy{Default: time.Minute}, start)

	require.NoError(t, svc.Put("k", []byte("payload")))
	advance(start.Add(time.Minute))

	_, found, err := svc.Get("k")
	require.NoError(t, err)
	require.False(t, found)
	require.Equal(t, 1, stats.misses)

	// The stale record is deleted on read.
	_, found, err = svc.Get("k")
	require.NoError(t, err)
	require.False(t, found)
	require.Equal(t, 2, stats.misses)
}

func TestGetMissingKey(t *testing.T) {
	svc, stats, _ := newTestService(TTLPolicy{}, time.Now())
	_, found, err := svc.Get("absent")
	require.NoError(t, err)
	require.False(t, found)
	require.Equal(t, 1, stats.misses)
}

func TestZeroTTLNeverExpires(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _, advance := newTestService(TTLPolicy{}, start)

	require.NoError(t, svc.Put("k", []byte("forever")))
	advance(start.Add(1000 * time.Hour))

	payload, found, err := svc.Get("k")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []byte("forever"), payload)
}

func TestInvalidate(t *testing.T) {
	svc, _, _ := newTestService(TTLPolicy{}, time.Now())
	require.NoError(t, svc.Put("k", []byte("payload")))
	require.NoError(t, svc.Invalidate("k"))
	_, found, err := svc.Get("k")
	require.NoError(t, err)
	require.False(t, found)
}

func TestInvalidatePrefix(t *testing.T) {
	svc, _, _ := newTestService(TTLPolicy{}, time.Now())
	require.NoError(t, svc.Put("a:1", []byte("x")))
	require.NoError(t, svc.Put("a:2", []byte("y")))
	require.NoError(t, svc.Put("b:1", []byte("z")))

	removed, err := svc.InvalidatePrefix("a:")
	require.NoError(t, err)
	require.Equal(t, 2, removed)

	_, found, err := svc.Get("b:1")
	require.NoError(t, err)
	require.True(t, found)
}

func TestListPrunesExpired(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _, advance := newTestService(TTLPolicy{
		PerPrefix: map[string]time.Duration{"short:": time.Minute},
	}, start)

	require.NoError(t, svc.Put("short:1", []byte("stale")))
	require.NoError(t, svc.Put("short:2", []byte("stale")))
	advance(start.Add(30 * time.Second))
	require.NoError(t, svc.Put("short:3", []byte("fresh")))
	advance(start.Add(time.Minute))

	payloads, err := svc.List("short:")
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	require.Equal(t, []byte("fresh"), payloads[0])

	// Pruned records do not come back.
	keys, err := storageKeys(svc)
	require.NoError(t, err)
	require.Len(t, keys, 1)
}

func TestPruneExpired(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _, advance := newTestService(TTLPolicy{Default: time.Minute}, start)

	require.NoError(t, svc.Put("a", []byte("x")))
	require.NoError(t, svc.PutTTL("b", []byte("y"), 0))
	advance(start.Add(time.Minute))

	removed, err := svc.PruneExpired()
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	_, found, err := svc.Get("b")
	require.NoError(t, err)
	require.True(t, found)
}

func TestNotConfigured(t *testing.T) {
	var svc *Service
	require.Error(t, svc.Put("k", nil))
	_, _, err := svc.Get("k")
	require.Error(t, err)
}

func storageKeys(svc *Service) ([][]byte, error) {
	return svc.db.KeysWithPrefix(nil)
}
