// Package cache provides an explicit TTL cache over an injected key-value
// store. Callers own the store, the TTL policy and invalidation; there is no
// ambient global state.
package cache

import (
	"encoding/binary"
	"errors"
	"strings"
	"time"

	"morpheus/storage"
)

var (
	errNotConfigured = errors.New("cache: store not configured")
	errCorruptEntry  = errors.New("cache: corrupt entry")
)

// TTLPolicy declares how long cached entries stay fresh. PerPrefix overrides
// apply to keys beginning with the given prefix; the longest match wins. A
// zero duration means the entry never expires.
type TTLPolicy struct {
	Default   time.Duration
	PerPrefix map[string]time.Duration
}

// TTLFor resolves the policy for a key.
func (p TTLPolicy) TTLFor(key string) time.Duration {
	ttl := p.Default
	matched := -1
	for prefix, override := range p.PerPrefix {
		if strings.HasPrefix(key, prefix) && len(prefix) > matched {
			matched = len(prefix)
			ttl = override
		}
	}
	return ttl
}

// Stats receives hit/miss notifications so callers can export cache metrics.
type Stats interface {
	Hit()
	Miss()
}

// Service is the cache front end. Entries are stored as an 8-byte big-endian
// expiry timestamp followed by the payload; expired reads miss and delete the
// stale record.
type Service struct {
	db     storage.Database
	policy TTLPolicy
	stats  Stats
	now    func() time.Time
}

// New constructs a cache service over the supplied store.
func New(db storage.Database, policy TTLPolicy) *Service {
	return &Service{db: db, policy: policy, now: time.Now}
}

// SetStats installs a hit/miss observer.
func (s *Service) SetStats(stats Stats) {
	if s == nil {
		return
	}
	s.stats = stats
}

// SetClock overrides the time source, for tests.
func (s *Service) SetClock(now func() time.Time) {
	if s == nil || now == nil {
		return
	}
	s.now = now
}

// Put stores a payload under the policy TTL for its key.
func (s *Service) Put(key string, payload []byte) error {
	if s == nil || s.db == nil {
		return errNotConfigured
	}
	return s.PutTTL(key, payload, s.policy.TTLFor(key))
}

// PutTTL stores a payload with an explicit TTL. A zero or negative TTL keeps
// the entry until invalidated.
func (s *Service) PutTTL(key string, payload []byte, ttl time.Duration) error {
	if s == nil || s.db == nil {
		return errNotConfigured
	}
	var expires int64
	if ttl > 0 {
		expires = s.now().Add(ttl).Unix()
	}
	record := make([]byte, 8+len(payload))
	binary.BigEndian.PutUint64(record[:8], uint64(expires))
	copy(record[8:], payload)
	return s.db.Put([]byte(key), record)
}

// Get returns the payload stored under key and whether it was found fresh.
func (s *Service) Get(key string) ([]byte, bool, error) {
	if s == nil || s.db == nil {
		return nil, false, errNotConfigured
	}
	record, err := s.db.Get([]byte(key))
	if errors.Is(err, storage.ErrKeyNotFound) {
		s.miss()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	payload, expired, err := decodeRecord(record, s.now())
	if err != nil {
		return nil, false, err
	}
	if expired {
		s.miss()
		if err := s.db.Delete([]byte(key)); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}
	s.hit()
	return payload, true, nil
}

// Invalidate removes a single entry.
func (s *Service) Invalidate(key string) error {
	if s == nil || s.db == nil {
		return errNotConfigured
	}
	return s.db.Delete([]byte(key))
}

// InvalidatePrefix removes every entry under the prefix and reports how many
// were deleted.
func (s *Service) InvalidatePrefix(prefix string) (int, error) {
	if s == nil || s.db == nil {
		return 0, errNotConfigured
	}
	keys, err := s.db.KeysWithPrefix([]byte(prefix))
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, key := range keys {
		if err := s.db.Delete(key); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// List returns the unexpired payloads stored under the prefix, pruning stale
// records as it goes.
func (s *Service) List(prefix string) ([][]byte, error) {
	if s == nil || s.db == nil {
		return nil, errNotConfigured
	}
	keys, err := s.db.KeysWithPrefix([]byte(prefix))
	if err != nil {
		return nil, err
	}
	now := s.now()
	payloads := make([][]byte, 0, len(keys))
	for _, key := range keys {
		record, err := s.db.Get(key)
		if errors.Is(err, storage.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		payload, expired, err := decodeRecord(record, now)
		if err != nil {
			return nil, err
		}
		if expired {
			if err := s.db.Delete(key); err != nil {
				return nil, err
			}
			continue
		}
		payloads = append(payloads, payload)
	}
	return payloads, nil
}

// PruneExpired sweeps the whole keyspace and reports how many stale entries
// were removed.
func (s *Service) PruneExpired() (int, error) {
	if s == nil || s.db == nil {
		return 0, errNotConfigured
	}
	keys, err := s.db.KeysWithPrefix(nil)
	if err != nil {
		return 0, err
	}
	now := s.now()
	removed := 0
	for _, key := range keys {
		record, err := s.db.Get(key)
		if errors.Is(err, storage.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return removed, err
		}
		if _, expired, err := decodeRecord(record, now); err != nil || !expired {
			continue
		}
		if err := s.db.Delete(key); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func decodeRecord(record []byte, now time.Time) ([]byte, bool, error) {
	if len(record) < 8 {
		return nil, false, errCorruptEntry
	}
	expires := int64(binary.BigEndian.Uint64(record[:8]))
	if expires != 0 && now.Unix() >= expires {
		return nil, true, nil
	}
	payload := make([]byte, len(record)-8)
	copy(payload, record[8:])
	return payload, false, nil
}

func (s *Service) hit() {
	if s.stats != nil {
		s.stats.Hit()
	}
}

func (s *Service) miss() {
	if s.stats != nil {
		s.stats.Miss()
	}
}
