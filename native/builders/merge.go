// Package builders reconciles the three sources of the builder directory: the
// official published name list, the local database, and locally-created
// entries waiting for the official list to index them.
package builders

import (
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"lukechampine.com/blake3"
)

// Source identifies where a builder record originated. Higher values take
// precedence during reconciliation.
type Source int

const (
	SourceLocal Source = iota
	SourceLocalTemp
	SourceOfficial
)

// TempGracePeriod is how long a locally-created builder stays visible while
// waiting for the official list to index it.
const TempGracePeriod = 15 * time.Minute

// Builder is a staking pool entry in the directory.
type Builder struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Source  Source `json:"source"`
}

// TempBuilder is a locally-created builder pending official indexing.
type TempBuilder struct {
	Builder
	CreatedAt time.Time `json:"createdAt"`
}

// Checksum derives a stable idempotency key for a builder record.
func Checksum(b Builder) string {
	payload := mergeKey(b) + "|" + strings.ToLower(strings.TrimSpace(b.Address))
	sum := blake3.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Merge reconciles the three builder sources into one deterministically
// ordered list. Official entries override local duplicates, and temp entries
// are dropped once another source lists them or once their grace window has
// elapsed.
func Merge(official, local []Builder, temp []TempBuilder, now time.Time) []Builder {
	merged := make(map[string]Builder)
	for _, b := range official {
		key := mergeKey(b)
		if key == "" {
			continue
		}
		b.Source = SourceOfficial
		merged[key] = b
	}
	for _, b := range local {
		key := mergeKey(b)
		if key == "" {
			continue
		}
		if _, exists := merged[key]; exists {
			continue
		}
		b.Source = SourceLocal
		merged[key] = b
	}
	for _, entry := range temp {
		key := mergeKey(entry.Builder)
		if key == "" {
			continue
		}
		if _, exists := merged[key]; exists {
			continue
		}
		if Expired(entry, now) {
			continue
		}
		b := entry.Builder
		b.Source = SourceLocalTemp
		merged[key] = b
	}
	out := make([]Builder, 0, len(merged))
	for _, b := range merged {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Address < out[j].Address
	})
	return out
}

// Expired reports whether the temp entry's grace window has elapsed. Entries
// without a creation time are treated as expired.
func Expired(entry TempBuilder, now time.Time) bool {
	if entry.CreatedAt.IsZero() {
		return true
	}
	return !now.Before(entry.CreatedAt.Add(TempGracePeriod))
}

func mergeKey(b Builder) string {
	return strings.ToLower(strings.TrimSpace(b.Name))
}
