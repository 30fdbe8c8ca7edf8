package builders

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"morpheus/cache"
)

const (
	// LocalKeyPrefix stores builders sourced from the local database.
	LocalKeyPrefix = "builders:local:"
	// TempKeyPrefix stores newly-created builders for the grace window.
	TempKeyPrefix = "builders:temp:"
)

// Registry serves the reconciled builder directory. The official list comes
// from the published name feed; local and temp records live in the injected
// cache service.
type Registry struct {
	official []Builder
	store    *cache.Service
	now      func() time.Time
}

// NewRegistry constructs a registry over the official list and record store.
func NewRegistry(official []Builder, store *cache.Service) *Registry {
	return &Registry{
		official: append([]Builder(nil), official...),
		store:    store,
		now:      time.Now,
	}
}

// SetClock overrides the time source, for tests.
func (r *Registry) SetClock(now func() time.Time) {
	if r == nil || now == nil {
		return
	}
	r.now = now
}

// officialList mirrors the YAML document published by the name feed.
type officialList struct {
	Builders []struct {
		Name    string `yaml:"name"`
		Address string `yaml:"address"`
	} `yaml:"builders"`
}

// LoadOfficial parses the published builder-name feed. Entries without a name
// are skipped.
func LoadOfficial(path string) ([]Builder, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read official builders: %w", err)
	}
	var doc officialList
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse official builders: %w", err)
	}
	out := make([]Builder, 0, len(doc.Builders))
	for _, entry := range doc.Builders {
		if strings.TrimSpace(entry.Name) == "" {
			continue
		}
		out = append(out, Builder{Name: entry.Name, Address: entry.Address, Source: SourceOfficial})
	}
	return out, nil
}

// RecordTemp stores a newly-created builder so it shows up in the directory
// during the grace window. Returns the record checksum.
func (r *Registry) RecordTemp(b Builder) (string, error) {
	if r == nil || r.store == nil {
		return "", fmt.Errorf("builders: registry store not configured")
	}
	entry := TempBuilder{Builder: b, CreatedAt: r.now().UTC()}
	entry.Source = SourceLocalTemp
	payload, err := json.Marshal(entry)
	if err != nil {
		return "", err
	}
	checksum := Checksum(b)
	if err := r.store.Put(TempKeyPrefix+checksum, payload); err != nil {
		return "", err
	}
	return checksum, nil
}

// RecordLocal persists a builder sourced from the local database.
func (r *Registry) RecordLocal(b Builder) (string, error) {
	if r == nil || r.store == nil {
		return "", fmt.Errorf("builders: registry store not configured")
	}
	b.Source = SourceLocal
	payload, err := json.Marshal(b)
	if err != nil {
		return "", err
	}
	checksum := Checksum(b)
	if err := r.store.Put(LocalKeyPrefix+checksum, payload); err != nil {
		return "", err
	}
	return checksum, nil
}

// Merged returns the reconciled directory.
func (r *Registry) Merged() ([]Builder, error) {
	if r == nil {
		return nil, fmt.Errorf("builders: registry not configured")
	}
	var local []Builder
	var temp []TempBuilder
	if r.store != nil {
		payloads, err := r.store.List(LocalKeyPrefix)
		if err != nil {
			return nil, err
		}
		for _, payload := range payloads {
			var b Builder
			if err := json.Unmarshal(payload, &b); err != nil {
				continue
			}
			local = append(local, b)
		}
		payloads, err = r.store.List(TempKeyPrefix)
		if err != nil {
			return nil, err
		}
		for _, payload := range payloads {
			var entry TempBuilder
			if err := json.Unmarshal(payload, &entry); err != nil {
				continue
			}
			temp = append(temp, entry)
		}
	}
	return Merge(r.official, local, temp, r.now().UTC()), nil
}
