// Package cache memoizes completed enrichment results keyed by normalized
// target URL.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/jonathan/company-intel/internal/types"
)

// DefaultTTL is how long a completed result is served before it is
// recomputed.
const DefaultTTL = 10 * time.Minute

// Store is the cache seam the orchestrator depends on. Implementations may
// be process-local or shared; only successful results are ever stored, so
// failing URLs are retried in full on every call.
type Store interface {
	Get(url string) (*types.EnrichmentResult, bool)
	Put(url string, result *types.EnrichmentResult)
}

type entry struct {
	result    *types.EnrichmentResult
	createdAt time.Time
}

// Memory is an in-process Store with lazy TTL eviction. Concurrent writers
// for the same key are not coordinated beyond the mutex: last write wins.
type Memory struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]entry

	now func() time.Time // swapped out in tests
}

// NewMemory creates an in-memory store with the given TTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns a fresh result for url, deleting the entry if its age exceeded
// the TTL.
func (m *Memory) Get(url string) (*types.EnrichmentResult, bool) {
	key := NormalizeKey(url)

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.now().Sub(e.createdAt) > m.ttl {
		delete(m.entries, key)
		return nil, false
	}
	return e.result, true
}

// Put stores result unconditionally, overwriting any prior entry.
func (m *Memory) Put(url string, result *types.EnrichmentResult) {
	key := NormalizeKey(url)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = entry{result: result, createdAt: m.now()}
}

// NormalizeKey lower-cases the URL and strips one trailing slash so that
// "https://Example.com/" and "https://example.com" share an entry.
func NormalizeKey(url string) string {
	return strings.TrimSuffix(strings.ToLower(url), "/")
}
