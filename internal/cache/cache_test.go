package cache

import (
	"testing"
	"time"

	"github.com/jonathan/company-intel/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *types.EnrichmentResult {
	return &types.EnrichmentResult{
		Summary:    "Acme builds rockets.",
		WhatTheyDo: []string{"Reusable launch vehicles"},
		Keywords:   []string{"Aerospace"},
		Signals:    []string{"Active hiring page detected"},
		Sources: []types.Source{
			{URL: "https://acme.dev/", Status: 200, Success: true, Timestamp: "2026-01-01T00:00:00Z"},
		},
	}
}

func newTestStore(ttl time.Duration) (*Memory, *time.Time) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(ttl)
	m.now = func() time.Time { return now }
	return m, &now
}

func TestPutGet_RoundTrip(t *testing.T) {
	m, _ := newTestStore(DefaultTTL)

	want := sampleResult()
	m.Put("https://acme.dev", want)

	got, ok := m.Get("https://acme.dev")
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestGet_NormalizesKey(t *testing.T) {
	m, _ := newTestStore(DefaultTTL)

	m.Put("https://Acme.dev/", sampleResult())

	_, ok := m.Get("https://acme.dev")
	assert.True(t, ok, "case and trailing slash should not matter")
}

func TestGet_Miss(t *testing.T) {
	m, _ := newTestStore(DefaultTTL)

	_, ok := m.Get("https://never-stored.dev")
	assert.False(t, ok)
}

func TestGet_ExpiresAfterTTL(t *testing.T) {
	m, now := newTestStore(10 * time.Minute)

	m.Put("https://acme.dev", sampleResult())

	*now = now.Add(9 * time.Minute)
	_, ok := m.Get("https://acme.dev")
	require.True(t, ok, "fresh entry should be served")

	*now = now.Add(2 * time.Minute)
	_, ok = m.Get("https://acme.dev")
	assert.False(t, ok, "stale entry should be evicted")

	// Expiry discovery deletes the entry; even rolling the clock back, it is gone.
	*now = now.Add(-5 * time.Minute)
	_, ok = m.Get("https://acme.dev")
	assert.False(t, ok)
}

func TestPut_Overwrites(t *testing.T) {
	m, _ := newTestStore(DefaultTTL)

	first := sampleResult()
	m.Put("https://acme.dev", first)

	second := sampleResult()
	second.Summary = "Acme builds even bigger rockets."
	m.Put("https://acme.dev", second)

	got, ok := m.Get("https://acme.dev")
	require.True(t, ok)
	assert.Equal(t, "Acme builds even bigger rockets.", got.Summary)
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "https://example.com", NormalizeKey("https://Example.COM/"))
	assert.Equal(t, "https://example.com", NormalizeKey("https://example.com"))
	// Only one trailing slash is stripped.
	assert.Equal(t, "https://example.com/", NormalizeKey("https://example.com//"))
}
