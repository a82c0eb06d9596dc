package pipeline

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/jonathan/company-intel/internal/cache"
	"github.com/jonathan/company-intel/internal/ratelimit"
	"github.com/jonathan/company-intel/internal/scrape"
	"github.com/jonathan/company-intel/internal/security"
	"github.com/jonathan/company-intel/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScraper struct {
	calls  int
	result *scrape.Result
	err    error
}

func (f *fakeScraper) Site(_ context.Context, _ *url.URL) (*scrape.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeExtractor struct {
	calls  int
	result *types.EnrichmentResult
	err    error
}

func (f *fakeExtractor) Extract(_ context.Context, _, _ string, _ []types.Source) (*types.EnrichmentResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func scrapedFixture() *scrape.Result {
	return &scrape.Result{
		Text: "\n\n--- Content from https://acme.dev/ ---\n\nAcme builds developer tools.",
		Sources: []types.Source{
			{URL: "https://acme.dev/", Status: 200, Success: true, Timestamp: "2026-01-01T00:00:00Z"},
		},
	}
}

func resultFixture() *types.EnrichmentResult {
	return &types.EnrichmentResult{
		Summary:    "Acme builds developer tools.",
		WhatTheyDo: []string{"CI/CD platform"},
		Keywords:   []string{"DevTools"},
		Signals:    []string{},
		Sources: []types.Source{
			{URL: "https://acme.dev/", Status: 200, Success: true, Timestamp: "2026-01-01T00:00:00Z"},
		},
	}
}

func newTestEnricher(scraper *fakeScraper, extractor *fakeExtractor) *Enricher {
	return New(
		ratelimit.NewSlidingWindow(ratelimit.DefaultLimit, ratelimit.DefaultWindow),
		cache.NewMemory(cache.DefaultTTL),
		scraper,
		extractor,
	)
}

func TestEnrich_Success(t *testing.T) {
	scraper := &fakeScraper{result: scrapedFixture()}
	extractor := &fakeExtractor{result: resultFixture()}
	enricher := newTestEnricher(scraper, extractor)

	req := types.EnrichmentRequest{CompanyID: "acme", Website: "https://acme.dev"}
	result, err := enricher.Enrich(context.Background(), req, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, "Acme builds developer tools.", result.Summary)
	assert.Equal(t, 1, scraper.calls)
	assert.Equal(t, 1, extractor.calls)
}

func TestEnrich_SecondRequestServedFromCache(t *testing.T) {
	scraper := &fakeScraper{result: scrapedFixture()}
	extractor := &fakeExtractor{result: resultFixture()}
	enricher := newTestEnricher(scraper, extractor)

	req := types.EnrichmentRequest{CompanyID: "acme", Website: "https://acme.dev"}

	first, err := enricher.Enrich(context.Background(), req, "1.2.3.4")
	require.NoError(t, err)

	second, err := enricher.Enrich(context.Background(), req, "1.2.3.4")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, scraper.calls, "cache hit must not re-scrape")
	assert.Equal(t, 1, extractor.calls, "cache hit must not re-extract")
}

func TestEnrich_InvalidURLRejectedBeforeRateCheck(t *testing.T) {
	scraper := &fakeScraper{result: scrapedFixture()}
	extractor := &fakeExtractor{result: resultFixture()}
	limiter := ratelimit.NewSlidingWindow(1, time.Minute)
	enricher := New(limiter, cache.NewMemory(cache.DefaultTTL), scraper, extractor)

	req := types.EnrichmentRequest{CompanyID: "acme", Website: "not a url"}
	_, err := enricher.Enrich(context.Background(), req, "1.2.3.4")

	var invalid *security.InvalidURLError
	require.ErrorAs(t, err, &invalid)
	assert.Zero(t, scraper.calls)

	// The rejected request consumed no rate-limit slot.
	req.Website = "https://acme.dev"
	_, err = enricher.Enrich(context.Background(), req, "1.2.3.4")
	require.NoError(t, err)
}

func TestEnrich_BlockedURLRejected(t *testing.T) {
	scraper := &fakeScraper{result: scrapedFixture()}
	extractor := &fakeExtractor{result: resultFixture()}
	enricher := newTestEnricher(scraper, extractor)

	req := types.EnrichmentRequest{CompanyID: "acme", Website: "http://169.254.169.254/latest/meta-data"}
	_, err := enricher.Enrich(context.Background(), req, "1.2.3.4")

	var blocked *security.BlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Zero(t, scraper.calls)
	assert.Zero(t, extractor.calls)
}

func TestEnrich_RateLimited(t *testing.T) {
	scraper := &fakeScraper{result: scrapedFixture()}
	extractor := &fakeExtractor{result: resultFixture()}
	enricher := New(
		ratelimit.NewSlidingWindow(2, time.Minute),
		cache.NewMemory(cache.DefaultTTL),
		scraper,
		extractor,
	)

	// Distinct websites defeat the cache so every request reaches the limiter.
	for i, site := range []string{"https://a.example", "https://b.example"} {
		req := types.EnrichmentRequest{CompanyID: "acme", Website: site}
		_, err := enricher.Enrich(context.Background(), req, "1.2.3.4")
		require.NoError(t, err, "request %d should be within the limit", i+1)
	}

	req := types.EnrichmentRequest{CompanyID: "acme", Website: "https://c.example"}
	_, err := enricher.Enrich(context.Background(), req, "1.2.3.4")

	var limited *ratelimit.LimitExceededError
	require.ErrorAs(t, err, &limited)

	// A different caller is unaffected.
	_, err = enricher.Enrich(context.Background(), req, "5.6.7.8")
	require.NoError(t, err)
}

func TestEnrich_ScraperFailureNotCached(t *testing.T) {
	scraper := &fakeScraper{err: &scrape.InsufficientContentError{Website: "https://acme.dev", Chars: 12, Pages: 0}}
	extractor := &fakeExtractor{result: resultFixture()}
	enricher := newTestEnricher(scraper, extractor)

	req := types.EnrichmentRequest{CompanyID: "acme", Website: "https://acme.dev"}
	_, err := enricher.Enrich(context.Background(), req, "1.2.3.4")
	var insufficient *scrape.InsufficientContentError
	require.ErrorAs(t, err, &insufficient)
	assert.Zero(t, extractor.calls)

	// The failure was not cached: the retry scrapes again and succeeds.
	scraper.err = nil
	scraper.result = scrapedFixture()
	_, err = enricher.Enrich(context.Background(), req, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 2, scraper.calls)
}

func TestEnrich_ExtractorFailureNotCached(t *testing.T) {
	scraper := &fakeScraper{result: scrapedFixture()}
	extractor := &fakeExtractor{err: errors.New("model melted down")}
	enricher := newTestEnricher(scraper, extractor)

	req := types.EnrichmentRequest{CompanyID: "acme", Website: "https://acme.dev"}
	_, err := enricher.Enrich(context.Background(), req, "1.2.3.4")
	require.Error(t, err)

	extractor.err = nil
	extractor.result = resultFixture()
	_, err = enricher.Enrich(context.Background(), req, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 2, scraper.calls, "failed attempt must not leave a cache entry")
	assert.Equal(t, 2, extractor.calls)
}

func TestEnrich_CacheKeyNormalized(t *testing.T) {
	scraper := &fakeScraper{result: scrapedFixture()}
	extractor := &fakeExtractor{result: resultFixture()}
	enricher := newTestEnricher(scraper, extractor)

	_, err := enricher.Enrich(context.Background(), types.EnrichmentRequest{CompanyID: "acme", Website: "https://acme.dev/"}, "1.2.3.4")
	require.NoError(t, err)

	_, err = enricher.Enrich(context.Background(), types.EnrichmentRequest{CompanyID: "acme", Website: "HTTPS://ACME.DEV"}, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 1, scraper.calls, "equivalent URLs share one cache entry")
}
