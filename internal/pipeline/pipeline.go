// Package pipeline sequences the enrichment steps and owns the
// failure-to-outcome boundary.
package pipeline

import (
	"context"
	"log"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/jonathan/company-intel/internal/cache"
	"github.com/jonathan/company-intel/internal/extraction"
	"github.com/jonathan/company-intel/internal/llm"
	"github.com/jonathan/company-intel/internal/ratelimit"
	"github.com/jonathan/company-intel/internal/scrape"
	"github.com/jonathan/company-intel/internal/security"
	"github.com/jonathan/company-intel/internal/types"
)

// SiteScraper is the boundary to the site scraper.
type SiteScraper interface {
	Site(ctx context.Context, target *url.URL) (*scrape.Result, error)
}

// Extractor is the boundary to the structured-extraction client.
type Extractor interface {
	Extract(ctx context.Context, text, website string, sources []types.Source) (*types.EnrichmentResult, error)
}

// Enricher runs the full pipeline: validate, rate-check, cache lookup,
// scrape, extract, cache store. Every step failure terminates the request
// with a typed error the server maps to a distinct outcome.
type Enricher struct {
	limiter   ratelimit.Limiter
	cache     cache.Store
	scraper   SiteScraper
	extractor Extractor
}

// New wires an Enricher from its collaborators.
func New(limiter ratelimit.Limiter, store cache.Store, scraper SiteScraper, extractor Extractor) *Enricher {
	return &Enricher{
		limiter:   limiter,
		cache:     store,
		scraper:   scraper,
		extractor: extractor,
	}
}

// NewDefault wires an Enricher with in-memory rate limiting and caching
// around the given generation client.
func NewDefault(llmClient llm.Client) *Enricher {
	return New(
		ratelimit.NewSlidingWindow(ratelimit.DefaultLimit, ratelimit.DefaultWindow),
		cache.NewMemory(cache.DefaultTTL),
		scrape.New(),
		extraction.NewClient(llmClient),
	)
}

// Enrich processes one request for the given caller identity. On a cache hit
// no network activity occurs; on the full path the result is stored in the
// cache before it is returned.
func (e *Enricher) Enrich(ctx context.Context, req types.EnrichmentRequest, identity string) (*types.EnrichmentResult, error) {
	start := time.Now()

	safeURL, err := security.ValidateURL(req.Website)
	if err != nil {
		log.Printf("[pipeline] rejected URL %q: %v", req.Website, err)
		return nil, err
	}
	website := safeURL.String()

	if err := e.limiter.RecordAndCheck(identity); err != nil {
		log.Printf("[pipeline] rate limit exceeded for identity %q", identity)
		return nil, err
	}

	if cached, ok := e.cache.Get(website); ok {
		log.Printf("[pipeline] cache hit for %s", website)
		return cached, nil
	}

	log.Printf("[pipeline] scraping started: %s", website)
	scraped, err := e.scraper.Site(ctx, safeURL)
	if err != nil {
		return nil, err
	}
	log.Printf("[pipeline] scraped %d chars from %s across %d attempted pages",
		utf8.RuneCountInString(scraped.Text), safeURL.Hostname(), len(scraped.Sources))

	extractStart := time.Now()
	result, err := e.extractor.Extract(ctx, scraped.Text, website, scraped.Sources)
	if err != nil {
		return nil, err
	}
	log.Printf("[pipeline] extraction completed in %s for %s", time.Since(extractStart).Round(time.Millisecond), website)

	e.cache.Put(website, result)

	log.Printf("[pipeline] %s enriched for company %s in %s", website, req.CompanyID, time.Since(start).Round(time.Millisecond))
	return result, nil
}
