// Package scrape fetches a bounded, prioritized set of same-site pages and
// reduces them to a single clean text under a character budget.
package scrape

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/company-intel/internal/fetch"
	"github.com/jonathan/company-intel/internal/types"
)

const (
	// MaxPages is the number of successfully scraped pages that stops the crawl.
	MaxPages = 4
	// MaxTotalChars is the combined text budget handed to extraction.
	MaxTotalChars = 12000
	// MinPageChars is the visible-text threshold for a page to count.
	MinPageChars = 300
	// MinTotalChars is the combined-text threshold below which the site is
	// considered to have no usable server-rendered content.
	MinTotalChars = 500
)

// candidatePaths are visited in priority order, resolved against the
// validated origin. The empty path is the homepage.
var candidatePaths = []string{"", "/about", "/docs", "/blog", "/careers"}

// Result carries the combined text and the audit trail of every attempted
// page, successes and failures alike.
type Result struct {
	Text    string
	Sources []types.Source
}

// InsufficientContentError indicates the site yielded no usable text. This is
// the signal for JS-rendered single-page apps with no server-rendered
// content, or sites that blocked the fetch.
type InsufficientContentError struct {
	Website string
	Chars   int
	Pages   int
}

func (e *InsufficientContentError) Error() string {
	return fmt.Sprintf("insufficient content from %s: %d chars across %d successful pages", e.Website, e.Chars, e.Pages)
}

// Scraper visits candidate pages sequentially so the early-exit budget checks
// are evaluated deterministically between pages.
type Scraper struct {
	opts *fetch.Options
}

// New creates a scraper with the default per-page timeout and bot user agent.
func New() *Scraper {
	return &Scraper{opts: fetch.DefaultOptions()}
}

// Site scrapes the candidate pages of target and returns their combined
// visible text plus one Source per attempted path. Pages are dropped (but
// still recorded) when a redirect leaves the site's registrable domain, the
// status is not 2xx, or the cleaned text is too short to be meaningful.
func (s *Scraper) Site(ctx context.Context, target *url.URL) (*Result, error) {
	originalHost := target.Hostname()

	var combined strings.Builder
	chars := 0
	pages := 0
	sources := make([]types.Source, 0, len(candidatePaths))

	for _, path := range candidatePaths {
		if pages >= MaxPages || chars >= MaxTotalChars {
			break
		}

		ref, err := url.Parse(path)
		if err != nil {
			continue
		}
		pageURL := target.ResolveReference(ref)

		attempt := types.Source{
			URL:       pageURL.String(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}

		result, err := fetch.URL(ctx, pageURL.String(), s.opts)
		if err != nil {
			// Network failure or timeout: status stays 0.
			sources = append(sources, attempt)
			continue
		}

		attempt.URL = result.URL
		attempt.Status = result.StatusCode

		finalURL, err := url.Parse(result.URL)
		if err != nil || !SameRegistrableDomain(originalHost, finalURL.Hostname()) {
			// Cross-domain redirect: recorded as attempted, never incorporated.
			sources = append(sources, attempt)
			continue
		}

		if result.StatusCode < 200 || result.StatusCode > 299 {
			sources = append(sources, attempt)
			continue
		}

		text, err := fetch.VisibleText(result.HTML)
		if err != nil || utf8.RuneCountInString(text) <= MinPageChars {
			sources = append(sources, attempt)
			continue
		}

		section := fmt.Sprintf("\n\n--- Content from %s ---\n\n%s", result.URL, text)
		combined.WriteString(section)
		chars += utf8.RuneCountInString(section)

		attempt.Success = true
		pages++
		sources = append(sources, attempt)
	}

	if pages == 0 || chars < MinTotalChars {
		return nil, &InsufficientContentError{
			Website: target.String(),
			Chars:   chars,
			Pages:   pages,
		}
	}

	return &Result{
		Text:    truncateRunes(combined.String(), MaxTotalChars),
		Sources: sources,
	}, nil
}

// SameRegistrableDomain reports whether two hostnames belong to the same
// site: exact match, www-normalized match, or one being a subdomain of the
// other. This allows www and HTTPS-upgrade redirects while rejecting hops to
// unrelated domains.
func SameRegistrableDomain(originalHost, newHost string) bool {
	if originalHost == newHost {
		return true
	}

	cleanOriginal := strings.TrimPrefix(originalHost, "www.")
	cleanNew := strings.TrimPrefix(newHost, "www.")

	if cleanOriginal == cleanNew {
		return true
	}
	if strings.HasSuffix(cleanNew, "."+cleanOriginal) {
		return true
	}
	if strings.HasSuffix(cleanOriginal, "."+cleanNew) {
		return true
	}
	return false
}

// truncateRunes cuts s to at most n runes without splitting a character.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
