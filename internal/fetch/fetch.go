// Package fetch provides single-page HTTP fetching and HTML-to-text
// reduction for the site scraper.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the per-page request timeout.
const DefaultTimeout = 5 * time.Second

// DefaultUserAgent declares the fetcher as an enrichment bot.
const DefaultUserAgent = "CompanyIntel/1.0 (Enrichment Bot)"

// noiseSelector matches elements that never carry useful visible text.
// SVGs are stripped because inline icon data dwarfs the real content.
const noiseSelector = "script, style, noscript, nav, header, footer, svg"

var whitespaceRE = regexp.MustCompile(`\s+`)

// Result holds the response from a page fetch. URL is the final URL after
// redirects, which may differ from the requested one.
type Result struct {
	URL        string
	HTML       string
	StatusCode int
}

// Error represents a transport-level fetch failure. HTTP error statuses are
// not Errors; callers gate on Result.StatusCode.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// DefaultOptions returns the scraper's defaults.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// URL retrieves a page, following redirects. Any HTTP response is returned
// as a Result; an error means the request never completed.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	client := &http.Client{
		Timeout: opts.Timeout,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	return &Result{
		URL:        resp.Request.URL.String(),
		HTML:       string(bodyBytes),
		StatusCode: resp.StatusCode,
	}, nil
}

// VisibleText reduces raw HTML to the text a visitor would read: noise
// elements are removed, the body text is extracted, and all whitespace runs
// are collapsed to single spaces.
func VisibleText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(noiseSelector).Remove()

	text := doc.Find("body").Text()
	text = whitespaceRE.ReplaceAllString(text, " ")
	return strings.TrimSpace(text), nil
}
