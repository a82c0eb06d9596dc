// Package types defines the data structures shared across the enrichment pipeline.
package types

// EnrichmentRequest is the inbound payload for a single enrichment run.
type EnrichmentRequest struct {
	CompanyID string `json:"companyId" validate:"required"`
	Website   string `json:"website" validate:"required"`
}

// Source records one attempted page fetch during scraping. The full ordered
// list of attempts is returned to the caller regardless of outcome so the
// provenance of the result can be audited.
type Source struct {
	URL       string `json:"url"`       // final URL after redirects
	Status    int    `json:"status"`    // HTTP status, 0 if the fetch never completed
	Success   bool   `json:"success"`   // true only if the page's text was incorporated
	Timestamp string `json:"timestamp"` // RFC3339 UTC
}

// EnrichmentResult is the structured intelligence extracted from a company
// website. It is the only artifact the pipeline caches and returns.
type EnrichmentResult struct {
	Summary    string   `json:"summary"`
	WhatTheyDo []string `json:"whatTheyDo"`
	Keywords   []string `json:"keywords"`
	Signals    []string `json:"signals"`
	Sources    []Source `json:"sources"`
}
