// Package server provides the HTTP boundary for the enrichment pipeline.
package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/company-intel/internal/extraction"
	"github.com/jonathan/company-intel/internal/ratelimit"
	"github.com/jonathan/company-intel/internal/scrape"
	"github.com/jonathan/company-intel/internal/security"
)

// Fixed message classes returned to callers. Internal diagnostic detail
// never leaves the process.
const (
	MsgInvalidInput        = "Invalid request payload. Must provide companyId and a valid absolute website URL."
	MsgSSRFBlocked         = "Security policy prevents access to this URL."
	MsgRateLimited         = "Too many enrichment requests. Please try again later."
	MsgInsufficientContent = "Unable to extract meaningful public content from official website."
	MsgExtractionFailed    = "Failed to extract structured enrichment data from the website content."
	MsgServiceUnavailable  = "Enrichment service temporarily unavailable."
	MsgInternal            = "Internal processing failure occurred."
)

// HTTPStatus maps a pipeline failure to its externally observable status
// code and message class.
func HTTPStatus(err error) (int, string) {
	var invalidURL *security.InvalidURLError
	var blocked *security.BlockedError
	var limited *ratelimit.LimitExceededError
	var insufficient *scrape.InsufficientContentError
	var unavailable *extraction.UnavailableError
	var extractionErr *extraction.Error

	switch {
	case errors.As(err, &invalidURL):
		return http.StatusBadRequest, MsgInvalidInput
	case errors.As(err, &blocked):
		return http.StatusBadRequest, MsgSSRFBlocked
	case errors.As(err, &limited):
		return http.StatusTooManyRequests, MsgRateLimited
	case errors.As(err, &insufficient):
		return http.StatusBadGateway, MsgInsufficientContent
	case errors.As(err, &unavailable):
		return http.StatusBadGateway, MsgServiceUnavailable
	case errors.As(err, &extractionErr):
		return http.StatusInternalServerError, MsgExtractionFailed
	default:
		return http.StatusInternalServerError, MsgInternal
	}
}
