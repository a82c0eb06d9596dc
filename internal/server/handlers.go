package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/company-intel/internal/types"
)

// defaultIdentity is used when no forwarding header identifies the caller,
// e.g. when running locally without a proxy.
const defaultIdentity = "127.0.0.1"

// handleEnrich runs the enrichment pipeline for one company website.
func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	w.Header().Set("X-Request-ID", requestID)

	var req types.EnrichmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, MsgInvalidInput)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, MsgInvalidInput)
		return
	}

	identity := clientIdentity(r)

	result, err := s.enricher.Enrich(r.Context(), req, identity)
	if err != nil {
		status, msg := HTTPStatus(err)
		log.Printf("[api] request %s failed (%d) for %s: %v", requestID, status, req.Website, err)
		s.errorResponse(w, status, msg)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// clientIdentity derives a best-effort rate-limit identity from the request:
// the first X-Forwarded-For entry, or a constant when none is available. The
// pipeline treats the value as opaque.
func clientIdentity(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded == "" {
		return defaultIdentity
	}
	first, _, _ := strings.Cut(forwarded, ",")
	first = strings.TrimSpace(first)
	if first == "" {
		return defaultIdentity
	}
	return first
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[api] error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
