package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/jonathan/company-intel/internal/llm"
	"github.com/jonathan/company-intel/internal/schemas"
	"github.com/jonathan/company-intel/internal/types"
)

// RetryDelay is the fixed pause before the single retry of a transient
// upstream failure.
const RetryDelay = 500 * time.Millisecond

// Client performs structured extraction over an llm.Client.
type Client struct {
	llm        llm.Client
	retryDelay time.Duration
}

// NewClient creates an extraction client with the default retry delay.
func NewClient(llmClient llm.Client) *Client {
	return &Client{llm: llmClient, retryDelay: RetryDelay}
}

// Extract runs one structured-generation call for the scraped text, retrying
// exactly once on a transient upstream failure. Deterministic failures
// (4xx, empty body, parse or schema errors) are never retried; a retry that
// also fails surfaces as UnavailableError.
func (c *Client) Extract(ctx context.Context, text, website string, sources []types.Source) (*types.EnrichmentResult, error) {
	result, err := c.attempt(ctx, text, website, sources)
	if err == nil {
		return result, nil
	}

	var xerr *Error
	if !errors.As(err, &xerr) || xerr.Class != ClassTransient {
		return nil, err
	}

	log.Printf("[extraction] transient upstream failure for %s, retrying in %s: %v", website, c.retryDelay, err)
	select {
	case <-time.After(c.retryDelay):
	case <-ctx.Done():
		return nil, &UnavailableError{Cause: ctx.Err()}
	}

	result, retryErr := c.attempt(ctx, text, website, sources)
	if retryErr != nil {
		log.Printf("[extraction] retry failed for %s: %v", website, retryErr)
		return nil, &UnavailableError{Cause: retryErr}
	}
	return result, nil
}

func (c *Client) attempt(ctx context.Context, text, website string, sources []types.Source) (*types.EnrichmentResult, error) {
	prompt, err := BuildPrompt(text, website, sources)
	if err != nil {
		return nil, &Error{Class: ClassDeterministic, Message: "failed to build prompt", Cause: err}
	}

	raw, err := c.llm.GenerateJSON(ctx, prompt, ResponseSchema())
	if err != nil {
		return nil, classifyCallError(err)
	}

	if strings.TrimSpace(raw) == "" {
		return nil, &Error{Class: ClassDeterministic, Message: "model returned an empty response"}
	}

	cleaned := llm.CleanJSONBlock(raw)

	var doc any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, &Error{Class: ClassDeterministic, Message: "model output is not valid JSON", Cause: err}
	}

	if err := schemas.ValidateEnrichment(doc); err != nil {
		return nil, &Error{Class: ClassDeterministic, Message: "model output failed schema validation", Cause: err}
	}

	var result types.EnrichmentResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, &Error{Class: ClassDeterministic, Message: "model output did not decode", Cause: err}
	}
	return &result, nil
}
