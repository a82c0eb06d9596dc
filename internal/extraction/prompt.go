package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/jonathan/company-intel/internal/types"
)

// BuildPrompt constructs the extraction prompt. The model is instructed to
// work only from the supplied text and to echo the supplied sources verbatim
// rather than inventing citations.
func BuildPrompt(text, website string, sources []types.Source) (string, error) {
	sourcesJSON, err := json.Marshal(sources)
	if err != nil {
		return "", fmt.Errorf("failed to encode sources: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("Analyze the following scraped website content for the company at ")
	sb.WriteString(website)
	sb.WriteString(".\nExtract the intelligence into strict structured JSON.\n\n")

	sb.WriteString("CRITICAL INSTRUCTION:\n")
	sb.WriteString("- You MUST base all extracted intelligence ONLY on the provided scraped content below.\n")
	sb.WriteString("- DO NOT hallucinate.\n")
	sb.WriteString("- DO NOT pull information from outside sources (no GitHub, Twitter, news, or funding databases that are not explicitly stated in the text).\n\n")

	sb.WriteString("Rules for extraction:\n")
	sb.WriteString("- summary: A crisp 1-2 sentence pitch of the company based ONLY on the text.\n")
	sb.WriteString("- whatTheyDo: An array of 2-5 bullet points detailing specific capabilities or products mentioned in the text.\n")
	sb.WriteString("- keywords: An array of 3-7 tags (e.g. \"Fintech\", \"Series A\", \"B2B SaaS\") explicitly supported by the text.\n")
	sb.WriteString("- signals: An array of business indicators found. Examples: \"Active hiring page detected\" if a careers page was scraped, \"Security compliance detected\" if a compliance page was scraped. DO NOT infer signals from general knowledge.\n")
	sb.WriteString("- sources: Use exactly the following JSON array of sources exactly as provided, do not infer sources: ")
	sb.Write(sourcesJSON)
	sb.WriteString("\n\nContent to analyze:\n\"\"\"\n")
	sb.WriteString(text)
	sb.WriteString("\n\"\"\"\n")

	return sb.String(), nil
}

// ResponseSchema is the JSON output schema requested from the generation
// service itself, mirroring the shape enforced afterwards by the schemas
// package.
func ResponseSchema() *genai.Schema {
	stringArray := func() *genai.Schema {
		return &genai.Schema{
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		}
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary":    {Type: genai.TypeString},
			"whatTheyDo": stringArray(),
			"keywords":   stringArray(),
			"signals":    stringArray(),
			"sources": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"url":       {Type: genai.TypeString},
						"status":    {Type: genai.TypeNumber},
						"success":   {Type: genai.TypeBoolean},
						"timestamp": {Type: genai.TypeString},
					},
					Required: []string{"url", "status", "success", "timestamp"},
				},
			},
		},
		Required: []string{"summary", "whatTheyDo", "keywords", "signals", "sources"},
	}
}
