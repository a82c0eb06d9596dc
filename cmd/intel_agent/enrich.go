package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/company-intel/internal/config"
	"github.com/jonathan/company-intel/internal/llm"
	"github.com/jonathan/company-intel/internal/pipeline"
	"github.com/jonathan/company-intel/internal/types"
	"github.com/spf13/cobra"
)

var (
	enrichWebsite   string
	enrichCompanyID string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich a single company website and print the result as JSON",
	RunE:  runEnrich,
}

func init() {
	enrichCmd.Flags().StringVar(&enrichWebsite, "website", "", "Company website URL (required)")
	enrichCmd.Flags().StringVar(&enrichCompanyID, "company-id", "cli", "Company identifier recorded with the run")
	_ = enrichCmd.MarkFlagRequired("website")
	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	ctx := context.Background()
	llmClient, err := llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}
	defer func() { _ = llmClient.Close() }()

	enricher := pipeline.NewDefault(llmClient)

	result, err := enricher.Enrich(ctx, types.EnrichmentRequest{
		CompanyID: enrichCompanyID,
		Website:   enrichWebsite,
	}, "cli")
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
