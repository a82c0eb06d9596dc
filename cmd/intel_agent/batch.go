package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jonathan/company-intel/internal/config"
	"github.com/jonathan/company-intel/internal/llm"
	"github.com/jonathan/company-intel/internal/pipeline"
	"github.com/jonathan/company-intel/internal/types"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	batchFile        string
	batchConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Enrich a file of website URLs, one per line",
	Long:  `Reads website URLs from a file (one per line, # comments allowed) and enriches them concurrently, printing one JSON result per line.`,
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "Path to file of website URLs (required)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 3, "Number of sites enriched in parallel")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	websites, err := readWebsites(batchFile)
	if err != nil {
		return err
	}
	if len(websites) == 0 {
		return fmt.Errorf("no website URLs found in %s", batchFile)
	}

	ctx := context.Background()
	llmClient, err := llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}
	defer func() { _ = llmClient.Close() }()

	enricher := pipeline.NewDefault(llmClient)
	encoder := json.NewEncoder(os.Stdout)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for _, website := range websites {
		website := website
		g.Go(func() error {
			// Each site is its own rate-limit identity: the operator is
			// trusted; the limiter protects per-site abuse instead.
			result, err := enricher.Enrich(gctx, types.EnrichmentRequest{
				CompanyID: "batch",
				Website:   website,
			}, website)
			if err != nil {
				log.Printf("[batch] %s failed: %v", website, err)
				return nil // keep going; failures are logged, not fatal
			}
			return encoder.Encode(result)
		})
	}

	return g.Wait()
}

func readWebsites(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var websites []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		websites = append(websites, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return websites, nil
}
