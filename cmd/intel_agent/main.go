// Package main provides the entry point for the company-intel enrichment service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "intel_agent",
	Short: "Company intelligence enrichment service",
	Long:  "Enriches company records from their public websites: scrapes a bounded set of pages, extracts structured intelligence with an LLM, and serves validated results over a REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
