// Package config provides environment-backed configuration for the service.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jonathan/company-intel/internal/llm"
)

// Config holds the runtime configuration.
type Config struct {
	APIKey string // Gemini API key, required
	Model  string // generation model name
	Port   int    // HTTP listen port
}

// FromEnv reads configuration from the environment. A missing API key is a
// fatal configuration error, not something to retry.
func FromEnv() (*Config, error) {
	cfg := &Config{
		APIKey: os.Getenv("GEMINI_API_KEY"),
		Model:  os.Getenv("GEMINI_MODEL"),
		Port:   8080,
	}

	if cfg.Model == "" {
		cfg.Model = llm.DefaultModel
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("config error: invalid PORT %q: %w", portStr, err)
		}
		cfg.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("config error: GEMINI_API_KEY environment variable is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: port %d out of range", c.Port)
	}
	return nil
}
