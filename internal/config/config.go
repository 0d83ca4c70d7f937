// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the application configuration, loadable from a JSON file.
// All fields are optional; missing values use defaults or must be provided
// via CLI flags.
type Config struct {
	// Ingestion
	FeedURL    string `json:"feed_url,omitempty"`     // RSS feed of the user's blog
	MaxPosts   int    `json:"max_posts,omitempty"`    // Post links pulled per run (default 20)
	UseBrowser bool   `json:"use_browser,omitempty"`  // Headless browser fallback for script-rendered blogs
	MinLength  int    `json:"min_length,omitempty"`   // Minimum body length per extracted document

	// External services
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	SearchCX    string `json:"search_cx,omitempty"`    // Custom search engine ID for place lookup
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
	Port    int  `json:"port,omitempty"`    // HTTP listen port
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values. Required fields
// are enforced later, after CLI flag merging.
func (c *Config) Validate() error {
	if c.MaxPosts < 0 {
		return fmt.Errorf("config error: 'max_posts' must be non-negative")
	}
	if c.MinLength < 0 {
		return fmt.Errorf("config error: 'min_length' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	return nil
}

// FromEnv fills unset fields from environment variables.
func (c *Config) FromEnv() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.SearchCX == "" {
		c.SearchCX = os.Getenv("SEARCH_CX")
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
}
