// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// Config holds the settings for the collection pipeline. It is built
// once at startup and passed into constructors; there is no ambient
// process-wide configuration.
type Config struct {
	HTTP HTTPConfig `json:"http" yaml:"http"`

	// DataDir is the base directory for the database and exports.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// PapersDir is the directory downloaded PDFs are cached in.
	PapersDir string `json:"papers_dir" yaml:"papers_dir"`

	// DBPath is the SQLite database file path.
	DBPath string `json:"db_path" yaml:"db_path"`

	// APIDelay is the pause between batched upstream API calls.
	APIDelay time.Duration `json:"api_delay" yaml:"api_delay"`

	// RateLimitDelay is the single backoff sleep applied after an
	// HTTP 429 response. The call is not retried afterwards.
	RateLimitDelay time.Duration `json:"rate_limit_delay" yaml:"rate_limit_delay"`

	// MaxPDFPages caps how many pages of a PDF are text-extracted.
	MaxPDFPages int `json:"max_pdf_pages" yaml:"max_pdf_pages"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`
}

// DefaultConfig returns the configuration used when no config file or
// flags override it.
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "paper-collector/0.1",
		},
		DataDir:        "data",
		PapersDir:      "data/papers",
		DBPath:         "data/papers.db",
		APIDelay:       time.Second,
		RateLimitDelay: 5 * time.Second,
		MaxPDFPages:    500,
	}
}
