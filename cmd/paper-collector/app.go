// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-collector/internal/collect"
	"github.com/pdiddy/paper-collector/internal/fetch"
	"github.com/pdiddy/paper-collector/internal/report"
	"github.com/pdiddy/paper-collector/internal/source"
	"github.com/pdiddy/paper-collector/internal/store"
	"github.com/pdiddy/paper-collector/pkg/types"
)

// app bundles the wired components behind the CLI commands.
type app struct {
	store     *store.Store
	collector *collect.Collector
	reporter  *report.Reporter
	logger    zerolog.Logger
}

// loadConfig builds the runtime configuration from defaults, the
// config file, environment variables, and secrets, in ascending
// priority.
func loadConfig() types.Config {
	cfg := types.DefaultConfig()

	if v := viper.GetDuration("http.timeout"); v > 0 {
		cfg.HTTP.Timeout = v
	}
	if v := viper.GetString("http.user_agent"); v != "" {
		cfg.HTTP.UserAgent = v
	}
	if v := viper.GetString("data_dir"); v != "" {
		cfg.DataDir = v
	}
	if v := viper.GetString("papers_dir"); v != "" {
		cfg.PapersDir = v
	}
	if v := viper.GetString("db_path"); v != "" {
		cfg.DBPath = v
	}
	if v := viper.GetDuration("api_delay"); v > 0 {
		cfg.APIDelay = v
	}
	if v := viper.GetDuration("rate_limit_delay"); v > 0 {
		cfg.RateLimitDelay = v
	}
	if v := viper.GetInt("max_pdf_pages"); v > 0 {
		cfg.MaxPDFPages = v
	}
	cfg.SemanticScholarAPIKey = secretDefault("semantic-scholar-api-key",
		viper.GetString("semantic_scholar_api_key"))

	return cfg
}

// newApp wires the store, source clients, collector, and reporter.
// The caller closes the returned app when done.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg := loadConfig()

	level := zerolog.InfoLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()

	st, err := store.Open(cfg.DBPath, cfg.DataDir, logger)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: cfg.HTTP.Timeout}
	fetcher := fetch.New(cfg, logger)

	collector := &collect.Collector{
		Arxiv:    source.NewArxiv(cfg, client, fetcher, logger),
		Semantic: source.NewSemanticScholar(cfg, client, fetcher, logger),
		Store:    st,
		Logger:   logger,
	}

	return &app{
		store:     st,
		collector: collector,
		reporter:  report.New(st, cfg, logger),
		logger:    logger,
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("closing store")
	}
}
