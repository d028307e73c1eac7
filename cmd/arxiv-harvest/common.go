// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-harvest/internal/download"
	"github.com/pdiddy/arxiv-harvest/internal/extract"
	"github.com/pdiddy/arxiv-harvest/internal/fetch"
	"github.com/pdiddy/arxiv-harvest/internal/pipeline"
	"github.com/pdiddy/arxiv-harvest/internal/store"
	"github.com/pdiddy/arxiv-harvest/pkg/types"
)

// stringSetting reads a flag value, falling back to the viper config key
// and then to a built-in default.
func stringSetting(cmd *cobra.Command, name, fallback string) string {
	if v, _ := cmd.Flags().GetString(name); v != "" {
		return v
	}
	if v := viper.GetString(name); v != "" {
		return v
	}
	return fallback
}

func intSetting(cmd *cobra.Command, name string, fallback int) int {
	if v, _ := cmd.Flags().GetInt(name); v > 0 {
		return v
	}
	if v := viper.GetInt(name); v > 0 {
		return v
	}
	return fallback
}

// pipelineConfig assembles stage configuration from flags and config keys.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	httpCfg := types.HTTPConfig{
		Timeout:   timeout,
		UserAgent: defaultUserAgent,
	}
	dataDir := stringSetting(cmd, "data-dir", defaultDataDir)

	return types.PipelineConfig{
		Fetch: types.FetchConfig{
			HTTPConfig: httpCfg,
			Category:   stringSetting(cmd, "category", defaultCategory),
			MaxResults: intSetting(cmd, "max-results", defaultMaxResults),
			DataDir:    dataDir,
			LedgerFile: stringSetting(cmd, "ledger-file", ""),
		},
		Download: types.DownloadConfig{
			HTTPConfig: httpCfg,
			DataDir:    dataDir,
		},
		Extraction: types.ExtractionConfig{
			Backend: stringSetting(cmd, "backend", defaultBackend),
		},
	}
}

// buildPipeline wires the fetcher, downloader, and extractor from flags
// and opens the paper store.
func buildPipeline(cmd *cobra.Command, logger *slog.Logger) (*pipeline.Pipeline, *store.Store, types.PipelineConfig, error) {
	cfg := pipelineConfig(cmd)

	client := &http.Client{Timeout: cfg.Fetch.Timeout}

	fetcher, err := fetch.NewFetcher(client, cfg.Fetch, logger)
	if err != nil {
		return nil, nil, cfg, err
	}
	downloader := download.NewDownloader(client, cfg.Download, logger)
	extractor := extract.NewExtractor(logger)

	dbPath := stringSetting(cmd, "db", filepath.Join(cfg.Fetch.DataDir, "papers.db"))
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, cfg, err
	}

	p := pipeline.New(fetcher, downloader, extractor, cfg.Extraction.Backend, logger)
	return p, st, cfg, nil
}

// maybeExport writes a YAML export of the store when --export is set.
func maybeExport(ctx context.Context, cmd *cobra.Command, st *store.Store) error {
	exportPath, _ := cmd.Flags().GetString("export")
	if exportPath == "" {
		return nil
	}
	return st.ExportYAML(ctx, exportPath)
}
