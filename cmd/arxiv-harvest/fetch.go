// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

const (
	defaultTimeout    = 60 * time.Second
	defaultUserAgent  = "arxiv-harvest/0.1"
	defaultCategory   = "cond-mat.str-el"
	defaultMaxResults = 100
	defaultBatchSize  = 100
	defaultDataDir    = "data"
	defaultBackend    = "pdftext"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch papers, download PDFs, and extract their text",
	Long: `Fetch queries the arXiv API for papers in a category, skipping
identifiers already recorded in the ledger, downloads each PDF, extracts
and cleans its text, and stores the results in the local database.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("category", "", "arXiv category to query (default cond-mat.str-el)")
	fetchCmd.Flags().Int("max-results", 0, "maximum new papers per run (default 100)")
	fetchCmd.Flags().Int("batch-size", 0, "papers requested per API page (default 100)")
	fetchCmd.Flags().String("data-dir", "", "directory for PDFs and the ledger (default data)")
	fetchCmd.Flags().String("ledger-file", "", "ledger filename inside the data directory (default fetched_arxiv_ids.txt)")
	fetchCmd.Flags().String("backend", "", "text extraction backend: pdftext or pdfcpu (default pdftext)")
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	fetchCmd.Flags().String("db", "", "SQLite database path (default <data-dir>/papers.db)")
	fetchCmd.Flags().String("export", "", "write a YAML export of the database to this path")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)

	p, st, _, err := buildPipeline(cmd, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	batchSize := intSetting(cmd, "batch-size", defaultBatchSize)

	ctx := context.Background()
	papers, err := p.FetchAndExtract(ctx, batchSize)
	if err != nil {
		return err
	}

	if err := st.Upsert(ctx, papers); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Stored %d paper(s)\n", len(papers))

	return maybeExport(ctx, cmd, st)
}
