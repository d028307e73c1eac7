// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/spf13/cobra"
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Fetch papers and keep only those matching a text pattern",
	Long: `Harvest runs the fetch-download-extract pipeline repeatedly and keeps
only papers whose extracted text matches the given regular expression.
PDFs of non-matching papers are deleted from the data directory.

Example pattern: "DMFT|dynamical mean-field" keeps papers mentioning
dynamical mean-field theory.`,
	RunE: runHarvest,
}

func init() {
	harvestCmd.Flags().String("pattern", "", "regular expression matched against extracted text (required)")
	harvestCmd.Flags().Int("fetch-batches", 1, "number of fetch rounds to run")
	harvestCmd.Flags().String("category", "", "arXiv category to query (default cond-mat.str-el)")
	harvestCmd.Flags().Int("max-results", 0, "maximum new papers per fetch round (default 100)")
	harvestCmd.Flags().Int("batch-size", 0, "papers requested per API page (default 100)")
	harvestCmd.Flags().String("data-dir", "", "directory for PDFs and the ledger (default data)")
	harvestCmd.Flags().String("ledger-file", "", "ledger filename inside the data directory (default fetched_arxiv_ids.txt)")
	harvestCmd.Flags().String("backend", "", "text extraction backend: pdftext or pdfcpu (default pdftext)")
	harvestCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	harvestCmd.Flags().String("db", "", "SQLite database path (default <data-dir>/papers.db)")
	harvestCmd.Flags().String("export", "", "write a YAML export of the database to this path")
	harvestCmd.MarkFlagRequired("pattern")

	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(cmd *cobra.Command, args []string) error {
	rawPattern, _ := cmd.Flags().GetString("pattern")
	pattern, err := regexp.Compile(rawPattern)
	if err != nil {
		return fmt.Errorf("invalid pattern %q: %w", rawPattern, err)
	}
	fetchBatches, _ := cmd.Flags().GetInt("fetch-batches")
	if fetchBatches <= 0 {
		fetchBatches = 1
	}

	logger := newLogger(cmd)

	p, st, _, err := buildPipeline(cmd, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	batchSize := intSetting(cmd, "batch-size", defaultBatchSize)

	ctx := context.Background()
	files, papers, err := p.HarvestMatching(ctx, batchSize, fetchBatches, pattern)
	if err != nil {
		return err
	}

	if err := st.Upsert(ctx, papers); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Kept %d matching paper(s)\n", len(papers))
	for _, f := range files {
		fmt.Fprintln(os.Stdout, f)
	}

	return maybeExport(ctx, cmd, st)
}
