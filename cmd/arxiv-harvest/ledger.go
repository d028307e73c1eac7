// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-harvest/internal/fetch"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect the ledger of fetched arXiv identifiers",
}

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every fetched identifier in ledger order",
	RunE:  runLedgerList,
}

var ledgerCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of fetched identifiers",
	RunE:  runLedgerCount,
}

func init() {
	ledgerCmd.PersistentFlags().String("data-dir", "", "directory holding the ledger (default data)")
	ledgerCmd.PersistentFlags().String("ledger-file", "", "ledger filename inside the data directory (default fetched_arxiv_ids.txt)")

	ledgerCmd.AddCommand(ledgerListCmd)
	ledgerCmd.AddCommand(ledgerCountCmd)
	rootCmd.AddCommand(ledgerCmd)
}

func openLedger(cmd *cobra.Command) *fetch.Ledger {
	dataDir := stringSetting(cmd, "data-dir", defaultDataDir)
	name := stringSetting(cmd, "ledger-file", "fetched_arxiv_ids.txt")
	return fetch.NewLedger(filepath.Join(dataDir, name))
}

func runLedgerList(cmd *cobra.Command, args []string) error {
	ids, err := openLedger(cmd).List()
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintln(os.Stdout, id)
	}
	return nil
}

func runLedgerCount(cmd *cobra.Command, args []string) error {
	ids, err := openLedger(cmd).List()
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, len(ids))
	return nil
}
