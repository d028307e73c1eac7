// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-harvest/pkg/types"
)

// exportEnvelope is the document written by ExportYAML.
type exportEnvelope struct {
	HarvestedAt string         `yaml:"harvested_at"`
	Count       int            `yaml:"count"`
	Papers      []*types.Paper `yaml:"papers"`
}

// ExportYAML writes every stored paper to a YAML file at path.
func (s *Store) ExportYAML(ctx context.Context, path string) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM papers ORDER BY id`)
	if err != nil {
		return fmt.Errorf("listing papers: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scanning paper id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("listing papers: %w", err)
	}

	papers := make([]*types.Paper, 0, len(ids))
	for _, id := range ids {
		p, err := s.Paper(ctx, id)
		if err != nil {
			return fmt.Errorf("reading paper %s: %w", id, err)
		}
		papers = append(papers, p)
	}

	envelope := exportEnvelope{
		HarvestedAt: time.Now().UTC().Format(time.RFC3339),
		Count:       len(papers),
		Papers:      papers,
	}

	data, err := yaml.Marshal(&envelope)
	if err != nil {
		return fmt.Errorf("marshalling export: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	return nil
}
