// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists harvested papers and their cleaned text in a
// SQLite database for downstream retrieval.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/arxiv-harvest/pkg/types"
)

// Store manages the papers SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path, creating the schema if it
// does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			url TEXT,
			pdf_url TEXT,
			updated TEXT,
			published TEXT,
			title TEXT,
			summary TEXT,
			authors TEXT,
			comment TEXT,
			n_pages INTEGER,
			n_figures INTEGER,
			categories TEXT,
			backend TEXT,
			text TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table over the cleaned text with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='papers_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE papers_fts USING fts5(title, text, content=papers, content_rowid=rowid)`,
			`CREATE TRIGGER papers_ai AFTER INSERT ON papers BEGIN
				INSERT INTO papers_fts(rowid, title, text) VALUES (new.rowid, new.title, new.text);
			END`,
			`CREATE TRIGGER papers_ad AFTER DELETE ON papers BEGIN
				INSERT INTO papers_fts(papers_fts, rowid, title, text) VALUES('delete', old.rowid, old.title, old.text);
			END`,
			`CREATE TRIGGER papers_au AFTER UPDATE ON papers BEGIN
				INSERT INTO papers_fts(papers_fts, rowid, title, text) VALUES('delete', old.rowid, old.title, old.text);
				INSERT INTO papers_fts(rowid, title, text) VALUES (new.rowid, new.title, new.text);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Upsert writes the batch of papers, replacing existing rows by id so a
// re-run with freshly extracted text updates the stored copy.
func (s *Store) Upsert(ctx context.Context, papers []*types.Paper) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (id, url, pdf_url, updated, published, title, summary, authors,
			comment, n_pages, n_figures, categories, backend, text)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			url=excluded.url, pdf_url=excluded.pdf_url, updated=excluded.updated,
			published=excluded.published, title=excluded.title, summary=excluded.summary,
			authors=excluded.authors, comment=excluded.comment, n_pages=excluded.n_pages,
			n_figures=excluded.n_figures, categories=excluded.categories,
			backend=excluded.backend, text=excluded.text`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range papers {
		authorsJSON, _ := json.Marshal(p.Authors)
		categoriesJSON, _ := json.Marshal(p.Categories)

		_, err := stmt.ExecContext(ctx,
			p.ID, p.URL, p.PDFURL,
			timeString(p.Updated), timeString(p.Published),
			p.Title, p.Summary, string(authorsJSON),
			p.Comment, intValue(p.NumPages), intValue(p.NumFigures),
			string(categoriesJSON), p.Backend, p.Text,
		)
		if err != nil {
			return fmt.Errorf("upserting paper %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// Paper reads one paper by id. Returns sql.ErrNoRows when absent.
func (s *Store) Paper(ctx context.Context, id string) (*types.Paper, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, url, pdf_url, updated, published, title, summary, authors,
			comment, n_pages, n_figures, categories, backend, text
		 FROM papers WHERE id = ?`, id)

	var p types.Paper
	var updated, published, authorsJSON, categoriesJSON string
	var nPages, nFigures sql.NullInt64

	err := row.Scan(&p.ID, &p.URL, &p.PDFURL, &updated, &published,
		&p.Title, &p.Summary, &authorsJSON, &p.Comment,
		&nPages, &nFigures, &categoriesJSON, &p.Backend, &p.Text)
	if err != nil {
		return nil, err
	}

	if t, err := time.Parse(time.RFC3339, updated); err == nil {
		p.Updated = t
	}
	if t, err := time.Parse(time.RFC3339, published); err == nil {
		p.Published = t
	}
	if nPages.Valid {
		v := int(nPages.Int64)
		p.NumPages = &v
	}
	if nFigures.Valid {
		v := int(nFigures.Int64)
		p.NumFigures = &v
	}
	json.Unmarshal([]byte(authorsJSON), &p.Authors)
	json.Unmarshal([]byte(categoriesJSON), &p.Categories)

	return &p, nil
}

// Count returns the number of stored papers.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return n, nil
}

// SearchText runs an FTS match over stored titles and text, returning up
// to limit paper ids ranked by relevance.
func (s *Store) SearchText(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id FROM papers_fts f JOIN papers p ON p.rowid = f.rowid
		 WHERE papers_fts MATCH ? ORDER BY rank LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("FTS query: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning FTS result: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func timeString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func intValue(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
