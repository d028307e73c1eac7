// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/pdiddy/arxiv-harvest/pkg/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeFetcher returns one canned batch per Fetch call.
type fakeFetcher struct {
	batches [][]*types.Paper
	calls   int
}

func (f *fakeFetcher) Fetch(context.Context, int) ([]*types.Paper, error) {
	if f.calls >= len(f.batches) {
		return nil, nil
	}
	batch := f.batches[f.calls]
	f.calls++
	return batch, nil
}

// fakeDownloader writes a placeholder PDF into dir for every paper.
type fakeDownloader struct {
	dir  string
	fail map[string]bool
}

func (d *fakeDownloader) Download(paper *types.Paper, write bool) string {
	if d.fail[paper.ID] {
		return ""
	}
	path := filepath.Join(d.dir, paper.ID+".pdf")
	if write {
		if err := os.WriteFile(path, []byte("%PDF-1.4 "+paper.ID), 0o644); err != nil {
			return ""
		}
	}
	return path
}

// fakeExtractor maps a PDF path back to canned raw text keyed by paper id.
type fakeExtractor struct {
	texts map[string]string
}

func (e *fakeExtractor) Text(path, backend string) string {
	if path == "" {
		return ""
	}
	id := strings.TrimSuffix(filepath.Base(path), ".pdf")
	return e.texts[id]
}

func (e *fakeExtractor) CleanText(text string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(text), " "))
}

func paper(id string) *types.Paper {
	return &types.Paper{ID: id, Summary: "abstract of " + id}
}

func TestFetchAndExtract_AttachesCleanedText(t *testing.T) {
	dir := t.TempDir()
	p := New(
		&fakeFetcher{batches: [][]*types.Paper{{paper("1111.0001v1"), paper("1111.0002v1")}}},
		&fakeDownloader{dir: dir},
		&fakeExtractor{texts: map[string]string{
			"1111.0001v1": "Body  text.\nReferences\n[1] Smith, J.",
			"1111.0002v1": "",
		}},
		"pdftext",
		discardLogger(),
	)

	papers, err := p.FetchAndExtract(context.Background(), 10)
	if err != nil {
		t.Fatalf("FetchAndExtract() error = %v", err)
	}
	if len(papers) != 2 {
		t.Fatalf("FetchAndExtract() = %d papers, want 2 (empty extraction is kept)", len(papers))
	}

	if papers[0].Text != "Body text." {
		t.Errorf("papers[0].Text = %q, want cleaned text without references", papers[0].Text)
	}
	if papers[0].Backend != "pdftext" {
		t.Errorf("papers[0].Backend = %q, want pdftext", papers[0].Backend)
	}
	if papers[1].Text != "" || papers[1].Backend != "" {
		t.Errorf("papers[1] should stay empty: %q / %q", papers[1].Text, papers[1].Backend)
	}
}

func TestFetchAndExtract_DownloadFailureKeepsRecord(t *testing.T) {
	dir := t.TempDir()
	p := New(
		&fakeFetcher{batches: [][]*types.Paper{{paper("1111.0001v1")}}},
		&fakeDownloader{dir: dir, fail: map[string]bool{"1111.0001v1": true}},
		&fakeExtractor{texts: map[string]string{}},
		"pdftext",
		discardLogger(),
	)

	papers, err := p.FetchAndExtract(context.Background(), 10)
	if err != nil {
		t.Fatalf("FetchAndExtract() error = %v", err)
	}
	if len(papers) != 1 || papers[0].Text != "" {
		t.Errorf("record with failed download should be returned with empty text")
	}
}

func TestHarvestMatching_DeletesNonMatchingPDFs(t *testing.T) {
	dir := t.TempDir()
	pattern := regexp.MustCompile(`\bDMFT\b|\bDynamical Mean[- ]Field Theory\b`)

	p := New(
		&fakeFetcher{batches: [][]*types.Paper{{
			paper("1111.0001v1"), paper("1111.0002v1"), paper("1111.0003v1"),
		}}},
		&fakeDownloader{dir: dir},
		&fakeExtractor{texts: map[string]string{
			"1111.0001v1": "We apply DMFT to the Hubbard model.",
			"1111.0002v1": "Unrelated density functional study.",
			"1111.0003v1": "",
		}},
		"pdftext",
		discardLogger(),
	)

	files, kept, err := p.HarvestMatching(context.Background(), 10, 1, pattern)
	if err != nil {
		t.Fatalf("HarvestMatching() error = %v", err)
	}

	if len(kept) != 1 || kept[0].ID != "1111.0001v1" {
		t.Fatalf("kept = %+v, want only the matching paper", kept)
	}
	if len(files) != 1 || files[0] != filepath.Join(dir, "1111.0001v1.pdf") {
		t.Fatalf("files = %v, want the matching PDF path", files)
	}
	if kept[0].Text != "We apply DMFT to the Hubbard model." {
		t.Errorf("kept[0].Text = %q", kept[0].Text)
	}

	// Non-matching PDF deleted from the content folder.
	if _, err := os.Stat(filepath.Join(dir, "1111.0002v1.pdf")); !os.IsNotExist(err) {
		t.Errorf("non-matching PDF was not deleted")
	}
	// Matching PDF still present.
	if _, err := os.Stat(files[0]); err != nil {
		t.Errorf("matching PDF missing: %v", err)
	}
}

func TestHarvestMatching_RunsAllFetchBatches(t *testing.T) {
	dir := t.TempDir()
	f := &fakeFetcher{batches: [][]*types.Paper{
		{paper("1111.0001v1")},
		{paper("1111.0002v1")},
	}}

	p := New(
		f,
		&fakeDownloader{dir: dir},
		&fakeExtractor{texts: map[string]string{
			"1111.0001v1": "first match",
			"1111.0002v1": "second match",
		}},
		"pdftext",
		discardLogger(),
	)

	files, kept, err := p.HarvestMatching(context.Background(), 10, 2, regexp.MustCompile(`match`))
	if err != nil {
		t.Fatalf("HarvestMatching() error = %v", err)
	}
	if f.calls != 2 {
		t.Errorf("fetch calls = %d, want 2", f.calls)
	}
	if len(files) != 2 || len(kept) != 2 {
		t.Errorf("kept %d files / %d papers, want 2 / 2", len(files), len(kept))
	}
}
