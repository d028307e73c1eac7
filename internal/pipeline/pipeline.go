// Package pipeline composes the fetch, download, and extraction stages
// into the two end-to-end flows: fetch-and-extract and pattern-filtered
// harvesting. Per-paper failures never abort a run; the affected paper is
// carried with empty text or dropped, depending on the flow.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"regexp"

	"github.com/pdiddy/arxiv-harvest/internal/extract"
	"github.com/pdiddy/arxiv-harvest/pkg/types"
)

// Fetcher retrieves one batch of new papers.
type Fetcher interface {
	Fetch(ctx context.Context, batchSize int) ([]*types.Paper, error)
}

// Downloader retrieves a paper's PDF into the content folder.
type Downloader interface {
	Download(paper *types.Paper, write bool) string
}

// Extractor turns a downloaded PDF into cleaned text.
type Extractor interface {
	Text(path, backend string) string
	CleanText(text string) string
}

// Pipeline wires the three stages together.
type Pipeline struct {
	fetcher    Fetcher
	downloader Downloader
	extractor  Extractor
	backend    string
	logger     *slog.Logger
}

// New creates a pipeline extracting text with the named backend.
func New(f Fetcher, d Downloader, e Extractor, backend string, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		fetcher:    f,
		downloader: d,
		extractor:  e,
		backend:    backend,
		logger:     logger,
	}
}

// FetchAndExtract fetches one batch of new papers and attaches cleaned
// text to each. Papers whose download or extraction yields nothing are
// logged and returned with empty text; the batch is returned in full.
func (p *Pipeline) FetchAndExtract(ctx context.Context, batchSize int) ([]*types.Paper, error) {
	papers, err := p.fetcher.Fetch(ctx, batchSize)
	if err != nil {
		return nil, err
	}

	for _, paper := range papers {
		pdfPath := p.downloader.Download(paper, true)

		text := p.extractor.Text(pdfPath, p.backend)
		if text == "" {
			p.logger.Info("no text extracted from the PDF", "id", paper.ID)
			continue
		}

		// Reference removal must precede cleaning: cleaning flattens the
		// newline structure the section markers rely on.
		text = extract.RemoveReferences(text)
		text = p.extractor.CleanText(text)

		paper.Text = text
		paper.Backend = p.backend
		p.logger.Info("text extracted and stored", "id", paper.ID)
	}
	return papers, nil
}

// HarvestMatching runs nFetchBatches fetches and keeps only papers whose
// raw extracted text matches pattern. Non-matching PDFs are deleted from
// the content folder and their records dropped; papers with empty
// extraction are dropped without deletion. It returns the kept PDF paths
// and their records as parallel lists.
func (p *Pipeline) HarvestMatching(ctx context.Context, batchSize, nFetchBatches int, pattern *regexp.Regexp) ([]string, []*types.Paper, error) {
	var files []string
	var kept []*types.Paper

	for i := 0; i < nFetchBatches; i++ {
		papers, err := p.fetcher.Fetch(ctx, batchSize)
		if err != nil {
			return files, kept, err
		}

		for _, paper := range papers {
			pdfPath := p.downloader.Download(paper, true)

			text := p.extractor.Text(pdfPath, p.backend)
			if text == "" {
				p.logger.Info("no text extracted from the PDF", "id", paper.ID)
				continue
			}

			if !pattern.MatchString(text) {
				if err := os.Remove(pdfPath); err != nil {
					p.logger.Error("deleting non-matching PDF", "path", pdfPath, "err", err)
				}
				continue
			}

			text = extract.RemoveReferences(text)
			text = p.extractor.CleanText(text)
			paper.Text = text
			paper.Backend = p.backend

			files = append(files, pdfPath)
			kept = append(kept, paper)
		}
	}
	return files, kept, nil
}
