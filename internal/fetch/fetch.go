// Package fetch implements the incremental arXiv metadata fetcher.
// It pages through the arXiv API feed for one category, validates each
// entry, skips identifiers recorded in the fetch ledger, and appends newly
// accepted identifiers to the ledger once per call.
package fetch

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/arxiv-harvest/internal/httputil"
	"github.com/pdiddy/arxiv-harvest/pkg/types"
)

// arxivAPIBase is the arXiv query endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "http://export.arxiv.org/api/query"

const (
	defaultMaxResults = 100
	defaultLedgerFile = "fetched_arxiv_ids.txt"
)

// Fetcher pages through the arXiv feed for one category.
type Fetcher struct {
	cfg    types.FetchConfig
	client *http.Client
	ledger *Ledger
	logger *slog.Logger
}

// NewFetcher creates a fetcher for the configured category. The content
// folder is created if it does not exist; the ledger lives inside it.
func NewFetcher(client *http.Client, cfg types.FetchConfig, logger *slog.Logger) (*Fetcher, error) {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	if cfg.LedgerFile == "" {
		cfg.LedgerFile = defaultLedgerFile
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", cfg.DataDir, err)
	}

	return &Fetcher{
		cfg:    cfg,
		client: client,
		ledger: NewLedger(filepath.Join(cfg.DataDir, cfg.LedgerFile)),
		logger: logger,
	}, nil
}

// Ledger returns the fetch ledger owned by this fetcher.
func (f *Fetcher) Ledger() *Ledger { return f.ledger }

// Fetch retrieves up to the configured maximum of new papers, requesting
// batchSize entries per page. Entries failing validation are skipped with
// an error log; already-ledgered identifiers are skipped silently. A page
// with zero entries ends the call immediately with an empty result and no
// ledger write. On success the accepted identifiers are appended to the
// ledger exactly once.
func (f *Fetcher) Fetch(ctx context.Context, batchSize int) ([]*types.Paper, error) {
	if batchSize <= 0 {
		batchSize = defaultMaxResults
	}

	seen, err := f.ledger.IDs()
	if err != nil {
		return nil, err
	}

	var papers []*types.Paper
	start := 0
	for len(papers) < f.cfg.MaxResults {
		remaining := f.cfg.MaxResults - len(papers)
		current := batchSize
		if remaining < current {
			current = remaining
		}

		page, err := f.queryPage(ctx, start, current)
		if err != nil {
			return nil, err
		}

		if len(page.Entries) == 0 {
			// End of results. Partial accumulation from earlier pages is
			// discarded along with the ledger write, so the same papers are
			// picked up again on the next run.
			f.logger.Info("no papers found in the response",
				"category", f.cfg.Category, "start", start)
			return nil, nil
		}

		for i := range page.Entries {
			paper, ok := f.accept(&page.Entries[i], seen)
			if !ok {
				continue
			}
			papers = append(papers, paper)
			seen[paper.ID] = struct{}{}
			f.logger.Info("paper fetched from arXiv", "id", paper.ID)

			if len(papers) >= f.cfg.MaxResults {
				break
			}
		}

		// The cursor advances by the full batch size regardless of how many
		// entries were accepted: rejected and duplicate entries consume
		// upstream offset, not result quota.
		start += batchSize
	}

	// Fail-closed: the ledger is written only when every accumulated record
	// carries an identifier.
	ids := make([]string, 0, len(papers))
	for _, p := range papers {
		if p == nil || p.ID == "" {
			f.logger.Error("malformed record in accepted batch, suppressing ledger write")
			return nil, nil
		}
		ids = append(ids, p.ID)
	}
	if err := f.ledger.Append(ids); err != nil {
		return nil, err
	}

	return papers, nil
}

// queryPage requests one feed page and decodes it.
func (f *Fetcher) queryPage(ctx context.Context, start, maxResults int) (*feed, error) {
	queryURL := fmt.Sprintf("%s?search_query=cat:%s&start=%d&max_results=%d&sortBy=submittedDate&sortOrder=descending",
		arxivAPIBase, url.QueryEscape(f.cfg.Category), start, maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, f.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var page feed
	if err := xml.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}
	return &page, nil
}

// accept validates one feed entry and builds the paper record. Validation
// failures skip only the offending entry. Duplicate identifiers are skipped
// without logging.
func (f *Fetcher) accept(e *entry, seen map[string]struct{}) (*types.Paper, bool) {
	title := strings.TrimSpace(e.Title)
	if strings.Contains(title, "Error") {
		f.logger.Error("error fetching the paper", "title", title)
		return nil, false
	}

	if e.ID == "" || !strings.Contains(e.ID, "arxiv.org") {
		f.logger.Error("paper without a valid URL id", "url_id", e.ID)
		return nil, false
	}

	summary := strings.TrimSpace(e.Summary)
	if summary == "" {
		f.logger.Error("paper without summary/abstract", "url_id", e.ID)
		return nil, false
	}

	id := arxivID(e.ID)
	if _, dup := seen[id]; dup {
		return nil, false
	}

	authors := paperAuthors(e.Authors)
	if len(authors) == 0 {
		f.logger.Info("paper without authors", "id", id)
	}

	comment := strings.TrimSpace(e.Comment)
	pages, figures := pagesAndFigures(comment)

	paper := &types.Paper{
		ID:         id,
		URL:        e.ID,
		PDFURL:     strings.Replace(e.ID, "/abs/", "/pdf/", 1),
		Title:      title,
		Summary:    summary,
		Authors:    authors,
		Comment:    comment,
		NumPages:   pages,
		NumFigures: figures,
		Categories: categoryTerms(e.Categories),
	}

	if t, err := time.Parse(time.RFC3339, e.Updated); err == nil {
		paper.Updated = t
	}
	if t, err := time.Parse(time.RFC3339, e.Published); err == nil {
		paper.Published = t
	}

	return paper, true
}
