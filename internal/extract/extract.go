// Package extract pulls plain text out of downloaded PDFs through a closed
// set of named backends and applies the heuristic cleanup passes. Extraction
// failures are local-recovery: they are logged and surfaced as empty text,
// never as an error to the caller.
package extract

import (
	"log/slog"
	"os"
	"sort"
	"strings"
)

// Backend is one interchangeable text-extraction strategy. Pages returns
// the text of each page of the document in order.
type Backend interface {
	Name() string
	Pages(path string) ([]string, error)
}

// Extractor holds the backend registry. The registry is closed: exactly
// the pdftext and pdfcpu backends are supported.
type Extractor struct {
	backends map[string]Backend
	logger   *slog.Logger
}

// NewExtractor creates an extractor with both supported backends registered.
func NewExtractor(logger *slog.Logger) *Extractor {
	backends := make(map[string]Backend)
	for _, b := range []Backend{&PDFTextBackend{}, &PDFCPUBackend{}} {
		backends[b.Name()] = b
	}
	return &Extractor{backends: backends, logger: logger}
}

// Backends returns the registered backend names, sorted.
func (e *Extractor) Backends() []string {
	names := make([]string, 0, len(e.backends))
	for name := range e.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Text extracts the concatenated page text of the PDF at path using the
// named backend. An invalid path, an unknown backend name, or a backend
// failure yields an empty string after logging.
func (e *Extractor) Text(path, backend string) string {
	if !e.validPDFPath(path) {
		return ""
	}

	b, ok := e.backends[backend]
	if !ok {
		e.logger.Error("backend not available", "backend", backend, "available", e.Backends())
		return ""
	}

	pages, err := b.Pages(path)
	if err != nil {
		e.logger.Error("text extraction failed", "backend", backend, "path", path, "err", err)
		return ""
	}
	return strings.Join(pages, "")
}

func (e *Extractor) validPDFPath(path string) bool {
	if path == "" {
		e.logger.Error("no PDF path provided, returning empty text")
		return false
	}
	if !strings.HasSuffix(path, ".pdf") {
		e.logger.Error("path is not a PDF", "path", path)
		return false
	}
	if _, err := os.Stat(path); err != nil {
		e.logger.Error("PDF path does not exist", "path", path)
		return false
	}
	return true
}
