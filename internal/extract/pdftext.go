// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFTextBackend extracts plain text per page using the ledongthuc/pdf
// reader.
type PDFTextBackend struct{}

// Name returns the backend identifier.
func (*PDFTextBackend) Name() string { return "pdftext" }

// Pages reads the PDF at path and returns the plain text of each page.
func (*PDFTextBackend) Pages(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extracting page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
