// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFCPUBackend extracts text by decoding the content stream of each page
// with pdfcpu. It handles literal-string text-show operators; hex strings
// and CID-encoded fonts come out empty.
type PDFCPUBackend struct{}

// Name returns the backend identifier.
func (*PDFCPUBackend) Name() string { return "pdfcpu" }

// Pages returns the decoded text of each page of the PDF at path.
func (*PDFCPUBackend) Pages(path string) ([]string, error) {
	count, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("counting pages: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("reading PDF: %w", err)
	}

	pages := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		r, err := api.ExtractPage(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("extracting page %d content: %w", i, err)
		}
		content, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading page %d content: %w", i, err)
		}
		pages = append(pages, decodeContentText(content))
	}
	return pages, nil
}

// literalStringPattern matches a PDF literal string, tolerating escaped
// parentheses and backslashes.
var literalStringPattern = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)`)

// decodeContentText pulls the text-show operator arguments out of a raw
// page content stream. Positioning operators that start a new line in the
// source layout are mapped to newlines so the cleaning heuristics can see
// line structure.
func decodeContentText(content []byte) string {
	var b strings.Builder
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasSuffix(line, "Tj"), strings.HasSuffix(line, "TJ"),
			strings.HasSuffix(line, "'"), strings.HasSuffix(line, "\""):
			for _, m := range literalStringPattern.FindAllStringSubmatch(line, -1) {
				b.WriteString(unescapeLiteral(m[1]))
			}
		case strings.HasSuffix(line, "Td"), strings.HasSuffix(line, "TD"),
			line == "T*", strings.HasSuffix(line, "ET"):
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// unescapeLiteral resolves PDF literal-string escape sequences.
func unescapeLiteral(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			break
		}
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case '(', ')', '\\':
			b.WriteByte(s[i])
		case '0', '1', '2', '3', '4', '5', '6', '7':
			// Octal escape, up to three digits.
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			if code, err := strconv.ParseUint(s[i:j], 8, 16); err == nil {
				b.WriteByte(byte(code))
			}
			i = j - 1
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
