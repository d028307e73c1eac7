// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/arxiv-harvest/pkg/types"
)

// arXiv Atom feed XML structures. Single-category and single-author entries
// decode into one-element slices, so no single-vs-list coercion is needed
// past this schema.
type feed struct {
	Entries []entry `xml:"entry"`
}

type entry struct {
	ID         string     `xml:"id"`
	Updated    string     `xml:"updated"`
	Published  string     `xml:"published"`
	Title      string     `xml:"title"`
	Summary    string     `xml:"summary"`
	Authors    []author   `xml:"author"`
	Categories []category `xml:"category"`

	// Comment matches the arxiv:comment extension element by local name.
	Comment string `xml:"comment"`
}

type author struct {
	Name        string `xml:"name"`
	Affiliation string `xml:"affiliation"`
	Email       string `xml:"email"`
}

type category struct {
	Term string `xml:"term,attr"`
}

// pagesFiguresPattern parses "<n> pages, <m> figures" from the submitter
// comment. Tolerates missing plurals and extra spaces.
var pagesFiguresPattern = regexp.MustCompile(`(\d+) *pages*, *(\d+) *figures*`)

// pagesAndFigures extracts the page and figure counts from a comment.
// Absence of a match yields both as nil.
func pagesAndFigures(comment string) (*int, *int) {
	m := pagesFiguresPattern.FindStringSubmatch(comment)
	if m == nil {
		return nil, nil
	}
	pages, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, nil
	}
	figures, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, nil
	}
	return &pages, &figures
}

// arxivID derives the identifier from the entry's abstract URL: the last
// path segment with any ".pdf" suffix stripped. The version suffix is kept
// (e.g. "2502.10309v1").
func arxivID(entryURL string) string {
	id := entryURL
	if idx := strings.LastIndex(id, "/"); idx >= 0 {
		id = id[idx+1:]
	}
	return strings.TrimSuffix(id, ".pdf")
}

// paperAuthors converts feed authors to the exported record shape.
func paperAuthors(entryAuthors []author) []types.Author {
	authors := make([]types.Author, 0, len(entryAuthors))
	for _, a := range entryAuthors {
		authors = append(authors, types.Author{
			Name:        strings.TrimSpace(a.Name),
			Affiliation: strings.TrimSpace(a.Affiliation),
			Email:       strings.TrimSpace(a.Email),
		})
	}
	return authors
}

// categoryTerms collects the term attribute of each category element.
func categoryTerms(entryCategories []category) []string {
	terms := make([]string, 0, len(entryCategories))
	for _, c := range entryCategories {
		terms = append(terms, c.Term)
	}
	return terms
}
