// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Author is one paper author as listed in an arXiv feed entry.
type Author struct {
	// Name is the author's name.
	Name string `json:"name" yaml:"name"`

	// Affiliation is the author's affiliation, when the feed carries one.
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`

	// Email is the author's email, when the feed carries one.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// Paper holds the metadata and extracted text of one arXiv paper.
// It is built once per feed entry during a fetch and mutated exactly once
// afterwards, when the pipeline attaches the cleaned text.
type Paper struct {
	// ID is the arXiv identifier including version suffix (e.g. "2502.10309v1").
	ID string `json:"id" yaml:"id"`

	// URL is the abstract page URL (e.g. "http://arxiv.org/abs/2502.10309v1").
	URL string `json:"url" yaml:"url"`

	// PDFURL is the PDF download URL derived from URL.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// Updated is the last update timestamp. Zero when the feed omits it.
	Updated time.Time `json:"updated,omitempty" yaml:"updated,omitempty"`

	// Published is the submission timestamp. Zero when the feed omits it.
	Published time.Time `json:"published,omitempty" yaml:"published,omitempty"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Summary is the paper abstract.
	Summary string `json:"summary" yaml:"summary"`

	// Authors lists the paper authors in feed order.
	Authors []Author `json:"authors" yaml:"authors"`

	// Comment is the free-text submitter comment (e.g. "10 pages, 2 figures").
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`

	// NumPages is the page count parsed from Comment, nil when absent.
	NumPages *int `json:"n_pages,omitempty" yaml:"n_pages,omitempty"`

	// NumFigures is the figure count parsed from Comment, nil when absent.
	NumFigures *int `json:"n_figures,omitempty" yaml:"n_figures,omitempty"`

	// Categories lists the category terms of the entry.
	Categories []string `json:"categories" yaml:"categories"`

	// Backend names the extraction backend that produced Text. Empty until
	// extraction ran.
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`

	// Text is the cleaned full text. Empty until extraction ran, and kept
	// empty when extraction yielded nothing.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
}
