package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "arxiv-harvest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the metadata fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Category is the arXiv category to query (e.g. "cond-mat.str-el").
	Category string `json:"category" yaml:"category"`

	// MaxResults bounds the number of papers accepted per Fetch call.
	MaxResults int `json:"max_results" yaml:"max_results"`

	// DataDir is the content folder holding downloaded PDFs and the ledger.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// LedgerFile is the filename of the fetched-ID ledger inside DataDir.
	LedgerFile string `json:"ledger_file" yaml:"ledger_file"`
}

// DownloadConfig holds settings for the PDF download stage.
type DownloadConfig struct {
	HTTPConfig `yaml:",inline"`

	// DataDir is the content folder that receives downloaded PDFs.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// ExtractionConfig holds settings for the text extraction stage.
type ExtractionConfig struct {
	// Backend selects the extraction backend: pdftext or pdfcpu.
	Backend string `json:"backend" yaml:"backend"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Fetch      FetchConfig      `json:"fetch" yaml:"fetch"`
	Download   DownloadConfig   `json:"download" yaml:"download"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
}
