// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

// recordingHandler captures log records so tests can assert on levels.
type recordingHandler struct {
	records *[]slog.Record
}

func (h recordingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h recordingHandler) Handle(_ context.Context, r slog.Record) error {
	*h.records = append(*h.records, r)
	return nil
}
func (h recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h recordingHandler) WithGroup(string) slog.Handler      { return h }

func recordingExtractor() (*Extractor, *[]slog.Record) {
	var records []slog.Record
	return NewExtractor(slog.New(recordingHandler{records: &records})), &records
}

func discardExtractor() *Extractor {
	return NewExtractor(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRemoveReferences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "no markers is a no-op",
			text: "Plain body text with no special sections.\nMore body.\n",
			want: "Plain body text with no special sections.\nMore body.\n",
		},
		{
			name: "references heading truncates",
			text: "Body text.\nReferences\n[1] Smith, J. A paper.\n[2] Jones, K. Another.",
			want: "Body text.",
		},
		{
			name: "bibliography heading truncates",
			text: "Body text.\nBibliography\n[1] Smith, J. A paper.",
			want: "Body text.",
		},
		{
			name: "citation start without heading truncates",
			text: "Body text.\n[1] Smith, J. A paper.",
			want: "Body text.",
		},
		{
			name: "case-insensitive heading",
			text: "Body text.\nREFERENCES\n[1] Smith.",
			want: "Body text.",
		},
		{
			name: "supplemental material splices",
			text: "Body text.\nReferences\n[1] Smith, J.\nSupplemental Material\nMore text",
			want: "Body text.\nSupplemental Material\nMore text",
		},
		{
			name: "appendices splices",
			text: "Body text.\nReferences\n[1] Smith, J.\nAppendices\nAppendix A",
			want: "Body text.\nAppendices\nAppendix A",
		},
		{
			name: "end marker before start is ignored",
			text: "Supplemental Material mention.\nBody.\nReferences\n[1] Smith.",
			want: "Supplemental Material mention.\nBody.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RemoveReferences(tt.text); got != tt.want {
				t.Errorf("RemoveReferences() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanText(t *testing.T) {
	e := discardExtractor()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"hyphen break repaired", "super-\nconductivity", "superconductivity"},
		{"newline runs collapse", "a\n\n\n\nb", "a b"},
		{"arxiv token stripped", "see arXiv:2301.12345v2 for details", "see for details"},
		{"space runs collapse", "a  \t b", "a b"},
		{"indentation stripped", "line one\n    line two", "line one line two"},
		{"surrounding whitespace trimmed", "  body  ", "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.CleanText(tt.text); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestCleanText_EmptyWarns(t *testing.T) {
	e, records := recordingExtractor()

	if got := e.CleanText(""); got != "" {
		t.Errorf("CleanText(\"\") = %q, want empty", got)
	}
	if len(*records) != 1 {
		t.Fatalf("log records = %d, want 1", len(*records))
	}
	if (*records)[0].Level != slog.LevelWarn {
		t.Errorf("log level = %v, want warn", (*records)[0].Level)
	}
}

func TestRemoveReferencesThenCleanText(t *testing.T) {
	e := discardExtractor()

	text := "The study of super-\nconductivity.\nReferences\n[1] Smith, J. A paper.\nSupplemental Material\nMore text"
	got := e.CleanText(RemoveReferences(text))
	want := "The study of superconductivity. Supplemental Material More text"
	if got != want {
		t.Errorf("cleaned = %q, want %q", got, want)
	}
}
