// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLedgerIDs_MissingFile(t *testing.T) {
	l := NewLedger(filepath.Join(t.TempDir(), "fetched_arxiv_ids.txt"))

	ids, err := l.IDs()
	if err != nil {
		t.Fatalf("IDs() error = %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("IDs() = %v, want empty set", ids)
	}
}

func TestLedgerAppendAndRead(t *testing.T) {
	l := NewLedger(filepath.Join(t.TempDir(), "fetched_arxiv_ids.txt"))

	if err := l.Append([]string{"1234.5678v1", "2345.6789v1"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := l.Append([]string{"3456.7890v2"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	ids, err := l.IDs()
	if err != nil {
		t.Fatalf("IDs() error = %v", err)
	}
	for _, want := range []string{"1234.5678v1", "2345.6789v1", "3456.7890v2"} {
		if _, ok := ids[want]; !ok {
			t.Errorf("IDs() missing %q", want)
		}
	}
	if len(ids) != 3 {
		t.Errorf("IDs() size = %d, want 3", len(ids))
	}

	list, err := l.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"1234.5678v1", "2345.6789v1", "3456.7890v2"}
	if len(list) != len(want) {
		t.Fatalf("List() = %v, want %v", list, want)
	}
	for i := range want {
		if list[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, list[i], want[i])
		}
	}
}

func TestLedgerIDs_IgnoresBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fetched_arxiv_ids.txt")
	if err := os.WriteFile(path, []byte("1234.5678v1\n\n  \n2345.6789v1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ids, err := NewLedger(path).IDs()
	if err != nil {
		t.Fatalf("IDs() error = %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("IDs() size = %d, want 2", len(ids))
	}
}

func TestLedgerAppend_EmptyIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fetched_arxiv_ids.txt")
	l := NewLedger(path)

	if err := l.Append(nil); err != nil {
		t.Fatalf("Append(nil) error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Append(nil) created the ledger file")
	}
}
