// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Ledger is the append-only file of already-fetched arXiv identifiers,
// one per line. An identifier present in the ledger is never re-fetched
// in a later run.
type Ledger struct {
	path string
}

// NewLedger returns a ledger backed by the file at path. The file is not
// created until the first append.
func NewLedger(path string) *Ledger {
	return &Ledger{path: path}
}

// Path returns the ledger file location.
func (l *Ledger) Path() string { return l.path }

// IDs reads the ledger into a set. A missing file yields an empty set.
// Blank lines are ignored.
func (l *Ledger) IDs() (map[string]struct{}, error) {
	ids := make(map[string]struct{})

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ids, nil
		}
		return nil, fmt.Errorf("opening ledger %s: %w", l.path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id == "" {
			continue
		}
		ids[id] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", l.path, err)
	}
	return ids, nil
}

// List reads the ledger preserving file order. A missing file yields nil.
func (l *Ledger) List() ([]string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ledger %s: %w", l.path, err)
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", l.path, err)
	}
	return ids, nil
}

// Append writes the given identifiers to the end of the ledger, creating
// the file if needed.
func (l *Ledger) Append(ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening ledger %s: %w", l.path, err)
	}
	defer f.Close()

	for _, id := range ids {
		if _, err := fmt.Fprintln(f, id); err != nil {
			return fmt.Errorf("appending to ledger %s: %w", l.path, err)
		}
	}
	return nil
}
