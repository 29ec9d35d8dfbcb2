// Package library loads exam JSON files from the configured data
// directory at startup.
package library

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dmoon/examview/internal/exam"
	"github.com/dmoon/examview/internal/normalize"
)

// Load reads and normalizes a single exam JSON file.
func Load(path string) (*exam.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := normalize.Normalize(raw, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// Scan loads every *.json file in dir, in name order. Files that fail to
// parse or validate are skipped with a warning rather than aborting the
// scan — one broken file must not take the whole library down. A missing
// directory yields an empty library.
func Scan(dir string, log *slog.Logger) []*exam.Document {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("data directory unreadable", "dir", dir, "error", err)
		}
		return nil
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var docs []*exam.Document
	for _, name := range names {
		doc, err := Load(filepath.Join(dir, name))
		if err != nil {
			log.Warn("skipping data file", "file", name, "error", err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}
