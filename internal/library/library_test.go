package library

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const validDoc = `{"questions":[{"question_no":"1","answer":{"label":"2","text":"x"}}]}`

func TestScan_LoadsSortedJSONFiles(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "b.json", validDoc)
	write(t, dir, "a.json", validDoc)
	write(t, dir, "notes.txt", "not json")

	docs := Scan(dir, discard())
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].SourceName != "a.json" || docs[1].SourceName != "b.json" {
		t.Errorf("expected name order, got %s, %s", docs[0].SourceName, docs[1].SourceName)
	}
}

func TestScan_SkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "good.json", validDoc)
	write(t, dir, "syntax.json", `{"questions": [`)
	write(t, dir, "empty.json", `{"questions": []}`)

	docs := Scan(dir, discard())
	if len(docs) != 1 {
		t.Fatalf("expected only the good file, got %d documents", len(docs))
	}
	if docs[0].SourceName != "good.json" {
		t.Errorf("unexpected document %s", docs[0].SourceName)
	}
}

func TestScan_MissingDirIsEmpty(t *testing.T) {
	docs := Scan(filepath.Join(t.TempDir(), "absent"), discard())
	if len(docs) != 0 {
		t.Errorf("expected no documents, got %d", len(docs))
	}
}

func TestLoad_SingleFile(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "exam.json", validDoc)

	doc, err := Load(filepath.Join(dir, "exam.json"))
	if err != nil {
		t.Fatal(err)
	}
	if doc.SourceName != "exam.json" {
		t.Errorf("expected source name exam.json, got %q", doc.SourceName)
	}
	if len(doc.Questions) != 1 {
		t.Errorf("expected 1 question, got %d", len(doc.Questions))
	}
}

func TestLoad_ErrorsPropagate(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}

	dir := t.TempDir()
	write(t, dir, "bad.json", `{"questions": []}`)
	if _, err := Load(filepath.Join(dir, "bad.json")); err == nil {
		t.Error("expected error for invalid document")
	}
}
