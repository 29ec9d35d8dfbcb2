package session

import (
	"errors"
	"testing"
	"time"

	"github.com/dmoon/examview/internal/exam"
	"github.com/dmoon/examview/internal/normalize"
)

func doc(t *testing.T, name, raw string) *exam.Document {
	t.Helper()
	d, err := normalize.Normalize([]byte(raw), name)
	if err != nil {
		t.Fatalf("normalize %s: %v", name, err)
	}
	return d
}

func threeQuestions(t *testing.T, name string) *exam.Document {
	return doc(t, name, `{"questions":[
		{"question_no":"1","answer":{"label":"1","text":"a"}},
		{"question_no":"2","answer":{"label":"2","text":"b"}},
		{"question_no":"3","answer":{"label":"3","text":"c"}}
	]}`)
}

func TestSession_QuestionBounds(t *testing.T) {
	s := newSession("s1", time.Now())
	s.Add(threeQuestions(t, "a.json"))

	if s.Count() != 3 {
		t.Fatalf("expected count 3, got %d", s.Count())
	}
	for i := 0; i < 3; i++ {
		q, err := s.Question(i)
		if err != nil {
			t.Fatalf("index %d: unexpected error %v", i, err)
		}
		if q.QuestionNo == "" {
			t.Fatalf("index %d: empty question", i)
		}
	}
	for _, i := range []int{-1, 3} {
		_, err := s.Question(i)
		var oor *IndexOutOfRangeError
		if !errors.As(err, &oor) {
			t.Fatalf("index %d: expected IndexOutOfRangeError, got %v", i, err)
		}
		if oor.Index != i || oor.Count != 3 {
			t.Errorf("index %d: unexpected error details %+v", i, oor)
		}
	}
}

func TestSession_NoDocument(t *testing.T) {
	s := newSession("s1", time.Now())
	if s.Document() != nil {
		t.Error("expected nil document on fresh session")
	}
	if s.Count() != 0 {
		t.Errorf("expected count 0, got %d", s.Count())
	}
	_, err := s.Question(0)
	var oor *IndexOutOfRangeError
	if !errors.As(err, &oor) {
		t.Errorf("expected IndexOutOfRangeError, got %v", err)
	}
}

func TestSession_FirstAddBecomesCurrent(t *testing.T) {
	s := newSession("s1", time.Now())
	s.Add(threeQuestions(t, "b.json"))
	s.Add(threeQuestions(t, "a.json"))

	if got := s.Current(); got != "b.json" {
		t.Errorf("expected first file current, got %q", got)
	}
	if got := s.FileNames(); len(got) != 2 || got[0] != "a.json" || got[1] != "b.json" {
		t.Errorf("expected sorted names, got %v", got)
	}
}

func TestSession_SelectUnknown(t *testing.T) {
	s := newSession("s1", time.Now())
	s.Add(threeQuestions(t, "a.json"))

	var unknown *ErrUnknownFile
	if err := s.Select("missing.json"); !errors.As(err, &unknown) {
		t.Fatalf("expected ErrUnknownFile, got %v", err)
	}
	// A failed select leaves the current file alone.
	if got := s.Current(); got != "a.json" {
		t.Errorf("expected current unchanged, got %q", got)
	}
}

func TestSession_FailedLoadLeavesDocumentIntact(t *testing.T) {
	s := newSession("s1", time.Now())
	s.Add(threeQuestions(t, "a.json"))

	// The caller only ever Adds documents that normalized successfully;
	// a bad payload fails before reaching the session.
	if _, err := normalize.Normalize([]byte(`{"questions": []}`), "bad.json"); err == nil {
		t.Fatal("expected bad payload to fail")
	}

	if s.Count() != 3 || s.Current() != "a.json" {
		t.Error("expected prior document untouched after a failed load")
	}
}

func TestSession_ReplaceIsAtomic(t *testing.T) {
	s := newSession("s1", time.Now())
	s.Add(threeQuestions(t, "a.json"))
	before := s.Document()

	replacement := doc(t, "a.json", `{"questions":[{"question_no":"9","answer":{"label":"1","text":"new"}}]}`)
	s.Add(replacement)

	after := s.Document()
	if after == before {
		t.Fatal("expected replacement to install a new document value")
	}
	if after.Questions[0].QuestionNo != "9" || len(after.Questions) != 1 {
		t.Errorf("unexpected replacement content: %+v", after.Questions)
	}
	// The old value object is untouched.
	if len(before.Questions) != 3 {
		t.Error("expected prior document value to stay immutable")
	}
}

func TestRegistry_CreateSeedsDocuments(t *testing.T) {
	seed := []*exam.Document{threeQuestions(t, "a.json"), threeQuestions(t, "b.json")}
	r := NewRegistry(time.Hour, seed, nil)

	s := r.Create()
	if got := s.FileNames(); len(got) != 2 {
		t.Fatalf("expected 2 seeded files, got %v", got)
	}
	if s.Current() != "a.json" {
		t.Errorf("expected first seeded file current, got %q", s.Current())
	}
	if r.Get(s.ID()) != s {
		t.Error("expected Get to return the created session")
	}
	if r.Get("nope") != nil {
		t.Error("expected nil for unknown session ID")
	}
}

func TestRegistry_SweepExpiresIdleSessions(t *testing.T) {
	r := NewRegistry(time.Minute, nil, nil)
	stale := r.Create()
	fresh := r.Create()
	fresh.touch(time.Now().Add(2 * time.Minute))

	removed := r.sweep(time.Now().Add(2 * time.Minute))
	if removed != 1 {
		t.Fatalf("expected 1 expired session, got %d", removed)
	}
	if r.Get(stale.ID()) != nil {
		t.Error("expected stale session gone")
	}
	if r.Get(fresh.ID()) == nil {
		t.Error("expected fresh session kept")
	}
}
