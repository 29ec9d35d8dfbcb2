// Package session holds per-session review state: the set of loaded
// documents, the currently selected one, and bounds-checked question
// access. There is no process-wide current document — every consumer gets
// its state from an explicit Session.
package session

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmoon/examview/internal/exam"
)

// IndexOutOfRangeError reports a question index outside [0, count).
// The presentation layer is expected to clamp before asking, so seeing
// this error surface means a caller bug.
type IndexOutOfRangeError struct {
	Index int
	Count int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("question index %d out of range [0, %d)", e.Index, e.Count)
}

// ErrUnknownFile is returned by Select for a name that was never loaded.
type ErrUnknownFile struct {
	Name string
}

func (e *ErrUnknownFile) Error() string {
	return fmt.Sprintf("no loaded file named %q", e.Name)
}

// Session is one review session. Documents are immutable once added;
// replacing a file swaps the whole *exam.Document pointer, so a failed
// load can never leave a half-updated document behind.
type Session struct {
	id      string
	created time.Time

	mu       sync.Mutex
	lastSeen time.Time
	files    map[string]*exam.Document
	current  string
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		id:       id,
		created:  now,
		lastSeen: now,
		files:    make(map[string]*exam.Document),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Add stores a document under its source name, replacing any previous
// document with that name. The first document added becomes current.
func (s *Session) Add(doc *exam.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[doc.SourceName] = doc
	if s.current == "" {
		s.current = doc.SourceName
	}
}

// Select makes the named file current.
func (s *Session) Select(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[name]; !ok {
		return &ErrUnknownFile{Name: name}
	}
	s.current = name
	return nil
}

// Current returns the selected file name, or "" when nothing is loaded.
func (s *Session) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// FileNames lists loaded files in sorted order.
func (s *Session) FileNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Document returns the currently selected document, or nil if none is
// loaded. The returned document must not be mutated.
func (s *Session) Document() *exam.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == "" {
		return nil
	}
	return s.files[s.current]
}

// Lookup returns the named document.
func (s *Session) Lookup(name string) (*exam.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.files[name]
	return doc, ok
}

// Count returns the question count of the current document, 0 if none.
func (s *Session) Count() int {
	doc := s.Document()
	if doc == nil {
		return 0
	}
	return len(doc.Questions)
}

// Question returns the question at index in the current document.
func (s *Session) Question(index int) (exam.Question, error) {
	doc := s.Document()
	count := 0
	if doc != nil {
		count = len(doc.Questions)
	}
	if index < 0 || index >= count {
		return exam.Question{}, &IndexOutOfRangeError{Index: index, Count: count}
	}
	return doc.Questions[index], nil
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) seen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
