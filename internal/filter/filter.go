// Package filter narrows a document's question list for the table and
// summary views.
package filter

import (
	"strings"

	"github.com/dmoon/examview/internal/exam"
)

// Options describes which questions to keep. Zero-value fields do not
// filter. Pointer fields distinguish "don't care" from "must be false".
type Options struct {
	Decisions     []exam.Decision // resolved decision must be one of these
	Depths        []string
	Mismatch      *bool
	HasImages     *bool
	FlagsTrue     []string // all named flags must be set
	MinConfidence *float64
	MaxConfidence *float64
	Search        string // case-insensitive substring, see matchesSearch
}

// Match pairs a kept question with its original sequence index, which the
// navigator needs for jump-to-question.
type Match struct {
	Index    int
	Question exam.Question
}

// Apply returns the questions matching every set option, preserving
// input order.
func Apply(questions []exam.Question, opts Options) []Match {
	matches := make([]Match, 0, len(questions))
	for i, q := range questions {
		if !matches1(q, opts) {
			continue
		}
		matches = append(matches, Match{Index: i, Question: q})
	}
	return matches
}

func matches1(q exam.Question, opts Options) bool {
	if len(opts.Decisions) > 0 && !containsDecision(opts.Decisions, resolvedDecision(q)) {
		return false
	}
	if len(opts.Depths) > 0 && !containsString(opts.Depths, q.Depth) {
		return false
	}
	if opts.Mismatch != nil {
		mismatch := q.Rethink != nil && q.Rethink.Mismatch
		if mismatch != *opts.Mismatch {
			return false
		}
	}
	if opts.HasImages != nil && q.HasImages() != *opts.HasImages {
		return false
	}
	for _, name := range opts.FlagsTrue {
		if !q.Flag(name) {
			return false
		}
	}
	if opts.MinConfidence != nil || opts.MaxConfidence != nil {
		// Questions without a confidence score are excluded once either
		// bound is set: absent is not zero.
		if q.Confidence == nil {
			return false
		}
		if opts.MinConfidence != nil && *q.Confidence < *opts.MinConfidence {
			return false
		}
		if opts.MaxConfidence != nil && *q.Confidence > *opts.MaxConfidence {
			return false
		}
	}
	if term := strings.TrimSpace(opts.Search); term != "" && !matchesSearch(q, term) {
		return false
	}
	return true
}

// resolvedDecision mirrors the icon resolution: decision enum first, then
// the override_key flag; no rethink reads as agreement when an answer
// exists and as none otherwise.
func resolvedDecision(q exam.Question) exam.Decision {
	switch exam.DecisionIcon(q) {
	case exam.IconOverride:
		return exam.DecisionOverride
	case exam.IconAgreeClean, exam.IconAgreeAfterMismatch:
		return exam.DecisionAgree
	default:
		return exam.DecisionNone
	}
}

// matchesSearch looks for term in the answer text, the why and findings
// entries, and each distractor's text and reason.
func matchesSearch(q exam.Question, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(q.Answer.Text), term) {
		return true
	}
	for _, w := range q.Why {
		if strings.Contains(strings.ToLower(w), term) {
			return true
		}
	}
	for _, f := range q.Findings {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	for _, o := range q.Others {
		if strings.Contains(strings.ToLower(o.Text), term) ||
			strings.Contains(strings.ToLower(o.Reason), term) {
			return true
		}
	}
	return false
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsDecision(haystack []exam.Decision, needle exam.Decision) bool {
	for _, d := range haystack {
		if d == needle {
			return true
		}
	}
	return false
}
