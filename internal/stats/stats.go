// Package stats computes the KPI summary for a question set. Every figure
// is a count or mean over fields already present in the source JSON;
// nothing here judges correctness.
package stats

import (
	"github.com/dmoon/examview/internal/exam"
)

// Summary is the KPI block rendered above the question table.
type Summary struct {
	TotalQuestions int `json:"total_questions"`

	AgreeWithKey int `json:"agree_with_key"`
	OverrideKey  int `json:"override_key"`
	Undecided    int `json:"undecided"`
	Mismatches   int `json:"mismatches"`

	// AvgConfidence is the mean over questions that carry a score;
	// nil when none do. WithConfidence says how many contributed.
	AvgConfidence  *float64 `json:"avg_confidence,omitempty"`
	WithConfidence int      `json:"with_confidence"`

	FlagCounts        map[string]int `json:"flag_counts,omitempty"`
	AnswerLabelCounts map[string]int `json:"answer_label_counts,omitempty"`

	WithRunnerUp int `json:"with_runner_up"`
	WithImages   int `json:"with_images"`
}

// Summarize computes the summary for a question sequence.
func Summarize(questions []exam.Question) Summary {
	s := Summary{TotalQuestions: len(questions)}
	flagCounts := make(map[string]int)
	labelCounts := make(map[string]int)

	var confSum float64
	for _, q := range questions {
		switch exam.DecisionIcon(q) {
		case exam.IconOverride:
			s.OverrideKey++
		case exam.IconAgreeClean:
			s.AgreeWithKey++
		case exam.IconAgreeAfterMismatch:
			s.AgreeWithKey++
		default:
			s.Undecided++
		}
		if q.Rethink != nil && q.Rethink.Mismatch {
			s.Mismatches++
		}
		if q.Confidence != nil {
			confSum += *q.Confidence
			s.WithConfidence++
		}
		for name, set := range q.Flags {
			if set {
				flagCounts[name]++
			}
		}
		if q.Answer.Label != "" {
			labelCounts[q.Answer.Label]++
		}
		if q.RunnerUp != "" {
			s.WithRunnerUp++
		}
		if q.HasImages() {
			s.WithImages++
		}
	}

	if s.WithConfidence > 0 {
		avg := confSum / float64(s.WithConfidence)
		s.AvgConfidence = &avg
	}
	if len(flagCounts) > 0 {
		s.FlagCounts = flagCounts
	}
	if len(labelCounts) > 0 {
		s.AnswerLabelCounts = labelCounts
	}
	return s
}
