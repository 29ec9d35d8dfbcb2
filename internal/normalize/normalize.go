// Package normalize turns raw exam-answer JSON into the typed exam model.
//
// Validation is fail-fast and structural only: root shape, the questions
// array, and per-question question_no/answer presence. Everything else is
// optional and filled with documented defaults, so downstream code never
// touches untyped maps or checks for missing fields.
package normalize

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/dmoon/examview/internal/exam"
)

// fallbackDepth applies when neither the question nor the defaults block
// carries a depth.
const fallbackDepth = "shallow"

// Normalize parses and validates raw JSON bytes into a Document.
// sourceName is the display identifier (usually the file name).
func Normalize(raw []byte, sourceName string) (*exam.Document, error) {
	var root any
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, &Error{Kind: KindInvalidJSON, Index: -1, cause: err}
	}
	return FromValue(root, sourceName)
}

// FromValue normalizes an already-parsed JSON value.
func FromValue(root any, sourceName string) (*exam.Document, error) {
	obj, ok := root.(map[string]any)
	if !ok {
		return nil, &Error{Kind: KindMalformedRoot, Index: -1}
	}

	rawQuestions, ok := obj["questions"]
	if !ok {
		return nil, &Error{Kind: KindMissingQuestions, Index: -1}
	}
	arr, ok := rawQuestions.([]any)
	if !ok {
		return nil, &Error{Kind: KindMissingQuestions, Index: -1}
	}
	if len(arr) == 0 {
		return nil, &Error{Kind: KindEmptyQuestions, Index: -1}
	}

	defaults := asObject(obj["defaults"])

	doc := &exam.Document{
		SourceName: sourceName,
		Meta:       docMeta(obj),
		Defaults:   defaults,
		Questions:  make([]exam.Question, 0, len(arr)),
	}

	for i, el := range arr {
		qm, ok := el.(map[string]any)
		if !ok {
			return nil, &Error{Kind: KindMalformedQuestion, Index: i}
		}
		q, err := normalizeQuestion(qm, defaults, i)
		if err != nil {
			return nil, err
		}
		doc.Questions = append(doc.Questions, q)
	}
	return doc, nil
}

func docMeta(obj map[string]any) exam.DocMeta {
	m := asObject(obj["doc"])
	pages := 0
	if f, ok := m["pages_parsed"].(float64); ok && f >= 0 {
		pages = int(f)
	}
	return exam.DocMeta{
		Source:             asString(m["source"]),
		PagesParsed:        pages,
		HasGlobalAnswerKey: asBool(m["has_global_answer_key"]),
	}
}

func normalizeQuestion(qm map[string]any, defaults map[string]any, index int) (exam.Question, error) {
	merged := mergeDefaults(qm, defaults)

	qno := asString(merged["question_no"])
	if qno == "" {
		return exam.Question{}, &Error{Kind: KindMissingQuestionNo, Index: index}
	}

	am, ok := merged["answer"].(map[string]any)
	if !ok {
		return exam.Question{}, &Error{Kind: KindMissingAnswer, Index: index, QuestionNo: qno}
	}

	depth := asString(merged["depth"])
	if depth == "" {
		depth = fallbackDepth
	}

	q := exam.Question{
		QuestionNo: qno,
		Depth:      depth,
		Answer: exam.Answer{
			Label: asString(am["label"]),
			Text:  asString(am["text"]),
		},
		Why:            asStrings(merged["why"]),
		Others:         asDistractors(merged["others"]),
		Findings:       asStrings(merged["findings"]),
		RunnerUp:       asString(merged["runner_up"]),
		Flags:          asFlags(merged["flags"]),
		Confidence:     asNumber(merged["confidence"]),
		Rethink:        asRethink(merged["rethink"]),
		TeachingPoints: asStringsOrNil(merged["teaching_points"]),
		Metadata:       asObject(merged["metadata"]),
	}
	return q, nil
}

// mergeDefaults applies the top-level defaults block: any key the question
// leaves absent or null takes the default's value. The merge is shallow —
// a default can never reach into a nested object. The input map is not
// mutated, and iteration over a copy-then-assign keeps question values
// authoritative.
func mergeDefaults(qm map[string]any, defaults map[string]any) map[string]any {
	if len(defaults) == 0 {
		return qm
	}
	merged := make(map[string]any, len(qm)+len(defaults))
	for k, v := range qm {
		merged[k] = v
	}
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v, ok := merged[k]; !ok || v == nil {
			merged[k] = defaults[k]
		}
	}
	return merged
}

// asString coerces a JSON scalar to a display string. Numbers are rendered
// without a trailing ".0" so a numeric question_no reads naturally.
func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// asNumber returns a pointer so "absent" stays distinguishable from zero.
func asNumber(v any) *float64 {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}

func asObject(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// asStrings always returns a non-nil slice: consumers render lists without
// presence checks, and the normalized form marshals as [] rather than null.
func asStrings(v any) []string {
	arr, _ := v.([]any)
	out := make([]string, 0, len(arr))
	for _, el := range arr {
		if s := asString(el); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// asStringsOrNil is asStrings for fields that stay absent when missing.
func asStringsOrNil(v any) []string {
	if _, ok := v.([]any); !ok {
		return nil
	}
	out := asStrings(v)
	if len(out) == 0 {
		return nil
	}
	return out
}

func asDistractors(v any) []exam.Distractor {
	arr, _ := v.([]any)
	out := make([]exam.Distractor, 0, len(arr))
	for _, el := range arr {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, exam.Distractor{
			Label:  asString(m["label"]),
			Text:   asString(m["text"]),
			Reason: asString(m["reason"]),
		})
	}
	return out
}

// asFlags keeps every key of the flags object, known or not.
func asFlags(v any) map[string]bool {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil
	}
	out := make(map[string]bool, len(m))
	for k, fv := range m {
		out[k] = asBool(fv)
	}
	return out
}

func asRethink(v any) *exam.Rethink {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return &exam.Rethink{
		Mismatch:    asBool(m["mismatch"]),
		FirstGuess:  asGuess(m["first_guess"]),
		ProvidedKey: asLabelRef(m["provided_key"]),
		Decision:    exam.ParseDecision(asString(m["final_decision"])),
		OverrideKey: asBool(m["override_key"]),
		Note:        asString(m["note"]),
	}
}

// asGuess accepts the two shapes first_guess appears in: a bare label
// string, or an object with label and text.
func asGuess(v any) string {
	if m, ok := v.(map[string]any); ok {
		label := asString(m["label"])
		text := asString(m["text"])
		if label != "" && text != "" {
			return fmt.Sprintf("%s. %s", label, text)
		}
		if label != "" {
			return label
		}
		return text
	}
	return asString(v)
}

// asLabelRef accepts either {"label": "3"} or a bare "3".
func asLabelRef(v any) string {
	if m, ok := v.(map[string]any); ok {
		return asString(m["label"])
	}
	return asString(v)
}
