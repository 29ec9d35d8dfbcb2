// Package export produces downloadable views of a normalized document:
// a flat CSV, a re-loadable JSON payload, and a markdown review packet
// that can also be rendered to HTML for the browser.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmoon/examview/internal/exam"
	"github.com/yuin/goldmark"
)

// CSV flattens the questions into one row each. Confidence is exported as
// a percentage with two decimals; questions without a score leave the
// column empty.
func CSV(doc *exam.Document) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"question_no", "answer_label", "answer_text", "provided_key_label",
		"final_decision", "confidence_pct", "depth", "mismatch",
		"illegible", "mixed_lang", "runner_up",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, q := range doc.Questions {
		providedKey := ""
		decision := ""
		mismatch := false
		if q.Rethink != nil {
			providedKey = q.Rethink.ProvidedKey
			decision = string(q.Rethink.Decision)
			mismatch = q.Rethink.Mismatch
		}
		confidence := ""
		if q.Confidence != nil {
			confidence = strconv.FormatFloat(*q.Confidence*100, 'f', 2, 64)
		}
		row := []string{
			q.QuestionNo, q.Answer.Label, q.Answer.Text, providedKey,
			decision, confidence, q.Depth, strconv.FormatBool(mismatch),
			strconv.FormatBool(q.Flag("illegible")), strconv.FormatBool(q.Flag("mixed_lang")),
			q.RunnerUp,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// JSON emits the normalized questions in a payload that loads back through
// the normalizer unchanged.
func JSON(doc *exam.Document, now time.Time) ([]byte, error) {
	payload := map[string]any{
		"doc":       doc.Meta,
		"questions": doc.Questions,
		"export_meta": map[string]any{
			"source_name":      doc.SourceName,
			"total_exported":   len(doc.Questions),
			"export_timestamp": now.UTC().Format(time.RFC3339),
		},
	}
	if len(doc.Defaults) > 0 {
		payload["defaults"] = doc.Defaults
	}
	return json.MarshalIndent(payload, "", "  ")
}

// Markdown renders the review packet.
func Markdown(doc *exam.Document, now time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# Exam Solution Review Packet\n\n")
	fmt.Fprintf(&b, "**Source:** %s\n\n", doc.SourceName)
	fmt.Fprintf(&b, "**Generated:** %s\n\n", now.UTC().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Total Questions:** %d\n\n---\n", len(doc.Questions))

	for i, q := range doc.Questions {
		fmt.Fprintf(&b, "\n## %d. Question %s\n\n", i+1, q.QuestionNo)

		fmt.Fprintf(&b, "**Depth:** %s  \n", q.Depth)
		if pct, ok := exam.ConfidencePercent(q); ok {
			fmt.Fprintf(&b, "**Confidence:** %d%%  \n", pct)
		}
		icon := exam.DecisionIcon(q)
		fmt.Fprintf(&b, "**Decision:** %s %s\n", icon.Emoji(), icon)

		fmt.Fprintf(&b, "\n### Chosen Answer: %s\n\n%s\n", q.Answer.Label, q.Answer.Text)

		if q.Rethink != nil && q.Rethink.ProvidedKey != "" {
			fmt.Fprintf(&b, "\n**Provided Key:** %s\n", q.Rethink.ProvidedKey)
		}
		if q.RunnerUp != "" {
			fmt.Fprintf(&b, "\n**Runner-up:** %s\n", q.RunnerUp)
		}

		if len(q.Why) > 0 {
			fmt.Fprintf(&b, "\n### Why\n\n")
			for n, reason := range q.Why {
				fmt.Fprintf(&b, "%d. %s\n", n+1, reason)
			}
		}

		if len(q.Findings) > 0 {
			fmt.Fprintf(&b, "\n### Findings\n\n")
			for _, f := range q.Findings {
				fmt.Fprintf(&b, "- %s\n", f)
			}
		}

		if len(q.Others) > 0 {
			fmt.Fprintf(&b, "\n### Other Options\n")
			for _, o := range q.Others {
				fmt.Fprintf(&b, "\n**Option %s:** %s\n", o.Label, o.Text)
				if o.Reason != "" {
					fmt.Fprintf(&b, "*Reason:* %s\n", o.Reason)
				}
			}
		}

		if q.Rethink != nil && q.Rethink.Mismatch {
			fmt.Fprintf(&b, "\n**Mismatch:** first guess was %s.\n", q.Rethink.FirstGuess)
			if q.Rethink.Note != "" {
				fmt.Fprintf(&b, "*%s*\n", q.Rethink.Note)
			}
		}

		if note := q.ErratumNote(); note != "" {
			fmt.Fprintf(&b, "\n**Erratum:** %s\n", note)
		}

		if len(q.TeachingPoints) > 0 {
			fmt.Fprintf(&b, "\n### Teaching Points\n\n")
			for _, tp := range q.TeachingPoints {
				fmt.Fprintf(&b, "- %s\n", tp)
			}
		}

		var flags []string
		for _, name := range []string{"illegible", "mixed_lang"} {
			if q.Flag(name) {
				flags = append(flags, name)
			}
		}
		if q.HasImages() {
			flags = append(flags, "has_images")
		}
		if len(flags) > 0 {
			fmt.Fprintf(&b, "\n**Flags:** %s\n", strings.Join(flags, ", "))
		}

		fmt.Fprintf(&b, "\n---\n")
	}
	return []byte(b.String())
}

// HTML renders the markdown packet to HTML for in-browser viewing.
func HTML(doc *exam.Document, now time.Time) ([]byte, error) {
	md := goldmark.New()
	var buf bytes.Buffer
	if err := md.Convert(Markdown(doc, now), &buf); err != nil {
		return nil, fmt.Errorf("render packet: %w", err)
	}
	return buf.Bytes(), nil
}
