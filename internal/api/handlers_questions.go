package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmoon/examview/internal/exam"
	"github.com/dmoon/examview/internal/filter"
	"github.com/dmoon/examview/internal/stats"
	"github.com/go-chi/chi/v5"
)

// handleDocument returns the current document's metadata and size.
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	doc := s.session(r).Document()
	if doc == nil {
		jsonError(w, "no document loaded", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"source_name":    doc.SourceName,
		"doc":            doc.Meta,
		"defaults":       doc.Defaults,
		"question_count": len(doc.Questions),
	})
}

// handleListQuestions returns one summary row per question matching the
// query filters. Index is the position in the full sequence so the client
// can jump straight to the detail view.
func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	doc := s.session(r).Document()
	if doc == nil {
		jsonError(w, "no document loaded", http.StatusNotFound)
		return
	}

	opts, err := filterOptions(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	matches := filter.Apply(doc.Questions, opts)
	rows := make([]map[string]any, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, summaryRow(m.Index, m.Question))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"total":     len(doc.Questions),
		"matched":   len(matches),
		"questions": rows,
	})
}

// handleGetQuestion returns the full question at a sequence index.
func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		jsonError(w, "index must be an integer", http.StatusBadRequest)
		return
	}
	q, err := sess.Question(index)
	if err != nil {
		// A well-behaved client clamps before asking; still, answer
		// with the structured kind rather than a bare 404.
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": err.Error(),
			"kind":  "index_out_of_range",
			"count": sess.Count(),
		})
		return
	}

	icon := exam.DecisionIcon(q)
	resp := map[string]any{
		"index":         index,
		"count":         sess.Count(),
		"question":      q,
		"decision_icon": icon,
		"icon_emoji":    icon.Emoji(),
	}
	if pct, ok := exam.ConfidencePercent(q); ok {
		resp["confidence_pct"] = pct
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleSummary returns the KPI block over the filtered question set.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	doc := s.session(r).Document()
	if doc == nil {
		jsonError(w, "no document loaded", http.StatusNotFound)
		return
	}

	opts, err := filterOptions(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	matches := filter.Apply(doc.Questions, opts)
	questions := make([]exam.Question, 0, len(matches))
	for _, m := range matches {
		questions = append(questions, m.Question)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"source_name": doc.SourceName,
		"summary":     stats.Summarize(questions),
	})
}

func summaryRow(index int, q exam.Question) map[string]any {
	icon := exam.DecisionIcon(q)
	row := map[string]any{
		"index":         index,
		"question_no":   q.QuestionNo,
		"answer_label":  q.Answer.Label,
		"depth":         q.Depth,
		"decision_icon": icon,
		"icon_emoji":    icon.Emoji(),
		"mismatch":      q.Rethink != nil && q.Rethink.Mismatch,
	}
	if pct, ok := exam.ConfidencePercent(q); ok {
		row["confidence_pct"] = pct
	}
	return row
}

// filterOptions parses the shared filtering query parameters.
func filterOptions(r *http.Request) (filter.Options, error) {
	var opts filter.Options
	query := r.URL.Query()

	for _, d := range splitList(query.Get("decision")) {
		switch d {
		case string(exam.DecisionAgree), string(exam.DecisionOverride), "none":
			if d == "none" {
				opts.Decisions = append(opts.Decisions, exam.DecisionNone)
			} else {
				opts.Decisions = append(opts.Decisions, exam.Decision(d))
			}
		default:
			return opts, &badParamError{param: "decision", value: d}
		}
	}
	opts.Depths = splitList(query.Get("depth"))
	opts.FlagsTrue = query["flag"]
	opts.Search = query.Get("q")

	var err error
	if opts.Mismatch, err = boolParam(query.Get("mismatch"), "mismatch"); err != nil {
		return opts, err
	}
	if opts.HasImages, err = boolParam(query.Get("has_images"), "has_images"); err != nil {
		return opts, err
	}
	if opts.MinConfidence, err = floatParam(query.Get("min_confidence"), "min_confidence"); err != nil {
		return opts, err
	}
	if opts.MaxConfidence, err = floatParam(query.Get("max_confidence"), "max_confidence"); err != nil {
		return opts, err
	}
	return opts, nil
}

type badParamError struct {
	param string
	value string
}

func (e *badParamError) Error() string {
	return "invalid value " + strconv.Quote(e.value) + " for parameter " + e.param
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func boolParam(s, name string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, &badParamError{param: name, value: s}
	}
	return &b, nil
}

func floatParam(s, name string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, &badParamError{param: name, value: s}
	}
	return &f, nil
}
