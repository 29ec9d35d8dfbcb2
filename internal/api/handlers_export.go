package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmoon/examview/internal/export"
	"github.com/dmoon/examview/internal/normalize"
)

// handleExport streams the current document in the requested format.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	doc := s.session(r).Document()
	if doc == nil {
		jsonError(w, "no document loaded", http.StatusNotFound)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	now := time.Now()

	var (
		body        []byte
		err         error
		contentType string
		ext         string
	)
	switch format {
	case "csv":
		body, err = export.CSV(doc)
		contentType, ext = "text/csv; charset=utf-8", "csv"
	case "json":
		body, err = export.JSON(doc, now)
		contentType, ext = "application/json", "json"
	case "markdown", "md":
		body = export.Markdown(doc, now)
		contentType, ext = "text/markdown; charset=utf-8", "md"
	case "html":
		body, err = export.HTML(doc, now)
		contentType, ext = "text/html; charset=utf-8", "html"
	default:
		jsonError(w, fmt.Sprintf("unsupported export format: %s", format), http.StatusBadRequest)
		return
	}
	if err != nil {
		jsonError(w, "export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	base := strings.TrimSuffix(doc.SourceName, ".json")
	if base == "" {
		base = "review"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", base+"-review."+ext))
	w.Write(body)
}

// handleValidate runs the strict schema check on a posted payload without
// touching session state. Unlike loading, which stops at the first
// structural problem, this reports everything at once.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}

	resp := map[string]any{"valid": true}

	violations, err := normalize.CheckSchema(raw)
	if err != nil {
		var nerr *normalize.Error
		if errors.As(err, &nerr) {
			resp["valid"] = false
			resp["load_error"] = loadErrorBody(nerr)
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(resp)
			return
		}
		jsonError(w, "schema check failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(violations) > 0 {
		resp["valid"] = false
		resp["schema_errors"] = violations
	}

	// The fail-fast loader can reject payloads the schema tolerates
	// (and vice versa), so report its verdict alongside.
	if _, err := normalize.Normalize(raw, "validate"); err != nil {
		var nerr *normalize.Error
		if errors.As(err, &nerr) {
			resp["valid"] = false
			resp["load_error"] = loadErrorBody(nerr)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func loadErrorBody(nerr *normalize.Error) map[string]any {
	body := map[string]any{
		"kind":    nerr.Kind,
		"message": nerr.Error(),
	}
	if nerr.Index >= 0 {
		body["index"] = nerr.Index
	}
	if nerr.QuestionNo != "" {
		body["question_no"] = nerr.QuestionNo
	}
	return body
}
