package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dmoon/examview/internal/normalize"
)

// handleListFiles reports the files loaded in this session.
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	current := sess.Current()

	var files []map[string]any
	for _, name := range sess.FileNames() {
		doc, ok := sess.Lookup(name)
		if !ok {
			continue
		}
		files = append(files, map[string]any{
			"name":           name,
			"question_count": len(doc.Questions),
			"current":        name == current,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"files": files})
}

// handleUpload accepts one or more exam JSON files under the multipart
// field "files" (or a single "file"). Each file is normalized
// independently; a file that fails validation is reported in its result
// entry and changes nothing — the session keeps whatever it had.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*4+1024*1024)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["file"]
	}
	if len(headers) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	loaded := 0
	var results []map[string]any
	for _, fh := range headers {
		name := sanitizeFilename(fh.Filename)
		result := map[string]any{"name": name}
		results = append(results, result)

		f, err := fh.Open()
		if err != nil {
			result["error"] = "failed to open file"
			continue
		}
		raw, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil {
			result["error"] = "failed to read file"
			continue
		}
		if int64(len(raw)) > s.cfg.MaxUploadBytes {
			result["error"] = fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
			continue
		}

		doc, err := normalize.Normalize(raw, name)
		if err != nil {
			result["error"] = err.Error()
			var nerr *normalize.Error
			if errors.As(err, &nerr) {
				result["kind"] = nerr.Kind
				if nerr.Index >= 0 {
					result["index"] = nerr.Index
				}
			}
			continue
		}

		sess.Add(doc)
		result["question_count"] = len(doc.Questions)
		loaded++
	}

	// Optionally switch to the last successfully loaded file.
	if loaded > 0 && r.FormValue("select") == "true" {
		for i := len(results) - 1; i >= 0; i-- {
			if _, failed := results[i]["error"]; !failed {
				sess.Select(results[i]["name"].(string))
				break
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"loaded": loaded,
		"files":  results,
	})
}

// handleSelectFile switches the session's current file.
func (s *Server) handleSelectFile(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		jsonError(w, "name is required", http.StatusBadRequest)
		return
	}
	if err := sess.Select(req.Name); err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}

	doc, _ := sess.Lookup(req.Name)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"current":        req.Name,
		"question_count": len(doc.Questions),
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed.json"
	}
	return name
}
