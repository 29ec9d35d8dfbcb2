package exam

// Document is the fully normalized in-memory form of one loaded exam JSON
// file. It is built once per successful load and never mutated; re-selecting
// a file replaces the whole document.
type Document struct {
	SourceName string         `json:"source_name,omitempty"`
	Meta       DocMeta        `json:"doc"`
	Defaults   map[string]any `json:"defaults,omitempty"`
	Questions  []Question     `json:"questions"`
}

// DocMeta is the optional document-level metadata block.
type DocMeta struct {
	Source             string `json:"source,omitempty"`
	PagesParsed        int    `json:"pages_parsed,omitempty"`
	HasGlobalAnswerKey bool   `json:"has_global_answer_key,omitempty"`
}

// Question is one exam item. Every optional field is present after
// normalization (empty slices, not nil), so consumers render without
// presence checks. question_no is a display label only — it need not be
// numeric or unique; navigation is always by sequence index.
type Question struct {
	QuestionNo     string          `json:"question_no"`
	Depth          string          `json:"depth"`
	Answer         Answer          `json:"answer"`
	Why            []string        `json:"why"`
	Others         []Distractor    `json:"others"`
	Findings       []string        `json:"findings"`
	RunnerUp       string          `json:"runner_up,omitempty"`
	Flags          map[string]bool `json:"flags,omitempty"`
	Confidence     *float64        `json:"confidence,omitempty"`
	Rethink        *Rethink        `json:"rethink,omitempty"`
	TeachingPoints []string        `json:"teaching_points,omitempty"`
	Metadata       map[string]any  `json:"metadata,omitempty"`
}

// Answer is the chosen option. Both fields empty means "no decision".
type Answer struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Distractor is a rejected option with its rejection reason.
type Distractor struct {
	Label  string `json:"label"`
	Text   string `json:"text"`
	Reason string `json:"reason,omitempty"`
}

// Rethink describes whether and why the model revised its first guess
// before settling on a final decision. ProvidedKey holds the label of the
// answer key supplied with the source document; it may dangle (reference a
// label no option carries) and is never cross-checked.
type Rethink struct {
	Mismatch    bool     `json:"mismatch"`
	FirstGuess  string   `json:"first_guess,omitempty"`
	ProvidedKey string   `json:"provided_key,omitempty"`
	Decision    Decision `json:"final_decision,omitempty"`
	OverrideKey bool     `json:"override_key"`
	Note        string   `json:"note,omitempty"`
}

// Flag returns whether the named flag is set.
func (q Question) Flag(name string) bool {
	return q.Flags[name]
}

// HasImages reports metadata.input_metadata.has_images. The metadata block
// is free-form, so this digs through untyped maps.
func (q Question) HasImages() bool {
	inner, ok := q.Metadata["input_metadata"].(map[string]any)
	if !ok {
		return false
	}
	b, _ := inner["has_images"].(bool)
	return b
}

// Version returns metadata.version if present.
func (q Question) Version() string {
	s, _ := q.Metadata["version"].(string)
	return s
}

// ErratumNote returns metadata.erratum_note if present.
func (q Question) ErratumNote() string {
	s, _ := q.Metadata["erratum_note"].(string)
	return s
}
