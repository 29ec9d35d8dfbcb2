package normalize

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// The strict checker complements the fail-fast normalizer: it validates a
// payload against the canonical JSON Schema and reports every violation at
// once, which is what a user fixing a hand-edited file wants from the
// /api/validate endpoint.

//go:embed exam.schema.json
var examSchemaJSON []byte

var compileOnce = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("exam.schema.json", bytes.NewReader(examSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile("exam.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
})

// CheckSchema validates raw JSON against the exam document schema and
// returns one message per violation. An empty slice means the payload
// conforms. A JSON syntax error is returned as err, not a violation.
func CheckSchema(raw []byte) ([]string, error) {
	schema, err := compileOnce()
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &Error{Kind: KindInvalidJSON, Index: -1, cause: err}
	}
	err = schema.Validate(v)
	if err == nil {
		return nil, nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, err
	}
	return flattenViolations(ve), nil
}

// flattenViolations collects leaf causes so the caller sees concrete
// violations rather than the aggregate "doesn't validate" node.
func flattenViolations(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return []string{fmt.Sprintf("%s: %s", loc, ve.Message)}
	}
	var out []string
	for _, cause := range ve.Causes {
		out = append(out, flattenViolations(cause)...)
	}
	return out
}
