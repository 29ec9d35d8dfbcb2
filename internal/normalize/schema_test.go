package normalize

import (
	"errors"
	"testing"
)

// The strict checker and the fail-fast loader are validated side by side:
// a payload both accept is loadable, and the fixtures marked invalid must
// be rejected by at least the checker.

var validFixtures = []string{
	`{"questions":[{"question_no":"1","answer":{"label":"3","text":"x"}}]}`,
	`{
		"doc": {"source":"exam.pdf","pages_parsed":2,"has_global_answer_key":true},
		"defaults": {"depth":"shallow"},
		"questions": [{
			"question_no": "12",
			"answer": {"label":"2","text":"second"},
			"why": ["a","b"],
			"others": [{"label":"1","text":"first","reason":"off topic"}],
			"findings": ["f"],
			"runner_up": "1",
			"flags": {"illegible": true},
			"confidence": 0.75,
			"rethink": {
				"mismatch": false,
				"first_guess": "2",
				"provided_key": {"label":"2"},
				"final_decision": "agree_with_key",
				"override_key": false
			},
			"metadata": {"version":"v1"}
		}]
	}`,
	`{"questions":[{"question_no": 3, "answer":{}}]}`,
}

var invalidFixtures = []string{
	`{"questions": []}`,
	`{"notquestions": true}`,
	`{"questions": [{"answer":{}}]}`,
	`{"questions": [{"question_no":"1"}]}`,
	`{"questions": [{"question_no":"1","answer":{},"confidence":1.5}]}`,
	`{"questions": [{"question_no":"1","answer":{},"rethink":{"final_decision":"punt it"}}]}`,
	`{"questions": [{"question_no":"1","answer":{},"flags":{"illegible":"yes"}}]}`,
}

func TestCheckSchema_ValidFixtures(t *testing.T) {
	for i, raw := range validFixtures {
		violations, err := CheckSchema([]byte(raw))
		if err != nil {
			t.Fatalf("fixture %d: %v", i, err)
		}
		if len(violations) != 0 {
			t.Errorf("fixture %d: expected no violations, got %v", i, violations)
		}
		if _, err := Normalize([]byte(raw), "fixture.json"); err != nil {
			t.Errorf("fixture %d: loader rejected schema-valid payload: %v", i, err)
		}
	}
}

func TestCheckSchema_InvalidFixtures(t *testing.T) {
	for i, raw := range invalidFixtures {
		violations, err := CheckSchema([]byte(raw))
		if err != nil {
			t.Fatalf("fixture %d: %v", i, err)
		}
		if len(violations) == 0 {
			t.Errorf("fixture %d: expected schema violations, got none", i)
		}
	}
}

func TestCheckSchema_InvalidJSON(t *testing.T) {
	_, err := CheckSchema([]byte(`{"questions": [`))
	var nerr *Error
	if !errors.As(err, &nerr) || nerr.Kind != KindInvalidJSON {
		t.Errorf("expected %s error, got %v", KindInvalidJSON, err)
	}
}

// The loader tolerates some shapes the schema rejects (lenient coercion of
// the unrecognized enum value); both verdicts must be reported by the
// validate endpoint, so the divergence is intentional and pinned here.
func TestCheckSchema_StricterThanLoader(t *testing.T) {
	raw := []byte(`{"questions": [{"question_no":"1","answer":{},"rethink":{"final_decision":"punt it"}}]}`)
	violations, err := CheckSchema(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(violations) == 0 {
		t.Error("expected schema to reject unrecognized final_decision")
	}
	if _, err := Normalize(raw, "fixture.json"); err != nil {
		t.Errorf("expected loader to tolerate unrecognized final_decision, got %v", err)
	}
}
