package exam

import "testing"

func answered() Question {
	return Question{
		QuestionNo: "1",
		Answer:     Answer{Label: "3", Text: "the third option"},
	}
}

func TestDecisionIcon_EmptyAnswerAlwaysNoDecision(t *testing.T) {
	rethinks := []*Rethink{
		nil,
		{Decision: DecisionAgree},
		{Decision: DecisionOverride},
		{Mismatch: true, OverrideKey: true},
	}
	for _, r := range rethinks {
		q := Question{QuestionNo: "1", Rethink: r}
		if got := DecisionIcon(q); got != IconNoDecision {
			t.Errorf("rethink %+v: expected %s, got %s", r, IconNoDecision, got)
		}
	}
}

func TestDecisionIcon_NoRethinkIsAgreeClean(t *testing.T) {
	if got := DecisionIcon(answered()); got != IconAgreeClean {
		t.Errorf("expected %s, got %s", IconAgreeClean, got)
	}
}

func TestDecisionIcon_OverrideIgnoresMismatch(t *testing.T) {
	for _, mismatch := range []bool{true, false} {
		q := answered()
		q.Rethink = &Rethink{Decision: DecisionOverride, Mismatch: mismatch}
		if got := DecisionIcon(q); got != IconOverride {
			t.Errorf("mismatch=%v: expected %s, got %s", mismatch, IconOverride, got)
		}
	}
}

func TestDecisionIcon_AgreeWithMismatch(t *testing.T) {
	q := answered()
	q.Rethink = &Rethink{Decision: DecisionAgree, Mismatch: true}
	if got := DecisionIcon(q); got != IconAgreeAfterMismatch {
		t.Errorf("expected %s, got %s", IconAgreeAfterMismatch, got)
	}

	q.Rethink.Mismatch = false
	if got := DecisionIcon(q); got != IconAgreeClean {
		t.Errorf("expected %s, got %s", IconAgreeClean, got)
	}
}

func TestDecisionIcon_OverrideKeyFallback(t *testing.T) {
	tests := []struct {
		name    string
		rethink Rethink
		want    Icon
	}{
		{"override flag true", Rethink{OverrideKey: true}, IconOverride},
		{"override flag false", Rethink{OverrideKey: false}, IconAgreeClean},
		{"override flag false with mismatch", Rethink{Mismatch: true}, IconAgreeAfterMismatch},
		{"unrecognized decision falls back", Rethink{Decision: "punt", OverrideKey: true}, IconOverride},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := answered()
			r := tc.rethink
			q.Rethink = &r
			if got := DecisionIcon(q); got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestParseDecision(t *testing.T) {
	tests := []struct {
		in   string
		want Decision
	}{
		{"agree_with_key", DecisionAgree},
		{"override_key", DecisionOverride},
		{"", DecisionNone},
		{"AGREE_WITH_KEY", DecisionNone},
		{"maybe", DecisionNone},
	}
	for _, tc := range tests {
		if got := ParseDecision(tc.in); got != tc.want {
			t.Errorf("ParseDecision(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestConfidencePercent_Rounds(t *testing.T) {
	tests := []struct {
		confidence float64
		want       int
	}{
		{0.9534, 95},
		{0.956, 96},
		{0.0, 0},
		{1.0, 100},
		{0.004, 0},
	}
	for _, tc := range tests {
		q := answered()
		c := tc.confidence
		q.Confidence = &c
		pct, ok := ConfidencePercent(q)
		if !ok {
			t.Fatalf("confidence %v: expected ok", tc.confidence)
		}
		if pct != tc.want {
			t.Errorf("confidence %v: expected %d%%, got %d%%", tc.confidence, tc.want, pct)
		}
	}
}

func TestConfidencePercent_AbsentStaysAbsent(t *testing.T) {
	if _, ok := ConfidencePercent(answered()); ok {
		t.Error("expected absent confidence to report not-ok, never 0%")
	}
}

func TestIconEmoji(t *testing.T) {
	if IconAgreeClean.Emoji() == IconOverride.Emoji() {
		t.Error("expected distinct glyphs per icon")
	}
	if IconNoDecision.Emoji() != "⚪" {
		t.Errorf("unexpected no-decision glyph %q", IconNoDecision.Emoji())
	}
}
