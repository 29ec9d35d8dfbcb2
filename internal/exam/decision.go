package exam

import "math"

// Decision is the recognized set of rethink.final_decision values. Anything
// else (including absence) maps to DecisionNone so new values are an explicit
// addition here rather than a scattered string comparison.
type Decision string

const (
	DecisionNone     Decision = ""
	DecisionAgree    Decision = "agree_with_key"
	DecisionOverride Decision = "override_key"
)

// ParseDecision maps a raw final_decision string onto the closed set.
func ParseDecision(s string) Decision {
	switch Decision(s) {
	case DecisionAgree:
		return DecisionAgree
	case DecisionOverride:
		return DecisionOverride
	default:
		return DecisionNone
	}
}

// Icon is the four-state summary of a question's outcome.
type Icon string

const (
	IconNoDecision         Icon = "no_decision"
	IconAgreeClean         Icon = "agree_clean"
	IconAgreeAfterMismatch Icon = "agree_after_mismatch"
	IconOverride           Icon = "override"
)

// Emoji returns the display glyph for the icon.
func (i Icon) Emoji() string {
	switch i {
	case IconAgreeClean:
		return "\U0001F7E2" // green circle
	case IconAgreeAfterMismatch:
		return "\U0001F7E0" // orange circle
	case IconOverride:
		return "\U0001F534" // red circle
	default:
		return "⚪" // white circle
	}
}

// DecisionIcon computes the icon for a question. It is a pure function of
// (answer, rethink) and is recomputed on every call, never stored.
//
// An empty answer always wins: no decision was made, whatever the rethink
// block claims. Otherwise the final_decision enum is preferred; if it is
// unrecognized or absent the override_key flag decides; a question with no
// rethink block at all counts as a clean agreement.
func DecisionIcon(q Question) Icon {
	if q.Answer.Label == "" && q.Answer.Text == "" {
		return IconNoDecision
	}
	r := q.Rethink
	if r == nil {
		return IconAgreeClean
	}
	d := r.Decision
	if d != DecisionAgree && d != DecisionOverride {
		if r.OverrideKey {
			d = DecisionOverride
		} else {
			d = DecisionAgree
		}
	}
	if d == DecisionOverride {
		return IconOverride
	}
	if r.Mismatch {
		return IconAgreeAfterMismatch
	}
	return IconAgreeClean
}

// ConfidencePercent converts a [0,1] confidence to a rounded integer
// percentage. ok is false when confidence is absent — missing data is never
// rendered as 0%.
func ConfidencePercent(q Question) (pct int, ok bool) {
	if q.Confidence == nil {
		return 0, false
	}
	return int(math.Round(*q.Confidence * 100)), true
}
