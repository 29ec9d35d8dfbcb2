package normalize

import "fmt"

// Kind classifies a load failure. All kinds are recoverable: the caller
// keeps its previous document and reports the message to the user.
type Kind string

const (
	KindInvalidJSON       Kind = "invalid_json"
	KindMalformedRoot     Kind = "malformed_root"
	KindMissingQuestions  Kind = "missing_questions"
	KindEmptyQuestions    Kind = "empty_questions"
	KindMalformedQuestion Kind = "malformed_question"
	KindMissingQuestionNo Kind = "missing_question_no"
	KindMissingAnswer     Kind = "missing_answer"
)

// Error is a structural validation failure. Index is the zero-based
// question index for per-question kinds and -1 otherwise. Validation is
// fail-fast, so a load reports at most one Error.
type Error struct {
	Kind       Kind
	Index      int
	QuestionNo string
	cause      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidJSON:
		return fmt.Sprintf("invalid JSON: %v", e.cause)
	case KindMalformedRoot:
		return "top-level value must be a JSON object"
	case KindMissingQuestions:
		return `missing "questions" array`
	case KindEmptyQuestions:
		return `"questions" array is empty`
	case KindMalformedQuestion:
		return fmt.Sprintf("questions[%d] is not an object", e.Index)
	case KindMissingQuestionNo:
		return fmt.Sprintf("questions[%d] has no question_no", e.Index)
	case KindMissingAnswer:
		return fmt.Sprintf("questions[%d] (question_no %q) has no answer", e.Index, e.QuestionNo)
	default:
		return fmt.Sprintf("validation failed: %s", e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.cause }
