package assessment

import "errors"

// Errors returned to the caller of a session. All of them leave the session
// usable; none corrupt recorded answers.
var (
	// ErrMalformedAnswer rejects an answer outside the phase's value domain.
	ErrMalformedAnswer = errors.New("malformed answer")
	// ErrUnknownQuestion rejects an answer for a question not reached on the
	// active path.
	ErrUnknownQuestion = errors.New("question is not on the active path")
	// ErrAnswerRequired blocks moving forward past an unanswered question.
	ErrAnswerRequired = errors.New("current question has no answer")
	// ErrWrongPhase rejects an operation the current phase does not support.
	ErrWrongPhase = errors.New("operation not allowed in the current phase")
)
