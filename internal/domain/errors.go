package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is the parent of every lookup failure below.
	ErrNotFound = errors.New("not found")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = fmt.Errorf("quiz %w", ErrNotFound)
	// ErrDraftNotFound is returned for unknown draft ids.
	ErrDraftNotFound = fmt.Errorf("draft %w", ErrNotFound)
	// ErrAttemptNotFound is returned for unknown attempt ids.
	ErrAttemptNotFound = fmt.Errorf("attempt %w", ErrNotFound)
	// ErrQuestionNotFound indicates a question id is not part of the quiz.
	ErrQuestionNotFound = fmt.Errorf("question %w", ErrNotFound)
	// ErrInvalidInput marks structurally impossible input, e.g. scoring a quiz without questions.
	ErrInvalidInput = errors.New("invalid input")
	// ErrOptionNotFound indicates a selected option id is not part of the question.
	ErrOptionNotFound = fmt.Errorf("option %w", ErrNotFound)
	// ErrSessionClosed is returned for events sent after a take session was submitted or cleared.
	ErrSessionClosed = errors.New("take session is closed")
	// ErrQuestionLocked is returned when changing an answer that was already revealed.
	ErrQuestionLocked = errors.New("question already revealed")
	// ErrShareCodeTaken is returned by stores when a share code already belongs to another quiz.
	ErrShareCodeTaken = errors.New("share code already in use")
)

// ValidationError lists every rule a quiz or draft violates.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// NewValidationError returns nil when there are no violations.
func NewValidationError(violations []string) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}
