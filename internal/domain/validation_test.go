package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validContent() QuizContent {
	return QuizContent{
		Title: "Capitals of Europe",
		Questions: []Question{
			{
				ID:   "q1",
				Text: "What is the capital of France?",
				AnswerOptions: []AnswerOption{
					{ID: "a", Text: "Paris", IsCorrect: true},
					{ID: "b", Text: "Lyon"},
				},
			},
		},
	}
}

func intPtr(v int) *int { return &v }

func TestValidateQuizContentAcceptsValidQuiz(t *testing.T) {
	assert.Empty(t, ValidateQuizContent(validContent()))
}

func TestValidateQuizContentShortTitle(t *testing.T) {
	c := validContent()
	c.Title = "Hi"
	assert.Equal(t, []string{"Quiz title must be at least 3 characters"}, ValidateQuizContent(c))
}

func TestValidateQuizContentEmptyTitleAllowed(t *testing.T) {
	c := validContent()
	c.Title = ""
	assert.Empty(t, ValidateQuizContent(c))
}

func TestValidateQuizContentNoQuestions(t *testing.T) {
	c := validContent()
	c.Questions = nil
	errs := ValidateQuizContent(c)
	require.Len(t, errs, 1)
	assert.Contains(t, strings.ToLower(errs[0]), "at least one question")
}

func TestValidateQuizContentCollectsEveryViolation(t *testing.T) {
	c := QuizContent{
		Title:       strings.Repeat("x", 201),
		Description: strings.Repeat("d", 1001),
		TimeLimit:   intPtr(4),
		Tags:        []string{"ok", strings.Repeat("t", 31), "3", "4", "5", "6", "7", "8", "9", "10", "11"},
		Questions: []Question{
			{
				Text: "Why",
				AnswerOptions: []AnswerOption{
					{Text: "Same"},
				},
			},
			{
				Text: "Pick the primes",
				AnswerOptions: []AnswerOption{
					{Text: "two", IsCorrect: true},
					{Text: " Two ", IsCorrect: true},
					{Text: "  "},
					{Text: strings.Repeat("o", 201), Rationale: strings.Repeat("r", 301)},
				},
			},
		},
	}

	errs := ValidateQuizContent(c)
	assert.ElementsMatch(t, []string{
		"Quiz title must not exceed 200 characters",
		"Description must not exceed 1000 characters",
		"Time limit must be between 5 and 180 minutes",
		"Maximum 10 tags allowed",
		"Tag 2 must not exceed 30 characters",
		"Question 1: question text must be at least 5 characters",
		"Question 1: must have at least 2 answer options",
		"Question 1: at least one correct answer is required",
		"Question 2: option texts must be unique",
		"Question 2, Option 3: option text is required",
		"Question 2, Option 4: option text must not exceed 200 characters",
		"Question 2, Option 4: rationale must not exceed 300 characters",
	}, errs)
}

func TestValidateQuizContentTooManyOptionsAndQuestions(t *testing.T) {
	c := validContent()
	opts := make([]AnswerOption, 9)
	for i := range opts {
		opts[i] = AnswerOption{Text: string(rune('a' + i)), IsCorrect: i == 0}
	}
	c.Questions[0].AnswerOptions = opts
	assert.Equal(t, []string{"Question 1: maximum 8 answer options allowed"}, ValidateQuizContent(c))

	c = validContent()
	for len(c.Questions) <= MaxQuestions {
		c.Questions = append(c.Questions, c.Questions[0])
	}
	assert.Equal(t, []string{"Maximum 100 questions allowed"}, ValidateQuizContent(c))
}

func TestValidateQuizContentTimeLimitBounds(t *testing.T) {
	for _, limit := range []int{5, 60, 180} {
		c := validContent()
		c.TimeLimit = intPtr(limit)
		assert.Empty(t, ValidateQuizContent(c), "limit %d", limit)
	}
	c := validContent()
	c.TimeLimit = intPtr(181)
	assert.NotEmpty(t, ValidateQuizContent(c))
}

func TestValidateOptionUsesSameUniquenessRule(t *testing.T) {
	all := []AnswerOption{{Text: "Paris"}, {Text: "paris "}, {Text: "Rome"}}
	assert.Equal(t, []string{"Option text must be unique"}, ValidateOption(all[0], all))
	assert.Empty(t, ValidateOption(all[2], all))
	assert.Equal(t, []string{"Option text is required"}, ValidateOption(AnswerOption{Text: " "}, all))
}

func TestStepViolations(t *testing.T) {
	d := Draft{QuizContent: QuizContent{Title: "Hi"}}
	assert.NotEmpty(t, StepViolations(d, 1))
	d.Title = "Geography"
	assert.Empty(t, StepViolations(d, 1))
	assert.NotEmpty(t, StepViolations(d, 2))
	d.Questions = validContent().Questions
	assert.Empty(t, StepViolations(d, 2))
	assert.Empty(t, StepViolations(d, 3))
}

func TestNewValidationError(t *testing.T) {
	assert.NoError(t, NewValidationError(nil))
	err := NewValidationError([]string{"a", "b"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"a", "b"}, verr.Violations)
	assert.Contains(t, err.Error(), "a; b")
}
