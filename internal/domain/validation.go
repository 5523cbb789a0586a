package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Limits enforced when a quiz is created, imported or published.
const (
	MinTitleLength        = 3
	MaxTitleLength        = 200
	MaxDescriptionLength  = 1000
	MinTimeLimit          = 5
	MaxTimeLimit          = 180
	MaxTags               = 10
	MaxTagLength          = 30
	MaxQuestions          = 100
	MinQuestionTextLength = 5
	MinOptions            = 2
	MaxOptions            = 8
	MaxOptionTextLength   = 200
	MaxRationaleLength    = 300
)

// DefaultTitle is used when a quiz is created without a title.
const DefaultTitle = "Untitled Quiz"

// ValidateQuizContent returns every violated rule; an empty result means valid.
func ValidateQuizContent(c QuizContent) []string {
	var errs []string

	errs = append(errs, ValidateTitle(c.Title)...)
	if utf8.RuneCountInString(c.Description) > MaxDescriptionLength {
		errs = append(errs, fmt.Sprintf("Description must not exceed %d characters", MaxDescriptionLength))
	}
	if c.TimeLimit != nil && (*c.TimeLimit < MinTimeLimit || *c.TimeLimit > MaxTimeLimit) {
		errs = append(errs, fmt.Sprintf("Time limit must be between %d and %d minutes", MinTimeLimit, MaxTimeLimit))
	}
	if len(c.Tags) > MaxTags {
		errs = append(errs, fmt.Sprintf("Maximum %d tags allowed", MaxTags))
	}
	for i, tag := range c.Tags {
		if utf8.RuneCountInString(tag) > MaxTagLength {
			errs = append(errs, fmt.Sprintf("Tag %d must not exceed %d characters", i+1, MaxTagLength))
		}
	}

	if len(c.Questions) == 0 {
		return append(errs, "At least one question is required")
	}
	if len(c.Questions) > MaxQuestions {
		errs = append(errs, fmt.Sprintf("Maximum %d questions allowed", MaxQuestions))
	}
	for i, q := range c.Questions {
		errs = append(errs, validateQuestion(i+1, q)...)
	}
	return errs
}

// ValidateTitle checks the title rule. An empty title is allowed and replaced
// by DefaultTitle on creation.
func ValidateTitle(title string) []string {
	if title == "" {
		return nil
	}
	var errs []string
	if utf8.RuneCountInString(strings.TrimSpace(title)) < MinTitleLength {
		errs = append(errs, fmt.Sprintf("Quiz title must be at least %d characters", MinTitleLength))
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		errs = append(errs, fmt.Sprintf("Quiz title must not exceed %d characters", MaxTitleLength))
	}
	return errs
}

func validateQuestion(n int, q Question) []string {
	var errs []string
	prefix := fmt.Sprintf("Question %d", n)

	switch {
	case strings.TrimSpace(q.Text) == "":
		errs = append(errs, prefix+": question text is required")
	case utf8.RuneCountInString(q.Text) < MinQuestionTextLength:
		errs = append(errs, fmt.Sprintf("%s: question text must be at least %d characters", prefix, MinQuestionTextLength))
	}

	if len(q.AnswerOptions) < MinOptions {
		errs = append(errs, fmt.Sprintf("%s: must have at least %d answer options", prefix, MinOptions))
	}
	if len(q.AnswerOptions) > MaxOptions {
		errs = append(errs, fmt.Sprintf("%s: maximum %d answer options allowed", prefix, MaxOptions))
	}
	if len(q.CorrectOptionIDs()) == 0 {
		errs = append(errs, prefix+": at least one correct answer is required")
	}
	if hasDuplicateOptionText(q.AnswerOptions) {
		errs = append(errs, prefix+": option texts must be unique")
	}

	for i, opt := range q.AnswerOptions {
		optPrefix := fmt.Sprintf("%s, Option %d", prefix, i+1)
		if strings.TrimSpace(opt.Text) == "" {
			errs = append(errs, optPrefix+": option text is required")
		} else if utf8.RuneCountInString(opt.Text) > MaxOptionTextLength {
			errs = append(errs, fmt.Sprintf("%s: option text must not exceed %d characters", optPrefix, MaxOptionTextLength))
		}
		if utf8.RuneCountInString(opt.Rationale) > MaxRationaleLength {
			errs = append(errs, fmt.Sprintf("%s: rationale must not exceed %d characters", optPrefix, MaxRationaleLength))
		}
	}
	return errs
}

// ValidateOption checks a single option against its siblings, using the same
// uniqueness rule as ValidateQuizContent.
func ValidateOption(option AnswerOption, all []AnswerOption) []string {
	var errs []string
	if strings.TrimSpace(option.Text) == "" {
		errs = append(errs, "Option text is required")
	} else if utf8.RuneCountInString(option.Text) > MaxOptionTextLength {
		errs = append(errs, fmt.Sprintf("Option text must not exceed %d characters", MaxOptionTextLength))
	}

	key := optionTextKey(option.Text)
	if key == "" {
		return errs
	}
	matches := 0
	for _, other := range all {
		if optionTextKey(other.Text) == key {
			matches++
		}
	}
	if matches > 1 {
		errs = append(errs, "Option text must be unique")
	}
	return errs
}

// Option texts are compared trimmed and case-insensitively everywhere.
func optionTextKey(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func hasDuplicateOptionText(options []AnswerOption) bool {
	seen := make(map[string]struct{}, len(options))
	for _, opt := range options {
		key := optionTextKey(opt.Text)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			return true
		}
		seen[key] = struct{}{}
	}
	return false
}

// StepViolations reports why a draft may not leave the given wizard step.
// These gates are advisory; saving a draft never applies them.
func StepViolations(d Draft, from int) []string {
	switch from {
	case 1:
		if utf8.RuneCountInString(strings.TrimSpace(d.Title)) < MinTitleLength {
			return []string{fmt.Sprintf("Quiz title must be at least %d characters", MinTitleLength)}
		}
	case 2:
		if len(d.Questions) == 0 {
			return []string{"At least one question is required"}
		}
	}
	return nil
}
