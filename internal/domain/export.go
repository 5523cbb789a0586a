package domain

import (
	"encoding/json"
	"regexp"
)

// ExportedOption is the id-free option shape used for export and import.
type ExportedOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
	Rationale string `json:"rationale,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

// ExportedQuestion is the id-free question shape. Imports accept the question
// text under either "question" or "text".
type ExportedQuestion struct {
	Question      string           `json:"question"`
	Hint          string           `json:"hint,omitempty"`
	ImageURL      string           `json:"imageUrl,omitempty"`
	AnswerOptions []ExportedOption `json:"answerOptions"`
}

func (q *ExportedQuestion) UnmarshalJSON(data []byte) error {
	type plain ExportedQuestion
	var raw struct {
		plain
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*q = ExportedQuestion(raw.plain)
	if raw.Text != "" {
		q.Question = raw.Text
	}
	return nil
}

// ExportedQuiz is the portable JSON document for a quiz.
type ExportedQuiz struct {
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	TimeLimit   *int               `json:"timeLimit,omitempty"`
	Tags        []string           `json:"tags,omitempty"`
	Questions   []ExportedQuestion `json:"questions"`
}

// Export strips identities and derived fields from a quiz.
func Export(q Quiz) ExportedQuiz {
	out := ExportedQuiz{
		Title:       q.Title,
		Description: q.Description,
		TimeLimit:   q.TimeLimit,
		Tags:        q.Tags,
		Questions:   make([]ExportedQuestion, 0, len(q.Questions)),
	}
	for _, question := range q.Questions {
		eq := ExportedQuestion{
			Question:      question.Text,
			Hint:          question.Hint,
			ImageURL:      question.ImageURL,
			AnswerOptions: make([]ExportedOption, 0, len(question.AnswerOptions)),
		}
		for _, opt := range question.AnswerOptions {
			eq.AnswerOptions = append(eq.AnswerOptions, ExportedOption{
				Text:      opt.Text,
				IsCorrect: opt.IsCorrect,
				Rationale: opt.Rationale,
				ImageURL:  opt.ImageURL,
			})
		}
		out.Questions = append(out.Questions, eq)
	}
	return out
}

// Content converts an imported document into authorable content without ids.
func (e ExportedQuiz) Content() QuizContent {
	c := QuizContent{
		Title:       e.Title,
		Description: e.Description,
		TimeLimit:   e.TimeLimit,
		Tags:        e.Tags,
		Questions:   make([]Question, 0, len(e.Questions)),
	}
	for _, eq := range e.Questions {
		q := Question{
			Text:          eq.Question,
			Hint:          eq.Hint,
			ImageURL:      eq.ImageURL,
			AnswerOptions: make([]AnswerOption, 0, len(eq.AnswerOptions)),
		}
		for _, opt := range eq.AnswerOptions {
			q.AnswerOptions = append(q.AnswerOptions, AnswerOption{
				Text:      opt.Text,
				IsCorrect: opt.IsCorrect,
				Rationale: opt.Rationale,
				ImageURL:  opt.ImageURL,
			})
		}
		c.Questions = append(c.Questions, q)
	}
	return c
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// ExportFileName derives the attachment name for an exported quiz.
func ExportFileName(title string) string {
	return unsafeFileChars.ReplaceAllString(title, "_") + ".json"
}
