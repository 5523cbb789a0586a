package domain

import "encoding/json"

// InferQuestionType derives the question type from the options' correctness flags.
func InferQuestionType(options []AnswerOption) QuestionType {
	correct := 0
	for _, opt := range options {
		if opt.IsCorrect {
			correct++
		}
	}
	if correct > 1 {
		return QuestionMultiple
	}
	return QuestionSingle
}

// CorrectOptionIDs returns the ids of the options marked correct, in option order.
func (q Question) CorrectOptionIDs() []string {
	ids := make([]string, 0, len(q.AnswerOptions))
	for _, opt := range q.AnswerOptions {
		if opt.IsCorrect {
			ids = append(ids, opt.ID)
		}
	}
	return ids
}

// UnmarshalJSON accepts the question text under "text" as well as "question";
// "text" wins when both are set.
func (q *Question) UnmarshalJSON(data []byte) error {
	type plain Question
	var raw struct {
		plain
		TextAlias string `json:"text"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*q = Question(raw.plain)
	if raw.TextAlias != "" {
		q.Text = raw.TextAlias
	}
	return nil
}

// NormalizeQuestion assigns missing ids and re-derives Type, ignoring whatever
// type the caller supplied.
func NormalizeQuestion(q Question, newID func() string) Question {
	if q.ID == "" {
		q.ID = newID()
	}
	options := make([]AnswerOption, len(q.AnswerOptions))
	for i, opt := range q.AnswerOptions {
		if opt.ID == "" {
			opt.ID = newID()
		}
		options[i] = opt
	}
	q.AnswerOptions = options
	q.Type = InferQuestionType(options)
	return q
}

// NormalizeQuestions applies NormalizeQuestion to every question and returns a new slice.
func NormalizeQuestions(questions []Question, newID func() string) []Question {
	out := make([]Question, len(questions))
	for i, q := range questions {
		out[i] = NormalizeQuestion(q, newID)
	}
	return out
}
