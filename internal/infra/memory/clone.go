package memory

import "quiz-maker-service/internal/domain"

// stores hand out copies so callers never alias stored slices.
func cloneContent(c domain.QuizContent) domain.QuizContent {
	out := c
	out.Tags = append([]string(nil), c.Tags...)
	out.Questions = make([]domain.Question, len(c.Questions))
	for i, q := range c.Questions {
		q.AnswerOptions = append([]domain.AnswerOption(nil), q.AnswerOptions...)
		out.Questions[i] = q
	}
	if c.TimeLimit != nil {
		limit := *c.TimeLimit
		out.TimeLimit = &limit
	}
	return out
}

func cloneQuiz(q domain.Quiz) domain.Quiz {
	q.QuizContent = cloneContent(q.QuizContent)
	return q
}

func cloneDraft(d domain.Draft) domain.Draft {
	d.QuizContent = cloneContent(d.QuizContent)
	if d.AutoGenerateShareCode != nil {
		generate := *d.AutoGenerateShareCode
		d.AutoGenerateShareCode = &generate
	}
	return d
}

func cloneAttempt(a domain.Attempt) domain.Attempt {
	answers := make([]domain.AnswerResult, len(a.Answers))
	for i, ar := range a.Answers {
		ar.SelectedOptionIDs = append([]string(nil), ar.SelectedOptionIDs...)
		ar.CorrectOptionIDs = append([]string(nil), ar.CorrectOptionIDs...)
		answers[i] = ar
	}
	a.Answers = answers
	return a
}
