package app

import (
	"fmt"
	"math"

	"quiz-maker-service/internal/domain"
)

// correctTolerance absorbs float error from 1/k weights when deciding whether a
// question was fully answered.
const correctTolerance = 0.001

// Score grades a full submission against quiz content. Questions missing from
// answers, or answered with an empty selection, count as skipped.
func Score(quiz domain.Quiz, answers []domain.SubmittedAnswer) (domain.ScoreResult, error) {
	if len(quiz.Questions) == 0 {
		return domain.ScoreResult{}, fmt.Errorf("score quiz %q without questions: %w", quiz.ID, domain.ErrInvalidInput)
	}

	byQuestion := make(map[string][]string, len(answers))
	for _, a := range answers {
		// first submission for a question wins
		if _, ok := byQuestion[a.QuestionID]; !ok {
			byQuestion[a.QuestionID] = a.SelectedOptionIDs
		}
	}

	result := domain.ScoreResult{
		Answers:     make([]domain.AnswerResult, 0, len(quiz.Questions)),
		TotalPoints: len(quiz.Questions),
	}
	for _, q := range quiz.Questions {
		ar := ScoreQuestion(q, byQuestion[q.ID])
		if len(ar.SelectedOptionIDs) == 0 {
			result.QuestionsSkipped++
		}
		result.Score += ar.PointsEarned
		result.Answers = append(result.Answers, ar)
	}
	result.Percentage = math.Round(result.Score/float64(result.TotalPoints)*100*100) / 100
	return result, nil
}

// ScoreQuestion grades one question. Each correct pick earns 1/k and each wrong
// pick costs 1/k, where k is the number of correct options; the total is
// clamped to [0, 1].
func ScoreQuestion(q domain.Question, selected []string) domain.AnswerResult {
	correctIDs := q.CorrectOptionIDs()
	result := domain.AnswerResult{
		QuestionID:        q.ID,
		SelectedOptionIDs: dedupe(selected),
		CorrectOptionIDs:  correctIDs,
	}
	if len(result.SelectedOptionIDs) == 0 || len(correctIDs) == 0 {
		return result
	}

	correct := make(map[string]struct{}, len(correctIDs))
	for _, id := range correctIDs {
		correct[id] = struct{}{}
	}
	var hits, misses int
	for _, id := range result.SelectedOptionIDs {
		if _, ok := correct[id]; ok {
			hits++
		} else {
			misses++
		}
	}

	weight := 1 / float64(len(correctIDs))
	points := float64(hits)*weight - float64(misses)*weight
	result.PointsEarned = math.Min(1, math.Max(0, points))
	result.IsCorrect = result.PointsEarned >= 1-correctTolerance
	return result
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
