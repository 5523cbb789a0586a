package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"quiz-maker-service/internal/domain"
)

// SubmitInput carries everything needed to score and record an attempt.
type SubmitInput struct {
	QuizID    string
	Answers   []domain.SubmittedAnswer
	StartedAt time.Time
	Mode      domain.FeedbackMode
}

// AttemptService turns submissions into immutable attempts.
type AttemptService struct {
	quizzes  QuizRepository
	attempts AttemptRepository
	progress *ProgressService
	settings settings
}

func NewAttemptService(quizzes QuizRepository, attempts AttemptRepository, progress *ProgressService, opts ...Option) *AttemptService {
	return &AttemptService{quizzes: quizzes, attempts: attempts, progress: progress, settings: newSettings(opts)}
}

// SubmitAttempt scores the answers against the quiz's current content, stores
// the attempt and clears the quiz's progress. Once the attempt is stored a
// failed clear is only logged; the leftover progress can be cleared later.
func (s *AttemptService) SubmitAttempt(ctx context.Context, in SubmitInput) (domain.Attempt, error) {
	if !in.Mode.Valid() {
		return domain.Attempt{}, fmt.Errorf("feedback mode %q: %w", in.Mode, domain.ErrInvalidInput)
	}
	quiz, err := s.quizzes.GetQuiz(ctx, in.QuizID)
	if err != nil {
		return domain.Attempt{}, err
	}

	result, err := Score(quiz, in.Answers)
	if err != nil {
		return domain.Attempt{}, err
	}

	completedAt := s.settings.now()
	startedAt := in.StartedAt
	if startedAt.IsZero() || startedAt.After(completedAt) {
		startedAt = completedAt
	}

	attempt := domain.Attempt{
		ID:          s.settings.newID(),
		QuizID:      quiz.ID,
		QuizTitle:   quiz.Title,
		ScoreResult: result,
		StartedAt:   startedAt,
		CompletedAt: completedAt,
		Duration:    int(completedAt.Sub(startedAt) / time.Second),
		Mode:        in.Mode,
	}
	if err := s.attempts.CreateAttempt(ctx, attempt); err != nil {
		return domain.Attempt{}, err
	}
	if err := s.progress.ClearProgress(ctx, quiz.ID); err != nil {
		log.Printf("attempt %s stored but clearing progress for quiz %s failed: %v", attempt.ID, quiz.ID, err)
	}
	return attempt, nil
}

func (s *AttemptService) GetAttempt(ctx context.Context, attemptID string) (domain.Attempt, error) {
	return s.attempts.GetAttempt(ctx, attemptID)
}

// ListAttempts returns the full history, newest first.
func (s *AttemptService) ListAttempts(ctx context.Context) ([]domain.Attempt, error) {
	return s.attempts.ListAttempts(ctx)
}

func (s *AttemptService) ListQuizAttempts(ctx context.Context, quizID string) ([]domain.Attempt, error) {
	return s.attempts.ListAttemptsByQuiz(ctx, quizID)
}

func (s *AttemptService) DeleteAttempt(ctx context.Context, attemptID string) error {
	return s.attempts.DeleteAttempt(ctx, attemptID)
}
