package app

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"quiz-maker-service/internal/domain"
)

// shareCodeAttempts bounds retries when a generated share code collides.
const shareCodeAttempts = 3

// statsConcurrency caps parallel attempt lookups when listing quizzes.
const statsConcurrency = 8

// QuizInput is the payload for creating a quiz directly.
type QuizInput struct {
	domain.QuizContent
	// AutoGenerateShareCode defaults to true when nil.
	AutoGenerateShareCode *bool
	ShareCode             string
}

// QuizService contains the published-quiz use cases.
type QuizService struct {
	quizzes  QuizRepository
	attempts AttemptRepository
	progress ProgressRepository
	settings settings
}

func NewQuizService(quizzes QuizRepository, attempts AttemptRepository, progress ProgressRepository, opts ...Option) *QuizService {
	return &QuizService{quizzes: quizzes, attempts: attempts, progress: progress, settings: newSettings(opts)}
}

// CreateQuiz validates and stores a new quiz. A share code is generated unless
// the caller opts out, in which case an explicit ShareCode is kept.
func (s *QuizService) CreateQuiz(ctx context.Context, in QuizInput) (domain.Quiz, error) {
	if err := domain.NewValidationError(domain.ValidateQuizContent(in.QuizContent)); err != nil {
		return domain.Quiz{}, err
	}
	generate := in.AutoGenerateShareCode == nil || *in.AutoGenerateShareCode
	quiz := s.newQuiz(in.QuizContent)
	if !generate {
		quiz.ShareCode = in.ShareCode
	}
	return s.insert(ctx, quiz, generate)
}

// ImportQuiz validates and stores an exported quiz document. Imports never get a share code.
func (s *QuizService) ImportQuiz(ctx context.Context, doc domain.ExportedQuiz) (domain.Quiz, error) {
	content := doc.Content()
	if err := domain.NewValidationError(domain.ValidateQuizContent(content)); err != nil {
		return domain.Quiz{}, err
	}
	quiz := s.newQuiz(content)
	return s.insert(ctx, quiz, false)
}

func (s *QuizService) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	return s.quizzes.GetQuiz(ctx, quizID)
}

// GetQuizDetail returns the quiz together with its attempt history.
func (s *QuizService) GetQuizDetail(ctx context.Context, quizID string) (domain.QuizDetail, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.QuizDetail{}, err
	}
	attempts, err := s.attempts.ListAttemptsByQuiz(ctx, quizID)
	if err != nil {
		return domain.QuizDetail{}, err
	}
	return domain.QuizDetail{Quiz: quiz, Attempts: attempts}, nil
}

// ListQuizzes returns every quiz with attempt stats, most recently updated first.
func (s *QuizService) ListQuizzes(ctx context.Context) ([]domain.QuizListItem, error) {
	quizzes, err := s.quizzes.ListQuizzes(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]domain.QuizListItem, len(quizzes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statsConcurrency)
	for i, quiz := range quizzes {
		i, quiz := i, quiz
		g.Go(func() error {
			attempts, err := s.attempts.ListAttemptsByQuiz(gctx, quiz.ID)
			if err != nil {
				return fmt.Errorf("attempts for quiz %s: %w", quiz.ID, err)
			}
			items[i] = domain.QuizListItem{
				ID:        quiz.ID,
				Title:     quiz.Title,
				ShareCode: quiz.ShareCode,
				CreatedAt: quiz.CreatedAt,
				UpdatedAt: quiz.UpdatedAt,
				QuizStats: quizStats(quiz, attempts),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

func quizStats(quiz domain.Quiz, attempts []domain.Attempt) domain.QuizStats {
	stats := domain.QuizStats{QuestionCount: len(quiz.Questions), AttemptCount: len(attempts)}
	for i := range attempts {
		a := attempts[i]
		if stats.BestScore == nil || a.Percentage > *stats.BestScore {
			best := a.Percentage
			stats.BestScore = &best
		}
		if stats.LastAttempt == nil || a.CompletedAt.After(*stats.LastAttempt) {
			last := a.CompletedAt
			stats.LastAttempt = &last
		}
	}
	return stats
}

// RenameQuiz changes the only mutable field of a published quiz.
func (s *QuizService) RenameQuiz(ctx context.Context, quizID, title string) (domain.Quiz, error) {
	if err := domain.NewValidationError(domain.ValidateTitle(title)); err != nil {
		return domain.Quiz{}, err
	}
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if title == "" {
		title = domain.DefaultTitle
	}
	quiz.Title = title
	quiz.UpdatedAt = s.settings.now()
	if err := s.quizzes.UpdateQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// DeleteQuiz removes the quiz along with its progress and attempts.
func (s *QuizService) DeleteQuiz(ctx context.Context, quizID string) error {
	if err := s.quizzes.DeleteQuiz(ctx, quizID); err != nil {
		return err
	}
	if err := s.progress.DeleteProgress(ctx, quizID); err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	if err := s.attempts.DeleteAttemptsByQuiz(ctx, quizID); err != nil {
		return fmt.Errorf("delete attempts: %w", err)
	}
	return nil
}

// ExportQuiz returns the portable document and its suggested file name.
func (s *QuizService) ExportQuiz(ctx context.Context, quizID string) (domain.ExportedQuiz, string, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.ExportedQuiz{}, "", err
	}
	return domain.Export(quiz), domain.ExportFileName(quiz.Title), nil
}

// ShareQuiz assigns a share code on first use and returns it.
func (s *QuizService) ShareQuiz(ctx context.Context, quizID string) (string, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return "", err
	}
	if quiz.ShareCode != "" {
		return quiz.ShareCode, nil
	}

	for i := 0; i < shareCodeAttempts; i++ {
		quiz.ShareCode = s.settings.newShareCode()
		quiz.UpdatedAt = s.settings.now()
		err = s.quizzes.UpdateQuiz(ctx, quiz)
		if !errors.Is(err, domain.ErrShareCodeTaken) {
			break
		}
	}
	if err != nil {
		return "", err
	}
	return quiz.ShareCode, nil
}

func (s *QuizService) GetSharedQuiz(ctx context.Context, code string) (domain.Quiz, error) {
	return s.quizzes.GetQuizByShareCode(ctx, code)
}

// DuplicateQuiz copies a quiz's content under a "(Copy)" title without a share code.
func (s *QuizService) DuplicateQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	original, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	content := original.QuizContent
	content.Title = original.Title + " (Copy)"
	content.Tags = append([]string(nil), original.Tags...)
	content.Questions = append([]domain.Question(nil), original.Questions...)

	quiz := s.newQuiz(content)
	return s.insert(ctx, quiz, false)
}

// publish stores a quiz built from draft content; used by DraftService.
func (s *QuizService) publish(ctx context.Context, content domain.QuizContent, generateShareCode bool) (domain.Quiz, error) {
	quiz := s.newQuiz(content)
	return s.insert(ctx, quiz, generateShareCode)
}

func (s *QuizService) newQuiz(content domain.QuizContent) domain.Quiz {
	now := s.settings.now()
	if content.Title == "" {
		content.Title = domain.DefaultTitle
	}
	content.Questions = domain.NormalizeQuestions(content.Questions, s.settings.newID)
	return domain.Quiz{
		ID:          s.settings.newID(),
		QuizContent: content,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *QuizService) insert(ctx context.Context, quiz domain.Quiz, generateShareCode bool) (domain.Quiz, error) {
	if !generateShareCode {
		if err := s.quizzes.CreateQuiz(ctx, quiz); err != nil {
			return domain.Quiz{}, err
		}
		return quiz, nil
	}
	var err error
	for i := 0; i < shareCodeAttempts; i++ {
		quiz.ShareCode = s.settings.newShareCode()
		err = s.quizzes.CreateQuiz(ctx, quiz)
		if err == nil {
			return quiz, nil
		}
		if !errors.Is(err, domain.ErrShareCodeTaken) {
			break
		}
	}
	return domain.Quiz{}, err
}
