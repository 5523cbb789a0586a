package app

import (
	"context"
	"fmt"
	"log"

	"quiz-maker-service/internal/domain"
)

// ProgressService manages the single in-flight progress record per quiz.
// Saves are last-write-wins; concurrent saves for the same quiz are not merged.
type ProgressService struct {
	progress ProgressRepository
	feeds    FeedRegistry
	settings settings
}

func NewProgressService(progress ProgressRepository, feeds FeedRegistry, opts ...Option) *ProgressService {
	return &ProgressService{progress: progress, feeds: feeds, settings: newSettings(opts)}
}

// GetProgress reports false when no attempt is in progress for the quiz.
func (s *ProgressService) GetProgress(ctx context.Context, quizID string) (domain.Progress, bool, error) {
	return s.progress.GetProgress(ctx, quizID)
}

// SaveProgress overwrites the quiz's progress with p. StartedAt survives
// overwrites unless p sets it explicitly.
func (s *ProgressService) SaveProgress(ctx context.Context, p domain.Progress) (domain.Progress, error) {
	if p.QuizID == "" {
		return domain.Progress{}, fmt.Errorf("save progress without quiz id: %w", domain.ErrInvalidInput)
	}
	if p.Mode == "" {
		p.Mode = domain.FeedbackEnd
	}
	if !p.Mode.Valid() {
		return domain.Progress{}, fmt.Errorf("feedback mode %q: %w", p.Mode, domain.ErrInvalidInput)
	}

	now := s.settings.now()
	if p.StartedAt.IsZero() {
		existing, ok, err := s.progress.GetProgress(ctx, p.QuizID)
		if err != nil {
			return domain.Progress{}, err
		}
		if ok {
			p.StartedAt = existing.StartedAt
		} else {
			p.StartedAt = now
		}
	}
	if p.CurrentQuestionIndex < 0 {
		p.CurrentQuestionIndex = 0
	}
	p = p.Clone()
	p.UpdatedAt = now

	if err := s.progress.SaveProgress(ctx, p); err != nil {
		return domain.Progress{}, err
	}
	snapshot := p.Clone()
	s.publish(ctx, p.QuizID, &snapshot)
	return p, nil
}

// ClearProgress drops the quiz's progress without creating an attempt.
func (s *ProgressService) ClearProgress(ctx context.Context, quizID string) error {
	if err := s.progress.DeleteProgress(ctx, quizID); err != nil {
		return err
	}
	s.publish(ctx, quizID, nil)
	return nil
}

// Subscribe returns a channel that receives progress updates for a quiz,
// starting with the current snapshot. The caller must invoke the returned
// cancel function to avoid leaks.
func (s *ProgressService) Subscribe(ctx context.Context, quizID string) (<-chan ProgressUpdate, func(), error) {
	current, ok, err := s.progress.GetProgress(ctx, quizID)
	if err != nil {
		return nil, nil, err
	}

	var snapshot *domain.Progress
	if ok {
		snapshot = &current
	}
	ch, cancel := s.feeds.Subscribe(quizID, snapshot)
	return ch, cancel, nil
}

// publish is best effort; the save already succeeded.
func (s *ProgressService) publish(ctx context.Context, quizID string, p *domain.Progress) {
	if s.feeds == nil {
		return
	}
	if err := s.feeds.Publish(ctx, quizID, p); err != nil {
		log.Printf("publish progress for quiz %s: %v", quizID, err)
	}
}
