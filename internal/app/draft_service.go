package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"quiz-maker-service/internal/domain"
)

const (
	firstStep = 1
	lastStep  = 3
)

// DraftService drives the authoring wizard and publication of drafts.
type DraftService struct {
	drafts   DraftRepository
	quizzes  *QuizService
	settings settings
}

func NewDraftService(drafts DraftRepository, quizzes *QuizService, opts ...Option) *DraftService {
	return &DraftService{drafts: drafts, quizzes: quizzes, settings: newSettings(opts)}
}

// SaveDraft creates or overwrites a draft. It never validates content; it only
// re-derives question types and keeps the wizard step in range.
func (s *DraftService) SaveDraft(ctx context.Context, d domain.Draft) (domain.Draft, error) {
	now := s.settings.now()
	if d.ID == "" {
		d.ID = s.settings.newID()
		d.CreatedAt = now
	} else if d.CreatedAt.IsZero() {
		existing, err := s.drafts.GetDraft(ctx, d.ID)
		switch {
		case err == nil:
			d.CreatedAt = existing.CreatedAt
		case errors.Is(err, domain.ErrNotFound):
			d.CreatedAt = now
		default:
			return domain.Draft{}, err
		}
	}
	d.CurrentStep = clampStep(d.CurrentStep)
	if d.AutoGenerateShareCode == nil {
		generate := true
		d.AutoGenerateShareCode = &generate
	}
	d.Questions = domain.NormalizeQuestions(d.Questions, s.settings.newID)
	d.UpdatedAt = now

	if err := s.drafts.SaveDraft(ctx, d); err != nil {
		return domain.Draft{}, err
	}
	return d, nil
}

func (s *DraftService) GetDraft(ctx context.Context, draftID string) (domain.Draft, error) {
	return s.drafts.GetDraft(ctx, draftID)
}

// ListDrafts returns draft summaries, most recently updated first.
func (s *DraftService) ListDrafts(ctx context.Context) ([]domain.DraftSummary, error) {
	drafts, err := s.drafts.ListDrafts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.DraftSummary, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, domain.DraftSummary{
			ID:            d.ID,
			Title:         d.Title,
			QuestionCount: len(d.Questions),
			CurrentStep:   d.CurrentStep,
			CreatedAt:     d.CreatedAt,
			UpdatedAt:     d.UpdatedAt,
		})
	}
	return out, nil
}

// DiscardDraft deletes a draft without publishing it.
func (s *DraftService) DiscardDraft(ctx context.Context, draftID string) error {
	return s.drafts.DeleteDraft(ctx, draftID)
}

// AdvanceDraft moves the wizard to step. Moving forward applies the soft gates
// of every step being left; moving back is always allowed.
func (s *DraftService) AdvanceDraft(ctx context.Context, draftID string, step int) (domain.Draft, error) {
	if step < firstStep || step > lastStep {
		return domain.Draft{}, fmt.Errorf("wizard step %d: %w", step, domain.ErrInvalidInput)
	}
	d, err := s.drafts.GetDraft(ctx, draftID)
	if err != nil {
		return domain.Draft{}, err
	}
	var violations []string
	for from := d.CurrentStep; from < step; from++ {
		violations = append(violations, domain.StepViolations(d, from)...)
	}
	if err := domain.NewValidationError(violations); err != nil {
		return domain.Draft{}, err
	}
	d.CurrentStep = step
	d.UpdatedAt = s.settings.now()
	if err := s.drafts.SaveDraft(ctx, d); err != nil {
		return domain.Draft{}, err
	}
	return d, nil
}

// PublishDraft validates the draft and turns it into a quiz. Either the quiz
// is created and the draft deleted, or neither happens.
func (s *DraftService) PublishDraft(ctx context.Context, draftID string) (domain.Quiz, error) {
	d, err := s.drafts.GetDraft(ctx, draftID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if err := domain.NewValidationError(domain.ValidateQuizContent(d.QuizContent)); err != nil {
		return domain.Quiz{}, err
	}

	quiz, err := s.quizzes.publish(ctx, d.QuizContent, d.WantsShareCode())
	if err != nil {
		return domain.Quiz{}, err
	}
	if err := s.drafts.DeleteDraft(ctx, draftID); err != nil {
		if rbErr := s.quizzes.quizzes.DeleteQuiz(ctx, quiz.ID); rbErr != nil {
			log.Printf("publish draft %s: rollback of quiz %s failed: %v", draftID, quiz.ID, rbErr)
		}
		return domain.Quiz{}, fmt.Errorf("delete published draft: %w", err)
	}
	return quiz, nil
}

func clampStep(step int) int {
	if step < firstStep {
		return firstStep
	}
	if step > lastStep {
		return lastStep
	}
	return step
}
