package app

import (
	"context"

	"quiz-maker-service/internal/domain"
)

// QuizRepository stores published quizzes (in-memory, Postgres, cached).
type QuizRepository interface {
	// CreateQuiz returns domain.ErrShareCodeTaken when the share code is in use.
	CreateQuiz(ctx context.Context, quiz domain.Quiz) error
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	GetQuizByShareCode(ctx context.Context, code string) (domain.Quiz, error)
	// ListQuizzes returns quizzes ordered by UpdatedAt, newest first.
	ListQuizzes(ctx context.Context) ([]domain.Quiz, error)
	UpdateQuiz(ctx context.Context, quiz domain.Quiz) error
	DeleteQuiz(ctx context.Context, quizID string) error
}

// DraftRepository stores drafts. SaveDraft is an upsert.
type DraftRepository interface {
	SaveDraft(ctx context.Context, draft domain.Draft) error
	GetDraft(ctx context.Context, draftID string) (domain.Draft, error)
	// ListDrafts returns drafts ordered by UpdatedAt, newest first.
	ListDrafts(ctx context.Context) ([]domain.Draft, error)
	DeleteDraft(ctx context.Context, draftID string) error
}

// ProgressRepository keeps at most one progress record per quiz id.
type ProgressRepository interface {
	// GetProgress reports false when the quiz has no progress.
	GetProgress(ctx context.Context, quizID string) (domain.Progress, bool, error)
	SaveProgress(ctx context.Context, progress domain.Progress) error
	// DeleteProgress is a no-op when nothing is stored.
	DeleteProgress(ctx context.Context, quizID string) error
}

// AttemptRepository is append-only apart from explicit deletes.
type AttemptRepository interface {
	CreateAttempt(ctx context.Context, attempt domain.Attempt) error
	GetAttempt(ctx context.Context, attemptID string) (domain.Attempt, error)
	// ListAttempts and ListAttemptsByQuiz order by CompletedAt, newest first.
	ListAttempts(ctx context.Context) ([]domain.Attempt, error)
	ListAttemptsByQuiz(ctx context.Context, quizID string) ([]domain.Attempt, error)
	DeleteAttempt(ctx context.Context, attemptID string) error
	DeleteAttemptsByQuiz(ctx context.Context, quizID string) error
}

// FeedRegistry tracks live progress feeds (in-process, or fanned out across
// instances through Redis).
type FeedRegistry interface {
	// Subscribe gets or creates the quiz's feed, primes it with current when
	// non-nil and registers a subscriber as one step. The returned cancel
	// drops the feed once it is idle.
	Subscribe(quizID string, current *domain.Progress) (<-chan ProgressUpdate, func())
	// Publish delivers progress (nil once cleared) to the quiz's subscribers.
	Publish(ctx context.Context, quizID string, progress *domain.Progress) error
}
