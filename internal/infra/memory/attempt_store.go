package memory

import (
	"context"
	"sort"
	"sync"

	"quiz-maker-service/internal/domain"
)

// AttemptStore is an in-memory implementation of app.AttemptRepository.
type AttemptStore struct {
	mu       sync.RWMutex
	attempts map[string]domain.Attempt
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{attempts: make(map[string]domain.Attempt)}
}

func (s *AttemptStore) CreateAttempt(_ context.Context, attempt domain.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[attempt.ID] = cloneAttempt(attempt)
	return nil
}

func (s *AttemptStore) GetAttempt(_ context.Context, attemptID string) (domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	attempt, ok := s.attempts[attemptID]
	if !ok {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	return cloneAttempt(attempt), nil
}

func (s *AttemptStore) ListAttempts(_ context.Context) ([]domain.Attempt, error) {
	return s.list(func(domain.Attempt) bool { return true }), nil
}

func (s *AttemptStore) ListAttemptsByQuiz(_ context.Context, quizID string) ([]domain.Attempt, error) {
	return s.list(func(a domain.Attempt) bool { return a.QuizID == quizID }), nil
}

func (s *AttemptStore) DeleteAttempt(_ context.Context, attemptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.attempts[attemptID]; !ok {
		return domain.ErrAttemptNotFound
	}
	delete(s.attempts, attemptID)
	return nil
}

func (s *AttemptStore) DeleteAttemptsByQuiz(_ context.Context, quizID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, a := range s.attempts {
		if a.QuizID == quizID {
			delete(s.attempts, id)
		}
	}
	return nil
}

func (s *AttemptStore) list(keep func(domain.Attempt) bool) []domain.Attempt {
	s.mu.RLock()
	out := make([]domain.Attempt, 0, len(s.attempts))
	for _, a := range s.attempts {
		if keep(a) {
			out = append(out, cloneAttempt(a))
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CompletedAt.Equal(out[j].CompletedAt) {
			return out[i].CompletedAt.After(out[j].CompletedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
