package memory

import (
	"context"
	"sync"

	"quiz-maker-service/internal/domain"
)

// ProgressStore keeps one progress record per quiz id.
type ProgressStore struct {
	mu       sync.RWMutex
	progress map[string]domain.Progress
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{progress: make(map[string]domain.Progress)}
}

func (s *ProgressStore) GetProgress(_ context.Context, quizID string) (domain.Progress, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.progress[quizID]
	if !ok {
		return domain.Progress{}, false, nil
	}
	return p.Clone(), true, nil
}

func (s *ProgressStore) SaveProgress(_ context.Context, p domain.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[p.QuizID] = p.Clone()
	return nil
}

func (s *ProgressStore) DeleteProgress(_ context.Context, quizID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.progress, quizID)
	return nil
}
