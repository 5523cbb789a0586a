package memory

import (
	"context"
	"sort"
	"sync"

	"quiz-maker-service/internal/domain"
)

// QuizStore is an in-memory implementation of app.QuizRepository.
type QuizStore struct {
	mu      sync.RWMutex
	quizzes map[string]domain.Quiz
	shares  map[string]string // share code -> quiz id
}

func NewQuizStore() *QuizStore {
	return &QuizStore{
		quizzes: make(map[string]domain.Quiz),
		shares:  make(map[string]string),
	}
}

func (s *QuizStore) CreateQuiz(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if owner, ok := s.shares[quiz.ShareCode]; ok && quiz.ShareCode != "" && owner != quiz.ID {
		return domain.ErrShareCodeTaken
	}
	s.putLocked(quiz)
	return nil
}

func (s *QuizStore) GetQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return cloneQuiz(quiz), nil
}

func (s *QuizStore) GetQuizByShareCode(ctx context.Context, code string) (domain.Quiz, error) {
	s.mu.RLock()
	quizID, ok := s.shares[code]
	s.mu.RUnlock()
	if !ok || code == "" {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return s.GetQuiz(ctx, quizID)
}

func (s *QuizStore) ListQuizzes(_ context.Context) ([]domain.Quiz, error) {
	s.mu.RLock()
	out := make([]domain.Quiz, 0, len(s.quizzes))
	for _, quiz := range s.quizzes {
		out = append(out, cloneQuiz(quiz))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *QuizStore) UpdateQuiz(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.quizzes[quiz.ID]
	if !ok {
		return domain.ErrQuizNotFound
	}
	if owner, ok := s.shares[quiz.ShareCode]; ok && quiz.ShareCode != "" && owner != quiz.ID {
		return domain.ErrShareCodeTaken
	}
	delete(s.shares, existing.ShareCode)
	s.putLocked(quiz)
	return nil
}

func (s *QuizStore) DeleteQuiz(_ context.Context, quizID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return domain.ErrQuizNotFound
	}
	delete(s.quizzes, quizID)
	delete(s.shares, quiz.ShareCode)
	return nil
}

func (s *QuizStore) putLocked(quiz domain.Quiz) {
	s.quizzes[quiz.ID] = cloneQuiz(quiz)
	if quiz.ShareCode != "" {
		s.shares[quiz.ShareCode] = quiz.ID
	}
}
