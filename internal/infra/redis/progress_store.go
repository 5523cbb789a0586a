package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-maker-service/internal/domain"
)

// ProgressStore keeps the single progress record per quiz as JSON under
// quiz:progress:{quizID}. A zero ttl keeps records until they are deleted.
type ProgressStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProgressStore(client *redis.Client, ttl time.Duration) *ProgressStore {
	return &ProgressStore{client: client, ttl: ttl}
}

func (s *ProgressStore) GetProgress(ctx context.Context, quizID string) (domain.Progress, bool, error) {
	payload, err := s.client.Get(ctx, s.key(quizID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Progress{}, false, nil
	}
	if err != nil {
		return domain.Progress{}, false, fmt.Errorf("get progress %s: %w", quizID, err)
	}
	var p domain.Progress
	if err := json.Unmarshal(payload, &p); err != nil {
		return domain.Progress{}, false, fmt.Errorf("decode progress %s: %w", quizID, err)
	}
	return p.Clone(), true, nil
}

func (s *ProgressStore) SaveProgress(ctx context.Context, p domain.Progress) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(p.QuizID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save progress %s: %w", p.QuizID, err)
	}
	return nil
}

func (s *ProgressStore) DeleteProgress(ctx context.Context, quizID string) error {
	return s.client.Del(ctx, s.key(quizID)).Err()
}

func (s *ProgressStore) key(quizID string) string {
	return "quiz:progress:" + quizID
}
