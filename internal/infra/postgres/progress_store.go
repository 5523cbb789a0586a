package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-maker-service/internal/domain"
)

// ProgressStore keeps one JSONB progress row per quiz id.
type ProgressStore struct {
	pool *pgxpool.Pool
}

func NewProgressStore(pool *pgxpool.Pool) *ProgressStore {
	return &ProgressStore{pool: pool}
}

func (s *ProgressStore) GetProgress(ctx context.Context, quizID string) (domain.Progress, bool, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM progress WHERE quiz_id=$1`, quizID).Scan(&raw)
	if isNoRows(err) {
		return domain.Progress{}, false, nil
	}
	if err != nil {
		return domain.Progress{}, false, fmt.Errorf("load progress: %w", err)
	}
	var p domain.Progress
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Progress{}, false, fmt.Errorf("unmarshal progress: %w", err)
	}
	return p.Clone(), true, nil
}

func (s *ProgressStore) SaveProgress(ctx context.Context, p domain.Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO progress (quiz_id, data, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (quiz_id) DO UPDATE SET data=EXCLUDED.data, updated_at=EXCLUDED.updated_at`,
		p.QuizID, data, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (s *ProgressStore) DeleteProgress(ctx context.Context, quizID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM progress WHERE quiz_id=$1`, quizID); err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}
