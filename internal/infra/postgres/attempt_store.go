package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-maker-service/internal/domain"
)

// AttemptStore keeps attempt snapshots as JSONB documents keyed by quiz.
type AttemptStore struct {
	pool *pgxpool.Pool
}

func NewAttemptStore(pool *pgxpool.Pool) *AttemptStore {
	return &AttemptStore{pool: pool}
}

func (s *AttemptStore) CreateAttempt(ctx context.Context, attempt domain.Attempt) error {
	data, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("marshal attempt: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO attempts (id, quiz_id, data, completed_at) VALUES ($1, $2, $3, $4)`,
		attempt.ID, attempt.QuizID, data, attempt.CompletedAt)
	if hasCode(err, foreignKeyViolation) {
		return domain.ErrQuizNotFound
	}
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

func (s *AttemptStore) GetAttempt(ctx context.Context, attemptID string) (domain.Attempt, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM attempts WHERE id=$1`, attemptID).Scan(&raw)
	if isNoRows(err) {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	if err != nil {
		return domain.Attempt{}, fmt.Errorf("load attempt: %w", err)
	}
	var attempt domain.Attempt
	if err := json.Unmarshal(raw, &attempt); err != nil {
		return domain.Attempt{}, fmt.Errorf("unmarshal attempt: %w", err)
	}
	return attempt, nil
}

func (s *AttemptStore) ListAttempts(ctx context.Context) ([]domain.Attempt, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM attempts ORDER BY completed_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return scanAttempts(rows)
}

func (s *AttemptStore) ListAttemptsByQuiz(ctx context.Context, quizID string) ([]domain.Attempt, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM attempts WHERE quiz_id=$1 ORDER BY completed_at DESC, id`, quizID)
	if err != nil {
		return nil, fmt.Errorf("list attempts for quiz %s: %w", quizID, err)
	}
	return scanAttempts(rows)
}

func (s *AttemptStore) DeleteAttempt(ctx context.Context, attemptID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM attempts WHERE id=$1`, attemptID)
	if err != nil {
		return fmt.Errorf("delete attempt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAttemptNotFound
	}
	return nil
}

func (s *AttemptStore) DeleteAttemptsByQuiz(ctx context.Context, quizID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM attempts WHERE quiz_id=$1`, quizID); err != nil {
		return fmt.Errorf("delete attempts for quiz %s: %w", quizID, err)
	}
	return nil
}

func scanAttempts(rows pgx.Rows) ([]domain.Attempt, error) {
	defer rows.Close()
	out := []domain.Attempt{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		var attempt domain.Attempt
		if err := json.Unmarshal(raw, &attempt); err != nil {
			return nil, fmt.Errorf("unmarshal attempt: %w", err)
		}
		out = append(out, attempt)
	}
	return out, rows.Err()
}
