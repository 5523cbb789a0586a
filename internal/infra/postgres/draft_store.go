package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-maker-service/internal/domain"
)

// DraftStore keeps drafts as JSONB documents.
type DraftStore struct {
	pool *pgxpool.Pool
}

func NewDraftStore(pool *pgxpool.Pool) *DraftStore {
	return &DraftStore{pool: pool}
}

func (s *DraftStore) SaveDraft(ctx context.Context, draft domain.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO drafts (id, data, created_at, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data, updated_at=EXCLUDED.updated_at`,
		draft.ID, data, draft.CreatedAt, draft.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *DraftStore) GetDraft(ctx context.Context, draftID string) (domain.Draft, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM drafts WHERE id=$1`, draftID).Scan(&raw)
	if isNoRows(err) {
		return domain.Draft{}, domain.ErrDraftNotFound
	}
	if err != nil {
		return domain.Draft{}, fmt.Errorf("load draft: %w", err)
	}
	var draft domain.Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return domain.Draft{}, fmt.Errorf("unmarshal draft: %w", err)
	}
	return draft, nil
}

func (s *DraftStore) ListDrafts(ctx context.Context) ([]domain.Draft, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM drafts ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	out := []domain.Draft{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		var draft domain.Draft
		if err := json.Unmarshal(raw, &draft); err != nil {
			return nil, fmt.Errorf("unmarshal draft: %w", err)
		}
		out = append(out, draft)
	}
	return out, rows.Err()
}

func (s *DraftStore) DeleteDraft(ctx context.Context, draftID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM drafts WHERE id=$1`, draftID)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDraftNotFound
	}
	return nil
}
