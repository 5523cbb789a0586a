package memory

import (
	"context"
	"sort"
	"sync"

	"quiz-maker-service/internal/domain"
)

// DraftStore is an in-memory implementation of app.DraftRepository.
type DraftStore struct {
	mu     sync.RWMutex
	drafts map[string]domain.Draft
}

func NewDraftStore() *DraftStore {
	return &DraftStore{drafts: make(map[string]domain.Draft)}
}

func (s *DraftStore) SaveDraft(_ context.Context, draft domain.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[draft.ID] = cloneDraft(draft)
	return nil
}

func (s *DraftStore) GetDraft(_ context.Context, draftID string) (domain.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	draft, ok := s.drafts[draftID]
	if !ok {
		return domain.Draft{}, domain.ErrDraftNotFound
	}
	return cloneDraft(draft), nil
}

func (s *DraftStore) ListDrafts(_ context.Context) ([]domain.Draft, error) {
	s.mu.RLock()
	out := make([]domain.Draft, 0, len(s.drafts))
	for _, draft := range s.drafts {
		out = append(out, cloneDraft(draft))
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

func (s *DraftStore) DeleteDraft(_ context.Context, draftID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[draftID]; !ok {
		return domain.ErrDraftNotFound
	}
	delete(s.drafts, draftID)
	return nil
}
