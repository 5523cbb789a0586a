package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"quiz-maker-service/internal/domain"
)

type advanceDraftRequest struct {
	Step int `json:"step" validate:"required,min=1,max=3"`
}

func (h *Handler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.drafts.ListDrafts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, drafts)
}

// SaveDraft upserts a draft; a body without id creates a new one.
func (h *Handler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	var draft domain.Draft
	if err := h.decode(r, &draft); err != nil {
		writeError(w, err)
		return
	}
	saved, err := h.drafts.SaveDraft(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.drafts.GetDraft(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (h *Handler) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.drafts.DiscardDraft(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) PublishDraft(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.drafts.PublishDraft(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, quiz)
}

func (h *Handler) AdvanceDraft(w http.ResponseWriter, r *http.Request) {
	var req advanceDraftRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	draft, err := h.drafts.AdvanceDraft(r.Context(), chi.URLParam(r, "id"), req.Step)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}
