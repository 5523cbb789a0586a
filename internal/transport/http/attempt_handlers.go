package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"quiz-maker-service/internal/app"
	"quiz-maker-service/internal/domain"
)

type submitAttemptRequest struct {
	QuizID    string                   `json:"quizId" validate:"required"`
	Answers   []domain.SubmittedAnswer `json:"answers" validate:"dive"`
	StartedAt time.Time                `json:"startedAt"`
	Mode      domain.FeedbackMode      `json:"mode" validate:"omitempty,oneof=immediate end"`
}

func (h *Handler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	var req submitAttemptRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Mode == "" {
		req.Mode = domain.FeedbackEnd
	}
	attempt, err := h.attempts.SubmitAttempt(r.Context(), app.SubmitInput{
		QuizID:    req.QuizID,
		Answers:   req.Answers,
		StartedAt: req.StartedAt,
		Mode:      req.Mode,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, attempt)
}

func (h *Handler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	attempts, err := h.attempts.ListAttempts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attempts)
}

func (h *Handler) ListQuizAttempts(w http.ResponseWriter, r *http.Request) {
	attempts, err := h.attempts.ListQuizAttempts(r.Context(), chi.URLParam(r, "quizId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attempts)
}

func (h *Handler) GetAttempt(w http.ResponseWriter, r *http.Request) {
	attempt, err := h.attempts.GetAttempt(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attempt)
}

func (h *Handler) DeleteAttempt(w http.ResponseWriter, r *http.Request) {
	if err := h.attempts.DeleteAttempt(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
