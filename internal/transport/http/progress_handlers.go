package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"quiz-maker-service/internal/domain"
)

type saveProgressRequest struct {
	CurrentQuestionIndex int                 `json:"currentQuestionIndex" validate:"min=0"`
	Answers              map[string][]string `json:"answers"`
	SkippedQuestions     []string            `json:"skippedQuestions"`
	HintsUsed            []string            `json:"hintsUsed"`
	Mode                 domain.FeedbackMode `json:"mode" validate:"omitempty,oneof=immediate end"`
}

// GetProgress writes null when the quiz has nothing in progress.
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	p, ok, err := h.progress.GetProgress(r.Context(), chi.URLParam(r, "quizId"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) SaveProgress(w http.ResponseWriter, r *http.Request) {
	var req saveProgressRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	saved, err := h.progress.SaveProgress(r.Context(), domain.Progress{
		QuizID:               chi.URLParam(r, "quizId"),
		CurrentQuestionIndex: req.CurrentQuestionIndex,
		Answers:              req.Answers,
		SkippedQuestions:     req.SkippedQuestions,
		HintsUsed:            req.HintsUsed,
		Mode:                 req.Mode,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) ClearProgress(w http.ResponseWriter, r *http.Request) {
	if err := h.progress.ClearProgress(r.Context(), chi.URLParam(r, "quizId")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
