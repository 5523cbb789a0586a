package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"quiz-maker-service/internal/app"
	"quiz-maker-service/internal/domain"
)

type createQuizRequest struct {
	domain.QuizContent
	AutoGenerateShareCode *bool  `json:"autoGenerateShareCode"`
	ShareCode             string `json:"shareCode"`
}

type renameQuizRequest struct {
	Title string `json:"title"`
}

type shareResponse struct {
	ShareCode string `json:"shareCode"`
}

func (h *Handler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	items, err := h.quizzes.ListQuizzes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req createQuizRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	quiz, err := h.quizzes.CreateQuiz(r.Context(), app.QuizInput{
		QuizContent:           req.QuizContent,
		AutoGenerateShareCode: req.AutoGenerateShareCode,
		ShareCode:             req.ShareCode,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, quiz)
}

func (h *Handler) ImportQuiz(w http.ResponseWriter, r *http.Request) {
	var doc domain.ExportedQuiz
	if err := h.decode(r, &doc); err != nil {
		writeError(w, err)
		return
	}
	quiz, err := h.quizzes.ImportQuiz(r.Context(), doc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, quiz)
}

// GetQuiz returns the quiz with its attempt history.
func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	detail, err := h.quizzes.GetQuizDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) GetSharedQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizzes.GetSharedQuiz(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *Handler) RenameQuiz(w http.ResponseWriter, r *http.Request) {
	var req renameQuizRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	quiz, err := h.quizzes.RenameQuiz(r.Context(), chi.URLParam(r, "id"), req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *Handler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	if err := h.quizzes.DeleteQuiz(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ExportQuiz(w http.ResponseWriter, r *http.Request) {
	doc, filename, err := h.quizzes.ExportQuiz(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) ShareQuiz(w http.ResponseWriter, r *http.Request) {
	code, err := h.quizzes.ShareQuiz(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shareResponse{ShareCode: code})
}

func (h *Handler) DuplicateQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizzes.DuplicateQuiz(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, quiz)
}
