package http

import (
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"quiz-maker-service/internal/app"
)

// Handler exposes the quiz maker use cases as a JSON API under /api.
type Handler struct {
	quizzes  *app.QuizService
	drafts   *app.DraftService
	progress *app.ProgressService
	attempts *app.AttemptService
	validate *validator.Validate
}

func NewHandler(quizzes *app.QuizService, drafts *app.DraftService, progress *app.ProgressService, attempts *app.AttemptService) *Handler {
	v := validator.New()
	// report json field names in violations
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{quizzes: quizzes, drafts: drafts, progress: progress, attempts: attempts, validate: v}
}

// NewRouter mounts the REST API and the websocket endpoint.
func NewRouter(h *Handler, ws *WSHandler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/ws", ws.ServeWS)

	r.Route("/api", func(r chi.Router) {
		// websocket connections must not be cut by the request timeout
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/health", h.Health)

		r.Route("/quizzes", func(r chi.Router) {
			r.Get("/", h.ListQuizzes)
			r.Post("/", h.CreateQuiz)
			r.Post("/import", h.ImportQuiz)
			r.Get("/shared/{code}", h.GetSharedQuiz)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetQuiz)
				r.Put("/", h.RenameQuiz)
				r.Delete("/", h.DeleteQuiz)
				r.Get("/export", h.ExportQuiz)
				r.Post("/share", h.ShareQuiz)
				r.Post("/duplicate", h.DuplicateQuiz)
			})
		})

		r.Route("/drafts", func(r chi.Router) {
			r.Get("/", h.ListDrafts)
			r.Post("/", h.SaveDraft)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetDraft)
				r.Delete("/", h.DiscardDraft)
				r.Post("/publish", h.PublishDraft)
				r.Post("/advance", h.AdvanceDraft)
			})
		})

		r.Route("/progress/{quizId}", func(r chi.Router) {
			r.Get("/", h.GetProgress)
			r.Post("/", h.SaveProgress)
			r.Delete("/", h.ClearProgress)
		})

		r.Route("/attempts", func(r chi.Router) {
			r.Get("/", h.ListAttempts)
			r.Post("/", h.SubmitAttempt)
			r.Get("/quiz/{quizId}", h.ListQuizAttempts)
			r.Get("/{id}", h.GetAttempt)
			r.Delete("/{id}", h.DeleteAttempt)
		})
	})
	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
