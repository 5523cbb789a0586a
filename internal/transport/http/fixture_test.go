package http

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"quiz-maker-service/internal/app"
	"quiz-maker-service/internal/domain"
	"quiz-maker-service/internal/infra/memory"
)

type testStack struct {
	server   *httptest.Server
	quizzes  *app.QuizService
	drafts   *app.DraftService
	progress *app.ProgressService
	attempts *app.AttemptService
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	var seq atomic.Int64
	opts := []app.Option{
		app.WithIDGenerator(func() string { return fmt.Sprintf("id-%d", seq.Add(1)) }),
		app.WithShareCodeGenerator(func() string { return fmt.Sprintf("QUIZ-%08d", seq.Add(1)) }),
	}

	quizRepo := memory.NewQuizRepository(memory.NewQuizStore(), time.Minute)
	progressRepo := memory.NewProgressStore()
	attemptRepo := memory.NewAttemptStore()

	quizzes := app.NewQuizService(quizRepo, attemptRepo, progressRepo, opts...)
	drafts := app.NewDraftService(memory.NewDraftStore(), quizzes, opts...)
	progress := app.NewProgressService(progressRepo, memory.NewFeedRegistry(), opts...)
	attempts := app.NewAttemptService(quizRepo, attemptRepo, progress, opts...)
	take := app.NewTakeService(quizRepo, progress, attempts, opts...)

	router := NewRouter(NewHandler(quizzes, drafts, progress, attempts), NewWSHandler(take, progress), []string{"*"})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testStack{server: server, quizzes: quizzes, drafts: drafts, progress: progress, attempts: attempts}
}

// seedQuiz publishes a two-question quiz: q1 single answer, q2 multiple answer.
func (s *testStack) seedQuiz(t *testing.T) domain.Quiz {
	t.Helper()
	quiz, err := s.quizzes.CreateQuiz(context.Background(), app.QuizInput{QuizContent: sampleContent()})
	if err != nil {
		t.Fatalf("seed quiz: %v", err)
	}
	return quiz
}

func sampleContent() domain.QuizContent {
	return domain.QuizContent{
		Title: "Arithmetic basics",
		Questions: []domain.Question{
			{
				ID:   "q1",
				Text: "What is 2 + 2?",
				Hint: "Count on your fingers",
				AnswerOptions: []domain.AnswerOption{
					{ID: "o1", Text: "3"},
					{ID: "o2", Text: "4", IsCorrect: true},
					{ID: "o3", Text: "5"},
				},
			},
			{
				ID:   "q2",
				Text: "Which numbers are even?",
				AnswerOptions: []domain.AnswerOption{
					{ID: "o4", Text: "2", IsCorrect: true},
					{ID: "o5", Text: "3"},
					{ID: "o6", Text: "4", IsCorrect: true},
				},
			},
		},
	}
}
