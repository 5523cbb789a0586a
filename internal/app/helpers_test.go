package app_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"quiz-maker-service/internal/app"
	"quiz-maker-service/internal/domain"
	"quiz-maker-service/internal/infra/memory"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type services struct {
	clock    *fakeClock
	quizRepo *memory.QuizStore
	drafts   *memory.DraftStore
	progRepo *memory.ProgressStore
	attRepo  *memory.AttemptStore

	quiz     *app.QuizService
	draft    *app.DraftService
	progress *app.ProgressService
	attempt  *app.AttemptService
	take     *app.TakeService
}

func newServices() *services {
	s := &services{
		clock:    newFakeClock(),
		quizRepo: memory.NewQuizStore(),
		drafts:   memory.NewDraftStore(),
		progRepo: memory.NewProgressStore(),
		attRepo:  memory.NewAttemptStore(),
	}
	var seq atomic.Int64
	opts := []app.Option{
		app.WithClock(s.clock.Now),
		app.WithIDGenerator(func() string { return fmt.Sprintf("id-%d", seq.Add(1)) }),
		app.WithShareCodeGenerator(func() string { return fmt.Sprintf("QUIZ-%08d", seq.Add(1)) }),
	}
	s.quiz = app.NewQuizService(s.quizRepo, s.attRepo, s.progRepo, opts...)
	s.draft = app.NewDraftService(s.drafts, s.quiz, opts...)
	s.progress = app.NewProgressService(s.progRepo, memory.NewFeedRegistry(), opts...)
	s.attempt = app.NewAttemptService(s.quizRepo, s.attRepo, s.progress, opts...)
	s.take = app.NewTakeService(s.quizRepo, s.progress, s.attempt, opts...)
	return s
}

// sampleContent is a valid quiz: q1 single answer, q2 multiple answer.
func sampleContent() domain.QuizContent {
	return domain.QuizContent{
		Title: "Fruit and numbers",
		Questions: []domain.Question{
			{
				ID:   "q1",
				Text: "What is 2 + 2?",
				Hint: "Even number",
				AnswerOptions: []domain.AnswerOption{
					{ID: "o1", Text: "3"},
					{ID: "o2", Text: "4", IsCorrect: true},
				},
			},
			{
				ID:   "q2",
				Text: "Which are fruits?",
				AnswerOptions: []domain.AnswerOption{
					{ID: "A", Text: "Apple", IsCorrect: true},
					{ID: "B", Text: "Banana", IsCorrect: true},
					{ID: "C", Text: "Carrot"},
				},
			},
		},
	}
}
