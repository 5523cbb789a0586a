package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"quiz-maker-service/internal/domain"
)

func TestProgressStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewProgressStore(newClient(mr), 0)

	if _, ok, err := store.GetProgress(ctx, "quiz-1"); err != nil || ok {
		t.Fatalf("expected no progress, ok=%v err=%v", ok, err)
	}

	started := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	p := domain.Progress{
		QuizID:               "quiz-1",
		CurrentQuestionIndex: 1,
		Answers:              map[string][]string{"q1": {"o2"}},
		SkippedQuestions:     []string{"q2"},
		Mode:                 domain.FeedbackImmediate,
		StartedAt:            started,
	}
	if err := store.SaveProgress(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("quiz:progress:quiz-1") {
		t.Fatalf("expected progress key")
	}

	got, ok, err := store.GetProgress(ctx, "quiz-1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.CurrentQuestionIndex != 1 || got.Answers["q1"][0] != "o2" || got.Mode != domain.FeedbackImmediate {
		t.Fatalf("unexpected progress %+v", got)
	}
	if !got.StartedAt.Equal(started) {
		t.Fatalf("startedAt changed: %v", got.StartedAt)
	}

	if err := store.DeleteProgress(ctx, "quiz-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists("quiz:progress:quiz-1") {
		t.Fatalf("expected progress key removed")
	}
}

func TestProgressStoreHonoursTTL(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewProgressStore(newClient(mr), time.Hour)
	if err := store.SaveProgress(context.Background(), domain.Progress{QuizID: "quiz-1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	mr.FastForward(2 * time.Hour)
	if mr.Exists("quiz:progress:quiz-1") {
		t.Fatalf("expected progress to expire")
	}
}
