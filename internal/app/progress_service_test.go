package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-maker-service/internal/app"
	"quiz-maker-service/internal/domain"
)

func TestSaveProgressKeepsOneRecordAndStartedAt(t *testing.T) {
	ctx := context.Background()
	s := newServices()
	started := s.clock.Now()

	_, err := s.progress.SaveProgress(ctx, domain.Progress{QuizID: "quiz-1", CurrentQuestionIndex: 0})
	require.NoError(t, err)
	s.clock.Advance(2 * time.Minute)
	saved, err := s.progress.SaveProgress(ctx, domain.Progress{
		QuizID:               "quiz-1",
		CurrentQuestionIndex: 3,
		Answers:              map[string][]string{"q1": {"o2"}},
	})
	require.NoError(t, err)

	assert.Equal(t, started, saved.StartedAt)
	assert.Equal(t, s.clock.Now(), saved.UpdatedAt)
	assert.Equal(t, domain.FeedbackEnd, saved.Mode)

	got, ok, err := s.progress.GetProgress(ctx, "quiz-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, got.CurrentQuestionIndex)
	assert.Equal(t, []string{"o2"}, got.Answers["q1"])
}

func TestSaveProgressRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	s := newServices()

	_, err := s.progress.SaveProgress(ctx, domain.Progress{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = s.progress.SaveProgress(ctx, domain.Progress{QuizID: "quiz-1", Mode: "later"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClearProgressIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newServices()
	_, err := s.progress.SaveProgress(ctx, domain.Progress{QuizID: "quiz-1"})
	require.NoError(t, err)

	require.NoError(t, s.progress.ClearProgress(ctx, "quiz-1"))
	require.NoError(t, s.progress.ClearProgress(ctx, "quiz-1"))
	_, ok, err := s.progress.GetProgress(ctx, "quiz-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSubscribeReceivesProgressUpdates(t *testing.T) {
	ctx := context.Background()
	s := newServices()
	_, err := s.progress.SaveProgress(ctx, domain.Progress{QuizID: "quiz-1", CurrentQuestionIndex: 1})
	require.NoError(t, err)

	ch, cancel, err := s.progress.Subscribe(ctx, "quiz-1")
	require.NoError(t, err)
	defer cancel()

	initial := receive(t, ch)
	require.NotNil(t, initial.Progress)
	assert.Equal(t, 1, initial.Progress.CurrentQuestionIndex)

	_, err = s.progress.SaveProgress(ctx, domain.Progress{QuizID: "quiz-1", CurrentQuestionIndex: 2})
	require.NoError(t, err)
	update := receive(t, ch)
	require.NotNil(t, update.Progress)
	assert.Equal(t, 2, update.Progress.CurrentQuestionIndex)

	require.NoError(t, s.progress.ClearProgress(ctx, "quiz-1"))
	cleared := receive(t, ch)
	assert.Nil(t, cleared.Progress)
}

func TestSlowSubscriberKeepsLatestUpdate(t *testing.T) {
	ctx := context.Background()
	s := newServices()

	ch, cancel, err := s.progress.Subscribe(ctx, "quiz-1")
	require.NoError(t, err)
	defer cancel()

	for i := 1; i <= 20; i++ {
		_, err := s.progress.SaveProgress(ctx, domain.Progress{QuizID: "quiz-1", CurrentQuestionIndex: i})
		require.NoError(t, err)
	}

	var last app.ProgressUpdate
	for len(ch) > 0 {
		last = <-ch
	}
	require.NotNil(t, last.Progress)
	assert.Equal(t, 20, last.Progress.CurrentQuestionIndex)
}

func TestCancelClosesSubscription(t *testing.T) {
	ctx := context.Background()
	s := newServices()

	ch, cancel, err := s.progress.Subscribe(ctx, "quiz-1")
	require.NoError(t, err)
	receive(t, ch)
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
}

func receive(t *testing.T, ch <-chan app.ProgressUpdate) app.ProgressUpdate {
	t.Helper()
	select {
	case update := <-ch:
		return update
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for progress update")
		return app.ProgressUpdate{}
	}
}
