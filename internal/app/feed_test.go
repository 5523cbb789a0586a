package app_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-maker-service/internal/app"
	"quiz-maker-service/internal/domain"
)

func TestFeedInitialSnapshotComesFirst(t *testing.T) {
	feed := app.NewFeed("quiz-1")
	feed.Publish(&domain.Progress{QuizID: "quiz-1", CurrentQuestionIndex: 3})

	ch, cancel := feed.Subscribe()
	defer cancel()
	require.Len(t, ch, 1)
	initial := <-ch
	require.NotNil(t, initial.Progress)
	assert.Equal(t, 3, initial.Progress.CurrentQuestionIndex)
}

func TestFeedSubscribeDuringBroadcastStorm(t *testing.T) {
	feed := app.NewFeed("quiz-1")
	_, keepAlive := feed.Subscribe()
	defer keepAlive()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 200; i++ {
			feed.Publish(&domain.Progress{QuizID: "quiz-1", CurrentQuestionIndex: i})
		}
	}()

	for i := 0; i < 20; i++ {
		ch, cancel := feed.Subscribe()
		// updates never overtake the snapshot a subscriber starts from
		prev := -1
		for len(ch) > 0 {
			update := <-ch
			index := 0
			if update.Progress != nil {
				index = update.Progress.CurrentQuestionIndex
			}
			assert.GreaterOrEqual(t, index, prev)
			prev = index
		}
		cancel()
	}
	wg.Wait()
	assert.False(t, feed.IsIdle())
}
