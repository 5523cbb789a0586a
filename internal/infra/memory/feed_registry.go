package memory

import (
	"context"
	"sync"

	"quiz-maker-service/internal/app"
	"quiz-maker-service/internal/domain"
)

// FeedRegistry is an in-process implementation of app.FeedRegistry. Feeds
// exist only while they have subscribers.
type FeedRegistry struct {
	mu    sync.Mutex
	feeds map[string]*app.Feed
}

func NewFeedRegistry() *FeedRegistry {
	return &FeedRegistry{
		feeds: make(map[string]*app.Feed),
	}
}

// Subscribe holds the registry lock across lookup and subscription so a
// concurrent cancel cannot drop the feed in between.
func (r *FeedRegistry) Subscribe(quizID string, current *domain.Progress) (<-chan app.ProgressUpdate, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	feed, ok := r.feeds[quizID]
	if !ok {
		feed = app.NewFeed(quizID)
		r.feeds[quizID] = feed
	}
	if current != nil {
		feed.Prime(current)
	}
	ch, unsubscribe := feed.Subscribe()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			unsubscribe()
			if r.feeds[quizID] == feed && feed.IsIdle() {
				delete(r.feeds, quizID)
			}
		})
	}
	return ch, cancel
}

// Publish delivers to subscribers in this process only.
func (r *FeedRegistry) Publish(_ context.Context, quizID string, progress *domain.Progress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if feed, ok := r.feeds[quizID]; ok {
		feed.Publish(progress)
	}
	return nil
}
