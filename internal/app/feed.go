package app

import (
	"sync"
	"time"

	"quiz-maker-service/internal/domain"
)

// ProgressUpdate is pushed to feed subscribers after every save or clear.
// Progress is nil when the quiz's progress was cleared or submitted.
type ProgressUpdate struct {
	QuizID    string           `json:"quizId"`
	Progress  *domain.Progress `json:"progress"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Feed fans out progress updates for one quiz to live subscribers, e.g. two
// browser tabs taking the same quiz.
type Feed struct {
	quizID      string
	now         func() time.Time
	mu          sync.RWMutex
	last        *domain.Progress
	subscribers map[chan ProgressUpdate]struct{}
}

// NewFeed is exported for infrastructure layers that track feeds.
func NewFeed(quizID string) *Feed {
	return &Feed{
		quizID:      quizID,
		now:         time.Now,
		subscribers: make(map[chan ProgressUpdate]struct{}),
	}
}

// IsIdle reports whether nobody is subscribed.
func (f *Feed) IsIdle() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscribers) == 0
}

// Publish records progress (nil once cleared) as the latest snapshot and
// pushes it to every subscriber. Subscribers share the snapshot read-only.
func (f *Feed) Publish(progress *domain.Progress) ProgressUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = progress
	return f.broadcastLocked()
}

// Prime sets the initial snapshot for subscribers unless an update already happened.
func (f *Feed) Prime(progress *domain.Progress) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.last == nil {
		f.last = progress
	}
}

// Subscribe registers a subscriber whose first update is the current snapshot.
func (f *Feed) Subscribe() (<-chan ProgressUpdate, func()) {
	ch := make(chan ProgressUpdate, 8)

	f.mu.Lock()
	// ch is still empty, so the initial snapshot always fits and stays first
	ch <- f.snapshotLocked()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

func (f *Feed) broadcastLocked() ProgressUpdate {
	update := f.snapshotLocked()
	for ch := range f.subscribers {
		select {
		case ch <- update:
		default:
			// slow subscriber: replace its oldest pending update
			select {
			case <-ch:
			default:
			}
			ch <- update
		}
	}
	return update
}

func (f *Feed) snapshotLocked() ProgressUpdate {
	return ProgressUpdate{
		QuizID:    f.quizID,
		Progress:  f.last,
		UpdatedAt: f.now(),
	}
}
