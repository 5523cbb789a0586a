package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"

	"quiz-maker-service/internal/app"
	"quiz-maker-service/internal/domain"
	"quiz-maker-service/internal/infra/memory"
)

const feedChannel = "quiz:progress:feed"

// FeedRegistry fans progress updates out across service instances over a
// Redis pub/sub channel. Every instance relays what it hears on the channel
// to its own in-process subscribers, including the instance that published.
type FeedRegistry struct {
	client *redis.Client
	local  *memory.FeedRegistry

	mu   sync.Mutex
	sub  *redis.PubSub
	done chan struct{}
}

type feedMessage struct {
	QuizID   string           `json:"quizId"`
	Progress *domain.Progress `json:"progress"`
}

func NewFeedRegistry(client *redis.Client) *FeedRegistry {
	return &FeedRegistry{
		client: client,
		local:  memory.NewFeedRegistry(),
	}
}

// Start subscribes to the feed channel and relays updates until Close. It
// returns once Redis has confirmed the subscription.
func (r *FeedRegistry) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sub != nil {
		return nil
	}

	sub := r.client.Subscribe(ctx, feedChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", feedChannel, err)
	}
	r.sub = sub
	r.done = make(chan struct{})
	go r.relay(sub.Channel(), r.done)
	return nil
}

func (r *FeedRegistry) relay(messages <-chan *redis.Message, done chan<- struct{}) {
	defer close(done)
	for msg := range messages {
		var m feedMessage
		if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
			log.Printf("decode progress feed message: %v", err)
			continue
		}
		_ = r.local.Publish(context.Background(), m.QuizID, m.Progress)
	}
}

// Close stops relaying and waits for the relay goroutine to exit.
func (r *FeedRegistry) Close() error {
	r.mu.Lock()
	sub, done := r.sub, r.done
	r.sub, r.done = nil, nil
	r.mu.Unlock()

	if sub == nil {
		return nil
	}
	err := sub.Close()
	<-done
	return err
}

func (r *FeedRegistry) Subscribe(quizID string, current *domain.Progress) (<-chan app.ProgressUpdate, func()) {
	return r.local.Subscribe(quizID, current)
}

// Publish sends the update through Redis. Before Start, or when Redis is
// unreachable, local subscribers are served directly.
func (r *FeedRegistry) Publish(ctx context.Context, quizID string, progress *domain.Progress) error {
	payload, err := json.Marshal(feedMessage{QuizID: quizID, Progress: progress})
	if err != nil {
		return fmt.Errorf("encode progress feed message: %w", err)
	}
	if err := r.client.Publish(ctx, feedChannel, payload).Err(); err != nil {
		_ = r.local.Publish(ctx, quizID, progress)
		return fmt.Errorf("publish progress feed %s: %w", quizID, err)
	}
	if !r.listening() {
		return r.local.Publish(ctx, quizID, progress)
	}
	return nil
}

func (r *FeedRegistry) listening() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sub != nil
}
