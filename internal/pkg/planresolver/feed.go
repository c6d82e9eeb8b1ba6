package planresolver

import (
	"context"

	"github.com/gestorpro/gestorpro/internal/pkg/cache"
)

// RedisFeed adapts the shared Redis client's pub/sub to the ChangeFeed
// interface. The webhook processor publishes plan changes on PlanChannel.
type RedisFeed struct{}

func NewRedisFeed() *RedisFeed {
	return &RedisFeed{}
}

func (f *RedisFeed) Subscribe(ctx context.Context, channel string) (<-chan string, func()) {
	pubsub := cache.Subscribe(ctx, channel)
	out := make(chan string)

	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			select {
			case out <- msg.Payload:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		_ = pubsub.Close()
	}
	return out, cancel
}
