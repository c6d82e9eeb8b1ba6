package planresolver

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gestorpro/gestorpro/app/models"
	"github.com/gestorpro/gestorpro/internal/pkg/entitlements"
)

type stubStore struct {
	profiles map[uint]*models.Profile
	err      error
}

func (s *stubStore) GetOrCreate(userID uint) (*models.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	if p, ok := s.profiles[userID]; ok {
		return p, nil
	}
	p := &models.Profile{UserID: userID, Plan: "free"}
	return p, nil
}

type memoryFeed struct {
	mu       sync.Mutex
	channels map[string][]chan string
	canceled map[chan string]bool
}

func newMemoryFeed() *memoryFeed {
	return &memoryFeed{
		channels: make(map[string][]chan string),
		canceled: make(map[chan string]bool),
	}
}

func (f *memoryFeed) Subscribe(ctx context.Context, channel string) (<-chan string, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan string, 8)
	f.channels[channel] = append(f.channels[channel], ch)
	// Like the Redis feed, cancel stops delivery to this subscription. The
	// registration stays recorded so listenerCount reflects subscriptions made.
	return ch, func() {
		f.mu.Lock()
		f.canceled[ch] = true
		f.mu.Unlock()
	}
}

func (f *memoryFeed) publish(channel, payload string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.channels[channel] {
		if f.canceled[ch] {
			continue
		}
		ch <- payload
	}
}

func (f *memoryFeed) listenerCount(channel string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.channels[channel])
}

func TestResolve_NoSessionReturnsFree(t *testing.T) {
	r := New(&stubStore{}, newMemoryFeed())
	assert.Equal(t, entitlements.PlanFree, r.Resolve(context.Background(), 0))
}

func TestResolve_KnownPlan(t *testing.T) {
	store := &stubStore{profiles: map[uint]*models.Profile{
		7: {UserID: 7, Plan: "pro"},
	}}
	r := New(store, newMemoryFeed())
	assert.Equal(t, entitlements.PlanPro, r.Resolve(context.Background(), 7))
}

func TestResolve_StoreFailureDegradesToFree(t *testing.T) {
	r := New(&stubStore{err: errors.New("connection refused")}, newMemoryFeed())
	assert.Equal(t, entitlements.PlanFree, r.Resolve(context.Background(), 42))
}

func TestResolve_MalformedPlanDegradesToFree(t *testing.T) {
	store := &stubStore{profiles: map[uint]*models.Profile{
		9: {UserID: 9, Plan: "enterprise"},
	}}
	r := New(store, newMemoryFeed())
	assert.Equal(t, entitlements.PlanFree, r.Resolve(context.Background(), 9))
}

func TestSubscribe_DeliversChanges(t *testing.T) {
	feed := newMemoryFeed()
	r := New(&stubStore{}, feed)

	got := make(chan entitlements.Plan, 1)
	unsub := r.Subscribe(context.Background(), 5, func(p entitlements.Plan) {
		got <- p
	})
	defer unsub()

	feed.publish(PlanChannel(5), "premium")

	select {
	case p := <-got:
		assert.Equal(t, entitlements.PlanPremium, p)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for plan change")
	}
}

func TestSubscribe_ReplacesPreviousListener(t *testing.T) {
	feed := newMemoryFeed()
	r := New(&stubStore{}, feed)

	var firstCalls int32
	var mu sync.Mutex
	first := r.Subscribe(context.Background(), 3, func(entitlements.Plan) {
		mu.Lock()
		firstCalls++
		mu.Unlock()
	})
	_ = first

	got := make(chan entitlements.Plan, 1)
	second := r.Subscribe(context.Background(), 3, func(p entitlements.Plan) {
		got <- p
	})
	defer second()

	feed.publish(PlanChannel(3), "pro")

	select {
	case p := <-got:
		assert.Equal(t, entitlements.PlanPro, p)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for plan change")
	}

	// The first listener goroutine was stopped when the second subscription
	// replaced it; give it a moment and verify it saw nothing.
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	assert.Zero(t, firstCalls)
	mu.Unlock()
}

func TestSubscribe_UnsubscribeIsIdempotent(t *testing.T) {
	feed := newMemoryFeed()
	r := New(&stubStore{}, feed)

	unsub := r.Subscribe(context.Background(), 11, func(entitlements.Plan) {})
	unsub()
	unsub()

	assert.Equal(t, 1, feed.listenerCount(PlanChannel(11)))
}
