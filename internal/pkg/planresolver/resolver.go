package planresolver

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/gestorpro/gestorpro/app/models"
	"github.com/gestorpro/gestorpro/internal/pkg/entitlements"
)

// ProfileStore is the read-only view of the profile table the resolver needs.
type ProfileStore interface {
	GetOrCreate(userID uint) (*models.Profile, error)
}

// ChangeFeed delivers plan-change notifications for a channel name. The redis
// implementation lives in feed.go; tests inject an in-memory one.
type ChangeFeed interface {
	// Subscribe returns a message stream and a cancel function that stops it.
	Subscribe(ctx context.Context, channel string) (<-chan string, func())
}

// PlanChannel is the pub/sub channel carrying plan updates for one user.
func PlanChannel(userID uint) string {
	return fmt.Sprintf("plan:changed:%d", userID)
}

// PlanCacheKey is the cache entry holding a user's last resolved plan. The
// webhook processor overwrites it when a payment changes the plan, so stale
// session copies never survive an upgrade.
func PlanCacheKey(userID uint) string {
	return fmt.Sprintf("user:plan:%d", userID)
}

type subscription struct {
	once   sync.Once
	cancel func()
	done   chan struct{}
}

func (s *subscription) stop() {
	s.once.Do(func() {
		s.cancel()
		close(s.done)
	})
}

// Resolver produces the authoritative current plan for a session and keeps it
// fresh through change notifications. Read-only against the profile store;
// plan writes happen in the webhook processor or admin paths.
type Resolver struct {
	store ProfileStore
	feed  ChangeFeed

	mu   sync.Mutex
	subs map[uint]*subscription
}

func New(store ProfileStore, feed ChangeFeed) *Resolver {
	return &Resolver{
		store: store,
		feed:  feed,
		subs:  make(map[uint]*subscription),
	}
}

// Resolve returns the current plan for the given session user. The absence of
// a session (userID 0) is a normal state, not an error. Store failures and
// malformed rows degrade to free with a log entry; no error ever reaches the
// caller.
func (r *Resolver) Resolve(ctx context.Context, userID uint) entitlements.Plan {
	_ = ctx
	if userID == 0 {
		return entitlements.PlanFree
	}
	if r.store == nil {
		log.Printf("[planresolver] no profile store configured, degrading user %d to free", userID)
		return entitlements.PlanFree
	}

	profile, err := r.store.GetOrCreate(userID)
	if err != nil {
		log.Printf("[planresolver] profile read failed for user %d, degrading to free: %v", userID, err)
		return entitlements.PlanFree
	}
	if !entitlements.IsValid(profile.Plan) {
		log.Printf("[planresolver] malformed plan %q for user %d, degrading to free", profile.Plan, userID)
		return entitlements.PlanFree
	}
	return entitlements.Plan(profile.Plan)
}

// Subscribe registers onChange for plan updates of the given user and returns
// an unsubscribe handle. Subscribing again for the same user replaces the
// previous subscription instead of stacking listeners.
func (r *Resolver) Subscribe(ctx context.Context, userID uint, onChange func(entitlements.Plan)) func() {
	if userID == 0 || r.feed == nil {
		return func() {}
	}

	msgs, cancel := r.feed.Subscribe(ctx, PlanChannel(userID))
	sub := &subscription{cancel: cancel, done: make(chan struct{})}

	r.mu.Lock()
	if prev, ok := r.subs[userID]; ok {
		prev.stop()
	}
	r.subs[userID] = sub
	r.mu.Unlock()

	go func() {
		for {
			select {
			case <-sub.done:
				return
			case payload, ok := <-msgs:
				if !ok {
					return
				}
				onChange(entitlements.NormalizePlan(payload))
			}
		}
	}()

	return func() {
		r.mu.Lock()
		if current, ok := r.subs[userID]; ok && current == sub {
			delete(r.subs, userID)
		}
		r.mu.Unlock()
		sub.stop()
	}
}
