package billing

import (
	"log"
	"time"

	"github.com/gestorpro/gestorpro/internal/pkg/cache"
	"github.com/gestorpro/gestorpro/internal/pkg/entitlements"
	"github.com/gestorpro/gestorpro/internal/pkg/planresolver"
)

// RedisPlanNotifier publishes plan changes on the per-user plan channel so
// the plan resolver's subscribers pick them up. Publish failures are logged
// only; the plan write already committed and the provider gets its 2xx.
type RedisPlanNotifier struct{}

func NewRedisPlanNotifier() *RedisPlanNotifier {
	return &RedisPlanNotifier{}
}

func (n *RedisPlanNotifier) PlanChanged(userID uint, plan entitlements.Plan) {
	if err := cache.Set(planresolver.PlanCacheKey(userID), string(plan), 24*time.Hour); err != nil {
		log.Printf("[billing] failed to refresh plan cache for user %d: %v", userID, err)
	}
	if err := cache.Publish(planresolver.PlanChannel(userID), string(plan)); err != nil {
		log.Printf("[billing] failed to publish plan change for user %d: %v", userID, err)
	}
}
