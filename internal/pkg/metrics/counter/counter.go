package counter

import (
	"context"
	"strconv"

	"github.com/gestorpro/gestorpro/internal/pkg/cache"
)

const webhookOutcomesKey = "webhook:counters:outcomes"

// AddWebhookOutcome increments the delivery counter for a webhook outcome
// (applied, ignored, duplicate, or a rejection reason) in Redis.
func AddWebhookOutcome(outcome string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, webhookOutcomesKey, outcome, 1).Err()
}

// WebhookOutcomes returns every outcome counter accumulated so far.
func WebhookOutcomes() (map[string]int64, error) {
	ctx := context.Background()
	data, err := cache.GetClient().HGetAll(ctx, webhookOutcomesKey).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(data))
	for k, v := range data {
		n, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			continue
		}
		out[k] = n
	}
	return out, nil
}

// ResetWebhookOutcomes clears the outcome counters, typically from an
// operator task after the numbers have been recorded elsewhere.
func ResetWebhookOutcomes() error {
	ctx := context.Background()
	return cache.GetClient().Del(ctx, webhookOutcomesKey).Err()
}
