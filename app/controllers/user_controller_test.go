package controllers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestorpro/gestorpro/app/models"
	"github.com/gestorpro/gestorpro/internal/pkg/entitlements"
	"github.com/gestorpro/gestorpro/internal/pkg/middleware"
	"github.com/gestorpro/gestorpro/internal/pkg/planresolver"
	"github.com/gestorpro/gestorpro/internal/pkg/usercontext"
)

type watchStubStore struct{}

func (s *watchStubStore) GetOrCreate(userID uint) (*models.Profile, error) {
	return &models.Profile{UserID: userID, Plan: "free"}, nil
}

type watchMemoryFeed struct {
	mu       sync.Mutex
	channels map[string][]chan string
}

func newWatchMemoryFeed() *watchMemoryFeed {
	return &watchMemoryFeed{channels: make(map[string][]chan string)}
}

func (f *watchMemoryFeed) Subscribe(ctx context.Context, channel string) (<-chan string, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan string, 8)
	f.channels[channel] = append(f.channels[channel], ch)
	return ch, func() {}
}

func (f *watchMemoryFeed) publish(channel, payload string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.channels[channel] {
		ch <- payload
	}
}

func (f *watchMemoryFeed) hasListener(channel string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.channels[channel]) > 0
}

func watchTestApp(userCtx usercontext.UserContext) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		usercontext.SetUserContext(c, userCtx)
		return c.Next()
	})
	app.Get("/watch", HandleWatchPlan)
	return app
}

func TestWatchPlanWithoutResolverReturnsCurrent(t *testing.T) {
	middleware.SetPlanResolver(nil)
	app := watchTestApp(usercontext.UserContext{
		UserID: 7, IsLoggedIn: true, Plan: entitlements.PlanPremium, PlanResolved: true,
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/watch", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "premium", body["plan"])
	assert.Equal(t, false, body["changed"])
}

func TestWatchPlanDeliversWebhookChange(t *testing.T) {
	feed := newWatchMemoryFeed()
	middleware.SetPlanResolver(planresolver.New(&watchStubStore{}, feed))
	defer middleware.SetPlanResolver(nil)

	app := watchTestApp(usercontext.UserContext{
		UserID: 7, IsLoggedIn: true, Plan: entitlements.PlanFree, PlanResolved: true,
	})

	// Publish the upgrade once the handler's subscription is registered.
	go func() {
		deadline := time.Now().Add(2 * time.Second)
		for !feed.hasListener(planresolver.PlanChannel(7)) {
			if time.Now().After(deadline) {
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
		feed.publish(planresolver.PlanChannel(7), "pro")
	}()

	resp, err := app.Test(httptest.NewRequest("GET", "/watch", nil), 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "pro", body["plan"])
	assert.Equal(t, true, body["changed"])
}

func TestWatchPlanRequiresLogin(t *testing.T) {
	middleware.SetPlanResolver(nil)
	app := watchTestApp(usercontext.UserContext{IsLoggedIn: false, Plan: entitlements.PlanFree})

	resp, err := app.Test(httptest.NewRequest("GET", "/watch", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
