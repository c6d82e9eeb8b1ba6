package usercontext

import (
	"github.com/gestorpro/gestorpro/internal/pkg/entitlements"
	"github.com/gofiber/fiber/v2"
)

// UserContext represents the complete user context for a request
type UserContext struct {
	UserID       uint              `json:"user_id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	IsLoggedIn   bool              `json:"is_logged_in"`
	IsAdmin      bool              `json:"is_admin"`
	Plan         entitlements.Plan `json:"plan"`
	PlanResolved bool              `json:"plan_resolved"`
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals("USER_CONTEXT"); ctx != nil {
		return ctx.(UserContext)
	}
	return UserContext{IsLoggedIn: false, IsAdmin: false, Plan: entitlements.PlanFree}
}

// SetUserContext stores the user context on the request.
func SetUserContext(c *fiber.Ctx, ctx UserContext) {
	c.Locals("USER_CONTEXT", ctx)
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// IsAdmin checks if the current user is an admin
func IsAdmin(c *fiber.Ctx) bool {
	return GetUserContext(c).IsAdmin
}

// GetUserID returns the current user's ID, or 0 if not logged in
func GetUserID(c *fiber.Ctx) uint {
	return GetUserContext(c).UserID
}

// GetPlan returns the current user's resolved plan (free for anonymous users).
func GetPlan(c *fiber.Ctx) entitlements.Plan {
	return GetUserContext(c).Plan
}
