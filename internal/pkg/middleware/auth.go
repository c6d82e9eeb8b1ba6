package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gestorpro/gestorpro/internal/pkg/constants"
	"github.com/gestorpro/gestorpro/internal/pkg/entitlements"
	"github.com/gestorpro/gestorpro/internal/pkg/featuregate"
	"github.com/gestorpro/gestorpro/internal/pkg/usercontext"
)

// RequireAuth ensures a logged-in web session; redirects to /login if missing.
func RequireAuth(c *fiber.Ctx) error {
	v := c.Locals(usercontext.KeyFromProtected)
	loggedIn := false
	if b, ok := v.(bool); ok {
		loggedIn = b
	}
	if !loggedIn {
		return c.Redirect(constants.LoginRoute, fiber.StatusSeeOther)
	}
	return c.Next()
}

// RequireAPISessionAuth ensures a logged-in session for API routes and returns JSON 401 instead of redirect.
func RequireAPISessionAuth(c *fiber.Ctx) error {
	v := c.Locals(usercontext.KeyFromProtected)
	loggedIn := false
	if b, ok := v.(bool); ok {
		loggedIn = b
	}
	if !loggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	return c.Next()
}

// RequirePlan gates API routes behind a minimum plan. An unresolved plan
// yields 202 instead of 403 so clients retry rather than showing a denial.
func RequirePlan(required entitlements.Plan) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uc := usercontext.GetUserContext(c)
		decision := featuregate.Evaluate(uc.Plan, uc.PlanResolved, required)
		switch {
		case decision.Allowed():
			return c.Next()
		case decision.Denied():
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":         "plan_required",
				"message":       "this feature requires a higher plan",
				"required_plan": string(required),
				"current_plan":  string(uc.Plan),
			})
		default:
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
				"error":   "plan_pending",
				"message": "plan resolution in progress, retry shortly",
			})
		}
	}
}
