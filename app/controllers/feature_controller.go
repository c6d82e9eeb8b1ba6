package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gestorpro/gestorpro/internal/pkg/featuregate"
	"github.com/gestorpro/gestorpro/internal/pkg/usercontext"
)

// HandleCheckFeature answers whether the session user may use a feature.
// While the plan is still resolving the answer is pending, never denied, so
// clients don't flash an upsell at someone who is entitled.
func HandleCheckFeature(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	key := c.Params("key")

	decision, known := featuregate.EvaluateFeature(userCtx.Plan, userCtx.PlanResolved, key)
	if !known {
		return jsonError(c, fiber.StatusNotFound, "unknown_feature", "No such feature key")
	}

	return c.JSON(fiber.Map{
		"feature":       key,
		"state":         decision.State.String(),
		"allowed":       decision.Allowed(),
		"required_plan": string(decision.RequiredPlan),
		"current_plan":  string(decision.CurrentPlan),
	})
}
