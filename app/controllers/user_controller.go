package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gestorpro/gestorpro/app/models"
	"github.com/gestorpro/gestorpro/app/repository"
	"github.com/gestorpro/gestorpro/internal/pkg/entitlements"
	"github.com/gestorpro/gestorpro/internal/pkg/middleware"
	"github.com/gestorpro/gestorpro/internal/pkg/usercontext"
	"github.com/gestorpro/gestorpro/internal/pkg/utils"
)

// planWatchTimeout bounds one long-poll cycle; the provider-to-webhook lag is
// usually a few seconds, the rest is headroom for slow checkouts.
const planWatchTimeout = 25 * time.Second

// HandleGetAccount returns account information for the authenticated user,
// including the resolved plan and its limits.
func HandleGetAccount(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid authentication")
	}

	repos := repository.GetGlobalFactory().GetRepositories()
	account, err := repos.User.GetByID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "User not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}

	profile, err := repos.Profile.GetOrCreate(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load profile")
	}

	plan := entitlements.NormalizePlan(profile.Plan)

	employeeCount, _ := repos.Employee.CountByUserID(userCtx.UserID)
	clientCount, _ := repos.Client.CountByUserID(userCtx.UserID)

	var maxEmployees interface{}
	if limit := entitlements.MaxEmployees(plan); limit > 0 {
		maxEmployees = limit
	}
	var maxClients interface{}
	if limit := entitlements.MaxClients(plan); limit > 0 {
		maxClients = limit
	}

	return c.JSON(fiber.Map{
		"id":            account.ID,
		"name":          account.Name,
		"email":         account.Email,
		"avatar_url":    utils.GetGravatarURL(account.Email, 200),
		"phone":         account.Phone,
		"status":        account.Status,
		"is_admin":      account.Role == models.ROLE_ADMIN,
		"plan":          string(plan),
		"plan_display":  entitlements.DisplayName(plan),
		"created_at":    account.CreatedAt.UTC().Format(time.RFC3339),
		"last_login_at": formatTimePtr(account.LastLoginAt),
		"counts": fiber.Map{
			"employees": employeeCount,
			"clients":   clientCount,
		},
		"limits": fiber.Map{
			"max_employees":      maxEmployees,
			"max_clients":        maxClients,
			"can_manage_clients": entitlements.CanManageClients(plan),
			"can_employee_bonus": entitlements.CanEmployeeBonus(plan),
			"can_employee_goals": entitlements.CanEmployeeGoals(plan),
		},
	})
}

// HandleGetBusinessProfile returns the onboarding data, 404 when onboarding
// has not been completed yet.
func HandleGetBusinessProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)
	profile, err := repository.GetGlobalFactory().GetBusinessProfileRepository().GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Business profile not set up yet")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load business profile")
	}
	return c.JSON(profile)
}

type businessProfileRequest struct {
	BusinessName string `json:"business_name"`
	BusinessType string `json:"business_type"`
	WhatYouSell  string `json:"what_you_sell"`
}

// HandleUpsertBusinessProfile creates or replaces the onboarding data
func HandleUpsertBusinessProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req businessProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "Request body could not be parsed")
	}

	profile := &models.BusinessProfile{
		UserID:       userID,
		BusinessName: req.BusinessName,
		BusinessType: req.BusinessType,
		WhatYouSell:  req.WhatYouSell,
	}
	if err := profile.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}

	if err := repository.GetGlobalFactory().GetBusinessProfileRepository().Upsert(profile); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save business profile")
	}
	return c.JSON(profile)
}

// HandleGetPlan returns just the resolved plan. The client polls this after a
// checkout redirect until the webhook lands.
func HandleGetPlan(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid authentication")
	}
	return c.JSON(fiber.Map{
		"plan":         string(userCtx.Plan),
		"plan_display": entitlements.DisplayName(userCtx.Plan),
		"resolved":     userCtx.PlanResolved,
	})
}

// HandleWatchPlan long-polls for a plan change on the session user. It answers
// as soon as a webhook applies a new plan, or with the current plan once the
// wait expires, so clients hold one request open instead of tight-polling
// after a checkout redirect.
func HandleWatchPlan(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Missing or invalid authentication")
	}

	resolver := middleware.PlanResolver()
	if resolver == nil {
		return c.JSON(fiber.Map{
			"plan":         string(userCtx.Plan),
			"plan_display": entitlements.DisplayName(userCtx.Plan),
			"changed":      false,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), planWatchTimeout)
	defer cancel()

	changes := make(chan entitlements.Plan, 1)
	unsubscribe := resolver.Subscribe(ctx, userCtx.UserID, func(plan entitlements.Plan) {
		select {
		case changes <- plan:
		default:
		}
	})
	defer unsubscribe()

	select {
	case plan := <-changes:
		return c.JSON(fiber.Map{
			"plan":         string(plan),
			"plan_display": entitlements.DisplayName(plan),
			"changed":      true,
		})
	case <-ctx.Done():
		return c.JSON(fiber.Map{
			"plan":         string(userCtx.Plan),
			"plan_display": entitlements.DisplayName(userCtx.Plan),
			"changed":      false,
		})
	}
}
