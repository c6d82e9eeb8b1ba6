package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gestorpro/gestorpro/app/models"
	"github.com/gestorpro/gestorpro/app/repository"
)

type goalRequest struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Deadline    string `json:"deadline"`
	Progress    *int   `json:"progress"`
	Description string `json:"description"`
}

// HandleListGoals returns the user's goals
func HandleListGoals(c *fiber.Ctx) error {
	userID := currentUserID(c)
	goals, err := repository.GetGlobalFactory().GetGoalRepository().GetByUserID(userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load goals")
	}
	return c.JSON(fiber.Map{"goals": goals})
}

// HandleCreateGoal creates a goal
func HandleCreateGoal(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req goalRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "Request body could not be parsed")
	}

	goal := &models.Goal{
		UserID:      userID,
		Title:       req.Title,
		Type:        defaultIfEmpty(req.Type, models.HorizonCurtoPrazo),
		Description: req.Description,
	}
	if req.Deadline != "" {
		deadline, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid_date", "deadline must be in YYYY-MM-DD format")
		}
		goal.Deadline = &deadline
	}
	if req.Progress != nil {
		goal.Progress = *req.Progress
	}

	if err := goal.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := repository.GetGlobalFactory().GetGoalRepository().Create(goal); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save goal")
	}
	return c.Status(fiber.StatusCreated).JSON(goal)
}

// HandleUpdateGoal updates a goal
func HandleUpdateGoal(c *fiber.Ctx) error {
	userID := currentUserID(c)
	repo := repository.GetGlobalFactory().GetGoalRepository()

	goal, err := repo.GetByUUID(userID, c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Goal not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load goal")
	}

	var req goalRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "Request body could not be parsed")
	}

	if req.Title != "" {
		goal.Title = req.Title
	}
	if req.Type != "" {
		goal.Type = req.Type
	}
	if req.Deadline != "" {
		deadline, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid_date", "deadline must be in YYYY-MM-DD format")
		}
		goal.Deadline = &deadline
	}
	if req.Progress != nil {
		goal.Progress = *req.Progress
	}
	goal.Description = req.Description

	if err := goal.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := repo.Update(goal); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save goal")
	}
	return c.JSON(goal)
}

// HandleDeleteGoal removes one goal
func HandleDeleteGoal(c *fiber.Ctx) error {
	userID := currentUserID(c)
	err := repository.GetGlobalFactory().GetGoalRepository().Delete(userID, c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Goal not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete goal")
	}
	return c.JSON(fiber.Map{"message": "Goal deleted"})
}
