package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gestorpro/gestorpro/app/models"
	"github.com/gestorpro/gestorpro/app/repository"
)

type taskRequest struct {
	Title     string `json:"title"`
	Completed *bool  `json:"completed"`
	Date      string `json:"date"`
	Type      string `json:"type"`
	Deadline  string `json:"deadline"`
	Priority  string `json:"priority"`
	Status    string `json:"status"`
}

// HandleListTasks returns the user's tasks, optionally filtered to one day
func HandleListTasks(c *fiber.Ctx) error {
	userID := currentUserID(c)
	repo := repository.GetGlobalFactory().GetTaskRepository()

	if day := c.Query("date"); day != "" {
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid_date", "date must be in YYYY-MM-DD format")
		}
		tasks, err := repo.GetByDate(userID, date)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load tasks")
		}
		return c.JSON(fiber.Map{"tasks": tasks})
	}

	tasks, err := repo.GetByUserID(userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load tasks")
	}
	return c.JSON(fiber.Map{"tasks": tasks})
}

// HandleCreateTask creates a task
func HandleCreateTask(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req taskRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "Request body could not be parsed")
	}

	date, err := parseDateField(req.Date)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_date", "date must be in YYYY-MM-DD format")
	}

	task := &models.Task{
		UserID:   userID,
		Title:    req.Title,
		Date:     date,
		Type:     defaultIfEmpty(req.Type, models.HorizonCurtoPrazo),
		Priority: defaultIfEmpty(req.Priority, models.TaskPriorityMedia),
		Status:   defaultIfEmpty(req.Status, models.TaskStatusPendente),
	}
	if req.Deadline != "" {
		deadline, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid_date", "deadline must be in YYYY-MM-DD format")
		}
		task.Deadline = &deadline
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	if err := task.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := repository.GetGlobalFactory().GetTaskRepository().Create(task); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save task")
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// HandleUpdateTask updates a task. Completing a task also moves its status to
// concluida.
func HandleUpdateTask(c *fiber.Ctx) error {
	userID := currentUserID(c)
	repo := repository.GetGlobalFactory().GetTaskRepository()

	task, err := repo.GetByUUID(userID, c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Task not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load task")
	}

	var req taskRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "Request body could not be parsed")
	}

	if req.Title != "" {
		task.Title = req.Title
	}
	if req.Date != "" {
		date, err := parseDateField(req.Date)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid_date", "date must be in YYYY-MM-DD format")
		}
		task.Date = date
	}
	if req.Type != "" {
		task.Type = req.Type
	}
	if req.Priority != "" {
		task.Priority = req.Priority
	}
	if req.Status != "" {
		task.Status = req.Status
	}
	if req.Deadline != "" {
		deadline, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid_date", "deadline must be in YYYY-MM-DD format")
		}
		task.Deadline = &deadline
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
		if task.Completed {
			task.Status = models.TaskStatusConcluida
		}
	}

	if err := task.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := repo.Update(task); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save task")
	}
	return c.JSON(task)
}

// HandleDeleteTask removes one task
func HandleDeleteTask(c *fiber.Ctx) error {
	userID := currentUserID(c)
	err := repository.GetGlobalFactory().GetTaskRepository().Delete(userID, c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Task not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete task")
	}
	return c.JSON(fiber.Map{"message": "Task deleted"})
}
