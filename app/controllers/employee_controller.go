package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gestorpro/gestorpro/app/models"
	"github.com/gestorpro/gestorpro/app/repository"
	"github.com/gestorpro/gestorpro/internal/pkg/entitlements"
	"github.com/gestorpro/gestorpro/internal/pkg/usercontext"
)

type employeeRequest struct {
	Name             string `json:"name"`
	Role             string `json:"role"`
	Status           string `json:"status"`
	MonthlyCostCents int64  `json:"monthly_cost_cents"`
	StartDate        string `json:"start_date"`
	Notes            string `json:"notes"`

	// Premium plan
	MonthlyBonusCents int64 `json:"monthly_bonus_cents"`

	// Pro plan
	AssignedGoal          string `json:"assigned_goal"`
	GeneratedRevenueCents int64  `json:"generated_revenue_cents"`
	EstimatedProfitCents  int64  `json:"estimated_profit_cents"`
	GoalAchieved          bool   `json:"goal_achieved"`
}

// HandleListEmployees returns all employees plus the active monthly cost total
func HandleListEmployees(c *fiber.Ctx) error {
	userID := currentUserID(c)

	repo := repository.GetGlobalFactory().GetEmployeeRepository()
	employees, err := repo.GetByUserID(userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load employees")
	}
	totalCost, err := repo.TotalActiveMonthlyCost(userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to sum payroll")
	}

	return c.JSON(fiber.Map{
		"employees":                employees,
		"active_monthly_cost_cents": totalCost,
	})
}

// HandleCreateEmployee creates an employee, enforcing the plan's headcount
// limit and the plan-gated fields.
func HandleCreateEmployee(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repo := repository.GetGlobalFactory().GetEmployeeRepository()

	if limit := entitlements.MaxEmployees(userCtx.Plan); limit > 0 {
		count, err := repo.CountByUserID(userCtx.UserID)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to count employees")
		}
		if count >= int64(limit) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "employee_limit_reached",
				"message": "Your plan's employee limit has been reached",
				"limit":   limit,
			})
		}
	}

	var req employeeRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "Request body could not be parsed")
	}
	if err := rejectGatedEmployeeFields(userCtx.Plan, &req); err != nil {
		return jsonError(c, fiber.StatusForbidden, "plan_required", err.Error())
	}

	startDate, err := parseDateField(req.StartDate)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_date", "start_date must be in YYYY-MM-DD format")
	}

	employee := &models.Employee{
		UserID:                userCtx.UserID,
		Name:                  req.Name,
		Role:                  req.Role,
		Status:                defaultIfEmpty(req.Status, models.EmployeeStatusAtivo),
		MonthlyCostCents:      req.MonthlyCostCents,
		MonthlyBonusCents:     req.MonthlyBonusCents,
		StartDate:             startDate,
		Notes:                 req.Notes,
		AssignedGoal:          req.AssignedGoal,
		GeneratedRevenueCents: req.GeneratedRevenueCents,
		EstimatedProfitCents:  req.EstimatedProfitCents,
		GoalAchieved:          req.GoalAchieved,
	}
	if err := employee.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}

	if err := repo.Create(employee); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save employee")
	}
	return c.Status(fiber.StatusCreated).JSON(employee)
}

// HandleUpdateEmployee updates an employee, enforcing the plan-gated fields
func HandleUpdateEmployee(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	repo := repository.GetGlobalFactory().GetEmployeeRepository()

	employee, err := repo.GetByUUID(userCtx.UserID, c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Employee not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load employee")
	}

	var req employeeRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid_payload", "Request body could not be parsed")
	}
	if err := rejectGatedEmployeeFields(userCtx.Plan, &req); err != nil {
		return jsonError(c, fiber.StatusForbidden, "plan_required", err.Error())
	}

	if req.Name != "" {
		employee.Name = req.Name
	}
	if req.Status != "" {
		employee.Status = req.Status
	}
	if req.StartDate != "" {
		startDate, err := parseDateField(req.StartDate)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid_date", "start_date must be in YYYY-MM-DD format")
		}
		employee.StartDate = startDate
	}
	employee.Role = req.Role
	employee.MonthlyCostCents = req.MonthlyCostCents
	employee.MonthlyBonusCents = req.MonthlyBonusCents
	employee.Notes = req.Notes
	employee.AssignedGoal = req.AssignedGoal
	employee.GeneratedRevenueCents = req.GeneratedRevenueCents
	employee.EstimatedProfitCents = req.EstimatedProfitCents
	employee.GoalAchieved = req.GoalAchieved

	if err := employee.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := repo.Update(employee); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save employee")
	}
	return c.JSON(employee)
}

// HandleDeleteEmployee removes one employee
func HandleDeleteEmployee(c *fiber.Ctx) error {
	userID := currentUserID(c)
	err := repository.GetGlobalFactory().GetEmployeeRepository().Delete(userID, c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Employee not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to delete employee")
	}
	return c.JSON(fiber.Map{"message": "Employee deleted"})
}

// rejectGatedEmployeeFields blocks bonus fields below premium and goal fields
// below pro.
func rejectGatedEmployeeFields(plan entitlements.Plan, req *employeeRequest) error {
	if req.MonthlyBonusCents != 0 && !entitlements.CanEmployeeBonus(plan) {
		return errors.New("employee bonuses require the premium plan")
	}
	usesGoals := req.AssignedGoal != "" || req.GeneratedRevenueCents != 0 || req.EstimatedProfitCents != 0 || req.GoalAchieved
	if usesGoals && !entitlements.CanEmployeeGoals(plan) {
		return errors.New("employee goals require the pro plan")
	}
	return nil
}

func defaultIfEmpty(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
