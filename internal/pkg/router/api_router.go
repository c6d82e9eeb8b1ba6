package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/gestorpro/gestorpro/app/controllers"
	"github.com/gestorpro/gestorpro/internal/pkg/constants"
	"github.com/gestorpro/gestorpro/internal/pkg/entitlements"
	"github.com/gestorpro/gestorpro/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIRoute, limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "GestorPro API",
		})
	})

	v1 := api.Group("/v1", middleware.RequireAPISessionAuth)

	// Account and plan
	v1.Get("/account", controllers.HandleGetAccount)
	v1.Get("/account/plan", controllers.HandleGetPlan)
	v1.Get("/account/plan/watch", controllers.HandleWatchPlan)
	v1.Get("/account/business-profile", controllers.HandleGetBusinessProfile)
	v1.Put("/account/business-profile", controllers.HandleUpsertBusinessProfile)

	// Feature gate checks
	v1.Get("/features/:key", controllers.HandleCheckFeature)

	// Transactions and the monthly summary
	v1.Get("/transactions", controllers.HandleListTransactions)
	v1.Post("/transactions", controllers.HandleCreateTransaction)
	v1.Put("/transactions/:uuid", controllers.HandleUpdateTransaction)
	v1.Delete("/transactions/:uuid", controllers.HandleDeleteTransaction)
	v1.Get("/transactions/summary", controllers.HandleMonthlySummary)
	v1.Post("/transactions/:uuid/receipt", controllers.HandleUploadReceipt)
	v1.Get("/transactions/:uuid/receipt", controllers.HandleGetReceiptURL)

	// Employees
	v1.Get("/employees", controllers.HandleListEmployees)
	v1.Post("/employees", controllers.HandleCreateEmployee)
	v1.Put("/employees/:uuid", controllers.HandleUpdateEmployee)
	v1.Delete("/employees/:uuid", controllers.HandleDeleteEmployee)

	// Clients, premium and up
	clients := v1.Group("/clients", middleware.RequirePlan(entitlements.PlanPremium))
	clients.Get("/", controllers.HandleListClients)
	clients.Post("/", controllers.HandleCreateClient)
	clients.Put("/:uuid", controllers.HandleUpdateClient)
	clients.Delete("/:uuid", controllers.HandleDeleteClient)
	clients.Get("/:uuid/revenue-history", controllers.HandleClientRevenueHistory)

	// Tasks and goals
	v1.Get("/tasks", controllers.HandleListTasks)
	v1.Post("/tasks", controllers.HandleCreateTask)
	v1.Put("/tasks/:uuid", controllers.HandleUpdateTask)
	v1.Delete("/tasks/:uuid", controllers.HandleDeleteTask)

	v1.Get("/goals", controllers.HandleListGoals)
	v1.Post("/goals", controllers.HandleCreateGoal)
	v1.Put("/goals/:uuid", controllers.HandleUpdateGoal)
	v1.Delete("/goals/:uuid", controllers.HandleDeleteGoal)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
