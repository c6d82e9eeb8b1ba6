package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gestorpro/gestorpro/app/controllers"
	"github.com/gestorpro/gestorpro/app/repository"
	"github.com/gestorpro/gestorpro/internal/pkg/constants"
	"github.com/gestorpro/gestorpro/internal/pkg/middleware"
	"github.com/gestorpro/gestorpro/internal/pkg/oauth"
	"github.com/gestorpro/gestorpro/internal/pkg/planresolver"
	"github.com/gestorpro/gestorpro/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init oauth providers
	oauth.Setup()

	// wire the plan resolver against the profile store and the redis feed
	resolver := planresolver.New(
		repository.GetGlobalFactory().GetProfileRepository(),
		planresolver.NewRedisFeed(),
	)
	middleware.SetPlanResolver(resolver)

	// init the receipt store once, before any upload route is hit
	controllers.InitReceiptStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.registerAuthRoutes(app)
	h.registerWebhookRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func (h HttpRouter) registerAuthRoutes(app *fiber.App) {
	app.Post(constants.RegisterRoute, controllers.HandleRegister)
	app.Get(constants.ActivateRoute, controllers.HandleActivate)
	app.Post(constants.LoginRoute, controllers.HandleLogin)
	app.Post("/logout", middleware.RequireAuth, controllers.HandleLogout)

	// OAuth (Google)
	app.Get("/auth/:provider", controllers.HandleOAuthStart)
	app.Get("/auth/:provider/callback", controllers.HandleOAuthCallback)
	app.Get("/auth/logout", controllers.HandleOAuthLogout)
}

func (h HttpRouter) registerWebhookRoutes(app *fiber.App) {
	// The provider POSTs order events here; GET answers its connectivity check
	app.Post(constants.WebhookRoute, controllers.HandlePaymentWebhook)
	app.Get(constants.WebhookRoute, controllers.HandlePaymentWebhookHealth)

	// Legacy path kept for provider dashboards configured before the rename
	app.Post(constants.WebhookLegacyRoute, controllers.HandlePaymentWebhook)
	app.Get(constants.WebhookLegacyRoute, controllers.HandlePaymentWebhookHealth)
}
