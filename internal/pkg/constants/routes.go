package constants

// Static route constants
const (
	LoginRoute    = "/login"
	RegisterRoute = "/register"
	ActivateRoute = "/activate"
	APIRoute      = "/api"

	// Payment provider webhook endpoints. The legacy path predates the
	// provider-neutral rename and stays registered.
	WebhookRoute       = "/webhooks/payment-provider"
	WebhookLegacyRoute = "/api/webhooks/kiwify"
)
