package webhookRoutes

import (
	webhookController "lms/controllers/webhook"

	"github.com/gofiber/fiber/v2"
)

// SetupWebhookRoutes sets up the payment gateway webhook route. No auth
// middleware here: the gateway authenticates itself with the signature
// header over the raw body.
func SetupWebhookRoutes(app *fiber.App, ctl *webhookController.Controller) {
	app.Post("/webhook/razorpay", ctl.RazorpayWebhook)
}
