package webhookController

import (
	"errors"
	"log"

	"lms/middleware"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// Controller receives asynchronous payment gateway notifications
type Controller struct {
	Webhooks *services.WebhookService
}

func NewController(webhooks *services.WebhookService) *Controller {
	return &Controller{Webhooks: webhooks}
}

// RazorpayWebhook handles gateway event deliveries. The gateway retries
// anything that does not get a 2xx, so terminal conditions (bad signature,
// unknown order) must not look retryable.
func (ctl *Controller) RazorpayWebhook(c *fiber.Ctx) error {
	rawBody := c.Body()
	signature := c.Get("X-Razorpay-Signature")

	err := ctl.Webhooks.HandleEvent(rawBody, signature)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSignature):
			// Do not reveal whether the event would otherwise have been processed
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized", nil)
		case errors.Is(err, services.ErrOrderNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Order not found", nil)
		}
		log.Printf("Webhook processing error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Webhook processing failed", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Webhook processed", nil)
}
