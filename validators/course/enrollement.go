package courseValidator

import (
	"strconv"
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// courseIDParam validates the :id route param and stores it in locals
func courseIDParam(c *fiber.Ctx, param string) (int, bool) {
	idStr := strings.TrimSpace(c.Params(param))
	if idStr == "" {
		return 0, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func EnrollCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := courseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// VerifyPayment validates the checkout callback body for the paid
// enrollment verification route
func VerifyPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := courseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(struct {
			PaymentID string `json:"razorpay_payment_id"`
			OrderID   string `json:"razorpay_order_id"`
			Signature string `json:"razorpay_signature"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.PaymentID) == "" {
			errors["razorpay_payment_id"] = "Payment ID is required!"
		}
		if strings.TrimSpace(reqData.OrderID) == "" {
			errors["razorpay_order_id"] = "Order ID is required!"
		}
		if strings.TrimSpace(reqData.Signature) == "" {
			errors["razorpay_signature"] = "Signature is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedPaymentProof", reqData)
		return c.Next()
	}
}

// CompleteMilestone validates the milestone completion route params
func CompleteMilestone() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := courseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		milestoneID, ok := courseIDParam(c, "milestone_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Milestone ID!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("milestoneID", milestoneID)
		return c.Next()
	}
}

// GetCourseProgress validates the progress route params
func GetCourseProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := courseIDParam(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}
