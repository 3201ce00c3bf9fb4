package adminValidator

import (
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// GrantAccess validates the admin grant-access body
func GrantAccess() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserEmail string  `json:"userEmail"`
			CourseID  uint    `json:"courseId"`
			Amount    float64 `json:"amount"`
			Currency  string  `json:"currency"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.UserEmail) == "" {
			errors["userEmail"] = "User email is required!"
		}
		if reqData.CourseID == 0 {
			errors["courseId"] = "Course ID is required!"
		}
		if reqData.Amount < 0 {
			errors["amount"] = "Amount cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedGrantAccess", reqData)
		return c.Next()
	}
}

// UpdateRole validates the admin role-update body
func UpdateRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID uint   `json:"userId"`
			Role   string `json:"role"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.UserID == 0 {
			errors["userId"] = "User ID is required!"
		}
		if reqData.Role != "USER" && reqData.Role != "ADMIN" {
			errors["role"] = "Role must be USER or ADMIN!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpdateRole", reqData)
		return c.Next()
	}
}
