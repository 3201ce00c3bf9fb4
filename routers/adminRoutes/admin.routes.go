package adminRoutes

import (
	adminController "lms/controllers/admin"
	"lms/middleware"
	adminValidator "lms/validators/admin"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up the admin back-office routes
func SetupAdminRoutes(app *fiber.App, ctl *adminController.Controller) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))

	adminGroup.Get("/users", ctl.ListUsers)
	adminGroup.Post("/users/role", adminValidator.UpdateRole(), ctl.UpdateUserRole)
	adminGroup.Get("/payments", ctl.ListPayments)
	adminGroup.Get("/courses/paid", ctl.ListPaidCourses)
	adminGroup.Post("/courses/paid/access", adminValidator.GrantAccess(), ctl.GrantCourseAccess)
}
