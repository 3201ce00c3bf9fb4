package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App, enrollCtl *controllers.EnrollmentController, progressCtl *controllers.ProgressController) {
	userGroup := app.Group("/course")

	// Course listing and details (published courses)
	userGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	userGroup.Get("/:id", middleware.JWTMiddleware, validators.GetCourseDetail(), controllers.GetCourseDetails)

	// Enrollment (free and paid)
	userGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.EnrollCourse(), enrollCtl.EnrollFree)
	userGroup.Post("/:id/enroll/paid", middleware.JWTMiddleware, validators.EnrollCourse(), enrollCtl.InitiatePaidEnrollment)
	userGroup.Post("/:id/enroll/verify-payment", middleware.JWTMiddleware, validators.VerifyPayment(), enrollCtl.VerifyPaidEnrollment)

	// Progress tracking
	userGroup.Post("/:course_id/milestone/:milestone_id/complete", middleware.JWTMiddleware, validators.CompleteMilestone(), progressCtl.CompleteMilestone)
	userGroup.Get("/:course_id/progress", middleware.JWTMiddleware, validators.GetCourseProgress(), progressCtl.GetCourseProgress)

	// User enrollments
	userEnrollGroup := app.Group("/user")
	userEnrollGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetUserEnrollments)
}
