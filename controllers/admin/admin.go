package adminController

import (
	"errors"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// Controller handles the admin back-office routes
type Controller struct {
	Enrollments *services.EnrollmentService
}

func NewController(enrollments *services.EnrollmentService) *Controller {
	return &Controller{Enrollments: enrollments}
}

// GrantCourseAccess enrolls a user into a paid course without payment,
// recording sentinel provenance. Duplicate grants are rejected.
func (ctl *Controller) GrantCourseAccess(c *fiber.Ctx) error {
	adminID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedGrantAccess").(*struct {
		UserEmail string  `json:"userEmail"`
		CourseID  uint    `json:"courseId"`
		Amount    float64 `json:"amount"`
		Currency  string  `json:"currency"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	enrollment, err := ctl.Enrollments.GrantAccess(adminID, reqData.UserEmail, reqData.CourseID, reqData.Amount, reqData.Currency)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotAdmin):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied. Admin role required.", nil)
		case errors.Is(err, services.ErrUserNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		case errors.Is(err, services.ErrCourseNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		case errors.Is(err, services.ErrAlreadyEnrolled):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "User is already enrolled in this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grant access!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Access granted successfully!", enrollment)
}

// ListUsers returns all users, newest first
func (ctl *Controller) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := database.Database.Db.Where("is_deleted = ?", false).Order("created_at desc").Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	for i := range users {
		users[i].Password = ""
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", fiber.Map{
		"users": users,
	})
}

// UpdateUserRole changes a user's role
func (ctl *Controller) UpdateUserRole(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUpdateRole").(*struct {
		UserID uint   `json:"userId"`
		Role   string `json:"role"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reqData.UserID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	user.Role = reqData.Role
	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user role!", nil)
	}

	user.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User role updated successfully!", user)
}

// ListPayments returns payment orders, newest first
func (ctl *Controller) ListPayments(c *fiber.Ctx) error {
	var orders []models.PaymentOrder
	if err := database.Database.Db.Where("is_deleted = ?", false).Order("created_at desc").Find(&orders).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payments fetched successfully!", fiber.Map{
		"payments": orders,
	})
}

// ListPaidCourses returns all courses with a non-zero price
func (ctl *Controller) ListPaidCourses(c *fiber.Ctx) error {
	var courses []courseModels.Course
	if err := database.Database.Db.Where("price > 0 AND is_deleted = ?", false).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch paid courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Paid courses fetched successfully!", fiber.Map{
		"courses": courses,
	})
}
