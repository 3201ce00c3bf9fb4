package controllers

import (
	"errors"

	"lms/middleware"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// EnrollmentController exposes the enrollment engine over HTTP
type EnrollmentController struct {
	Enrollments *services.EnrollmentService
}

func NewEnrollmentController(enrollments *services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{Enrollments: enrollments}
}

// EnrollFree enrolls the caller into a free course
func (ctl *EnrollmentController) EnrollFree(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	enrollment, err := ctl.Enrollments.EnrollFree(userID, uint(courseID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCourseNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		case errors.Is(err, services.ErrAlreadyEnrolled):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
		case errors.Is(err, services.ErrPaymentRequired):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This course is paid. Please complete the payment to enroll.", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", enrollment)
}

// InitiatePaidEnrollment creates a payment gateway order for a paid course
func (ctl *EnrollmentController) InitiatePaidEnrollment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	order, err := ctl.Enrollments.InitiatePaid(userID, uint(courseID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCourseNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		case errors.Is(err, services.ErrAlreadyEnrolled):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
		case errors.Is(err, services.ErrFreeCourse):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This course is free. Use the free enrollment instead.", nil)
		case errors.Is(err, services.ErrPaymentGateway):
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to initiate payment. Please try again.", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to initiate payment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment initiated successfully!", order)
}

// VerifyPaidEnrollment verifies the checkout payment proof and enrolls the
// caller. Replays of an already-processed payment succeed without a new row.
func (ctl *EnrollmentController) VerifyPaidEnrollment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedPaymentProof").(*struct {
		PaymentID string `json:"razorpay_payment_id"`
		OrderID   string `json:"razorpay_order_id"`
		Signature string `json:"razorpay_signature"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	enrollment, err := ctl.Enrollments.ConfirmPaid(userID, uint(courseID), services.PaymentProof{
		PaymentID: reqData.PaymentID,
		OrderID:   reqData.OrderID,
		Signature: reqData.Signature,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSignature):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid payment signature!", nil)
		case errors.Is(err, services.ErrCourseNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify payment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment verified and enrollment successful!", enrollment)
}
