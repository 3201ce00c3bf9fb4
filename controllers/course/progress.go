package controllers

import (
	"errors"

	"lms/middleware"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// ProgressController exposes the progress engine over HTTP
type ProgressController struct {
	Progress *services.ProgressService
}

func NewProgressController(progress *services.ProgressService) *ProgressController {
	return &ProgressController{Progress: progress}
}

// CompleteMilestone marks a milestone as completed for the caller
func (ctl *ProgressController) CompleteMilestone(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	milestoneID := c.Locals("milestoneID").(int)

	snapshot, err := ctl.Progress.CompleteMilestone(userID, uint(courseID), uint(milestoneID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotEnrolled):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
		case errors.Is(err, services.ErrInvalidMilestone):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Milestone not found in this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark milestone as completed!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Milestone marked as completed!", snapshot)
}

// GetCourseProgress returns the course with the caller's per-milestone progress
func (ctl *ProgressController) GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	progress, err := ctl.Progress.GetCourseProgress(userID, uint(courseID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCourseNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		case errors.Is(err, services.ErrNotEnrolled):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress fetched successfully!", progress)
}
