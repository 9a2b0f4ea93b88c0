package enrollmentController

import (
	"errors"

	"krpic_backend/database"
	"krpic_backend/middleware"
	"krpic_backend/models"
	"krpic_backend/services"

	"github.com/gofiber/fiber/v2"
)

// Controller exposes the enrollment lifecycle over HTTP. The service is
// injected so tests can run it against a fake store.
type Controller struct {
	Enrollments *services.EnrollmentService
}

func NewController(enrollments *services.EnrollmentService) *Controller {
	return &Controller{Enrollments: enrollments}
}

// GetMyEnrollments lists the authenticated user's enrollments with course info
func (ctrl *Controller) GetMyEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var enrollments []models.Enrollment
	if err := database.Database.Db.Where("user_id = ?", userID).
		Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type EnrollmentWithCourse struct {
		models.Enrollment
		CourseTitle    string `json:"course_title"`
		CourseSlug     string `json:"course_slug"`
		CourseCategory string `json:"course_category"`
	}

	result := make([]EnrollmentWithCourse, len(enrollments))
	for i, e := range enrollments {
		var course models.Course
		database.Database.Db.Where("id = ?", e.CourseID).First(&course)
		result[i] = EnrollmentWithCourse{
			Enrollment:     e,
			CourseTitle:    course.Title,
			CourseSlug:     course.Slug,
			CourseCategory: course.Category,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"total":       len(result),
	})
}

// RecordProgress stores a watch-progress report for an owned enrollment
func (ctrl *Controller) RecordProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)

	reqData, ok := c.Locals("validatedProgress").(*struct {
		Position    int `json:"position"`
		MaxPosition int `json:"max_position"`
		Duration    int `json:"duration"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	err := ctrl.Enrollments.RecordProgress(userID, uint(enrollmentID), reqData.Position, reqData.MaxPosition, reqData.Duration)
	if err != nil {
		return enrollmentErrorResponse(c, err, "Failed to record progress!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress recorded successfully!", nil)
}

// Complete requests course completion and certificate issuance
func (ctrl *Controller) Complete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)

	number, err := ctrl.Enrollments.CompleteIfEligible(userID, uint(enrollmentID))
	if err != nil {
		var eligErr *services.EligibilityError
		if errors.As(err, &eligErr) {
			// Structured response so the frontend can show "you are at X%"
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course is not completed yet!", fiber.Map{
				"progress_percent": eligErr.Percent,
				"required_percent": services.CompletionThresholdPercent,
			})
		}
		return enrollmentErrorResponse(c, err, "Failed to complete the course!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course completed successfully!", fiber.Map{
		"certificate_number": number,
	})
}

// GetCertificate returns the certificate data for an owned, completed enrollment
func (ctrl *Controller) GetCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)

	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.First(&enrollment, enrollmentID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}
	if enrollment.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access Denied!", nil)
	}
	if enrollment.Status != models.EnrollmentStatusCompleted || enrollment.CertificateNumber == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate has not been issued yet!", nil)
	}

	var course models.Course
	db.First(&course, enrollment.CourseID)

	var verification models.CertificateVerification
	verificationCode := ""
	if err := db.Where("enrollment_id = ?", enrollment.ID).First(&verification).Error; err == nil {
		verificationCode = verification.Code
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully!", fiber.Map{
		"certificate_number": *enrollment.CertificateNumber,
		"certificate_id":     course.CertificateID,
		"course_title":       course.Title,
		"completed_at":       enrollment.CompletedAt,
		"verification_code":  verificationCode,
	})
}

func enrollmentErrorResponse(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrEnrollmentNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	case errors.Is(err, services.ErrNotOwner):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access Denied!", nil)
	case errors.Is(err, services.ErrCourseNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, fallback, nil)
	}
}
