package adminController

import (
	"errors"

	"krpic_backend/database"
	"krpic_backend/middleware"
	"krpic_backend/models"
	"krpic_backend/services"

	"github.com/gofiber/fiber/v2"
)

// Controller is the admin back office: enrollment management, members and
// dashboard stats. It shares the enrollment service so admin-forced
// completions go through the same certificate issuance path as learners.
type Controller struct {
	Enrollments *services.EnrollmentService
}

func NewController(enrollments *services.EnrollmentService) *Controller {
	return &Controller{Enrollments: enrollments}
}

// GetEnrollments lists enrollments with optional status/course filters
func (ctrl *Controller) GetEnrollments(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Enrollment{})

	if status := c.Query("status"); status != "" {
		db = db.Where("status = ?", status)
	}
	if courseID := c.QueryInt("course_id", 0); courseID > 0 {
		db = db.Where("course_id = ?", courseID)
	}

	var total int64
	db.Count(&total)

	var enrollments []models.Enrollment
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	response := map[string]interface{}{
		"enrollments": enrollments,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", response)
}

// UpdateEnrollmentStatus changes an enrollment's status from the back office.
// Forcing "completed" issues the certificate through the regular path, so the
// numbering stays consistent with learner-initiated completions.
func (ctrl *Controller) UpdateEnrollmentStatus(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(int)

	reqData, ok := c.Locals("validatedStatusUpdate").(*struct {
		Status        string `json:"status"`
		PaymentStatus string `json:"payment_status"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.First(&enrollment, enrollmentID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if reqData.Status == models.EnrollmentStatusCompleted {
		number, err := ctrl.Enrollments.ForceComplete(uint(enrollmentID))
		if err != nil {
			if errors.Is(err, services.ErrEnrollmentNotFound) {
				return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
			}
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete enrollment!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment completed successfully!", fiber.Map{
			"certificate_number": number,
		})
	}

	updates := map[string]interface{}{}
	if reqData.Status != "" {
		updates["status"] = reqData.Status
	}
	if reqData.PaymentStatus != "" {
		updates["payment_status"] = reqData.PaymentStatus
	}
	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
	}

	if err := db.Model(&enrollment).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update enrollment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment updated successfully!", enrollment)
}

// DeleteEnrollment removes an enrollment entirely (admin-only, unconstrained)
func (ctrl *Controller) DeleteEnrollment(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(int)

	db := database.Database.Db

	var enrollment models.Enrollment
	if err := db.First(&enrollment, enrollmentID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if err := db.Unscoped().Delete(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete enrollment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment deleted successfully!", nil)
}

// GetMembers lists registered users
func (ctrl *Controller) GetMembers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.User{}).Where("is_deleted = false")

	var total int64
	db.Count(&total)

	var users []models.User
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch members!", nil)
	}

	for i := range users {
		users[i].Password = ""
	}

	response := map[string]interface{}{
		"members": users,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Members fetched successfully!", response)
}

// DeleteMember soft-deletes a user account
func (ctrl *Controller) DeleteMember(c *fiber.Ctx) error {
	memberID, err := c.ParamsInt("id")
	if err != nil || memberID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid member ID!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", memberID).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Member not found!", nil)
	}

	if user.Role == "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin accounts cannot be deleted!", nil)
	}

	if err := db.Model(&user).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete member!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Member deleted successfully!", nil)
}

// DashboardStats aggregates the numbers the back office landing page shows
func (ctrl *Controller) DashboardStats(c *fiber.Ctx) error {
	db := database.Database.Db

	var totalMembers int64
	db.Model(&models.User{}).Where("is_deleted = false").Count(&totalMembers)

	var totalCourses int64
	db.Model(&models.Course{}).Where("is_deleted = false").Count(&totalCourses)

	var totalEnrollments int64
	db.Model(&models.Enrollment{}).Count(&totalEnrollments)

	var pendingDeposits int64
	db.Model(&models.Enrollment{}).Where("status = ?", models.EnrollmentStatusPendingPayment).Count(&pendingDeposits)

	var completed int64
	db.Model(&models.Enrollment{}).Where("status = ?", models.EnrollmentStatusCompleted).Count(&completed)

	var revenue int64
	db.Model(&models.Enrollment{}).Where("payment_status = ?", models.PaymentStatusPaid).
		Select("COALESCE(SUM(payment_amount), 0)").Scan(&revenue)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", fiber.Map{
		"total_members":     totalMembers,
		"total_courses":     totalCourses,
		"total_enrollments": totalEnrollments,
		"pending_deposits":  pendingDeposits,
		"completed_courses": completed,
		"total_revenue":     revenue,
	})
}
