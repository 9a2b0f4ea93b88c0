package courseController

import (
	"krpic_backend/database"
	"krpic_backend/middleware"
	"krpic_backend/models"

	"github.com/gofiber/fiber/v2"
)

// AdminCreateCourse creates a course from a validated admin request
func AdminCreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title           string `json:"title"`
		Slug            string `json:"slug"`
		Category        string `json:"category"`
		Description     string `json:"description"`
		Instructor      string `json:"instructor"`
		Price           int    `json:"price"`
		DurationSeconds int    `json:"duration_seconds"`
		ThumbnailURL    string `json:"thumbnail_url"`
		CertificateID   string `json:"certificate_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Slug must be unique across the catalog
	if err := db.Where("slug = ? AND is_deleted = false", reqData.Slug).First(&models.Course{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A course with this slug already exists!", nil)
	}

	course := models.Course{
		Title:           reqData.Title,
		Slug:            reqData.Slug,
		Category:        reqData.Category,
		Description:     reqData.Description,
		Instructor:      reqData.Instructor,
		Price:           reqData.Price,
		DurationSeconds: reqData.DurationSeconds,
		ThumbnailURL:    reqData.ThumbnailURL,
		CertificateID:   reqData.CertificateID,
		Status:          "ACTIVE",
	}

	if err := db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// AdminUpdateCourse updates course fields in place
func AdminUpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedCourseUpdate").(*struct {
		Title           string `json:"title"`
		Category        string `json:"category"`
		Description     string `json:"description"`
		Instructor      string `json:"instructor"`
		Price           *int   `json:"price"`
		DurationSeconds *int   `json:"duration_seconds"`
		ThumbnailURL    string `json:"thumbnail_url"`
		CertificateID   string `json:"certificate_id"`
		Status          string `json:"status"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	updates := map[string]interface{}{}
	if reqData.Title != "" {
		updates["title"] = reqData.Title
	}
	if reqData.Category != "" {
		updates["category"] = reqData.Category
	}
	if reqData.Description != "" {
		updates["description"] = reqData.Description
	}
	if reqData.Instructor != "" {
		updates["instructor"] = reqData.Instructor
	}
	if reqData.Price != nil {
		updates["price"] = *reqData.Price
	}
	if reqData.DurationSeconds != nil {
		updates["duration_seconds"] = *reqData.DurationSeconds
	}
	if reqData.ThumbnailURL != "" {
		updates["thumbnail_url"] = reqData.ThumbnailURL
	}
	if reqData.CertificateID != "" {
		updates["certificate_id"] = reqData.CertificateID
	}
	if reqData.Status != "" {
		updates["status"] = reqData.Status
	}

	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
	}

	if err := db.Model(&course).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// AdminDeleteCourse soft-deletes a course from the catalog
func AdminDeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if err := db.Model(&course).Updates(map[string]interface{}{
		"is_deleted": true,
		"status":     "INACTIVE",
	}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// AdminGetAllCourses lists every non-deleted course, including inactive ones
func AdminGetAllCourses(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Course{}).Where("is_deleted = false")

	var total int64
	db.Count(&total)

	var courses []models.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	response := map[string]interface{}{
		"courses": courses,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", response)
}
