package noticeController

import (
	"krpic_backend/database"
	"krpic_backend/middleware"
	"krpic_backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetNotices lists published notices, pinned first
func GetNotices(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Notice{}).
		Where("is_deleted = false AND is_published = true")

	var total int64
	db.Count(&total)

	var notices []models.Notice
	if err := db.Offset(offset).Limit(limit).
		Order("is_pinned desc, created_at desc").Find(&notices).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch notices!", nil)
	}

	response := map[string]interface{}{
		"notices": notices,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notices fetched successfully!", response)
}

// GetNotice returns one published notice and counts the view
func GetNotice(c *fiber.Ctx) error {
	noticeID, err := c.ParamsInt("id")
	if err != nil || noticeID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid notice ID!", nil)
	}

	db := database.Database.Db

	var notice models.Notice
	if err := db.Where("id = ? AND is_deleted = false AND is_published = true", noticeID).
		First(&notice).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Notice not found!", nil)
	}

	if err := db.Model(&notice).UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err == nil {
		notice.ViewCount++
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notice fetched successfully!", notice)
}

// AdminCreateNotice creates a notice
func AdminCreateNotice(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedNotice").(*struct {
		Title       string `json:"title"`
		Content     string `json:"content"`
		IsPinned    bool   `json:"is_pinned"`
		IsPublished *bool  `json:"is_published"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	notice := models.Notice{
		Title:       reqData.Title,
		Content:     reqData.Content,
		IsPinned:    reqData.IsPinned,
		IsPublished: true,
	}
	if reqData.IsPublished != nil {
		notice.IsPublished = *reqData.IsPublished
	}

	if err := database.Database.Db.Create(&notice).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create notice!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Notice created successfully!", notice)
}

// AdminUpdateNotice updates a notice in place
func AdminUpdateNotice(c *fiber.Ctx) error {
	noticeID, err := c.ParamsInt("id")
	if err != nil || noticeID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid notice ID!", nil)
	}

	reqData, ok := c.Locals("validatedNotice").(*struct {
		Title       string `json:"title"`
		Content     string `json:"content"`
		IsPinned    bool   `json:"is_pinned"`
		IsPublished *bool  `json:"is_published"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var notice models.Notice
	if err := db.Where("id = ? AND is_deleted = false", noticeID).First(&notice).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Notice not found!", nil)
	}

	updates := map[string]interface{}{
		"title":     reqData.Title,
		"content":   reqData.Content,
		"is_pinned": reqData.IsPinned,
	}
	if reqData.IsPublished != nil {
		updates["is_published"] = *reqData.IsPublished
	}

	if err := db.Model(&notice).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update notice!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notice updated successfully!", notice)
}

// AdminDeleteNotice soft-deletes a notice
func AdminDeleteNotice(c *fiber.Ctx) error {
	noticeID, err := c.ParamsInt("id")
	if err != nil || noticeID <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid notice ID!", nil)
	}

	db := database.Database.Db

	var notice models.Notice
	if err := db.Where("id = ? AND is_deleted = false", noticeID).First(&notice).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Notice not found!", nil)
	}

	if err := db.Model(&notice).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete notice!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notice deleted successfully!", nil)
}
