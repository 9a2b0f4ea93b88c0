package analyticsController

import (
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strings"
	"time"

	"krpic_backend/database"
	"krpic_backend/middleware"
	"krpic_backend/models"

	"github.com/gofiber/fiber/v2"
)

// TrackPageView ingests one analytics hit. The write happens off the request
// path; the endpoint always answers immediately so the frontend beacon never
// blocks navigation.
func TrackPageView(c *fiber.Ctx) error {
	reqData := new(struct {
		Path     string `json:"path"`
		Referrer string `json:"referrer"`
	})

	if err := c.BodyParser(reqData); err != nil || strings.TrimSpace(reqData.Path) == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Path is required!", nil)
	}

	// Visitor identity is a hash of IP + user agent, never raw PII.
	sum := sha256.Sum256([]byte(c.IP() + "|" + c.Get("User-Agent")))

	view := models.PageView{
		Path:        strings.TrimSpace(reqData.Path),
		Referrer:    reqData.Referrer,
		UserAgent:   c.Get("User-Agent"),
		VisitorHash: hex.EncodeToString(sum[:8]),
		OccurredAt:  time.Now(),
	}

	go func(v models.PageView) {
		if err := database.Database.Db.Create(&v).Error; err != nil {
			log.Printf("Failed to store page view for %s: %v", v.Path, err)
		}
	}(view)

	return middleware.JsonResponse(c, fiber.StatusAccepted, true, "Page view recorded!", nil)
}

// AdminGetSummary aggregates page views for the back office
func AdminGetSummary(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days < 1 || days > 90 {
		days = 7
	}
	since := time.Now().AddDate(0, 0, -days)

	db := database.Database.Db

	var total int64
	db.Model(&models.PageView{}).Where("occurred_at >= ?", since).Count(&total)

	type PathCount struct {
		Path  string `json:"path"`
		Count int64  `json:"count"`
	}
	var topPaths []PathCount
	if err := db.Model(&models.PageView{}).
		Select("path, count(*) as count").
		Where("occurred_at >= ?", since).
		Group("path").Order("count desc").Limit(20).
		Scan(&topPaths).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch analytics summary!", nil)
	}

	var uniqueVisitors int64
	db.Model(&models.PageView{}).Where("occurred_at >= ?", since).
		Distinct("visitor_hash").Count(&uniqueVisitors)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Analytics summary fetched successfully!", fiber.Map{
		"days":            days,
		"total_views":     total,
		"unique_visitors": uniqueVisitors,
		"top_paths":       topPaths,
	})
}
