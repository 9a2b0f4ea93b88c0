package certificateController

import (
	"strings"

	"krpic_backend/database"
	"krpic_backend/middleware"
	"krpic_backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// VerifyCertificate is the public authenticity check: anyone can look up a
// certificate by its code, no login required. Every successful lookup
// increments the verification counter, so this read has a write side effect.
func VerifyCertificate(c *fiber.Ctx) error {
	code := strings.ToUpper(strings.TrimSpace(c.Params("code")))
	if code == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Verification code is required!", nil)
	}

	db := database.Database.Db

	var verification models.CertificateVerification
	if err := db.Where("code = ?", code).First(&verification).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No certificate found for this code!", nil)
	}

	// Atomic increment; concurrent lookups must not lose counts.
	if err := db.Model(&models.CertificateVerification{}).Where("id = ?", verification.ID).
		UpdateColumn("verified_count", gorm.Expr("verified_count + 1")).Error; err == nil {
		verification.VerifiedCount++
	}

	var certificateNumber string
	var enrollment models.Enrollment
	if err := db.First(&enrollment, verification.EnrollmentID).Error; err == nil && enrollment.CertificateNumber != nil {
		certificateNumber = *enrollment.CertificateNumber
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate verified successfully!", fiber.Map{
		"code":               verification.Code,
		"user_name":          verification.UserName,
		"certificate_name":   verification.CertificateName,
		"certificate_number": certificateNumber,
		"completion_date":    verification.CompletionDate,
		"verified_count":     verification.VerifiedCount,
	})
}
