package enrollmentValidator

import (
	"strconv"
	"strings"

	"krpic_backend/middleware"

	"github.com/gofiber/fiber/v2"
)

// EnrollmentID validates the :id path parameter and stores it in locals
func EnrollmentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Enrollment ID is required!", nil)
		}

		enrollmentID, err := strconv.Atoi(idStr)
		if err != nil || enrollmentID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid enrollment ID!", nil)
		}

		c.Locals("enrollmentID", enrollmentID)
		return c.Next()
	}
}

// Progress validates a watch-progress report
func Progress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		enrollmentID, err := strconv.Atoi(idStr)
		if err != nil || enrollmentID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid enrollment ID!", nil)
		}

		reqData := new(struct {
			Position    int `json:"position"`
			MaxPosition int `json:"max_position"`
			Duration    int `json:"duration"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Position < 0 {
			errors["position"] = "Position cannot be negative!"
		}
		if reqData.MaxPosition < 0 {
			errors["max_position"] = "Max position cannot be negative!"
		}
		if reqData.Duration < 0 {
			errors["duration"] = "Duration cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("enrollmentID", enrollmentID)
		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}

// StatusUpdate validates an admin enrollment status change
func StatusUpdate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		enrollmentID, err := strconv.Atoi(idStr)
		if err != nil || enrollmentID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid enrollment ID!", nil)
		}

		reqData := new(struct {
			Status        string `json:"status"`
			PaymentStatus string `json:"payment_status"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		validStatuses := map[string]bool{
			"": true, "pending": true, "pending_payment": true,
			"approved": true, "rejected": true, "completed": true,
		}
		validPaymentStatuses := map[string]bool{
			"": true, "unpaid": true, "paid": true, "refunded": true,
		}

		if !validStatuses[reqData.Status] {
			errors["status"] = "Invalid status value!"
		}
		if !validPaymentStatuses[reqData.PaymentStatus] {
			errors["payment_status"] = "Invalid payment status value!"
		}
		if reqData.Status == "" && reqData.PaymentStatus == "" {
			errors["status"] = "At least one field is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("enrollmentID", enrollmentID)
		c.Locals("validatedStatusUpdate", reqData)
		return c.Next()
	}
}
