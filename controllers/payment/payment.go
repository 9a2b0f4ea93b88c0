package paymentController

import (
	"encoding/json"
	"errors"
	"log"

	"krpic_backend/database"
	"krpic_backend/middleware"
	"krpic_backend/models"
	"krpic_backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Controller handles checkout preparation, server-side payment confirmation
// and the provider's webhook.
type Controller struct {
	Payments *services.PaymentService
}

func NewController(payments *services.PaymentService) *Controller {
	return &Controller{Payments: payments}
}

// Checkout prepares a payment-widget session: it issues the merchant order ID
// and returns the authoritative amount from the catalog.
func (ctrl *Controller) Checkout(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCheckout").(*struct {
		CourseID uint `json:"course_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = false AND status = ?", reqData.CourseID, "ACTIVE").
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not active!", nil)
	}

	// Already owning an approved or completed enrollment means nothing to buy.
	var existing models.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND status IN ?",
		userID, course.ID,
		[]string{models.EnrollmentStatusApproved, models.EnrollmentStatusCompleted}).
		First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You are already enrolled in this course!", nil)
	}

	orderID := "krpic_" + uuid.NewString()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checkout prepared successfully!", fiber.Map{
		"order_id":     orderID,
		"amount":       course.Price,
		"course_id":    course.ID,
		"course_title": course.Title,
	})
}

// Confirm finalizes a payment after the provider redirect. On success the
// enrollment is created (approved for immediate methods, pending_payment for
// virtual accounts, whose deposit details are returned for display).
func (ctrl *Controller) Confirm(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedConfirm").(*struct {
		PaymentKey string `json:"payment_key"`
		OrderID    string `json:"order_id"`
		Amount     int    `json:"amount"`
		CourseID   uint   `json:"course_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := ctrl.Payments.ConfirmPayment(userID, reqData.CourseID, reqData.PaymentKey, reqData.OrderID, reqData.Amount)
	if err != nil {
		var payErr *services.PaymentError
		if errors.As(err, &payErr) {
			// Propagate the provider's message and status to the user
			return middleware.JsonResponse(c, payErr.StatusCode, false, payErr.Message, fiber.Map{
				"code": payErr.Code,
			})
		}
		if errors.Is(err, services.ErrCourseNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		log.Printf("Payment confirmation failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to confirm payment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment confirmed successfully!", result)
}

// Webhook receives the provider's asynchronous payment-state pushes. The
// provider retries any non-2xx response indefinitely, so unknown events and
// missing rows are acknowledged with 200; only store failures return 500.
func (ctrl *Controller) Webhook(c *fiber.Ctx) error {
	body := c.Body()

	var event services.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Printf("Unparseable webhook payload: %v", err)
		// Malformed payloads will never become parseable on retry
		return c.SendStatus(fiber.StatusOK)
	}

	if err := ctrl.Payments.HandleWebhook(event, body); err != nil {
		log.Printf("Webhook processing failed for %s: %v", event.Data.PaymentKey, err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.SendStatus(fiber.StatusOK)
}
