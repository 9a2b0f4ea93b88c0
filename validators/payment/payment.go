package paymentValidator

import (
	"strings"

	"krpic_backend/middleware"

	"github.com/gofiber/fiber/v2"
)

// Checkout validates the checkout preparation request
func Checkout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID uint `json:"course_id"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.CourseID == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"course_id": "Course ID is required!",
			})
		}

		c.Locals("validatedCheckout", reqData)
		return c.Next()
	}
}

// Confirm validates the payment confirmation request. All three provider
// correlation fields are mandatory before any external call is made.
func Confirm() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			PaymentKey string `json:"payment_key"`
			OrderID    string `json:"order_id"`
			Amount     int    `json:"amount"`
			CourseID   uint   `json:"course_id"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.PaymentKey = strings.TrimSpace(reqData.PaymentKey)
		reqData.OrderID = strings.TrimSpace(reqData.OrderID)

		if reqData.PaymentKey == "" {
			errors["payment_key"] = "Payment key is required!"
		}
		if reqData.OrderID == "" {
			errors["order_id"] = "Order ID is required!"
		}
		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be a positive number!"
		}
		if reqData.CourseID == 0 {
			errors["course_id"] = "Course ID is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedConfirm", reqData)
		return c.Next()
	}
}
