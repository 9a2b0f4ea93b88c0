package paymentRoutes

import (
	paymentControllers "krpic_backend/controllers/payment"
	"krpic_backend/middleware"
	paymentValidators "krpic_backend/validators/payment"

	"github.com/gofiber/fiber/v2"
)

// SetupPaymentRoutes sets up checkout, confirmation and the provider webhook
func SetupPaymentRoutes(app *fiber.App, ctrl *paymentControllers.Controller) {
	paymentGroup := app.Group("/payment")

	paymentGroup.Post("/checkout", middleware.JWTMiddleware, paymentValidators.Checkout(), ctrl.Checkout)
	paymentGroup.Post("/confirm", middleware.JWTMiddleware, paymentValidators.Confirm(), ctrl.Confirm)

	// Provider-to-server callback, authenticated at the provider side.
	paymentGroup.Post("/webhook", ctrl.Webhook)
}
