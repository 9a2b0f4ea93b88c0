package certificateRoutes

import (
	certificateControllers "krpic_backend/controllers/certificate"

	"github.com/gofiber/fiber/v2"
)

// SetupCertificateRoutes sets up public certificate verification. Anyone
// holding a verification code (e.g. an employer) can check it, no login.
func SetupCertificateRoutes(app *fiber.App) {
	certGroup := app.Group("/certificate")

	certGroup.Get("/verify/:code", certificateControllers.VerifyCertificate)
}
