package enrollmentRoutes

import (
	enrollmentControllers "krpic_backend/controllers/enrollment"
	"krpic_backend/middleware"
	enrollmentValidators "krpic_backend/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

// SetupEnrollmentRoutes sets up the learner's own enrollment routes
func SetupEnrollmentRoutes(app *fiber.App, ctrl *enrollmentControllers.Controller) {
	enrollmentGroup := app.Group("/enrollment")

	enrollmentGroup.Get("/list", middleware.JWTMiddleware, ctrl.GetMyEnrollments)
	enrollmentGroup.Post("/:id/progress", middleware.JWTMiddleware, enrollmentValidators.Progress(), ctrl.RecordProgress)
	enrollmentGroup.Post("/:id/complete", middleware.JWTMiddleware, enrollmentValidators.EnrollmentID(), ctrl.Complete)
	enrollmentGroup.Get("/:id/certificate", middleware.JWTMiddleware, enrollmentValidators.EnrollmentID(), ctrl.GetCertificate)
}
