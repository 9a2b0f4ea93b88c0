package adminRoutes

import (
	adminControllers "krpic_backend/controllers/admin"
	analyticsControllers "krpic_backend/controllers/analytics"
	"krpic_backend/middleware"
	enrollmentValidators "krpic_backend/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up the back-office routes for enrollments, members,
// dashboard numbers and traffic analytics
func SetupAdminRoutes(app *fiber.App, ctrl *adminControllers.Controller) {
	enrollGroup := app.Group("/admin/enrollment")

	enrollGroup.Get("/list", middleware.JWTMiddleware, middleware.AdminOnly, ctrl.GetEnrollments)
	enrollGroup.Put("/:id", middleware.JWTMiddleware, middleware.AdminOnly, enrollmentValidators.StatusUpdate(), ctrl.UpdateEnrollmentStatus)
	enrollGroup.Delete("/:id", middleware.JWTMiddleware, middleware.AdminOnly, enrollmentValidators.EnrollmentID(), ctrl.DeleteEnrollment)

	memberGroup := app.Group("/admin/member")
	memberGroup.Get("/list", middleware.JWTMiddleware, middleware.AdminOnly, ctrl.GetMembers)
	memberGroup.Delete("/:id", middleware.JWTMiddleware, middleware.AdminOnly, ctrl.DeleteMember)

	dashGroup := app.Group("/admin/dashboard")
	dashGroup.Get("/stats", middleware.JWTMiddleware, middleware.AdminOnly, ctrl.DashboardStats)

	analyticsGroup := app.Group("/admin/analytics")
	analyticsGroup.Get("/summary", middleware.JWTMiddleware, middleware.AdminOnly, analyticsControllers.AdminGetSummary)
}

// SetupAnalyticsRoutes sets up the public page-view beacon
func SetupAnalyticsRoutes(app *fiber.App) {
	app.Post("/analytics/pageview", analyticsControllers.TrackPageView)
}
