package courseRoutes

import (
	courseControllers "krpic_backend/controllers/course"
	reviewControllers "krpic_backend/controllers/review"
	"krpic_backend/middleware"
	courseValidators "krpic_backend/validators/course"
	reviewValidators "krpic_backend/validators/review"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the public catalog and review routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog is public: prospective learners browse before signing up.
	courseGroup.Get("/list", courseControllers.GetCourses)
	courseGroup.Get("/:slug", courseControllers.GetCourseBySlug)

	// Reviews
	courseGroup.Get("/:id/reviews", reviewControllers.GetCourseReviews)
	courseGroup.Post("/:id/review", middleware.JWTMiddleware, reviewValidators.Create(), reviewControllers.CreateReview)
}

// SetupAdminCourseRoutes sets up course management for the back office
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course")

	adminGroup.Post("/create", middleware.JWTMiddleware, middleware.AdminOnly, courseValidators.CreateCourseAdmin(), courseControllers.AdminCreateCourse)
	adminGroup.Put("/:id", middleware.JWTMiddleware, middleware.AdminOnly, courseValidators.UpdateCourseAdmin(), courseControllers.AdminUpdateCourse)
	adminGroup.Delete("/:id", middleware.JWTMiddleware, middleware.AdminOnly, courseValidators.CourseID(), courseControllers.AdminDeleteCourse)
	adminGroup.Get("/list", middleware.JWTMiddleware, middleware.AdminOnly, courseControllers.AdminGetAllCourses)

	reviewGroup := app.Group("/admin/review")
	reviewGroup.Delete("/:id", middleware.JWTMiddleware, middleware.AdminOnly, reviewControllers.AdminDeleteReview)
}
