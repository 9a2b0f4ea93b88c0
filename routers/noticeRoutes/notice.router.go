package noticeRoutes

import (
	noticeControllers "krpic_backend/controllers/notice"
	"krpic_backend/middleware"
	noticeValidators "krpic_backend/validators/notice"

	"github.com/gofiber/fiber/v2"
)

// SetupNoticeRoutes sets up the public notice board and its admin management
func SetupNoticeRoutes(app *fiber.App) {
	noticeGroup := app.Group("/notice")

	noticeGroup.Get("/list", noticeControllers.GetNotices)
	noticeGroup.Get("/:id", noticeControllers.GetNotice)

	adminGroup := app.Group("/admin/notice")

	adminGroup.Post("/create", middleware.JWTMiddleware, middleware.AdminOnly, noticeValidators.Notice(), noticeControllers.AdminCreateNotice)
	adminGroup.Put("/:id", middleware.JWTMiddleware, middleware.AdminOnly, noticeValidators.Notice(), noticeControllers.AdminUpdateNotice)
	adminGroup.Delete("/:id", middleware.JWTMiddleware, middleware.AdminOnly, noticeControllers.AdminDeleteNotice)
}
