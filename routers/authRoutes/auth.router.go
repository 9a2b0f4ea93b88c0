package authRoutes

import (
	authControllers "krpic_backend/controllers/auth"
	"krpic_backend/middleware"
	authValidators "krpic_backend/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidators.Signup(), authControllers.Signup)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Post("/kakao", authValidators.Kakao(), authControllers.KakaoLogin)
	authGroup.Get("/me", middleware.JWTMiddleware, authControllers.Me)
}
