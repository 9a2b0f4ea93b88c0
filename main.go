package main

import (
	"log"

	"krpic_backend/config"
	adminControllers "krpic_backend/controllers/admin"
	enrollmentControllers "krpic_backend/controllers/enrollment"
	paymentControllers "krpic_backend/controllers/payment"
	"krpic_backend/database"
	adminRoutes "krpic_backend/routers/adminRoutes"
	authRoutes "krpic_backend/routers/authRoutes"
	certificateRoutes "krpic_backend/routers/certificateRoutes"
	courseRoutes "krpic_backend/routers/courseRoutes"
	enrollmentRoutes "krpic_backend/routers/enrollmentRoutes"
	noticeRoutes "krpic_backend/routers/noticeRoutes"
	paymentRoutes "krpic_backend/routers/paymentRoutes"
	"krpic_backend/services"
	"krpic_backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	db := database.Database.Db

	gateway := services.NewTossClient(config.AppConfig.TossApiURL, config.AppConfig.TossSecretKey)
	enrollmentService := services.NewEnrollmentService(db)
	paymentService := services.NewPaymentService(db, gateway, enrollmentService, utils.Mailer{})

	enrollmentCtrl := enrollmentControllers.NewController(enrollmentService)
	paymentCtrl := paymentControllers.NewController(paymentService)
	adminCtrl := adminControllers.NewController(enrollmentService)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.AppConfig.FrontendURL,
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	enrollmentRoutes.SetupEnrollmentRoutes(app, enrollmentCtrl)
	paymentRoutes.SetupPaymentRoutes(app, paymentCtrl)
	certificateRoutes.SetupCertificateRoutes(app)
	noticeRoutes.SetupNoticeRoutes(app)
	adminRoutes.SetupAdminRoutes(app, adminCtrl)
	adminRoutes.SetupAnalyticsRoutes(app)

	// Sweep abandoned virtual-account reservations in the background
	utils.InitializeExpiryScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
