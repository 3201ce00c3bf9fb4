package main

import (
	"log"

	"lms/config"
	adminController "lms/controllers/admin"
	authController "lms/controllers/auth"
	controllers "lms/controllers/course"
	webhookController "lms/controllers/webhook"
	"lms/database"
	"lms/payment"
	adminRoutes "lms/routers/adminRoutes"
	authRoutes "lms/routers/authRoutes"
	courseRoutes "lms/routers/courseRoutes"
	webhookRoutes "lms/routers/webhookRoutes"
	"lms/services"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	// External collaborators, constructed once and injected
	gateway := payment.NewClient(
		config.AppConfig.RazorpayKeyID,
		config.AppConfig.RazorpayKeySecret,
		config.AppConfig.RazorpayWebhookSecret,
		config.AppConfig.RazorpayBaseURL,
	)
	mailer := utils.NewMailer(
		config.AppConfig.SendGridApiKey,
		config.AppConfig.EmailSender,
		config.AppConfig.EmailFromName,
	)

	// Core services
	db := database.Database.Db
	enrollmentService := services.NewEnrollmentService(db, gateway, mailer)
	progressService := services.NewProgressService(db)
	webhookService := services.NewWebhookService(db, gateway, enrollmentService)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app, authController.NewController(mailer))
	courseRoutes.SetupCourseRoutes(app,
		controllers.NewEnrollmentController(enrollmentService),
		controllers.NewProgressController(progressService),
	)
	adminRoutes.SetupAdminRoutes(app, adminController.NewController(enrollmentService))
	webhookRoutes.SetupWebhookRoutes(app, webhookController.NewController(webhookService))

	// Background job expiring abandoned payment orders
	utils.StartOrderScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
