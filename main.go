package main

import (
	"context"
	"log"

	"courseplatform/config"
	"courseplatform/database"
	appLogger "courseplatform/logger"
	authRoutes "courseplatform/routers/authRoutes"
	courseRoutes "courseplatform/routers/courseRoutes"
	subjectRoutes "courseplatform/routers/subjectRoutes"
	superAdminRoutes "courseplatform/routers/superAdmin"
	userProfileRoutes "courseplatform/routers/userRoutes"
	"courseplatform/storage"
	"courseplatform/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// NewApp builds the HTTP application with every route mounted.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Uploaded assets saved by the local store
	app.Static("/uploads", config.AppConfig.UploadDir)

	authRoutes.SetupAuthRoutes(app)
	userProfileRoutes.SetupUserRoutes(app)
	subjectRoutes.SetupSubjectRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupModuleRoutes(app)
	courseRoutes.SetupItemRoutes(app)
	courseRoutes.SetupContentRoutes(app)
	superAdminRoutes.SetupSuperAdminRoutes(app)

	return app
}

func main() {
	config.LoadConfig()
	if err := appLogger.Init(config.AppConfig.LogMode); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer appLogger.Log.Sync()

	database.ConnectDb()

	if err := storage.Init(context.Background()); err != nil {
		appLogger.Log.Fatal("failed to initialize asset storage", "driver", config.AppConfig.StorageDriver, "error", err)
	}

	if config.AppConfig.EnableEnrollmentJob {
		scheduler, err := utils.InitializeEnrollmentScheduler()
		if err != nil {
			appLogger.Log.Fatal("failed to start enrollment scheduler", "error", err)
		}
		defer scheduler.Stop()
	}

	app := NewApp()

	appLogger.Log.Info("Server is running", "port", config.AppConfig.Port)
	if err := app.Listen(":" + config.AppConfig.Port); err != nil {
		appLogger.Log.Fatal("server stopped", "error", err)
	}
}
