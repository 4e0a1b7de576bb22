package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"tunehub/internal/adapters/http/middleware"
	"tunehub/internal/adapters/http/routes"
	"tunehub/internal/adapters/persistence/models"
	"tunehub/internal/adapters/persistence/repositories"
	"tunehub/internal/config"
	"tunehub/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "tunehub/docs" // Swagger docs
)

// @title TuneHub API
// @version 1.0
// @description Music streaming backend: song, album, artist and video catalog, playlists with review workflow, uploads and role-based permissions.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@tunehub.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host music.tunehub.app
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed the initial admin account
	if err := config.SeedData(db); err != nil {
		log.Printf("⚠️ Warning: Failed to seed data: %v", err)
	}

	// Start cron housekeeping (reset ticket purge, review queue reminder)
	cronService := services.NewCronService(
		repositories.NewUserRepository(db),
		repositories.NewPlaylistRepository(db),
	)
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "TuneHub API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    512 * 1024 * 1024, // video uploads
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
