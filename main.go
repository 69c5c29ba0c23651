// File: /main.go
package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"testbook-api/config"
	"testbook-api/database"
	"testbook-api/jobs"
	"testbook-api/middleware"
	"testbook-api/routes"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Seed database with the standard cast (no-op if data exists)
	if err := database.Seed(db); err != nil {
		log.Printf("Warning: Failed to seed database: %v", err)
	}

	// Start background cleanup job
	cleanupJob := jobs.NewOrphanCleanupJob(db, time.Hour)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	if cfg.Testing {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, db, cfg)

	// Start server
	log.Printf("Starting Testbook API server on port %s", cfg.Port)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
