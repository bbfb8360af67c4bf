package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/nutritrack/backend/config"
	"github.com/nutritrack/backend/internal/api"
	"github.com/nutritrack/backend/internal/server"
	"github.com/nutritrack/backend/internal/service"
)

func main() {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize services; catalog and profile load once at startup (an
	// absent file is an empty catalog / no profile), the daily log loads
	// lazily on first access.
	catalogService := service.NewCatalogService(cfg.CatalogFile)
	if err := catalogService.Load(); err != nil {
		log.Fatalf("Failed to load food catalog: %v", err)
	}
	profileService := service.NewProfileService(cfg.ProfileFile)
	if err := profileService.Load(); err != nil {
		log.Fatalf("Failed to load user profile: %v", err)
	}
	dailyLogService := service.NewDailyLogService(cfg.LogFile)

	// Create and start server
	srv := server.NewServer(
		api.NewCatalogHandler(catalogService),
		api.NewLogHandler(dailyLogService, catalogService, profileService),
		api.NewProfileHandler(profileService),
	)
	if err := srv.Start(cfg.ServerPort); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
}
