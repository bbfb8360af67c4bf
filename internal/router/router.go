package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nutritrack/backend/internal/api"
	"github.com/nutritrack/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	catalogHandler *api.CatalogHandler,
	logHandler *api.LogHandler,
	profileHandler *api.ProfileHandler,
) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Accept", "Origin", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler())

	// API v1 routes
	v1 := router.Group("/api/v1")
	catalogHandler.RegisterRoutes(v1)
	logHandler.RegisterRoutes(v1)
	profileHandler.RegisterRoutes(v1)

	return router
}
