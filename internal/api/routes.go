package api

import (
	"github.com/gin-gonic/gin"
)

// RouteOptions configures the router middleware
type RouteOptions struct {
	RateLimitRPS   float64
	RateLimitBurst int
}

// SetupRoutes sets up all API routes
func SetupRoutes(handler *Handler, opts RouteOptions) *gin.Engine {
	router := gin.Default()
	router.Use(CORS())

	v1 := router.Group("/api/v1")
	v1.Use(RateLimit(opts.RateLimitRPS, opts.RateLimitBurst))
	{
		v1.GET("/health", handler.Health)
		v1.GET("/settings", handler.GetSettings)
		v1.GET("/coin_types", handler.GetCoinTypes)
		v1.GET("/handlers", handler.GetHandlers)
		v1.GET("/lowfunds", handler.GetLowFunds)
	}

	return router
}
