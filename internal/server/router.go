package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/carebridge/carebridge-backend/internal/http/handlers"
)

type RouterConfig struct {
	HealthHandler       *handlers.HealthHandler
	EventHandler        *handlers.EventHandler
	GapHandler          *handlers.GapHandler
	OptimizationHandler *handlers.OptimizationHandler
	ActionHandler       *handlers.ActionHandler
	IntegrationHandler  *handlers.IntegrationHandler
	ExportHandler       *handlers.ExportHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-User-ID"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", cfg.HealthHandler.Healthcheck)

	api := router.Group("/api")
	{
		// Events
		api.GET("/events", cfg.EventHandler.List)
		api.GET("/events/overdue", cfg.EventHandler.Overdue)
		api.GET("/events/upcoming", cfg.EventHandler.Upcoming)
		api.POST("/events", cfg.EventHandler.Create)
		api.PATCH("/events/:id", cfg.EventHandler.Update)
		api.POST("/events/:id/complete", cfg.EventHandler.Complete)
		api.POST("/events/:id/schedule", cfg.EventHandler.Schedule)
		api.POST("/events/:id/reschedule", cfg.EventHandler.Reschedule)
		api.DELETE("/events/:id", cfg.EventHandler.Delete)
		// Gaps
		api.GET("/gaps", cfg.GapHandler.List)
		api.GET("/gaps/priority", cfg.GapHandler.Priority)
		api.POST("/gaps/refresh", cfg.GapHandler.Refresh)
		api.POST("/gaps/:id/resolve", cfg.GapHandler.Resolve)
		// Optimizations
		api.GET("/optimizations", cfg.OptimizationHandler.List)
		api.POST("/optimizations/refresh", cfg.OptimizationHandler.Refresh)
		api.POST("/optimizations/:id/apply", cfg.OptimizationHandler.Apply)
		api.POST("/optimizations/:id/dismiss", cfg.OptimizationHandler.Dismiss)
		// Next best action
		api.GET("/next-action", cfg.ActionHandler.NextBestAction)
		api.POST("/scheduling-suggestions", cfg.ActionHandler.SchedulingSuggestions)
		// Integrations
		api.PUT("/integrations/calendar", cfg.IntegrationHandler.SyncCalendar)
		api.PUT("/integrations/benefits", cfg.IntegrationHandler.SyncBenefits)
		api.GET("/integrations/conflicts", cfg.IntegrationHandler.Conflicts)
		api.GET("/integrations/benefit-deadlines", cfg.IntegrationHandler.BenefitDeadlines)
		// Export
		api.GET("/export/calendar.ics", cfg.ExportHandler.PlanCalendar)
	}

	return router
}
