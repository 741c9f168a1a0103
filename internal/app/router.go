package app

import (
	"github.com/gin-gonic/gin"

	"github.com/carebridge/carebridge-backend/internal/server"
)

func wireRouter(handlerset Handlers) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		HealthHandler:       handlerset.Health,
		EventHandler:        handlerset.Event,
		GapHandler:          handlerset.Gap,
		OptimizationHandler: handlerset.Optimization,
		ActionHandler:       handlerset.Action,
		IntegrationHandler:  handlerset.Integration,
		ExportHandler:       handlerset.Export,
	})
}
