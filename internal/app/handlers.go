package app

import (
	"github.com/carebridge/carebridge-backend/internal/http/handlers"
	"github.com/carebridge/carebridge-backend/internal/pkg/logger"
)

type Handlers struct {
	Health       *handlers.HealthHandler
	Event        *handlers.EventHandler
	Gap          *handlers.GapHandler
	Optimization *handlers.OptimizationHandler
	Action       *handlers.ActionHandler
	Integration  *handlers.IntegrationHandler
	Export       *handlers.ExportHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       handlers.NewHealthHandler(),
		Event:        handlers.NewEventHandler(serviceset.Coordination),
		Gap:          handlers.NewGapHandler(serviceset.Coordination),
		Optimization: handlers.NewOptimizationHandler(serviceset.Coordination),
		Action:       handlers.NewActionHandler(serviceset.Coordination),
		Integration:  handlers.NewIntegrationHandler(serviceset.Coordination),
		Export:       handlers.NewExportHandler(serviceset.Export),
	}
}
