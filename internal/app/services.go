package app

import (
	"gorm.io/gorm"

	redisclient "github.com/carebridge/carebridge-backend/internal/clients/redis"
	"github.com/carebridge/carebridge-backend/internal/pkg/logger"
	"github.com/carebridge/carebridge-backend/internal/rules"
	"github.com/carebridge/carebridge-backend/internal/services"
)

type Services struct {
	Notifier     services.PlanNotifier
	Coordination services.CoordinationService
	Export       services.ExportService
	PlanBus      redisclient.PlanBus
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, ruleCfg rules.Config) Services {
	log.Info("Wiring services...")

	var bus redisclient.PlanBus
	notifier := services.NewNopPlanNotifier()
	if cfg.RedisEnabled {
		b, err := redisclient.NewPlanBus(log)
		if err != nil {
			log.Warn("Plan bus unavailable, plan updates will not be published", "error", err)
		} else {
			bus = b
			notifier = services.NewRedisPlanNotifier(b, log)
		}
	}

	coordination := services.NewCoordinationService(db, log, ruleCfg,
		reposet.CareEvent, reposet.CareGap, reposet.Optimization, notifier)
	export := services.NewExportService(coordination, log)

	return Services{
		Notifier:     notifier,
		Coordination: coordination,
		Export:       export,
		PlanBus:      bus,
	}
}
