package app

import (
	"gorm.io/gorm"

	"github.com/carebridge/carebridge-backend/internal/pkg/logger"
	"github.com/carebridge/carebridge-backend/internal/repos"
)

type Repos struct {
	CareEvent    repos.CareEventRepo
	CareGap      repos.CareGapRepo
	Optimization repos.OptimizationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		CareEvent:    repos.NewCareEventRepo(db, log),
		CareGap:      repos.NewCareGapRepo(db, log),
		Optimization: repos.NewOptimizationRepo(db, log),
	}
}
