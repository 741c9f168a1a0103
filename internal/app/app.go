package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/carebridge/carebridge-backend/internal/db"
	"github.com/carebridge/carebridge-backend/internal/jobs/reminderscan"
	"github.com/carebridge/carebridge-backend/internal/pkg/logger"
	"github.com/carebridge/carebridge-backend/internal/rules"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Scanner  *reminderscan.Scanner
	cancel   context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	ruleCfg, err := rules.Load(cfg.RulesPath)
	if err != nil {
		log.Warn("Failed to load rules config, using defaults", "path", cfg.RulesPath, "error", err)
		ruleCfg = rules.Default()
	}

	dbService, err := db.NewDatabaseService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	theDB := dbService.DB()

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, ruleCfg)
	handlerset := wireHandlers(log, serviceset)
	router := wireRouter(handlerset)

	var scanner *reminderscan.Scanner
	if cfg.ReminderScans {
		scanner = reminderscan.NewScanner(theDB, log, reposet.CareEvent, serviceset.Coordination, serviceset.Notifier)
	}

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		Scanner:  scanner,
	}, nil
}

func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Scanner != nil {
		if err := a.Scanner.Start(ctx); err != nil {
			a.Log.Warn("Failed to start reminder scanner", "error", err)
		}
	}
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Scanner != nil {
		a.Scanner.Stop()
	}
	if a.Services.PlanBus != nil {
		if err := a.Services.PlanBus.Close(); err != nil {
			a.Log.Warn("Failed to close plan bus", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
