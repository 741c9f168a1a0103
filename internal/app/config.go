package app

import (
	"github.com/carebridge/carebridge-backend/internal/pkg/logger"
	"github.com/carebridge/carebridge-backend/internal/utils"
)

type Config struct {
	Port          string
	RulesPath     string
	RedisEnabled  bool
	ReminderScans bool
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:          utils.GetEnv("PORT", "8080", log),
		RulesPath:     utils.GetEnv("RULES_PATH", "", log),
		RedisEnabled:  utils.GetEnv("REDIS_ENABLED", "true", log) == "true",
		ReminderScans: utils.GetEnv("REMINDER_SCAN_ENABLED", "true", log) == "true",
	}
}
