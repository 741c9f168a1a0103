package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/carebridge/carebridge-backend/internal/pkg/logger"
)

// PlanMessage announces a care-plan change or a due reminder to whatever
// notification collaborator subscribes downstream. The engine itself never
// delivers notifications.
type PlanMessage struct {
	UserID  uuid.UUID       `json:"user_id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	At      time.Time       `json:"at"`
}

type PlanBus interface {
	Publish(ctx context.Context, msg PlanMessage) error
	Close() error
}

type planBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewPlanBus(log *logger.Logger) (PlanBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(os.Getenv("REDIS_CHANNEL"))
	if ch == "" {
		ch = "care_plan"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &planBus{
		log:     log.With("service", "RedisPlanBus"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (b *planBus) Publish(ctx context.Context, msg PlanMessage) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("plan bus not initialized")
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *planBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
