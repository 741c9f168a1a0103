package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	redisclient "github.com/carebridge/carebridge-backend/internal/clients/redis"
	"github.com/carebridge/carebridge-backend/internal/pkg/logger"
)

// PlanNotifier fans plan changes out to the notification collaborator.
// Implementations must never fail the mutation that triggered them.
type PlanNotifier interface {
	PlanChanged(ctx context.Context, userID uuid.UUID, eventType string, payload any)
}

type nopPlanNotifier struct{}

func NewNopPlanNotifier() PlanNotifier { return nopPlanNotifier{} }

func (nopPlanNotifier) PlanChanged(ctx context.Context, userID uuid.UUID, eventType string, payload any) {
}

type redisPlanNotifier struct {
	bus   redisclient.PlanBus
	log   *logger.Logger
	clock func() time.Time
}

func NewRedisPlanNotifier(bus redisclient.PlanBus, baseLog *logger.Logger) PlanNotifier {
	return &redisPlanNotifier{
		bus:   bus,
		log:   baseLog.With("service", "RedisPlanNotifier"),
		clock: time.Now,
	}
}

func (n *redisPlanNotifier) PlanChanged(ctx context.Context, userID uuid.UUID, eventType string, payload any) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			n.log.Warn("failed to marshal plan payload", "type", eventType, "error", err)
		} else {
			raw = b
		}
	}
	msg := redisclient.PlanMessage{
		UserID:  userID,
		Type:    eventType,
		Payload: raw,
		At:      n.clock(),
	}
	if err := n.bus.Publish(ctx, msg); err != nil {
		n.log.Warn("failed to publish plan message", "type", eventType, "error", err)
	}
}
