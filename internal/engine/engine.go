package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"

	errs "github.com/carebridge/carebridge-backend/internal/pkg/errors"
	"github.com/carebridge/carebridge-backend/internal/pkg/logger"
	"github.com/carebridge/carebridge-backend/internal/rules"
	"github.com/carebridge/carebridge-backend/internal/types"
)

// PlanState is the mutable care plan for one user session. The engine owns
// it exclusively; collaborators hand in snapshots and re-read state after
// each mutation.
type PlanState struct {
	UserID          uuid.UUID
	Events          []*types.CareEvent
	Gaps            []*types.CareGap
	Optimizations   []*types.TimelineOptimization
	Calendar        *types.WorkCalendarIntegration
	Benefits        *types.BenefitsIntegration
	SelectedEventID *uuid.UUID
}

// Engine is the care coordination engine: a synchronous, in-process decision
// component with no internal I/O. A single mutex makes every operation group
// atomic relative to queries when the engine is shared across writers.
type Engine struct {
	mu    sync.Mutex
	state *PlanState
	cfg   rules.Config
	log   *logger.Logger
	now   func() time.Time
}

type Option func(*Engine)

// WithClock injects the time source, so gap detection and overdue derivation
// are testable without a real clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func New(state *PlanState, cfg rules.Config, baseLog *logger.Logger, opts ...Option) *Engine {
	if state == nil {
		state = &PlanState{}
	}
	e := &Engine{
		state: state,
		cfg:   cfg,
		now:   time.Now,
	}
	if baseLog != nil {
		e.log = baseLog.With("component", "CareEngine", "user_id", state.UserID)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) UserID() uuid.UUID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.UserID
}

func (e *Engine) warn(msg string, kv ...interface{}) {
	if e.log != nil {
		e.log.Warn(msg, kv...)
	}
}

func (e *Engine) debug(msg string, kv ...interface{}) {
	if e.log != nil {
		e.log.Debug(msg, kv...)
	}
}

func notFound(id uuid.UUID) error {
	return &idError{id: id, err: errs.ErrNotFound}
}

func conflict(id uuid.UUID) error {
	return &idError{id: id, err: errs.ErrConflict}
}

type idError struct {
	id  uuid.UUID
	err error
}

func (e *idError) Error() string { return e.err.Error() + ": " + e.id.String() }
func (e *idError) Unwrap() error { return e.err }
