package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carebridge/carebridge-backend/internal/engine"
	"github.com/carebridge/carebridge-backend/internal/pkg/logger"
	"github.com/carebridge/carebridge-backend/internal/repos"
	"github.com/carebridge/carebridge-backend/internal/rules"
	"github.com/carebridge/carebridge-backend/internal/types"
)

// CoordinationService hosts one care coordination engine per user session,
// loading plan state from the repos and writing every engine mutation
// through to them. Callers re-read state after each mutation; the service
// never pushes callbacks.
type CoordinationService interface {
	Session(ctx context.Context, userID uuid.UUID) (*engine.Engine, error)

	AddEvent(ctx context.Context, userID uuid.UUID, ev *types.CareEvent) (*types.CareEvent, error)
	UpdateEvent(ctx context.Context, userID uuid.UUID, id uuid.UUID, patch engine.EventPatch) (*types.CareEvent, error)
	CompleteEvent(ctx context.Context, userID uuid.UUID, id uuid.UUID, completedDate time.Time) (*types.CareEvent, error)
	ScheduleEvent(ctx context.Context, userID uuid.UUID, id uuid.UUID, date time.Time, provider string) (*types.CareEvent, error)
	RescheduleEvent(ctx context.Context, userID uuid.UUID, id uuid.UUID, newDate time.Time, reason string) (*types.CareEvent, error)
	DeleteEvent(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
	MarkReminderSent(ctx context.Context, userID uuid.UUID, eventID uuid.UUID, scheduledFor time.Time) (*types.CareEvent, error)

	Events(ctx context.Context, userID uuid.UUID) ([]*types.CareEvent, error)
	OverdueEvents(ctx context.Context, userID uuid.UUID) ([]*types.CareEvent, error)
	UpcomingEvents(ctx context.Context, userID uuid.UUID, days int) ([]*types.CareEvent, error)

	RefreshGaps(ctx context.Context, userID uuid.UUID) ([]*types.CareGap, error)
	Gaps(ctx context.Context, userID uuid.UUID) ([]*types.CareGap, error)
	PriorityGaps(ctx context.Context, userID uuid.UUID) ([]*types.CareGap, error)
	ResolveGap(ctx context.Context, userID uuid.UUID, id uuid.UUID) error

	RefreshOptimizations(ctx context.Context, userID uuid.UUID) ([]*types.TimelineOptimization, error)
	Optimizations(ctx context.Context, userID uuid.UUID) ([]*types.TimelineOptimization, error)
	ApplyOptimization(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*types.CareEvent, error)
	DismissOptimization(ctx context.Context, userID uuid.UUID, id uuid.UUID) error

	NextBestAction(ctx context.Context, userID uuid.UUID) (*engine.NextBestAction, error)
	SchedulingSuggestions(ctx context.Context, userID uuid.UUID, candidates []engine.SlotCandidate) ([]engine.SchedulingSuggestion, error)
	Conflicts(ctx context.Context, userID uuid.UUID) ([]engine.Conflict, error)
	BenefitDeadlines(ctx context.Context, userID uuid.UUID) ([]engine.BenefitDeadline, error)

	SyncCalendar(ctx context.Context, userID uuid.UUID, snapshot *types.WorkCalendarIntegration) (*types.WorkCalendarIntegration, error)
	SyncBenefits(ctx context.Context, userID uuid.UUID, snapshot *types.BenefitsIntegration) (*types.BenefitsIntegration, error)
}

type coordinationService struct {
	db        *gorm.DB
	log       *logger.Logger
	cfg       rules.Config
	eventRepo repos.CareEventRepo
	gapRepo   repos.CareGapRepo
	optRepo   repos.OptimizationRepo
	notify    PlanNotifier
	clock     func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*engine.Engine
}

type CoordinationOption func(*coordinationService)

func WithCoordinationClock(clock func() time.Time) CoordinationOption {
	return func(s *coordinationService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewCoordinationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	cfg rules.Config,
	eventRepo repos.CareEventRepo,
	gapRepo repos.CareGapRepo,
	optRepo repos.OptimizationRepo,
	notify PlanNotifier,
	opts ...CoordinationOption,
) CoordinationService {
	if notify == nil {
		notify = NewNopPlanNotifier()
	}
	s := &coordinationService{
		db:        db,
		log:       baseLog.With("service", "CoordinationService"),
		cfg:       cfg,
		eventRepo: eventRepo,
		gapRepo:   gapRepo,
		optRepo:   optRepo,
		notify:    notify,
		clock:     time.Now,
		sessions:  map[uuid.UUID]*engine.Engine{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session returns the live engine for a user, loading plan state from the
// repos on first use.
func (s *coordinationService) Session(ctx context.Context, userID uuid.UUID) (*engine.Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if eng, ok := s.sessions[userID]; ok {
		return eng, nil
	}

	events, err := s.eventRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	gaps, err := s.gapRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	optimizations, err := s.optRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	state := &engine.PlanState{
		UserID:        userID,
		Events:        events,
		Gaps:          gaps,
		Optimizations: optimizations,
	}
	eng := engine.New(state, s.cfg, s.log, engine.WithClock(s.clock))
	s.sessions[userID] = eng
	return eng, nil
}

func (s *coordinationService) AddEvent(ctx context.Context, userID uuid.UUID, ev *types.CareEvent) (*types.CareEvent, error) {
	eng, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	ev.UserID = userID
	if err := eng.AddEvent(ev); err != nil {
		return nil, err
	}
	if _, err := s.eventRepo.Create(ctx, nil, []*types.CareEvent{ev}); err != nil {
		s.log.Error("failed to persist new event", "event_id", ev.ID, "error", err)
		return nil, err
	}
	s.notify.PlanChanged(ctx, userID, "event_added", ev)
	return ev, nil
}

func (s *coordinationService) UpdateEvent(ctx context.Context, userID uuid.UUID, id uuid.UUID, patch engine.EventPatch) (*types.CareEvent, error) {
	eng, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	ev, err := eng.UpdateEvent(id, patch)
	if err != nil {
		return nil, err
	}
	return s.persistEvent(ctx, userID, ev, "event_updated")
}

func (s *coordinationService) CompleteEvent(ctx context.Context, userID uuid.UUID, id uuid.UUID, completedDate time.Time) (*types.CareEvent, error) {
	eng, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	ev, err := eng.CompleteEvent(id, completedDate)
	if err != nil {
		return nil, err
	}
	return s.persistEvent(ctx, userID, ev, "event_completed")
}

func (s *coordinationService) ScheduleEvent(ctx context.Context, userID uuid.UUID, id uuid.UUID, date time.Time, provider string) (*types.CareEvent, error) {
	eng, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	ev, err := eng.ScheduleEvent(id, date, provider)
	if err != nil {
		return nil, err
	}
	return s.persistEvent(ctx, userID, ev, "event_scheduled")
}

func (s *coordinationService) RescheduleEvent(ctx context.Context, userID uuid.UUID, id uuid.UUID, newDate time.Time, reason string) (*types.CareEvent, error) {
	eng, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	ev, err := eng.RescheduleEvent(id, newDate, reason)
	if err != nil {
		return nil, err
	}
	return s.persistEvent(ctx, userID, ev, "event_rescheduled")
}

func (s *coordinationService) DeleteEvent(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	eng, err := s.Session(ctx, userID)
	if err != nil {
		return err
	}
	if err := eng.DeleteEvent(id); err != nil {
		return err
	}
	if err := s.eventRepo.DeleteByID(ctx, nil, id); err != nil {
		s.log.Error("failed to delete event row", "event_id", id, "error", err)
		return err
	}
	s.notify.PlanChanged(ctx, userID, "event_deleted", map[string]string{"event_id": id.String()})
	return nil
}

// MarkReminderSent updates reminder state through the session engine so the
// cached plan and the stored row cannot diverge across writers.
func (s *coordinationService) MarkReminderSent(ctx context.Context, userID uuid.UUID, eventID uuid.UUID, scheduledFor time.Time) (*types.CareEvent, error) {
	eng, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	ev, err := eng.MarkReminderSent(eventID, scheduledFor)
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.Save(ctx, nil, ev); err != nil {
		s.log.Error("failed to persist reminder state", "event_id", eventID, "error", err)
		return nil, err
	}
	return ev, nil
}

func (s *coordinationService) persistEvent(ctx context.Context, userID uuid.UUID, ev *types.CareEvent, changeType string) (*types.CareEvent, error) {
	if err := s.eventRepo.Save(ctx, nil, ev); err != nil {
		s.log.Error("failed to persist event", "event_id", ev.ID, "error", err)
		return nil, err
	}
	s.notify.PlanChanged(ctx, userID, changeType, ev)
	return ev, nil
}

func (s *coordinationService) Events(ctx context.Context, userID uuid.UUID) ([]*types.CareEvent, error) {
	eng, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	return eng.Events(), nil
}

func (s *coordinationService) OverdueEvents(ctx context.Context, userID uuid.UUID) ([]*types.CareEvent, error) {
	eng, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	return eng.OverdueEvents(), nil
}

func (s *coordinationService) UpcomingEvents(ctx context.Context, userID uuid.UUID, days int) ([]*types.CareEvent, error) {
	eng, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	return eng.UpcomingEvents(days), nil
}

func (s *coordinationService) RefreshGaps(ctx context.Context, userID uuid.UUID) ([]*types.CareGap, error) {
	eng, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	gaps := eng.RefreshGaps()
	if err := s.gapRepo.ReplaceForUser(ctx, nil, userID, gaps); err != nil {
		s.log.Error("failed to persist gaps", "error", err)
		return nil, err
	}
	s.notify.PlanChanged(ctx, userID, "gaps_refreshed", gaps)
	return gaps, nil
}

func (s *coordinationService) Gaps(ctx context.Context, userID uuid.UUID) ([]*types.CareGap, error) {
	eng, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	return eng.Gaps(), nil
}

func (s *coordinationService) PriorityGaps(ctx context.Context, userID uuid.UUID) ([]*types.CareGap, error) {
	eng, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	return eng.PriorityGaps(), nil
}

func (s *coordinationService) ResolveGap(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	eng, err := s.Session(ctx, userID)
	if err != nil {
		return err
	}
	if err := eng.ResolveGap(id); err != nil {
		return err
	}
	if err := s.gapRepo.DeleteByID(ctx, nil, id); err != nil {
		s.log.Error("failed to delete gap row", "gap_id", id, "error", err)
		return err
	}
	s.notify.PlanChanged(ctx, userID, "gap_resolved", map[string]string{"gap_id": id.String()})
	return nil
}

func (s *coordinationService) RefreshOptimizations(ctx context.Context, userID uuid.UUID) ([]*types.TimelineOptimization, error) {
	eng, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	optimizations := eng.RefreshOptimizations()
	if err := s.optRepo.ReplaceForUser(ctx, nil, userID, optimizations); err != nil {
		s.log.Error("failed to persist optimizations", "error", err)
		return nil, err
	}
	return optimizations, nil
}

func (s *coordinationService) Optimizations(ctx context.Context, userID uuid.UUID) ([]*types.TimelineOptimization, error) {
	eng, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	return eng.Optimizations(), nil
}

func (s *coordinationService) ApplyOptimization(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*types.CareEvent, error) {
	eng, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	created, err := eng.ApplyOptimization(id)
	if err != nil {
		return nil, err
	}
	if err := s.optRepo.DeleteByID(ctx, nil, id); err != nil {
		s.log.Error("failed to delete optimization row", "optimization_id", id, "error", err)
		return nil, err
	}
	if created != nil {
		if _, err := s.eventRepo.Create(ctx, nil, []*types.CareEvent{created}); err != nil {
			s.log.Error("failed to persist combined event", "event_id", created.ID, "error", err)
			return nil, err
		}
	}
	s.notify.PlanChanged(ctx, userID, "optimization_applied", map[string]string{"optimization_id": id.String()})
	return created, nil
}

func (s *coordinationService) DismissOptimization(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	eng, err := s.Session(ctx, userID)
	if err != nil {
		return err
	}
	if err := eng.DismissOptimization(id); err != nil {
		return err
	}
	if err := s.optRepo.DeleteByID(ctx, nil, id); err != nil {
		s.log.Error("failed to delete optimization row", "optimization_id", id, "error", err)
		return err
	}
	return nil
}

func (s *coordinationService) NextBestAction(ctx context.Context, userID uuid.UUID) (*engine.NextBestAction, error) {
	eng, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	return eng.NextBestAction(), nil
}

func (s *coordinationService) SchedulingSuggestions(ctx context.Context, userID uuid.UUID, candidates []engine.SlotCandidate) ([]engine.SchedulingSuggestion, error) {
	eng, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	return eng.OptimalSchedulingSuggestions(candidates), nil
}

func (s *coordinationService) Conflicts(ctx context.Context, userID uuid.UUID) ([]engine.Conflict, error) {
	eng, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	return eng.Conflicts(), nil
}

func (s *coordinationService) BenefitDeadlines(ctx context.Context, userID uuid.UUID) ([]engine.BenefitDeadline, error) {
	eng, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	return eng.BenefitDeadlines(), nil
}

// SyncCalendar stamps the snapshot and hands it to the engine; the caller
// owns fetching and retrying, the engine only reads.
func (s *coordinationService) SyncCalendar(ctx context.Context, userID uuid.UUID, snapshot *types.WorkCalendarIntegration) (*types.WorkCalendarIntegration, error) {
	eng, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	if snapshot != nil {
		now := s.clock()
		snapshot.LastSync = &now
	}
	eng.SetCalendar(snapshot)
	s.notify.PlanChanged(ctx, userID, "calendar_synced", snapshot)
	return snapshot, nil
}

func (s *coordinationService) SyncBenefits(ctx context.Context, userID uuid.UUID, snapshot *types.BenefitsIntegration) (*types.BenefitsIntegration, error) {
	eng, err := s.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	if snapshot != nil {
		now := s.clock()
		snapshot.LastSync = &now
	}
	eng.SetBenefits(snapshot)
	s.notify.PlanChanged(ctx, userID, "benefits_synced", snapshot)
	return snapshot, nil
}
