package engine

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/carebridge-backend/internal/types"
)

// EventPatch merges non-nil fields into an existing event.
type EventPatch struct {
	Title                *string
	Description          *string
	Kind                 *types.EventKind
	Category             *types.EventCategory
	Status               *types.EventStatus
	Priority             *types.EventPriority
	ScheduledDate        *time.Time
	DueDate              *time.Time
	Provider             *string
	InNetwork            *bool
	InNetworkAlternative *string
	Location             *string
	Preparation          *string
	WorkImpactHours      *float64
	Coverage             *types.BenefitsCoverage
	HealthImpact         *types.HealthImpact
	Reminders            []types.Reminder
}

func (e *Engine) AddEvent(ev *types.CareEvent) error {
	if ev == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if _, existing := e.findEvent(ev.ID); existing != nil {
		return conflict(ev.ID)
	}
	if ev.UserID == uuid.Nil {
		ev.UserID = e.state.UserID
	}
	ev.LastModified = e.now()
	e.state.Events = append(e.state.Events, cloneEvent(ev))
	return nil
}

func (e *Engine) UpdateEvent(id uuid.UUID, patch EventPatch) (*types.CareEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ev := e.findEvent(id)
	if ev == nil {
		return nil, notFound(id)
	}
	applyPatch(ev, patch, e.now())
	return cloneEvent(ev), nil
}

func (e *Engine) CompleteEvent(id uuid.UUID, completedDate time.Time) (*types.CareEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ev := e.findEvent(id)
	if ev == nil {
		return nil, notFound(id)
	}
	if ev.Status == types.StatusCancelled {
		// Policy: allow and overwrite, but surface for review.
		e.warn("completing a cancelled event", "event_id", id, "code", "invalid_state")
	}
	d := completedDate
	ev.Status = types.StatusCompleted
	ev.CompletedDate = &d
	ev.LastModified = e.now()
	return cloneEvent(ev), nil
}

func (e *Engine) ScheduleEvent(id uuid.UUID, date time.Time, provider string) (*types.CareEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ev := e.findEvent(id)
	if ev == nil {
		return nil, notFound(id)
	}
	d := date
	ev.Status = types.StatusScheduled
	ev.ScheduledDate = &d
	if provider != "" {
		ev.Provider = provider
	}
	ev.LastModified = e.now()
	return cloneEvent(ev), nil
}

// RescheduleEvent moves the scheduled date without changing status; the
// reason is advisory metadata only.
func (e *Engine) RescheduleEvent(id uuid.UUID, newDate time.Time, reason string) (*types.CareEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ev := e.findEvent(id)
	if ev == nil {
		return nil, notFound(id)
	}
	d := newDate
	ev.ScheduledDate = &d
	ev.RescheduleReason = reason
	ev.LastModified = e.now()
	return cloneEvent(ev), nil
}

func (e *Engine) DeleteEvent(id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx, ev := e.findEvent(id)
	if ev == nil {
		return notFound(id)
	}
	e.state.Events = append(e.state.Events[:idx], e.state.Events[idx+1:]...)
	if e.state.SelectedEventID != nil && *e.state.SelectedEventID == id {
		e.state.SelectedEventID = nil
	}
	e.debug("event removed", "event_id", id)
	return nil
}

func (e *Engine) SelectEvent(id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ev := e.findEvent(id)
	if ev == nil {
		return notFound(id)
	}
	selected := id
	e.state.SelectedEventID = &selected
	return nil
}

func (e *Engine) SelectedEvent() *types.CareEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.SelectedEventID == nil {
		return nil
	}
	_, ev := e.findEvent(*e.state.SelectedEventID)
	return cloneEvent(ev)
}

// SetEvents replaces the event set, preserving order.
func (e *Engine) SetEvents(events []*types.CareEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Events = cloneEvents(events)
}

func (e *Engine) Events() []*types.CareEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneEvents(e.state.Events)
}

func (e *Engine) Event(id uuid.UUID) (*types.CareEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ev := e.findEvent(id)
	if ev == nil {
		return nil, notFound(id)
	}
	return cloneEvent(ev), nil
}

func (e *Engine) SetGaps(gaps []*types.CareGap) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Gaps = cloneGaps(gaps)
}

func (e *Engine) Gaps() []*types.CareGap {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneGaps(e.state.Gaps)
}

// ResolveGap removes a gap; resolution is always an explicit caller action,
// never derived from event completion.
func (e *Engine) ResolveGap(id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, g := range e.state.Gaps {
		if g.ID == id {
			e.state.Gaps = append(e.state.Gaps[:i], e.state.Gaps[i+1:]...)
			return nil
		}
	}
	return notFound(id)
}

func (e *Engine) SetOptimizations(opts []*types.TimelineOptimization) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Optimizations = cloneOptimizations(opts)
}

func (e *Engine) Optimizations() []*types.TimelineOptimization {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneOptimizations(e.state.Optimizations)
}

// EffectiveStatus derives "overdue" from the due date at read time; the
// stored status never holds it.
func (e *Engine) EffectiveStatus(ev *types.CareEvent) types.EventStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return effectiveStatus(ev, e.now())
}

func (e *Engine) OverdueEvents() []*types.CareEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneEvents(overdueEvents(e.state.Events, e.now()))
}

// UpcomingEvents returns events whose resolved date falls within
// [now, now+days], strictly ascending by that date.
func (e *Engine) UpcomingEvents(days int) []*types.CareEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneEvents(upcomingEvents(e.state.Events, e.now(), days))
}

// MarkReminderSent flags the reminder matching scheduledFor as sent. Writers
// that persist reminder state must go through the session engine so the
// cached plan and the stored rows stay coherent.
func (e *Engine) MarkReminderSent(id uuid.UUID, scheduledFor time.Time) (*types.CareEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ev := e.findEvent(id)
	if ev == nil {
		return nil, notFound(id)
	}
	marked := false
	for i := range ev.Reminders {
		if ev.Reminders[i].Sent || !ev.Reminders[i].ScheduledFor.Equal(scheduledFor) {
			continue
		}
		ev.Reminders[i].Sent = true
		marked = true
	}
	if marked {
		ev.LastModified = e.now()
	}
	return cloneEvent(ev), nil
}

func (e *Engine) findEvent(id uuid.UUID) (int, *types.CareEvent) {
	for i, ev := range e.state.Events {
		if ev.ID == id {
			return i, ev
		}
	}
	return -1, nil
}

func applyPatch(ev *types.CareEvent, patch EventPatch, now time.Time) {
	if patch.Title != nil {
		ev.Title = *patch.Title
	}
	if patch.Description != nil {
		ev.Description = *patch.Description
	}
	if patch.Kind != nil {
		ev.Kind = *patch.Kind
	}
	if patch.Category != nil {
		ev.Category = *patch.Category
	}
	if patch.Status != nil {
		ev.Status = *patch.Status
		// Keep the completed-date invariant intact on status edits.
		if ev.Status == types.StatusCompleted {
			if ev.CompletedDate == nil {
				d := now
				ev.CompletedDate = &d
			}
		} else {
			ev.CompletedDate = nil
		}
	}
	if patch.Priority != nil {
		ev.Priority = *patch.Priority
	}
	if patch.ScheduledDate != nil {
		d := *patch.ScheduledDate
		ev.ScheduledDate = &d
	}
	if patch.DueDate != nil {
		d := *patch.DueDate
		ev.DueDate = &d
	}
	if patch.Provider != nil {
		ev.Provider = *patch.Provider
	}
	if patch.InNetwork != nil {
		ev.InNetwork = *patch.InNetwork
	}
	if patch.InNetworkAlternative != nil {
		ev.InNetworkAlternative = *patch.InNetworkAlternative
	}
	if patch.Location != nil {
		ev.Location = *patch.Location
	}
	if patch.Preparation != nil {
		ev.Preparation = *patch.Preparation
	}
	if patch.WorkImpactHours != nil {
		ev.WorkImpactHours = *patch.WorkImpactHours
	}
	if patch.Coverage != nil {
		c := *patch.Coverage
		ev.Coverage = &c
	}
	if patch.HealthImpact != nil {
		h := *patch.HealthImpact
		ev.HealthImpact = &h
	}
	if patch.Reminders != nil {
		ev.Reminders = append([]types.Reminder(nil), patch.Reminders...)
	}
	ev.LastModified = now
}

func effectiveStatus(ev *types.CareEvent, now time.Time) types.EventStatus {
	if ev == nil {
		return ""
	}
	switch ev.Status {
	case types.StatusCompleted, types.StatusCancelled:
		return ev.Status
	}
	if ev.DueDate != nil && ev.DueDate.Before(now) {
		return types.StatusOverdue
	}
	return ev.Status
}

func overdueEvents(events []*types.CareEvent, now time.Time) []*types.CareEvent {
	var out []*types.CareEvent
	for _, ev := range events {
		if effectiveStatus(ev, now) == types.StatusOverdue {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(*out[j].DueDate)
	})
	return out
}

// resolvedDate is the scheduled date when present, otherwise the due date.
func resolvedDate(ev *types.CareEvent) *time.Time {
	if ev.ScheduledDate != nil {
		return ev.ScheduledDate
	}
	return ev.DueDate
}

func upcomingEvents(events []*types.CareEvent, now time.Time, days int) []*types.CareEvent {
	horizon := now.AddDate(0, 0, days)
	var out []*types.CareEvent
	for _, ev := range events {
		if ev.Status == types.StatusCompleted || ev.Status == types.StatusCancelled {
			continue
		}
		d := resolvedDate(ev)
		if d == nil || d.Before(now) || d.After(horizon) {
			continue
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := resolvedDate(out[i]), resolvedDate(out[j])
		if di.Equal(*dj) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return di.Before(*dj)
	})
	return out
}
