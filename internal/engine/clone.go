package engine

import (
	"time"

	"github.com/carebridge/carebridge-backend/internal/types"
)

// Query results leave the engine as detached copies so callers never hold
// pointers into state guarded by the mutex.

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := *t
	return &d
}

func cloneEvent(ev *types.CareEvent) *types.CareEvent {
	if ev == nil {
		return nil
	}
	out := *ev
	out.ScheduledDate = copyTime(ev.ScheduledDate)
	out.DueDate = copyTime(ev.DueDate)
	out.CompletedDate = copyTime(ev.CompletedDate)
	if ev.Coverage != nil {
		c := *ev.Coverage
		c.ExpiresAt = copyTime(ev.Coverage.ExpiresAt)
		out.Coverage = &c
	}
	if ev.HealthImpact != nil {
		h := *ev.HealthImpact
		out.HealthImpact = &h
	}
	out.Reminders = append(ev.Reminders[:0:0], ev.Reminders...)
	out.RelatedEventIDs = append(ev.RelatedEventIDs[:0:0], ev.RelatedEventIDs...)
	out.Metadata = append(ev.Metadata[:0:0], ev.Metadata...)
	return &out
}

func cloneEvents(events []*types.CareEvent) []*types.CareEvent {
	if events == nil {
		return nil
	}
	out := make([]*types.CareEvent, len(events))
	for i, ev := range events {
		out[i] = cloneEvent(ev)
	}
	return out
}

func cloneGap(g *types.CareGap) *types.CareGap {
	if g == nil {
		return nil
	}
	out := *g
	out.DueDate = copyTime(g.DueDate)
	if g.HealthImpact != nil {
		h := *g.HealthImpact
		out.HealthImpact = &h
	}
	if g.SchedulingInfo != nil {
		s := *g.SchedulingInfo
		s.ProviderTypes = append(g.SchedulingInfo.ProviderTypes[:0:0], g.SchedulingInfo.ProviderTypes...)
		out.SchedulingInfo = &s
	}
	if g.Benefits != nil {
		b := *g.Benefits
		out.Benefits = &b
	}
	return &out
}

func cloneGaps(gaps []*types.CareGap) []*types.CareGap {
	if gaps == nil {
		return nil
	}
	out := make([]*types.CareGap, len(gaps))
	for i, g := range gaps {
		out[i] = cloneGap(g)
	}
	return out
}

func cloneOptimization(o *types.TimelineOptimization) *types.TimelineOptimization {
	if o == nil {
		return nil
	}
	out := *o
	out.ExpiresAt = copyTime(o.ExpiresAt)
	out.Suggestions = append(o.Suggestions[:0:0], o.Suggestions...)
	out.AffectedEventIDs = append(o.AffectedEventIDs[:0:0], o.AffectedEventIDs...)
	return &out
}

func cloneOptimizations(opts []*types.TimelineOptimization) []*types.TimelineOptimization {
	if opts == nil {
		return nil
	}
	out := make([]*types.TimelineOptimization, len(opts))
	for i, o := range opts {
		out[i] = cloneOptimization(o)
	}
	return out
}
