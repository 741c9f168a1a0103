package engine

import (
	"math"
	"sort"
	"time"

	"github.com/carebridge/carebridge-backend/internal/types"
)

type ActionKind string

const (
	ActionEvent ActionKind = "event"
	ActionGap   ActionKind = "gap"
)

// NextBestAction is a tagged union: exactly one of Event or Gap is set,
// discriminated by Kind.
type NextBestAction struct {
	Kind  ActionKind       `json:"kind"`
	Event *types.CareEvent `json:"event,omitempty"`
	Gap   *types.CareGap   `json:"gap,omitempty"`
}

const upcomingActionWindowDays = 7

// NextBestAction applies the fixed precedence: overdue events, then
// critical/high gaps, then events due within 7 days, then suggested/pending
// events in insertion order. Nil means nothing is actionable, which is a
// valid outcome, not an error.
func (e *Engine) NextBestAction() *NextBestAction {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()

	if overdue := overdueEvents(e.state.Events, now); len(overdue) > 0 {
		return &NextBestAction{Kind: ActionEvent, Event: cloneEvent(overdue[0])}
	}
	if gaps := priorityGaps(e.state.Gaps); len(gaps) > 0 {
		return &NextBestAction{Kind: ActionGap, Gap: cloneGap(gaps[0])}
	}
	if soon := upcomingEvents(e.state.Events, now, upcomingActionWindowDays); len(soon) > 0 {
		return &NextBestAction{Kind: ActionEvent, Event: cloneEvent(soon[0])}
	}
	for _, ev := range e.state.Events {
		if ev.Status == types.StatusSuggested || ev.Status == types.StatusPending {
			return &NextBestAction{Kind: ActionEvent, Event: cloneEvent(ev)}
		}
	}
	return nil
}

type SlotCandidate struct {
	Start             time.Time `json:"start"`
	ProviderAvailable bool      `json:"provider_available"`
}

type SchedulingSuggestion struct {
	Slot   time.Time `json:"slot"`
	Score  float64   `json:"score"`
	Reason string    `json:"reason,omitempty"`
}

// OptimalSchedulingSuggestions scores candidate slots 0-100 from calendar
// preference match, provider availability and a recency bonus, using the
// injected weights. Ordering is deterministic: score descending, ties by
// earliest slot.
func (e *Engine) OptimalSchedulingSuggestions(candidates []SlotCandidate) []SchedulingSuggestion {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	w := e.cfg.Weights

	out := make([]SchedulingSuggestion, 0, len(candidates))
	for _, c := range candidates {
		calMatch, reason := calendarMatch(e.state.Calendar, c.Start)

		provider := 0.0
		if c.ProviderAvailable {
			provider = 1.0
		}

		days := c.Start.Sub(now).Hours() / 24
		recency := 1 - days/30
		if recency < 0 {
			recency = 0
		}
		if recency > 1 {
			recency = 1
		}

		score := 100 * (w.CalendarMatch*calMatch + w.ProviderMatch*provider + w.RecencyBonus*recency)
		score = math.Max(0, math.Min(100, score))

		out = append(out, SchedulingSuggestion{Slot: c.Start, Score: score, Reason: reason})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Slot.Before(out[j].Slot)
	})
	return out
}

// calendarMatch grades a slot against the work calendar: 0 on a blackout
// date, 1 inside a preferred window, 0 outside one, and a neutral 0.5 when
// no calendar or no window covers the slot's weekday.
func calendarMatch(cal *types.WorkCalendarIntegration, slot time.Time) (float64, string) {
	if cal == nil || !cal.Connected {
		return 0.5, "no work calendar connected"
	}
	day := slot.Format("2006-01-02")
	for _, blackout := range cal.Availability.BlackoutDates {
		if blackout == day {
			return 0, "slot falls on a blackout date"
		}
	}
	covered := false
	for _, win := range cal.Availability.PreferredWindows {
		if win.Weekday != slot.Weekday() {
			continue
		}
		covered = true
		hm := slot.Format("15:04")
		if hm >= win.Start && hm <= win.End {
			return 1, "inside preferred work-calendar window"
		}
	}
	if covered {
		return 0, "outside preferred work-calendar windows"
	}
	return 0.5, "no preference set for this weekday"
}
