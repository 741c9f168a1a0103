package engine

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/carebridge-backend/internal/types"
)

type ConflictType string

const (
	ConflictTime        ConflictType = "time"
	ConflictLocation    ConflictType = "location"
	ConflictPreparation ConflictType = "preparation"
)

type ConflictSeverity string

const (
	SeverityMinor    ConflictSeverity = "minor"
	SeverityMajor    ConflictSeverity = "major"
	SeverityBlocking ConflictSeverity = "blocking"
)

type Conflict struct {
	EventID  uuid.UUID        `json:"event_id"`
	Type     ConflictType     `json:"type"`
	Severity ConflictSeverity `json:"severity"`
	Detail   string           `json:"detail,omitempty"`
}

// DetectConflicts cross-references scheduled events with the work calendar
// snapshot. The list is recomputed on demand rather than incrementally
// maintained, so a changed availability snapshot can never leave stale
// conflicts behind.
func DetectConflicts(events []*types.CareEvent, cal *types.WorkCalendarIntegration) []Conflict {
	if cal == nil || !cal.Connected {
		return nil
	}
	var out []Conflict
	for _, ev := range events {
		if ev.ScheduledDate == nil {
			continue
		}
		if ev.Status == types.StatusCompleted || ev.Status == types.StatusCancelled {
			continue
		}
		slot := *ev.ScheduledDate
		day := slot.Format("2006-01-02")

		blocked := false
		for _, blackout := range cal.Availability.BlackoutDates {
			if blackout == day {
				out = append(out, Conflict{
					EventID:  ev.ID,
					Type:     ConflictTime,
					Severity: SeverityBlocking,
					Detail:   "scheduled inside a blackout date",
				})
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}

		if match, _ := calendarMatch(cal, slot); match == 0 {
			out = append(out, Conflict{
				EventID:  ev.ID,
				Type:     ConflictTime,
				Severity: SeverityMajor,
				Detail:   "outside preferred time-of-day windows",
			})
		}

		if ev.Preparation != "" && busyOnDay(cal.Availability.BusySlots, slot) {
			out = append(out, Conflict{
				EventID:  ev.ID,
				Type:     ConflictPreparation,
				Severity: SeverityMinor,
				Detail:   "preparation time competes with existing meetings that day",
			})
		}
	}
	return out
}

func busyOnDay(slots []types.BusySlot, day time.Time) bool {
	y, m, d := day.Date()
	for _, s := range slots {
		sy, sm, sd := s.Start.Date()
		if sy == y && sm == m && sd == d {
			return true
		}
	}
	return false
}

type BenefitDeadline struct {
	Type     string    `json:"type"`
	Deadline time.Time `json:"deadline"`
	Value    float64   `json:"value"`
}

// BenefitDeadlines flattens the benefits snapshot into an ascending list of
// deadlines, combining the plan-year boundary with any flexible-spending
// style sub-deadlines.
func BenefitDeadlines(b *types.BenefitsIntegration) []BenefitDeadline {
	if b == nil {
		return nil
	}
	var out []BenefitDeadline
	if t, ok := parseDeadline(b.ExpirationDates.BenefitYear); ok {
		out = append(out, BenefitDeadline{Type: "benefit_year", Deadline: t, Value: b.RemainingCoveredValue})
	}
	if t, ok := parseDeadline(b.ExpirationDates.FSAGrace); ok {
		out = append(out, BenefitDeadline{Type: "fsa_grace", Deadline: t, Value: b.FSARemaining})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Deadline.Before(out[j].Deadline)
	})
	return out
}

func parseDeadline(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SetCalendar stores a fresh work-calendar snapshot; the engine reads it and
// never writes back.
func (e *Engine) SetCalendar(cal *types.WorkCalendarIntegration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Calendar = cal
}

func (e *Engine) Calendar() *types.WorkCalendarIntegration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Calendar
}

func (e *Engine) SetBenefits(b *types.BenefitsIntegration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Benefits = b
}

func (e *Engine) Benefits() *types.BenefitsIntegration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Benefits
}

func (e *Engine) Conflicts() []Conflict {
	e.mu.Lock()
	defer e.mu.Unlock()
	return DetectConflicts(e.state.Events, e.state.Calendar)
}

func (e *Engine) BenefitDeadlines() []BenefitDeadline {
	e.mu.Lock()
	defer e.mu.Unlock()
	return BenefitDeadlines(e.state.Benefits)
}
