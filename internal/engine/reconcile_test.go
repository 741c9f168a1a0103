package engine

import (
	"testing"
	"time"

	"github.com/carebridge/carebridge-backend/internal/rules"
	"github.com/carebridge/carebridge-backend/internal/types"
)

func TestBenefitDeadlines_SingleBenefitYear(t *testing.T) {
	b := &types.BenefitsIntegration{
		Connected:             true,
		RemainingCoveredValue: 1200,
		ExpirationDates:       types.BenefitExpirations{BenefitYear: "2025-12-31"},
	}
	got := BenefitDeadlines(b)
	if len(got) != 1 {
		t.Fatalf("expected single deadline, got %d", len(got))
	}
	want := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
	if !got[0].Deadline.Equal(want) || got[0].Type != "benefit_year" || got[0].Value != 1200 {
		t.Fatalf("unexpected deadline: %#v", got[0])
	}
}

func TestBenefitDeadlines_SortedAscending(t *testing.T) {
	b := &types.BenefitsIntegration{
		Connected:             true,
		RemainingCoveredValue: 1200,
		FSARemaining:          300,
		ExpirationDates: types.BenefitExpirations{
			BenefitYear: "2025-12-31",
			FSAGrace:    "2025-03-15",
		},
	}
	got := BenefitDeadlines(b)
	if len(got) != 2 {
		t.Fatalf("expected 2 deadlines, got %d", len(got))
	}
	if got[0].Type != "fsa_grace" || got[1].Type != "benefit_year" {
		t.Fatalf("expected ascending order, got %#v", got)
	}
}

func TestBenefitDeadlines_NilSnapshot(t *testing.T) {
	if got := BenefitDeadlines(nil); got != nil {
		t.Fatalf("expected nil for nil snapshot")
	}
}

func workCalendar() *types.WorkCalendarIntegration {
	return &types.WorkCalendarIntegration{
		Connected: true,
		Availability: types.WorkAvailability{
			PreferredWindows: []types.PreferredWindow{
				{Weekday: time.Monday, Start: "09:00", End: "17:00"},
			},
			BlackoutDates: []string{"2025-06-23"},
		},
	}
}

func TestDetectConflicts_BlackoutIsBlocking(t *testing.T) {
	slot := time.Date(2025, time.June, 23, 10, 0, 0, 0, time.UTC) // blackout Monday
	ev := testEvent(types.StatusScheduled)
	ev.ScheduledDate = &slot

	got := DetectConflicts([]*types.CareEvent{ev}, workCalendar())
	if len(got) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(got))
	}
	if got[0].Severity != SeverityBlocking || got[0].Type != ConflictTime {
		t.Fatalf("unexpected conflict: %#v", got[0])
	}
}

func TestDetectConflicts_OutsidePreferredWindowIsMajor(t *testing.T) {
	slot := time.Date(2025, time.June, 16, 20, 0, 0, 0, time.UTC) // Monday 20:00
	ev := testEvent(types.StatusScheduled)
	ev.ScheduledDate = &slot

	got := DetectConflicts([]*types.CareEvent{ev}, workCalendar())
	if len(got) != 1 || got[0].Severity != SeverityMajor {
		t.Fatalf("expected major time conflict, got %#v", got)
	}
}

func TestDetectConflicts_PreparationSqueezeIsMinor(t *testing.T) {
	slot := time.Date(2025, time.June, 16, 10, 0, 0, 0, time.UTC) // Monday in window
	cal := workCalendar()
	cal.Availability.BusySlots = []types.BusySlot{
		{Start: time.Date(2025, time.June, 16, 13, 0, 0, 0, time.UTC), End: time.Date(2025, time.June, 16, 14, 0, 0, 0, time.UTC)},
	}
	ev := testEvent(types.StatusScheduled)
	ev.ScheduledDate = &slot
	ev.Preparation = "Fast for 12 hours before the appointment"

	got := DetectConflicts([]*types.CareEvent{ev}, cal)
	if len(got) != 1 || got[0].Severity != SeverityMinor || got[0].Type != ConflictPreparation {
		t.Fatalf("expected minor preparation conflict, got %#v", got)
	}
}

func TestDetectConflicts_DisconnectedCalendarYieldsNone(t *testing.T) {
	slot := time.Date(2025, time.June, 23, 10, 0, 0, 0, time.UTC)
	ev := testEvent(types.StatusScheduled)
	ev.ScheduledDate = &slot
	got := DetectConflicts([]*types.CareEvent{ev}, &types.WorkCalendarIntegration{Connected: false})
	if len(got) != 0 {
		t.Fatalf("expected no conflicts without a connected calendar")
	}
}

func TestSyncSnapshotsReadBack(t *testing.T) {
	e := newTestEngine(nil, rules.Default())
	cal := workCalendar()
	e.SetCalendar(cal)
	if e.Calendar() != cal {
		t.Fatalf("expected calendar snapshot stored by reference")
	}
	b := &types.BenefitsIntegration{Connected: true}
	e.SetBenefits(b)
	if e.Benefits() != b {
		t.Fatalf("expected benefits snapshot stored by reference")
	}
}
