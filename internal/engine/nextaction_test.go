package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/carebridge-backend/internal/rules"
	"github.com/carebridge/carebridge-backend/internal/types"
)

func TestNextBestAction_OverdueEventBeatsCriticalGap(t *testing.T) {
	e := newTestEngine(nil, rules.Default())
	past := testNow.AddDate(0, 0, -1)
	ev := testEvent(types.StatusPending)
	ev.DueDate = &past
	e.SetEvents([]*types.CareEvent{ev})
	e.SetGaps([]*types.CareGap{{ID: uuid.New(), Category: types.CategoryDental, Kind: types.GapOverdue, Urgency: types.UrgencyCritical}})

	got := e.NextBestAction()
	if got == nil || got.Kind != ActionEvent || got.Event == nil || got.Event.ID != ev.ID {
		t.Fatalf("expected the overdue event, got %#v", got)
	}
}

func TestNextBestAction_CriticalGapWhenNoEvents(t *testing.T) {
	e := newTestEngine(nil, rules.Default())
	g := &types.CareGap{ID: uuid.New(), Category: types.CategoryDental, Kind: types.GapOverdue, Urgency: types.UrgencyCritical}
	e.SetGaps([]*types.CareGap{g})

	got := e.NextBestAction()
	if got == nil || got.Kind != ActionGap || got.Gap == nil || got.Gap.ID != g.ID {
		t.Fatalf("expected the critical gap, got %#v", got)
	}
}

func TestNextBestAction_UpcomingWithinSevenDays(t *testing.T) {
	e := newTestEngine(nil, rules.Default())
	in3 := testNow.AddDate(0, 0, 3)
	in6 := testNow.AddDate(0, 0, 6)
	later := testEvent(types.StatusScheduled)
	later.ScheduledDate = &in6
	sooner := testEvent(types.StatusScheduled)
	sooner.ScheduledDate = &in3
	e.SetEvents([]*types.CareEvent{later, sooner})

	got := e.NextBestAction()
	if got == nil || got.Kind != ActionEvent || got.Event.ID != sooner.ID {
		t.Fatalf("expected earliest upcoming event, got %#v", got)
	}
}

func TestNextBestAction_FallsBackToInsertionOrder(t *testing.T) {
	e := newTestEngine(nil, rules.Default())
	first := testEvent(types.StatusSuggested)
	second := testEvent(types.StatusPending)
	e.SetEvents([]*types.CareEvent{first, second})

	got := e.NextBestAction()
	if got == nil || got.Event == nil || got.Event.ID != first.ID {
		t.Fatalf("expected first inserted event, got %#v", got)
	}
}

func TestNextBestAction_NilWhenNothingActionable(t *testing.T) {
	e := newTestEngine(nil, rules.Default())
	done := testEvent(types.StatusCompleted)
	done.CompletedDate = &testNow
	e.SetEvents([]*types.CareEvent{done})

	if got := e.NextBestAction(); got != nil {
		t.Fatalf("expected nil next best action, got %#v", got)
	}
}

func TestOptimalSchedulingSuggestions_DeterministicOrdering(t *testing.T) {
	cal := &types.WorkCalendarIntegration{
		Connected: true,
		Availability: types.WorkAvailability{
			PreferredWindows: []types.PreferredWindow{
				{Weekday: time.Monday, Start: "09:00", End: "17:00"},
			},
		},
	}
	e := New(&PlanState{Calendar: cal}, rules.Default(), nil,
		WithClock(func() time.Time { return testNow }))

	// 2025-06-16 is a Monday.
	inWindow := time.Date(2025, time.June, 16, 10, 0, 0, 0, time.UTC)
	outOfWindow := time.Date(2025, time.June, 16, 20, 0, 0, 0, time.UTC)

	got := e.OptimalSchedulingSuggestions([]SlotCandidate{
		{Start: outOfWindow, ProviderAvailable: true},
		{Start: inWindow, ProviderAvailable: true},
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(got))
	}
	if !got[0].Slot.Equal(inWindow) {
		t.Fatalf("expected in-window slot ranked first")
	}
	if got[0].Score <= got[1].Score {
		t.Fatalf("expected strictly higher score for in-window slot")
	}
	for _, s := range got {
		if s.Score < 0 || s.Score > 100 {
			t.Fatalf("score out of range: %f", s.Score)
		}
	}
}

func TestOptimalSchedulingSuggestions_TieBrokenByEarliestDate(t *testing.T) {
	e := newTestEngine(nil, rules.Default())
	a := testNow.AddDate(0, 0, 40) // recency bonus exhausted for both
	b := testNow.AddDate(0, 0, 50)
	got := e.OptimalSchedulingSuggestions([]SlotCandidate{
		{Start: b, ProviderAvailable: true},
		{Start: a, ProviderAvailable: true},
	})
	if len(got) != 2 || !got[0].Slot.Equal(a) {
		t.Fatalf("expected earliest slot first on tie, got %#v", got)
	}
}

func TestOptimalSchedulingSuggestions_WeightsAreInjectable(t *testing.T) {
	cfg := rules.Default()
	cfg.Weights = rules.ScoringWeights{CalendarMatch: 0, ProviderMatch: 1, RecencyBonus: 0}
	e := New(&PlanState{}, cfg, nil, WithClock(func() time.Time { return testNow }))

	slot := testNow.AddDate(0, 0, 1)
	withProvider := e.OptimalSchedulingSuggestions([]SlotCandidate{{Start: slot, ProviderAvailable: true}})
	withoutProvider := e.OptimalSchedulingSuggestions([]SlotCandidate{{Start: slot, ProviderAvailable: false}})
	if withProvider[0].Score != 100 || withoutProvider[0].Score != 0 {
		t.Fatalf("expected provider weight to dominate, got %f and %f",
			withProvider[0].Score, withoutProvider[0].Score)
	}
}
