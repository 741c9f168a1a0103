package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	errs "github.com/carebridge/carebridge-backend/internal/pkg/errors"
	"github.com/carebridge/carebridge-backend/internal/rules"
	"github.com/carebridge/carebridge-backend/internal/types"
)

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func newTestEngine(state *PlanState, cfg rules.Config) *Engine {
	return New(state, cfg, nil, WithClock(func() time.Time { return testNow }))
}

func testEvent(status types.EventStatus) *types.CareEvent {
	return &types.CareEvent{
		ID:       uuid.New(),
		Title:    "Annual physical",
		Kind:     types.EventKindAppointment,
		Category: types.CategoryPreventative,
		Status:   status,
		Priority: types.PriorityMedium,
	}
}

func TestAddEvent_DuplicateIDIsConflict(t *testing.T) {
	e := newTestEngine(nil, rules.Default())
	ev := testEvent(types.StatusPending)
	if err := e.AddEvent(ev); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	dup := testEvent(types.StatusPending)
	dup.ID = ev.ID
	err := e.AddEvent(dup)
	if !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUpdateEvent_UnknownIDIsNotFound(t *testing.T) {
	e := newTestEngine(nil, rules.Default())
	_, err := e.UpdateEvent(uuid.New(), EventPatch{})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCompleteEvent_SetsInvariantAndIsIdempotent(t *testing.T) {
	e := newTestEngine(nil, rules.Default())
	ev := testEvent(types.StatusScheduled)
	if err := e.AddEvent(ev); err != nil {
		t.Fatalf("add: %v", err)
	}
	d := testNow.AddDate(0, 0, -1)

	first, err := e.CompleteEvent(ev.ID, d)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if first.Status != types.StatusCompleted || first.CompletedDate == nil || !first.CompletedDate.Equal(d) {
		t.Fatalf("unexpected state after complete: %#v", first)
	}

	second, err := e.CompleteEvent(ev.ID, d)
	if err != nil {
		t.Fatalf("second complete: %v", err)
	}
	if second.Status != first.Status || !second.CompletedDate.Equal(*first.CompletedDate) {
		t.Fatalf("complete not idempotent: %#v vs %#v", first, second)
	}
}

func TestCompleteEvent_CancelledIsAllowedAndOverwritten(t *testing.T) {
	e := newTestEngine(nil, rules.Default())
	ev := testEvent(types.StatusCancelled)
	if err := e.AddEvent(ev); err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := e.CompleteEvent(ev.ID, testNow)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got.Status != types.StatusCompleted {
		t.Fatalf("expected completed, got %q", got.Status)
	}
}

func TestUpdateEvent_StatusEditKeepsCompletedDateInvariant(t *testing.T) {
	e := newTestEngine(nil, rules.Default())
	ev := testEvent(types.StatusScheduled)
	if err := e.AddEvent(ev); err != nil {
		t.Fatalf("add: %v", err)
	}

	completed := types.StatusCompleted
	got, err := e.UpdateEvent(ev.ID, EventPatch{Status: &completed})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.CompletedDate == nil {
		t.Fatalf("expected completed date set when status becomes completed")
	}

	pending := types.StatusPending
	got, err = e.UpdateEvent(ev.ID, EventPatch{Status: &pending})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.CompletedDate != nil {
		t.Fatalf("expected completed date cleared when status leaves completed")
	}
}

func TestScheduleEvent_TransitionsAndSetsProvider(t *testing.T) {
	e := newTestEngine(nil, rules.Default())
	ev := testEvent(types.StatusPending)
	if err := e.AddEvent(ev); err != nil {
		t.Fatalf("add: %v", err)
	}
	date := testNow.AddDate(0, 0, 3)
	got, err := e.ScheduleEvent(ev.ID, date, "Dr. Okafor")
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if got.Status != types.StatusScheduled || got.ScheduledDate == nil || got.Provider != "Dr. Okafor" {
		t.Fatalf("unexpected state: %#v", got)
	}
}

func TestRescheduleEvent_KeepsStatus(t *testing.T) {
	e := newTestEngine(nil, rules.Default())
	ev := testEvent(types.StatusScheduled)
	orig := testNow.AddDate(0, 0, 2)
	ev.ScheduledDate = &orig
	if err := e.AddEvent(ev); err != nil {
		t.Fatalf("add: %v", err)
	}
	moved := testNow.AddDate(0, 0, 9)
	got, err := e.RescheduleEvent(ev.ID, moved, "provider asked to move")
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if got.Status != types.StatusScheduled {
		t.Fatalf("status changed on reschedule: %q", got.Status)
	}
	if !got.ScheduledDate.Equal(moved) || got.RescheduleReason == "" {
		t.Fatalf("unexpected state: %#v", got)
	}
}

func TestDeleteEvent_ClearsSelection(t *testing.T) {
	e := newTestEngine(nil, rules.Default())
	ev := testEvent(types.StatusPending)
	if err := e.AddEvent(ev); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := e.SelectEvent(ev.ID); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := e.DeleteEvent(ev.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if e.SelectedEvent() != nil {
		t.Fatalf("expected selection cleared after delete")
	}
	if err := e.DeleteEvent(ev.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSetEvents_RoundTripPreservesOrder(t *testing.T) {
	e := newTestEngine(nil, rules.Default())
	a := testEvent(types.StatusPending)
	b := testEvent(types.StatusScheduled)
	c := testEvent(types.StatusSuggested)
	e.SetEvents([]*types.CareEvent{a, b, c})

	got := e.Events()
	if len(got) != 3 || got[0].ID != a.ID || got[1].ID != b.ID || got[2].ID != c.ID {
		t.Fatalf("round trip broke order: %#v", got)
	}
}

func TestQueries_ReturnDetachedCopies(t *testing.T) {
	e := newTestEngine(nil, rules.Default())
	ev := testEvent(types.StatusScheduled)
	due := testNow.AddDate(0, 0, 3)
	ev.DueDate = &due
	ev.Reminders = []types.Reminder{{Type: "push", ScheduledFor: testNow, Message: "soon"}}
	if err := e.AddEvent(ev); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Mutating a query result must never reach engine state.
	got := e.Events()
	got[0].Title = "tampered"
	got[0].Reminders[0].Sent = true
	*got[0].DueDate = testNow.AddDate(0, 0, 99)

	fresh, err := e.Event(ev.ID)
	if err != nil {
		t.Fatalf("event: %v", err)
	}
	if fresh.Title != "Annual physical" {
		t.Fatalf("query result aliased engine state: title %q", fresh.Title)
	}
	if fresh.Reminders[0].Sent {
		t.Fatalf("query result aliased engine reminders")
	}
	if !fresh.DueDate.Equal(due) {
		t.Fatalf("query result aliased engine due date: %v", fresh.DueDate)
	}

	// The caller's own event is detached too: edits after AddEvent are
	// invisible until an explicit update.
	ev.Title = "edited outside the engine"
	fresh, _ = e.Event(ev.ID)
	if fresh.Title != "Annual physical" {
		t.Fatalf("stored event aliased caller pointer")
	}
}

func TestMarkReminderSent_FlagsOnlyMatchingReminder(t *testing.T) {
	e := newTestEngine(nil, rules.Default())
	ev := testEvent(types.StatusScheduled)
	early := testNow.Add(-2 * time.Hour)
	late := testNow.Add(2 * time.Hour)
	ev.Reminders = []types.Reminder{
		{Type: "push", ScheduledFor: early, Message: "now"},
		{Type: "push", ScheduledFor: late, Message: "later"},
	}
	if err := e.AddEvent(ev); err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := e.MarkReminderSent(ev.ID, early)
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if !got.Reminders[0].Sent || got.Reminders[1].Sent {
		t.Fatalf("expected only the matching reminder marked: %#v", got.Reminders)
	}

	fresh, _ := e.Event(ev.ID)
	if !fresh.Reminders[0].Sent {
		t.Fatalf("expected sent flag persisted in engine state")
	}

	if _, err := e.MarkReminderSent(uuid.New(), early); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown event, got %v", err)
	}
}

func TestOverdueEvents_NeverIncludesCompletedOrCancelled(t *testing.T) {
	e := newTestEngine(nil, rules.Default())
	past := testNow.AddDate(0, 0, -2)

	open := testEvent(types.StatusPending)
	open.DueDate = &past

	done := testEvent(types.StatusCompleted)
	done.DueDate = &past
	done.CompletedDate = &past

	cancelled := testEvent(types.StatusCancelled)
	cancelled.DueDate = &past

	e.SetEvents([]*types.CareEvent{done, open, cancelled})
	got := e.OverdueEvents()
	if len(got) != 1 || got[0].ID != open.ID {
		t.Fatalf("expected only the open overdue event, got %d", len(got))
	}
}

func TestOverdueEvents_SortedByEarliestDue(t *testing.T) {
	e := newTestEngine(nil, rules.Default())
	older := testNow.AddDate(0, 0, -10)
	newer := testNow.AddDate(0, 0, -1)

	a := testEvent(types.StatusPending)
	a.DueDate = &newer
	b := testEvent(types.StatusPending)
	b.DueDate = &older

	e.SetEvents([]*types.CareEvent{a, b})
	got := e.OverdueEvents()
	if len(got) != 2 || got[0].ID != b.ID {
		t.Fatalf("expected earliest due first")
	}
}

func TestUpcomingEvents_AscendingAndWithinWindow(t *testing.T) {
	e := newTestEngine(nil, rules.Default())
	in2 := testNow.AddDate(0, 0, 2)
	in5 := testNow.AddDate(0, 0, 5)
	in40 := testNow.AddDate(0, 0, 40)

	a := testEvent(types.StatusScheduled)
	a.ScheduledDate = &in5
	b := testEvent(types.StatusScheduled)
	b.ScheduledDate = &in2
	far := testEvent(types.StatusScheduled)
	far.ScheduledDate = &in40
	done := testEvent(types.StatusCompleted)
	done.ScheduledDate = &in2
	done.CompletedDate = &testNow

	e.SetEvents([]*types.CareEvent{a, far, done, b})
	got := e.UpcomingEvents(7)
	if len(got) != 2 {
		t.Fatalf("expected 2 upcoming events, got %d", len(got))
	}
	if got[0].ID != b.ID || got[1].ID != a.ID {
		t.Fatalf("expected ascending order by date")
	}
	horizon := testNow.AddDate(0, 0, 7)
	for _, ev := range got {
		d := ev.ScheduledDate
		if d.Before(testNow) || d.After(horizon) {
			t.Fatalf("event outside window: %v", d)
		}
	}
}

func TestEffectiveStatus_DerivedNeverStored(t *testing.T) {
	e := newTestEngine(nil, rules.Default())
	past := testNow.AddDate(0, 0, -1)
	ev := testEvent(types.StatusPending)
	ev.DueDate = &past
	if err := e.AddEvent(ev); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := e.EffectiveStatus(ev); got != types.StatusOverdue {
		t.Fatalf("expected derived overdue, got %q", got)
	}
	if ev.Status != types.StatusPending {
		t.Fatalf("stored status mutated to %q", ev.Status)
	}
}
