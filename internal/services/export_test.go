package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/carebridge-backend/internal/types"
)

type fakeCoordEvents struct {
	CoordinationService
	events []*types.CareEvent
}

func (f *fakeCoordEvents) Events(ctx context.Context, userID uuid.UUID) ([]*types.CareEvent, error) {
	return f.events, nil
}

func TestPlanCalendar_IncludesOnlyScheduledEvents(t *testing.T) {
	scheduled := time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC)
	withDate := &types.CareEvent{
		ID:            uuid.New(),
		Title:         "Dental cleaning",
		Status:        types.StatusScheduled,
		ScheduledDate: &scheduled,
		Location:      "Lakeside Clinic",
		Preparation:   "Arrive 10 minutes early",
	}
	unscheduled := &types.CareEvent{ID: uuid.New(), Title: "Eye exam", Status: types.StatusPending}
	cancelled := &types.CareEvent{ID: uuid.New(), Title: "Cancelled visit", Status: types.StatusCancelled, ScheduledDate: &scheduled}

	svc := NewExportService(&fakeCoordEvents{events: []*types.CareEvent{withDate, unscheduled, cancelled}}, testLogger(t))
	out, err := svc.PlanCalendar(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "BEGIN:VCALENDAR") || !strings.Contains(out, "BEGIN:VEVENT") {
		t.Fatalf("expected ics output, got %q", out)
	}
	if !strings.Contains(out, "Dental cleaning") {
		t.Fatalf("expected scheduled event in feed")
	}
	if strings.Contains(out, "Eye exam") || strings.Contains(out, "Cancelled visit") {
		t.Fatalf("unscheduled or cancelled events must not be exported")
	}
	if !strings.Contains(out, "Arrive 10 minutes early") {
		t.Fatalf("expected preparation notes in description")
	}
}
