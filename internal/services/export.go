package services

import (
	"context"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/carebridge/carebridge-backend/internal/pkg/logger"
	"github.com/carebridge/carebridge-backend/internal/types"
)

// ExportService renders a user's scheduled care plan as an iCalendar feed
// for import into an external calendar.
type ExportService interface {
	PlanCalendar(ctx context.Context, userID uuid.UUID) (string, error)
}

type exportService struct {
	coord CoordinationService
	log   *logger.Logger
	clock func() time.Time
}

func NewExportService(coord CoordinationService, baseLog *logger.Logger) ExportService {
	return &exportService{
		coord: coord,
		log:   baseLog.With("service", "ExportService"),
		clock: time.Now,
	}
}

const defaultVisitDuration = time.Hour

func (s *exportService) PlanCalendar(ctx context.Context, userID uuid.UUID) (string, error) {
	events, err := s.coord.Events(ctx, userID)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//carebridge//care-plan//EN")

	now := s.clock()
	for _, ev := range events {
		if ev.ScheduledDate == nil {
			continue
		}
		if ev.Status == types.StatusCancelled {
			continue
		}
		vevent := cal.AddEvent(ev.ID.String())
		vevent.SetDtStampTime(now)
		vevent.SetStartAt(*ev.ScheduledDate)
		vevent.SetEndAt(ev.ScheduledDate.Add(defaultVisitDuration))
		vevent.SetSummary(ev.Title)
		if ev.Location != "" {
			vevent.SetLocation(ev.Location)
		}
		description := ev.Description
		if ev.Preparation != "" {
			if description != "" {
				description += "\n"
			}
			description += "Preparation: " + ev.Preparation
		}
		if description != "" {
			vevent.SetDescription(description)
		}
	}

	return cal.Serialize(), nil
}
