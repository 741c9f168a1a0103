package reminderscan

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/carebridge/carebridge-backend/internal/pkg/logger"
	"github.com/carebridge/carebridge-backend/internal/repos"
	"github.com/carebridge/carebridge-backend/internal/services"
	"github.com/carebridge/carebridge-backend/internal/types"
	"github.com/carebridge/carebridge-backend/internal/utils"
)

// Scanner walks care plans on a schedule and publishes reminders whose
// scheduled time has passed. Delivery is the notification collaborator's
// job; the scanner only marks reminders as sent.
//
// Reminder state is read and written through the coordination service's
// session engines, never directly against the rows. The event repo is used
// only to discover which users have stored plans.
type Scanner struct {
	db     *gorm.DB
	log    *logger.Logger
	events repos.CareEventRepo
	coord  services.CoordinationService
	notify services.PlanNotifier
	clock  func() time.Time
	cron   *cron.Cron
}

type ScannerOption func(*Scanner)

func WithScannerClock(clock func() time.Time) ScannerOption {
	return func(s *Scanner) { s.clock = clock }
}

func NewScanner(db *gorm.DB, baseLog *logger.Logger, events repos.CareEventRepo, coord services.CoordinationService, notify services.PlanNotifier, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		db:     db,
		log:    baseLog.With("component", "ReminderScanner"),
		events: events,
		coord:  coord,
		notify: notify,
		clock:  time.Now,
	}
	if s.notify == nil {
		s.notify = services.NewNopPlanNotifier()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start schedules the scan using REMINDER_SCAN_SPEC (cron syntax, default
// every 15 minutes) and runs one scan immediately.
func (s *Scanner) Start(ctx context.Context) error {
	spec := utils.GetEnv("REMINDER_SCAN_SPEC", "@every 15m", s.log)

	s.cron = cron.New()
	_, err := s.cron.AddFunc(spec, func() {
		if n, err := s.ScanOnce(ctx); err != nil {
			s.log.Warn("Reminder scan failed", "error", err)
		} else if n > 0 {
			s.log.Info("Reminder scan published reminders", "count", n)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("Reminder scanner started", "spec", spec)

	go func() {
		if _, err := s.ScanOnce(ctx); err != nil {
			s.log.Warn("Initial reminder scan failed", "error", err)
		}
	}()
	return nil
}

func (s *Scanner) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	s.log.Info("Reminder scanner stopped")
}

type dueReminder struct {
	EventID   string    `json:"eventId"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	DueAt     time.Time `json:"dueAt"`
	Scheduled time.Time `json:"scheduledFor"`
}

// ScanOnce publishes every unsent reminder whose ScheduledFor is in the
// past and marks it sent. Returns the number of reminders published.
func (s *Scanner) ScanOnce(ctx context.Context) (int, error) {
	now := s.clock()

	rows, err := s.events.ListAll(ctx, s.db)
	if err != nil {
		return 0, err
	}
	seen := map[uuid.UUID]bool{}
	var users []uuid.UUID
	for _, r := range rows {
		if r.UserID == uuid.Nil || seen[r.UserID] {
			continue
		}
		seen[r.UserID] = true
		users = append(users, r.UserID)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].String() < users[j].String() })

	published := 0
	for _, userID := range users {
		events, err := s.coord.Events(ctx, userID)
		if err != nil {
			s.log.Warn("Failed to load plan for reminder scan", "user_id", userID, "error", err)
			continue
		}
		for _, ev := range events {
			if ev.Status == types.StatusCompleted || ev.Status == types.StatusCancelled {
				continue
			}
			for _, rem := range ev.Reminders {
				if rem.Sent || rem.ScheduledFor.After(now) {
					continue
				}
				payload := dueReminder{
					EventID:   ev.ID.String(),
					Title:     ev.Title,
					Type:      rem.Type,
					Message:   rem.Message,
					Scheduled: rem.ScheduledFor,
				}
				if ev.DueDate != nil {
					payload.DueAt = *ev.DueDate
				}
				s.notify.PlanChanged(ctx, userID, "reminder_due", payload)
				if _, err := s.coord.MarkReminderSent(ctx, userID, ev.ID, rem.ScheduledFor); err != nil {
					s.log.Warn("Failed to mark reminder sent", "event_id", ev.ID, "error", err)
					continue
				}
				published++
			}
		}
	}
	return published, nil
}
