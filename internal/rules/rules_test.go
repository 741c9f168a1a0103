package rules

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/carebridge/carebridge-backend/internal/types"
)

func TestDefault_HasDentalCadence(t *testing.T) {
	cfg := Default()
	found := false
	for _, r := range cfg.Cadence {
		if r.Category == types.CategoryDental {
			found = true
			if r.IntervalDays != 180 {
				t.Fatalf("expected 180 day dental interval, got %d", r.IntervalDays)
			}
		}
	}
	if !found {
		t.Fatalf("expected a dental cadence rule in defaults")
	}
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(cfg.Cadence) == 0 {
		t.Fatalf("expected default cadence rules")
	}
}

func TestLoad_FileOverridesCadenceOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	raw := []byte("cadence:\n  - category: dental\n    interval_days: 90\n    warning_window_days: 14\n    title: Cleaning\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(cfg.Cadence) != 1 || cfg.Cadence[0].IntervalDays != 90 {
		t.Fatalf("expected overridden cadence, got %#v", cfg.Cadence)
	}
	if cfg.Weights.CalendarMatch == 0 {
		t.Fatalf("expected default weights preserved")
	}
	if cfg.Optimization.BundlingWindowDays != 14 {
		t.Fatalf("expected default bundling window preserved")
	}
}

func TestSeasonalRule_ActiveInsideWindow(t *testing.T) {
	rule := SeasonalRule{
		Category:   types.CategoryPreventative,
		Title:      "Flu shot",
		RRule:      "FREQ=YEARLY;BYMONTH=10;BYMONTHDAY=1",
		WindowDays: 45,
	}
	now := time.Date(2025, time.October, 10, 12, 0, 0, 0, time.UTC)
	occ, ok, err := rule.ActiveOccurrence(now)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !ok {
		t.Fatalf("expected rule active in october")
	}
	if occ.Month() != time.October || occ.Day() != 1 {
		t.Fatalf("unexpected occurrence: %v", occ)
	}
}

func TestSeasonalRule_InactiveOutsideWindow(t *testing.T) {
	rule := SeasonalRule{
		RRule:      "FREQ=YEARLY;BYMONTH=10;BYMONTHDAY=1",
		WindowDays: 30,
	}
	now := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	_, ok, err := rule.ActiveOccurrence(now)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ok {
		t.Fatalf("expected rule inactive in april")
	}
}
