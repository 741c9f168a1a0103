package rules

import (
	"fmt"
	"os"
	"time"

	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/carebridge/carebridge-backend/internal/types"
)

// CadenceRule describes how often a care category should recur. Rules are
// configuration, never hardcoded engine invariants, so gap detection stays
// testable without a real clock.
type CadenceRule struct {
	Category                 types.EventCategory  `yaml:"category"`
	IntervalDays             int                  `yaml:"interval_days"`
	WarningWindowDays        int                  `yaml:"warning_window_days"`
	Title                    string               `yaml:"title"`
	Description              string               `yaml:"description"`
	ProviderTypes            []string             `yaml:"provider_types"`
	EstimatedDurationMinutes int                  `yaml:"estimated_duration_minutes"`
	Benefits                 *BenefitsExpectation `yaml:"benefits"`
}

// BenefitsExpectation is the plan-coverage assumption a rule attaches to the
// gaps it emits; the benefits collaborator refines it once connected.
type BenefitsExpectation struct {
	Covered           bool    `yaml:"covered"`
	CoveragePercent   int     `yaml:"coverage_percent"`
	EstimatedCost     float64 `yaml:"estimated_cost"`
	DeductibleApplies bool    `yaml:"deductible_applies"`
}

// SeasonalRule emits a gap from a fixed calendar rule, independent of event
// history. RRule uses RFC 5545 RRULE syntax (e.g. "FREQ=YEARLY;BYMONTH=10;BYMONTHDAY=1").
type SeasonalRule struct {
	Category    types.EventCategory  `yaml:"category"`
	Title       string               `yaml:"title"`
	Description string               `yaml:"description"`
	RRule       string               `yaml:"rrule"`
	WindowDays  int                  `yaml:"window_days"`
	Benefits    *BenefitsExpectation `yaml:"benefits"`
}

// ScoringWeights are the test-injectable fractions of the 100-point
// scheduling-suggestion scale. They should sum to 1.
type ScoringWeights struct {
	CalendarMatch float64 `yaml:"calendar_match"`
	ProviderMatch float64 `yaml:"provider_match"`
	RecencyBonus  float64 `yaml:"recency_bonus"`
}

type OptimizationConfig struct {
	BundlingWindowDays    int `yaml:"bundling_window_days"`
	DeadlineLookaheadDays int `yaml:"deadline_lookahead_days"`
}

type Config struct {
	Cadence      []CadenceRule      `yaml:"cadence"`
	Seasonal     []SeasonalRule     `yaml:"seasonal"`
	Weights      ScoringWeights     `yaml:"weights"`
	Optimization OptimizationConfig `yaml:"optimization"`
}

func Default() Config {
	return Config{
		Cadence: []CadenceRule{
			{Category: types.CategoryDental, IntervalDays: 180, WarningWindowDays: 30, Title: "Dental cleaning", Description: "Routine dental cleaning and exam", ProviderTypes: []string{"dentist"}, EstimatedDurationMinutes: 60, Benefits: &BenefitsExpectation{Covered: true, CoveragePercent: 100, EstimatedCost: 180}},
			{Category: types.CategoryPreventative, IntervalDays: 365, WarningWindowDays: 45, Title: "Annual physical", Description: "Annual preventive physical exam", ProviderTypes: []string{"primary-care"}, EstimatedDurationMinutes: 45, Benefits: &BenefitsExpectation{Covered: true, CoveragePercent: 100, EstimatedCost: 250}},
			{Category: types.CategoryVision, IntervalDays: 365, WarningWindowDays: 30, Title: "Eye exam", Description: "Routine vision exam", ProviderTypes: []string{"optometrist"}, EstimatedDurationMinutes: 30, Benefits: &BenefitsExpectation{Covered: true, CoveragePercent: 80, EstimatedCost: 150, DeductibleApplies: true}},
		},
		Seasonal: []SeasonalRule{
			{Category: types.CategoryPreventative, Title: "Flu shot", Description: "Seasonal influenza vaccination", RRule: "FREQ=YEARLY;BYMONTH=10;BYMONTHDAY=1", WindowDays: 45, Benefits: &BenefitsExpectation{Covered: true, CoveragePercent: 100}},
		},
		Weights: ScoringWeights{
			CalendarMatch: 0.45,
			ProviderMatch: 0.35,
			RecencyBonus:  0.20,
		},
		Optimization: OptimizationConfig{
			BundlingWindowDays:    14,
			DeadlineLookaheadDays: 60,
		},
	}
}

// Load reads a yaml rules file, falling back to defaults when path is empty
// or the file does not exist. Partial files override only the sections they set.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read rules file: %w", err)
	}
	var fileCfg Config
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parse rules file: %w", err)
	}
	if len(fileCfg.Cadence) > 0 {
		cfg.Cadence = fileCfg.Cadence
	}
	if len(fileCfg.Seasonal) > 0 {
		cfg.Seasonal = fileCfg.Seasonal
	}
	if fileCfg.Weights != (ScoringWeights{}) {
		cfg.Weights = fileCfg.Weights
	}
	if fileCfg.Optimization.BundlingWindowDays > 0 {
		cfg.Optimization.BundlingWindowDays = fileCfg.Optimization.BundlingWindowDays
	}
	if fileCfg.Optimization.DeadlineLookaheadDays > 0 {
		cfg.Optimization.DeadlineLookaheadDays = fileCfg.Optimization.DeadlineLookaheadDays
	}
	return cfg, nil
}

// ActiveOccurrence reports whether the rule has an occurrence within
// WindowDays around now, returning the occurrence when it does.
func (s SeasonalRule) ActiveOccurrence(now time.Time) (time.Time, bool, error) {
	r, err := rrule.StrToRRule(s.RRule)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse seasonal rrule: %w", err)
	}
	// Anchor well before any plausible query time so occurrence search is
	// deterministic regardless of construction time.
	r.DTStart(time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC))

	window := time.Duration(s.WindowDays) * 24 * time.Hour
	occs := r.Between(now.Add(-window), now.Add(window), true)
	if len(occs) == 0 {
		return time.Time{}, false, nil
	}
	return occs[0], true, nil
}
