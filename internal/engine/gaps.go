package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/carebridge-backend/internal/rules"
	"github.com/carebridge/carebridge-backend/internal/types"
)

// gapKindRank orders gap kinds for the per-category tie-break:
// overdue > approaching > recommended > seasonal.
func gapKindRank(k types.GapKind) int {
	switch k {
	case types.GapOverdue:
		return 3
	case types.GapApproaching:
		return 2
	case types.GapRecommended:
		return 1
	default:
		return 0
	}
}

func urgencyRank(u types.GapUrgency) int {
	switch u {
	case types.UrgencyCritical:
		return 3
	case types.UrgencyHigh:
		return 2
	case types.UrgencyMedium:
		return 1
	default:
		return 0
	}
}

// DetectGaps derives care gaps from the event set, the current time and the
// injected cadence rules. It is a pure function: same inputs, same output
// (modulo freshly minted gap ids).
func DetectGaps(userID uuid.UUID, events []*types.CareEvent, now time.Time, cfg rules.Config) []*types.CareGap {
	lastCompleted := map[types.EventCategory]time.Time{}
	for _, ev := range events {
		if ev.Status != types.StatusCompleted || ev.CompletedDate == nil {
			continue
		}
		if cur, ok := lastCompleted[ev.Category]; !ok || ev.CompletedDate.After(cur) {
			lastCompleted[ev.Category] = *ev.CompletedDate
		}
	}

	byCategory := map[types.EventCategory]*types.CareGap{}
	keep := func(g *types.CareGap) {
		cur, ok := byCategory[g.Category]
		if !ok || gapKindRank(g.Kind) > gapKindRank(cur.Kind) {
			byCategory[g.Category] = g
		}
	}

	for _, rule := range cfg.Cadence {
		last, completedBefore := lastCompleted[rule.Category]
		if !completedBefore {
			keep(newGap(userID, rule, types.GapRecommended, types.UrgencyLow, nil,
				fmt.Sprintf("%s has never been completed", rule.Title)))
			continue
		}

		due := last.AddDate(0, 0, rule.IntervalDays)
		elapsedDays := int(now.Sub(last).Hours() / 24)

		switch {
		case elapsedDays > rule.IntervalDays:
			urgency := types.UrgencyHigh
			if float64(elapsedDays) > 1.5*float64(rule.IntervalDays) {
				urgency = types.UrgencyCritical
			}
			keep(newGap(userID, rule, types.GapOverdue, urgency, &due,
				fmt.Sprintf("%s is %d days past its %d-day cadence", rule.Title, elapsedDays-rule.IntervalDays, rule.IntervalDays)))
		case elapsedDays >= rule.IntervalDays-rule.WarningWindowDays:
			keep(newGap(userID, rule, types.GapApproaching, types.UrgencyMedium, &due,
				fmt.Sprintf("%s is due within %d days", rule.Title, rule.IntervalDays-elapsedDays)))
		}
	}

	// Seasonal gaps come from the fixed calendar, independent of history.
	for _, season := range cfg.Seasonal {
		occ, active, err := season.ActiveOccurrence(now)
		if err != nil || !active {
			continue
		}
		due := occ.AddDate(0, 0, season.WindowDays)
		keep(&types.CareGap{
			ID:          uuid.New(),
			UserID:      userID,
			Category:    season.Category,
			Kind:        types.GapSeasonal,
			Title:       season.Title,
			Description: season.Description,
			Urgency:     types.UrgencyMedium,
			DueDate:     &due,
			HealthImpact: &types.GapHealthImpact{
				RiskLevel: string(types.UrgencyMedium),
				Benefits:  season.Description,
			},
			Benefits: gapBenefits(season.Benefits),
		})
	}

	out := make([]*types.CareGap, 0, len(byCategory))
	for _, g := range byCategory {
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if ri, rj := urgencyRank(out[i].Urgency), urgencyRank(out[j].Urgency); ri != rj {
			return ri > rj
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func newGap(userID uuid.UUID, rule rules.CadenceRule, kind types.GapKind, urgency types.GapUrgency, due *time.Time, description string) *types.CareGap {
	risk := "low"
	switch urgency {
	case types.UrgencyCritical:
		risk = "high"
	case types.UrgencyHigh:
		risk = "elevated"
	case types.UrgencyMedium:
		risk = "moderate"
	}
	return &types.CareGap{
		ID:          uuid.New(),
		UserID:      userID,
		Category:    rule.Category,
		Kind:        kind,
		Title:       rule.Title,
		Description: description,
		Urgency:     urgency,
		DueDate:     due,
		HealthImpact: &types.GapHealthImpact{
			RiskLevel:    risk,
			Consequences: "Delaying " + rule.Title + " increases the chance of undetected issues",
			Benefits:     rule.Description,
		},
		SchedulingInfo: &types.GapSchedulingInfo{
			EstimatedDurationMinutes: rule.EstimatedDurationMinutes,
			PreferredTimeframe:       "next 30 days",
			ProviderTypes:            rule.ProviderTypes,
		},
		Benefits: gapBenefits(rule.Benefits),
	}
}

// gapBenefits maps a rule's coverage expectation onto the gap. Rules without
// one leave Benefits nil rather than claiming zero coverage.
func gapBenefits(exp *rules.BenefitsExpectation) *types.GapBenefits {
	if exp == nil {
		return nil
	}
	return &types.GapBenefits{
		Covered:           exp.Covered,
		CoveragePercent:   exp.CoveragePercent,
		EstimatedCost:     exp.EstimatedCost,
		DeductibleApplies: exp.DeductibleApplies,
	}
}

// DetectGaps runs the detector against the engine's own state.
func (e *Engine) DetectGaps() []*types.CareGap {
	e.mu.Lock()
	defer e.mu.Unlock()
	return DetectGaps(e.state.UserID, e.state.Events, e.now(), e.cfg)
}

// RefreshGaps replaces the stored gap set with a fresh detection pass.
func (e *Engine) RefreshGaps() []*types.CareGap {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Gaps = DetectGaps(e.state.UserID, e.state.Events, e.now(), e.cfg)
	return cloneGaps(e.state.Gaps)
}

// PriorityGaps returns critical and high urgency gaps, critical first.
func (e *Engine) PriorityGaps() []*types.CareGap {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneGaps(priorityGaps(e.state.Gaps))
}

func priorityGaps(gaps []*types.CareGap) []*types.CareGap {
	var out []*types.CareGap
	for _, g := range gaps {
		if g.Urgency == types.UrgencyCritical {
			out = append(out, g)
		}
	}
	for _, g := range gaps {
		if g.Urgency == types.UrgencyHigh {
			out = append(out, g)
		}
	}
	return out
}
