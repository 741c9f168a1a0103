package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/carebridge/carebridge-backend/internal/rules"
	"github.com/carebridge/carebridge-backend/internal/types"
)

// BuildOptimizations proposes timeline-level changes from the current event
// and gap sets: bundling of nearby visits, use-it-or-lose-it deadlines, and
// in-network substitutions.
func BuildOptimizations(userID uuid.UUID, events []*types.CareEvent, gaps []*types.CareGap, now time.Time, cfg rules.Config) []*types.TimelineOptimization {
	var out []*types.TimelineOptimization
	out = append(out, bundlingOptimizations(userID, events, cfg.Optimization.BundlingWindowDays)...)
	out = append(out, deadlineOptimizations(userID, events, now, cfg.Optimization.DeadlineLookaheadDays)...)
	out = append(out, costSavingOptimizations(userID, events)...)

	for _, opt := range out {
		sort.SliceStable(opt.Suggestions, func(i, j int) bool {
			return opt.Suggestions[i].Priority > opt.Suggestions[j].Priority
		})
		opt.Implementable = implementable(events, opt.AffectedEventIDs)
	}
	return out
}

func implementable(events []*types.CareEvent, affected []uuid.UUID) bool {
	byID := map[uuid.UUID]*types.CareEvent{}
	for _, ev := range events {
		byID[ev.ID] = ev
	}
	for _, id := range affected {
		ev, ok := byID[id]
		if !ok {
			return false
		}
		if ev.Status == types.StatusCompleted || ev.Status == types.StatusCancelled {
			return false
		}
	}
	return true
}

// bundlingOptimizations groups events at the same provider (or, failing
// that, location) whose scheduled dates fall within the bundling window.
func bundlingOptimizations(userID uuid.UUID, events []*types.CareEvent, windowDays int) []*types.TimelineOptimization {
	clusters := map[string][]*types.CareEvent{}
	for _, ev := range events {
		if ev.ScheduledDate == nil {
			continue
		}
		if ev.Status == types.StatusCompleted || ev.Status == types.StatusCancelled {
			continue
		}
		key := ev.Provider
		if key == "" {
			key = ev.Location
		}
		if key == "" {
			continue
		}
		clusters[key] = append(clusters[key], ev)
	}

	keys := make([]string, 0, len(clusters))
	for k := range clusters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []*types.TimelineOptimization
	window := time.Duration(windowDays) * 24 * time.Hour
	for _, key := range keys {
		group := clusters[key]
		if len(group) < 2 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].ScheduledDate.Before(*group[j].ScheduledDate)
		})
		if group[len(group)-1].ScheduledDate.Sub(*group[0].ScheduledDate) > window {
			continue
		}

		ids := make([]uuid.UUID, 0, len(group))
		for _, ev := range group {
			ids = append(ids, ev.ID)
		}
		out = append(out, &types.TimelineOptimization{
			ID:          uuid.New(),
			UserID:      userID,
			Kind:        types.OptBundling,
			Description: fmt.Sprintf("Combine %d visits at %s into a single trip", len(group), key),
			Impact: types.ImpactVector{
				Convenience:    float64(len(group) - 1),
				TimeEfficiency: float64(len(group) - 1),
			},
			Suggestions: []types.Suggestion{
				{
					Action:           fmt.Sprintf("Book %d appointments at %s back to back", len(group), key),
					Reason:           fmt.Sprintf("All %d visits fall within %d days of each other", len(group), windowDays),
					Priority:         float64(len(group)),
					EstimatedBenefit: fmt.Sprintf("%d fewer trips", len(group)-1),
				},
			},
			AffectedEventIDs: datatypes.NewJSONSlice(ids),
		})
	}
	return out
}

// deadlineOptimizations flags benefits coverage that expires within the
// lookahead window; the forfeited value becomes the cost-savings impact.
func deadlineOptimizations(userID uuid.UUID, events []*types.CareEvent, now time.Time, lookaheadDays int) []*types.TimelineOptimization {
	horizon := now.AddDate(0, 0, lookaheadDays)
	var out []*types.TimelineOptimization
	for _, ev := range events {
		if ev.Status == types.StatusCompleted || ev.Status == types.StatusCancelled {
			continue
		}
		cov := ev.Coverage
		if cov == nil || cov.ExpiresAt == nil {
			continue
		}
		if cov.ExpiresAt.Before(now) || cov.ExpiresAt.After(horizon) {
			continue
		}
		daysLeft := int(cov.ExpiresAt.Sub(now).Hours() / 24)
		expires := *cov.ExpiresAt
		out = append(out, &types.TimelineOptimization{
			ID:          uuid.New(),
			UserID:      userID,
			Kind:        types.OptDeadline,
			Description: fmt.Sprintf("Coverage for %q expires in %d days", ev.Title, daysLeft),
			Impact: types.ImpactVector{
				CostSavings: cov.EstimatedValue,
			},
			Suggestions: []types.Suggestion{
				{
					Action:           fmt.Sprintf("Schedule %q before %s", ev.Title, expires.Format("2006-01-02")),
					Reason:           "Unused benefit value is forfeited at expiry",
					Priority:         float64(lookaheadDays - daysLeft),
					EstimatedBenefit: fmt.Sprintf("$%.2f of covered value preserved", cov.EstimatedValue),
				},
			},
			AffectedEventIDs: datatypes.NewJSONSlice([]uuid.UUID{ev.ID}),
			ExpiresAt:        &expires,
		})
	}
	return out
}

// costSavingOptimizations proposes in-network substitutions for
// out-of-network providers with a known equivalent.
func costSavingOptimizations(userID uuid.UUID, events []*types.CareEvent) []*types.TimelineOptimization {
	var out []*types.TimelineOptimization
	for _, ev := range events {
		if ev.Status == types.StatusCompleted || ev.Status == types.StatusCancelled {
			continue
		}
		if ev.InNetwork || ev.InNetworkAlternative == "" {
			continue
		}
		savings := 0.0
		if ev.Coverage != nil {
			savings = ev.Coverage.Copay
		}
		out = append(out, &types.TimelineOptimization{
			ID:          uuid.New(),
			UserID:      userID,
			Kind:        types.OptCostSaving,
			Description: fmt.Sprintf("Switch %q to in-network provider %s", ev.Title, ev.InNetworkAlternative),
			Impact: types.ImpactVector{
				CostSavings: savings,
			},
			Suggestions: []types.Suggestion{
				{
					Action:           fmt.Sprintf("Rebook %q with %s", ev.Title, ev.InNetworkAlternative),
					Reason:           fmt.Sprintf("%s is out of network", ev.Provider),
					Priority:         1,
					EstimatedBenefit: "in-network rates apply",
				},
			},
			AffectedEventIDs: datatypes.NewJSONSlice([]uuid.UUID{ev.ID}),
		})
	}
	return out
}

// RefreshOptimizations replaces the stored optimization set with a fresh pass.
func (e *Engine) RefreshOptimizations() []*types.TimelineOptimization {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Optimizations = BuildOptimizations(e.state.UserID, e.state.Events, e.state.Gaps, e.now(), e.cfg)
	return cloneOptimizations(e.state.Optimizations)
}

// ApplyOptimization removes an optimization from the active set. Applying an
// implementable bundling optimization also creates the combined visit event.
func (e *Engine) ApplyOptimization(id uuid.UUID) (*types.CareEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := -1
	var opt *types.TimelineOptimization
	for i, o := range e.state.Optimizations {
		if o.ID == id {
			idx, opt = i, o
			break
		}
	}
	if opt == nil {
		return nil, notFound(id)
	}
	e.state.Optimizations = append(e.state.Optimizations[:idx], e.state.Optimizations[idx+1:]...)

	if opt.Kind != types.OptBundling || !opt.Implementable {
		return nil, nil
	}

	combined := &types.CareEvent{
		ID:              uuid.New(),
		UserID:          e.state.UserID,
		Title:           "Combined visit",
		Description:     opt.Description,
		Kind:            types.EventKindAppointment,
		Category:        types.CategoryRoutine,
		Status:          types.StatusPending,
		Priority:        types.PriorityMedium,
		RelatedEventIDs: opt.AffectedEventIDs,
		LastModified:    e.now(),
	}
	if len(opt.AffectedEventIDs) > 0 {
		if _, first := e.findEvent(opt.AffectedEventIDs[0]); first != nil {
			combined.Provider = first.Provider
			combined.Location = first.Location
			combined.Category = first.Category
			if first.ScheduledDate != nil {
				d := *first.ScheduledDate
				combined.ScheduledDate = &d
			}
		}
	}
	e.state.Events = append(e.state.Events, combined)
	return cloneEvent(combined), nil
}

// DismissOptimization drops an optimization without acting on it.
func (e *Engine) DismissOptimization(id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, o := range e.state.Optimizations {
		if o.ID == id {
			e.state.Optimizations = append(e.state.Optimizations[:i], e.state.Optimizations[i+1:]...)
			return nil
		}
	}
	return notFound(id)
}
