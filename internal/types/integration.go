package types

import "time"

// Integration snapshots are supplied by external collaborators and held by
// reference; the engine reads them and never mutates them beyond stamping
// LastSync on an explicit sync call.

type PreferredWindow struct {
	Weekday time.Weekday `json:"weekday"`
	Start   string       `json:"start"` // "09:00"
	End     string       `json:"end"`   // "17:00"
}

type BusySlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type WorkAvailability struct {
	PreferredWindows []PreferredWindow `json:"preferred_windows,omitempty"`
	BlackoutDates    []string          `json:"blackout_dates,omitempty"` // "2006-01-02"
	BusySlots        []BusySlot        `json:"busy_slots,omitempty"`
}

type WorkCalendarIntegration struct {
	Connected    bool             `json:"connected"`
	LastSync     *time.Time       `json:"last_sync,omitempty"`
	Provider     string           `json:"provider,omitempty"`
	Availability WorkAvailability `json:"availability"`
}

type BenefitExpirations struct {
	BenefitYear string `json:"benefit_year,omitempty"` // "2006-01-02"
	FSAGrace    string `json:"fsa_grace,omitempty"`
}

type BenefitsIntegration struct {
	Connected             bool               `json:"connected"`
	LastSync              *time.Time         `json:"last_sync,omitempty"`
	PlanName              string             `json:"plan_name,omitempty"`
	DeductibleTotal       float64            `json:"deductible_total"`
	DeductibleMet         float64            `json:"deductible_met"`
	RemainingCoveredValue float64            `json:"remaining_covered_value"`
	FSARemaining          float64            `json:"fsa_remaining"`
	ExpirationDates       BenefitExpirations `json:"expiration_dates"`
}
