package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GapKind string

const (
	GapOverdue     GapKind = "overdue"
	GapApproaching GapKind = "approaching"
	GapRecommended GapKind = "recommended"
	GapSeasonal    GapKind = "seasonal"
)

type GapUrgency string

const (
	UrgencyLow      GapUrgency = "low"
	UrgencyMedium   GapUrgency = "medium"
	UrgencyHigh     GapUrgency = "high"
	UrgencyCritical GapUrgency = "critical"
)

type GapHealthImpact struct {
	RiskLevel    string `json:"risk_level"`
	Consequences string `json:"consequences,omitempty"`
	Benefits     string `json:"benefits,omitempty"`
}

type GapSchedulingInfo struct {
	EstimatedDurationMinutes int      `json:"estimated_duration_minutes"`
	PreferredTimeframe       string   `json:"preferred_timeframe,omitempty"`
	ProviderTypes            []string `json:"provider_types,omitempty"`
}

type GapBenefits struct {
	Covered           bool    `json:"covered"`
	CoveragePercent   int     `json:"coverage_percent"`
	EstimatedCost     float64 `json:"estimated_cost"`
	DeductibleApplies bool    `json:"deductible_applies"`
}

type CareGap struct {
	ID             uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	Category       EventCategory      `gorm:"not null" json:"category"`
	Kind           GapKind            `gorm:"not null" json:"kind"`
	Title          string             `gorm:"not null" json:"title"`
	Description    string             `gorm:"type:text" json:"description,omitempty"`
	Urgency        GapUrgency         `gorm:"not null" json:"urgency"`
	DueDate        *time.Time         `json:"due_date,omitempty"`
	HealthImpact   *GapHealthImpact   `gorm:"serializer:json" json:"health_impact,omitempty"`
	SchedulingInfo *GapSchedulingInfo `gorm:"serializer:json" json:"scheduling_info,omitempty"`
	Benefits       *GapBenefits       `gorm:"serializer:json" json:"benefits,omitempty"`
	CreatedAt      time.Time          `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time          `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt     `gorm:"index" json:"deleted_at,omitempty"`
}

func (CareGap) TableName() string { return "care_gap" }
