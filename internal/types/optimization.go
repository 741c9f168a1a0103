package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OptimizationKind string

const (
	OptScheduling  OptimizationKind = "scheduling"
	OptBundling    OptimizationKind = "bundling"
	OptDeadline    OptimizationKind = "deadline"
	OptHealthScore OptimizationKind = "health-score"
	OptCostSaving  OptimizationKind = "cost-saving"
)

// ImpactVector carries independently scaled, non-comparable dimensions.
type ImpactVector struct {
	HealthScore    float64 `json:"health_score"`
	CostSavings    float64 `json:"cost_savings"`
	TimeEfficiency float64 `json:"time_efficiency"`
	Convenience    float64 `json:"convenience"`
}

type Suggestion struct {
	Action           string  `json:"action"`
	Reason           string  `json:"reason"`
	Priority         float64 `json:"priority"`
	EstimatedBenefit string  `json:"estimated_benefit,omitempty"`
}

type TimelineOptimization struct {
	ID               uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID                      `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind             OptimizationKind               `gorm:"not null" json:"kind"`
	Description      string                         `gorm:"type:text" json:"description"`
	Impact           ImpactVector                   `gorm:"serializer:json" json:"impact"`
	Suggestions      []Suggestion                   `gorm:"serializer:json" json:"suggestions"`
	AffectedEventIDs datatypes.JSONSlice[uuid.UUID] `json:"affected_event_ids"`
	Implementable    bool                           `gorm:"default:true" json:"implementable"`
	ExpiresAt        *time.Time                     `json:"expires_at,omitempty"`
	CreatedAt        time.Time                      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time                      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt        gorm.DeletedAt                 `gorm:"index" json:"deleted_at,omitempty"`
}

func (TimelineOptimization) TableName() string { return "timeline_optimization" }
