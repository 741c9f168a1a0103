package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EventKind string

const (
	EventKindAppointment EventKind = "appointment"
	EventKindReminder    EventKind = "reminder"
	EventKindDeadline    EventKind = "deadline"
	EventKindMilestone   EventKind = "milestone"
	EventKindFollowUp    EventKind = "follow-up"
)

type EventCategory string

const (
	CategoryPreventative EventCategory = "preventative"
	CategoryRoutine      EventCategory = "routine"
	CategorySpecialist   EventCategory = "specialist"
	CategoryDental       EventCategory = "dental"
	CategoryVision       EventCategory = "vision"
	CategoryMentalHealth EventCategory = "mental-health"
	CategoryWellness     EventCategory = "wellness"
)

// EventStatus holds the stored lifecycle state. "overdue" is never stored;
// it is derived from the due date at query time.
type EventStatus string

const (
	StatusSuggested EventStatus = "suggested"
	StatusPending   EventStatus = "pending"
	StatusScheduled EventStatus = "scheduled"
	StatusCompleted EventStatus = "completed"
	StatusCancelled EventStatus = "cancelled"
	StatusOverdue   EventStatus = "overdue"
)

type EventPriority string

const (
	PriorityLow    EventPriority = "low"
	PriorityMedium EventPriority = "medium"
	PriorityHigh   EventPriority = "high"
	PriorityUrgent EventPriority = "urgent"
)

type Reminder struct {
	Type         string    `json:"type"`
	ScheduledFor time.Time `json:"scheduled_for"`
	Sent         bool      `json:"sent"`
	Message      string    `json:"message"`
}

type BenefitsCoverage struct {
	Covered             bool       `json:"covered"`
	CoveragePercent     int        `json:"coverage_percent"`
	Copay               float64    `json:"copay"`
	DeductibleRemaining float64    `json:"deductible_remaining"`
	EstimatedValue      float64    `json:"estimated_value"`
	ExpiresAt           *time.Time `json:"expires_at,omitempty"`
}

type HealthImpact struct {
	CurrentScore         float64 `json:"current_score"`
	PotentialImprovement float64 `json:"potential_improvement"`
}

type CareEvent struct {
	ID                   uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID               uuid.UUID                     `gorm:"type:uuid;not null;index" json:"user_id"`
	Title                string                        `gorm:"not null" json:"title"`
	Description          string                        `gorm:"type:text" json:"description,omitempty"`
	Kind                 EventKind                     `gorm:"not null" json:"kind"`
	Category             EventCategory                 `gorm:"not null;index" json:"category"`
	Status               EventStatus                   `gorm:"not null;default:'suggested'" json:"status"`
	Priority             EventPriority                 `gorm:"not null;default:'medium'" json:"priority"`
	ScheduledDate        *time.Time                    `json:"scheduled_date,omitempty"`
	DueDate              *time.Time                    `json:"due_date,omitempty"`
	CompletedDate        *time.Time                    `json:"completed_date,omitempty"`
	Provider             string                        `json:"provider,omitempty"`
	InNetwork            bool                          `gorm:"default:true" json:"in_network"`
	InNetworkAlternative string                        `json:"in_network_alternative,omitempty"`
	Location             string                        `json:"location,omitempty"`
	Coverage             *BenefitsCoverage             `gorm:"serializer:json" json:"coverage,omitempty"`
	HealthImpact         *HealthImpact                 `gorm:"serializer:json" json:"health_impact,omitempty"`
	Preparation          string                        `gorm:"type:text" json:"preparation,omitempty"`
	WorkImpactHours      float64                       `json:"work_impact_hours,omitempty"`
	Reminders            []Reminder                    `gorm:"serializer:json" json:"reminders,omitempty"`
	RelatedEventIDs      datatypes.JSONSlice[uuid.UUID] `json:"related_event_ids,omitempty"`
	Metadata             datatypes.JSON                `gorm:"type:jsonb" json:"metadata,omitempty"`
	RescheduleReason     string                        `json:"reschedule_reason,omitempty"`
	LastModified         time.Time                     `gorm:"not null" json:"last_modified"`
	CreatedAt            time.Time                     `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt            time.Time                     `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt            gorm.DeletedAt                `gorm:"index" json:"deleted_at,omitempty"`
}

func (CareEvent) TableName() string { return "care_event" }
