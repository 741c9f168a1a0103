package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/carebridge/carebridge-backend/internal/engine"
	"github.com/carebridge/carebridge-backend/internal/http/response"
	"github.com/carebridge/carebridge-backend/internal/services"
	"github.com/carebridge/carebridge-backend/internal/types"
)

type EventHandler struct {
	coord services.CoordinationService
}

func NewEventHandler(coord services.CoordinationService) *EventHandler {
	return &EventHandler{coord: coord}
}

// GET /events
func (h *EventHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	events, err := h.coord.Events(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"events": events})
}

// GET /events/overdue
func (h *EventHandler) Overdue(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	events, err := h.coord.OverdueEvents(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"events": events})
}

// GET /events/upcoming?days=7
func (h *EventHandler) Upcoming(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_days", err)
			return
		}
		days = parsed
	}
	events, err := h.coord.UpcomingEvents(c.Request.Context(), userID, days)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"events": events})
}

// POST /events
func (h *EventHandler) Create(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var ev types.CareEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := h.coord.AddEvent(c.Request.Context(), userID, &ev)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"event": created})
}

type updateEventRequest struct {
	Title                *string                 `json:"title"`
	Description          *string                 `json:"description"`
	Kind                 *types.EventKind        `json:"kind"`
	Category             *types.EventCategory    `json:"category"`
	Status               *types.EventStatus      `json:"status"`
	Priority             *types.EventPriority    `json:"priority"`
	ScheduledDate        *time.Time              `json:"scheduled_date"`
	DueDate              *time.Time              `json:"due_date"`
	Provider             *string                 `json:"provider"`
	InNetwork            *bool                   `json:"in_network"`
	InNetworkAlternative *string                 `json:"in_network_alternative"`
	Location             *string                 `json:"location"`
	Preparation          *string                 `json:"preparation"`
	WorkImpactHours      *float64                `json:"work_impact_hours"`
	Coverage             *types.BenefitsCoverage `json:"coverage"`
	HealthImpact         *types.HealthImpact     `json:"health_impact"`
	Reminders            []types.Reminder        `json:"reminders"`
}

// PATCH /events/:id
func (h *EventHandler) Update(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	patch := engine.EventPatch{
		Title:                req.Title,
		Description:          req.Description,
		Kind:                 req.Kind,
		Category:             req.Category,
		Status:               req.Status,
		Priority:             req.Priority,
		ScheduledDate:        req.ScheduledDate,
		DueDate:              req.DueDate,
		Provider:             req.Provider,
		InNetwork:            req.InNetwork,
		InNetworkAlternative: req.InNetworkAlternative,
		Location:             req.Location,
		Preparation:          req.Preparation,
		WorkImpactHours:      req.WorkImpactHours,
		Coverage:             req.Coverage,
		HealthImpact:         req.HealthImpact,
		Reminders:            req.Reminders,
	}
	updated, err := h.coord.UpdateEvent(c.Request.Context(), userID, id, patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"event": updated})
}

// POST /events/:id/complete
// body: { "completed_date": "2025-06-15T12:00:00Z" } (optional, defaults to now)
func (h *EventHandler) Complete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		CompletedDate *time.Time `json:"completed_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	completedAt := time.Now().UTC()
	if req.CompletedDate != nil {
		completedAt = *req.CompletedDate
	}
	ev, err := h.coord.CompleteEvent(c.Request.Context(), userID, id, completedAt)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"event": ev})
}

// POST /events/:id/schedule
// body: { "date": "...", "provider": "..." }
func (h *EventHandler) Schedule(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Date     time.Time `json:"date" binding:"required"`
		Provider string    `json:"provider"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ev, err := h.coord.ScheduleEvent(c.Request.Context(), userID, id, req.Date, req.Provider)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"event": ev})
}

// POST /events/:id/reschedule
// body: { "new_date": "...", "reason": "..." }
func (h *EventHandler) Reschedule(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		NewDate time.Time `json:"new_date" binding:"required"`
		Reason  string    `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ev, err := h.coord.RescheduleEvent(c.Request.Context(), userID, id, req.NewDate, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"event": ev})
}

// DELETE /events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.coord.DeleteEvent(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
