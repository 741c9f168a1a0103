package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carebridge/carebridge-backend/internal/http/response"
	"github.com/carebridge/carebridge-backend/internal/services"
	"github.com/carebridge/carebridge-backend/internal/types"
)

type IntegrationHandler struct {
	coord services.CoordinationService
}

func NewIntegrationHandler(coord services.CoordinationService) *IntegrationHandler {
	return &IntegrationHandler{coord: coord}
}

// PUT /integrations/calendar
func (h *IntegrationHandler) SyncCalendar(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var snapshot types.WorkCalendarIntegration
	if err := c.ShouldBindJSON(&snapshot); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	stored, err := h.coord.SyncCalendar(c.Request.Context(), userID, &snapshot)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"calendar": stored})
}

// PUT /integrations/benefits
func (h *IntegrationHandler) SyncBenefits(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var snapshot types.BenefitsIntegration
	if err := c.ShouldBindJSON(&snapshot); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	stored, err := h.coord.SyncBenefits(c.Request.Context(), userID, &snapshot)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"benefits": stored})
}

// GET /integrations/conflicts
func (h *IntegrationHandler) Conflicts(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	conflicts, err := h.coord.Conflicts(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"conflicts": conflicts})
}

// GET /integrations/benefit-deadlines
func (h *IntegrationHandler) BenefitDeadlines(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	deadlines, err := h.coord.BenefitDeadlines(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deadlines": deadlines})
}
