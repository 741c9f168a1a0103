package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carebridge/carebridge-backend/internal/engine"
	"github.com/carebridge/carebridge-backend/internal/http/response"
	"github.com/carebridge/carebridge-backend/internal/services"
)

type ActionHandler struct {
	coord services.CoordinationService
}

func NewActionHandler(coord services.CoordinationService) *ActionHandler {
	return &ActionHandler{coord: coord}
}

// GET /next-action
func (h *ActionHandler) NextBestAction(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	action, err := h.coord.NextBestAction(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	// A nil action is a valid outcome: nothing needs attention.
	response.RespondOK(c, gin.H{"action": action})
}

// POST /scheduling-suggestions
// body: { "candidates": [ { "start": "...", "provider_available": true } ] }
func (h *ActionHandler) SchedulingSuggestions(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		Candidates []engine.SlotCandidate `json:"candidates" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	suggestions, err := h.coord.SchedulingSuggestions(c.Request.Context(), userID, req.Candidates)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"suggestions": suggestions})
}
