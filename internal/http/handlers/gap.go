package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/carebridge/carebridge-backend/internal/http/response"
	"github.com/carebridge/carebridge-backend/internal/services"
)

type GapHandler struct {
	coord services.CoordinationService
}

func NewGapHandler(coord services.CoordinationService) *GapHandler {
	return &GapHandler{coord: coord}
}

// GET /gaps
func (h *GapHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	gaps, err := h.coord.Gaps(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"gaps": gaps})
}

// GET /gaps/priority
func (h *GapHandler) Priority(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	gaps, err := h.coord.PriorityGaps(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"gaps": gaps})
}

// POST /gaps/refresh
func (h *GapHandler) Refresh(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	gaps, err := h.coord.RefreshGaps(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"gaps": gaps})
}

// POST /gaps/:id/resolve
func (h *GapHandler) Resolve(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.coord.ResolveGap(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
