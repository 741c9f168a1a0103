package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/carebridge/carebridge-backend/internal/http/response"
	"github.com/carebridge/carebridge-backend/internal/services"
)

type OptimizationHandler struct {
	coord services.CoordinationService
}

func NewOptimizationHandler(coord services.CoordinationService) *OptimizationHandler {
	return &OptimizationHandler{coord: coord}
}

// GET /optimizations
func (h *OptimizationHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	opts, err := h.coord.Optimizations(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"optimizations": opts})
}

// POST /optimizations/refresh
func (h *OptimizationHandler) Refresh(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	opts, err := h.coord.RefreshOptimizations(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"optimizations": opts})
}

// POST /optimizations/:id/apply
func (h *OptimizationHandler) Apply(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	created, err := h.coord.ApplyOptimization(c.Request.Context(), userID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	// created is nil when the optimization carries no implementable bundle
	response.RespondOK(c, gin.H{"ok": true, "created_event": created})
}

// POST /optimizations/:id/dismiss
func (h *OptimizationHandler) Dismiss(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.coord.DismissOptimization(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
