package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carebridge/carebridge-backend/internal/services"
)

type ExportHandler struct {
	export services.ExportService
}

func NewExportHandler(export services.ExportService) *ExportHandler {
	return &ExportHandler{export: export}
}

// GET /export/calendar.ics
func (h *ExportHandler) PlanCalendar(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	feed, err := h.export.PlanCalendar(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="care-plan.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}
