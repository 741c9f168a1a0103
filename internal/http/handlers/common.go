package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carebridge/carebridge-backend/internal/http/response"
	errs "github.com/carebridge/carebridge-backend/internal/pkg/errors"
	"github.com/carebridge/carebridge-backend/internal/platform/apierr"
)

// userIDHeader carries the caller identity, stamped by the upstream auth
// layer. The engine never authenticates; it trusts this header.
const userIDHeader = "X-User-ID"

func callerID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetHeader(userIDHeader)
	if raw == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_user", errors.New("X-User-ID header is required"))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_user", err)
		return uuid.Nil, false
	}
	return id, true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}

func respondServiceError(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		response.RespondError(c, ae.Status, ae.Code, ae.Err)
		return
	}
	switch {
	case errors.Is(err, errs.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, errs.ErrConflict):
		response.RespondError(c, http.StatusConflict, "conflict", err)
	case errors.Is(err, errs.ErrInvalidState):
		response.RespondError(c, http.StatusUnprocessableEntity, "invalid_state", err)
	case errors.Is(err, errs.ErrInvalidArgument):
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}
