package response

import (
	"github.com/gin-gonic/gin"
)

// APIError is the wire shape of a failure; Code carries the machine-readable
// taxonomy value (not_found, conflict, invalid_state, ...).
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}
