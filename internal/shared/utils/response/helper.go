package response

import (
	"bookly/internal/shared/apperr"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondError writes err using the status code derived from its domain kind.
// Unexpected errors are reported with a generic message and the detail in errors.
func RespondError(c *gin.Context, message string, err error) {
	code := apperr.StatusCode(err)
	if kind := apperr.KindOf(err); kind != "" {
		RespondJSON(c, "error", code, err.Error(), nil, gin.H{"kind": kind})
		return
	}
	RespondJSON(c, "error", code, message, nil, err.Error())
}
