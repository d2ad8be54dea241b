package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"storage-valuation/internal/api/models"
)

// ErrorHandler recovers from handler panics and returns the uniform error
// envelope. A panicking valuation must never take the server down.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		msg := "an unexpected error occurred"
		switch v := recovered.(type) {
		case string:
			msg = v
		case error:
			msg = v.Error()
		case fmt.Stringer:
			msg = v.String()
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INTERNAL_ERROR", Message: msg},
		})
	})
}
