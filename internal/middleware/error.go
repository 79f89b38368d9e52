package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/odontocare/clinic-api/internal/handler"
)

// ErrorHandler translates application errors pushed onto the gin context into
// HTTP responses using the error taxonomy.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		handler.Error(c, c.Errors.Last().Err)
	}
}
