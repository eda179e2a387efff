package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxBytesReader caps the request body size; oversized bodies fail the
// handler's read with a request-too-large error.
func MaxBytesReader(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
