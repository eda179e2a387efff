package common

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// Message sends the single-key message payload used across the API surface.
func Message(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, gin.H{"message": message})
}

// MessageWith sends a message payload with extra top-level fields.
func MessageWith(c *gin.Context, httpStatus int, message string, extra gin.H) {
	payload := gin.H{"message": message}
	for k, v := range extra {
		payload[k] = v
	}
	c.JSON(httpStatus, payload)
}

// MissingFieldsMessage joins missing field names into the canonical
// validation message.
func MissingFieldsMessage(fields []string) string {
	return "Missing required fields: " + strings.Join(fields, ", ")
}
