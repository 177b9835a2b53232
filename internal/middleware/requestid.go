package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ContextRequestID = "requestId"
	headerRequestID  = "X-Request-Id"
)

// RequestID tags every request with a correlation id, echoed in the response
// header and attached to log lines.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextRequestID, id)
		c.Writer.Header().Set(headerRequestID, id)
		c.Next()
	}
}
