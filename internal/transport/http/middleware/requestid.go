package middleware

import (
	"github.com/ErlanBelekov/classroom/internal/requestid"
	"github.com/gin-gonic/gin"
)

// RequestID attaches a request ID to the context and response header. A
// well-formed incoming X-Request-ID is kept; anything else is replaced.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestid.Header)
		if !requestid.Valid(id) {
			id = requestid.New()
		}

		c.Request = c.Request.WithContext(requestid.WithRequestID(c.Request.Context(), id))
		c.Header(requestid.Header, id)
		c.Next()
	}
}
