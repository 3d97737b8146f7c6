package handler

import (
	"context"
	"net/http"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/ErlanBelekov/classroom/internal/errorbus"
	"github.com/ErlanBelekov/classroom/internal/metrics"
	"github.com/gin-gonic/gin"
)

const (
	errInternalServer = "Internal server error"
	errInvalidRequest = "Invalid request"
	errNotFound       = "Not found"
	errUnauthorized   = "Unauthorized"
	errTooManyLogins  = "Too many login attempts"
)

// ErrorPublisher receives unexpected errors. *errorbus.Bus implements it.
type ErrorPublisher interface {
	Publish(ctx context.Context, e errorbus.Event)
}

// invalid writes the 400 body {message, error: FieldError[]}.
func invalid(c *gin.Context, operation string, errs domain.FieldErrors) {
	metrics.ValidationFailuresTotal.WithLabelValues(operation).Inc()
	c.JSON(http.StatusBadRequest, gin.H{"message": errInvalidRequest, "error": errs})
}

// internal publishes err and writes a bare 500. Details never reach the client.
func internal(c *gin.Context, bus ErrorPublisher, err error) {
	bus.Publish(c.Request.Context(), errorbus.Event{
		Source: c.Request.Method + " " + c.FullPath(),
		Err:    err,
	})
	c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"message": errNotFound})
}

// body returns the raw request body. An empty or unreadable body becomes
// JSON null, which the validators reject.
func body(c *gin.Context) []byte {
	b, err := c.GetRawData()
	if err != nil || len(b) == 0 {
		return []byte("null")
	}
	return b
}

// query flattens the query string to its first value per key, the shape the
// criteria validators expect.
func query(c *gin.Context) map[string]any {
	out := make(map[string]any)
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
