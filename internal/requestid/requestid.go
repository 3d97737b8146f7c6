package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the HTTP header that carries the request ID in both directions.
const Header = "X-Request-ID"

const maxLen = 64

type ctxKey struct{}

func New() string {
	return uuid.NewString()
}

// Valid reports whether a client-supplied ID is safe to echo and log:
// at most 64 characters from [A-Za-z0-9._-].
func Valid(id string) bool {
	if id == "" || len(id) > maxLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns "" when ctx carries no request ID.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
