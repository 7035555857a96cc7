// Package middleware holds the HTTP middleware shared by the scan API.
package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
)

// contextKey is a private type so our context values can't collide with
// other packages'.
type contextKey string

const requestIDKey contextKey = "request_id"

// requestIDHeader carries the ID between client, server and logs. Scans can
// run for a minute or more, so being able to correlate a hanging request
// with its log lines matters.
const requestIDHeader = "X-Request-ID"

// RequestID tags every request with an identifier: the client's, when it
// sent one, otherwise a freshly generated hex ID. The ID is echoed on the
// response and stored in the request context for the logging middleware.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = newRequestID()
		}

		w.Header().Set(requestIDHeader, id)

		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// newRequestID returns 8 random bytes as 16 hex characters.
func newRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is effectively fatal elsewhere; here a
		// constant marker keeps the request serving.
		return "0000000000000000"
	}
	return hex.EncodeToString(b)
}

// GetRequestID returns the request ID stored in ctx, or "" if absent.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
