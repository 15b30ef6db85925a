// Package middleware holds the HTTP middleware shared by the page and API routes.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	TraceIDKey   contextKey = "trace_id"
)

const (
	RequestIDHeader = "X-Request-ID"
	TraceIDHeader   = "X-Trace-ID"
)

// maxIDLength bounds client-supplied request and trace IDs.
const maxIDLength = 128

// RequestID tags each request with an ID, echoed in the response and stored
// in the context for logging. A well-formed incoming X-Request-ID is kept;
// anything else is replaced by a fresh UUID. X-Trace-ID is passed through
// only when well-formed.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id := r.Header.Get(RequestIDHeader)
		if !validID(id) {
			id = uuid.NewString()
		}
		ctx = context.WithValue(ctx, RequestIDKey, id)
		w.Header().Set(RequestIDHeader, id)

		if trace := r.Header.Get(TraceIDHeader); validID(trace) {
			ctx = context.WithValue(ctx, TraceIDKey, trace)
			w.Header().Set(TraceIDHeader, trace)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// validID reports whether id is non-empty, bounded and visible ASCII only.
func validID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

func stringFromContext(ctx context.Context, key contextKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}

// GetRequestID returns the request ID set by RequestID, or "".
func GetRequestID(ctx context.Context) string { return stringFromContext(ctx, RequestIDKey) }

// GetTraceID returns the trace ID set by RequestID, or "".
func GetTraceID(ctx context.Context) string { return stringFromContext(ctx, TraceIDKey) }
