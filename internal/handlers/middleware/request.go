// internal/handlers/middleware/request.go
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/catalog-be/internal/pkg/logger"
)

// DefaultRequestIDHeader carries request ids between proxies and the API
const DefaultRequestIDHeader = "X-Request-ID"

const traceHeader = "X-Trace-ID"

// slowRequest is the duration above which completed requests log at warn
const slowRequest = 5 * time.Second

// RequestID tags the request context with an id, reusing the one a proxy
// sent in header.
func RequestID(header string) Middleware {
	if header == "" {
		header = DefaultRequestIDHeader
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(header)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(header, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), logger.ContextKeyRequestID, id)))
		})
	}
}

// Logger puts the request fields into the context for the context-aware log
// handler and logs each finished request at a level derived from its status.
func Logger(l *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			traceID := r.Header.Get(traceHeader)
			if traceID == "" {
				traceID = uuid.NewString()
			}
			w.Header().Set(traceHeader, traceID)

			ctx := r.Context()
			if _, ok := ctx.Value(logger.ContextKeyRequestID).(string); !ok {
				ctx = context.WithValue(ctx, logger.ContextKeyRequestID, uuid.NewString())
			}
			for key, value := range map[logger.ContextKey]any{
				logger.ContextKeyTraceID:   traceID,
				logger.ContextKeyClientIP:  clientIP(r),
				logger.ContextKeyUserAgent: r.UserAgent(),
				logger.ContextKeyMethod:    r.Method,
				logger.ContextKeyPath:      r.URL.Path,
			} {
				ctx = context.WithValue(ctx, key, value)
			}

			l.DebugContext(ctx, "request_started", slog.String("query", r.URL.RawQuery))

			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r.WithContext(ctx))

			elapsed := time.Since(start)
			status := rec.code()
			ctx = context.WithValue(ctx, logger.ContextKeyStatusCode, status)
			ctx = context.WithValue(ctx, logger.ContextKeyDuration, elapsed)

			l.Log(ctx, levelFor(status, elapsed), "request_completed",
				slog.String("query", r.URL.RawQuery),
				slog.Int("bytes", rec.bytes))
		})
	}
}

func levelFor(status int, elapsed time.Duration) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest, elapsed > slowRequest:
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

// Recovery turns a handler panic into a logged 500
func Recovery(l *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if p == http.ErrAbortHandler {
					panic(p)
				}
				l.ErrorContext(r.Context(), "panic recovered",
					slog.Any("panic", p),
					slog.String("stack", string(debug.Stack())))
				writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
