package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "requestID"
)

// contextualLogger tags every request with an ID and a logger carrying it
func (s *Server) contextualLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctxLogger := s.logger.With(slog.String("requestID", requestID))
		ctx := context.WithValue(r.Context(), loggerKey, ctxLogger)
		ctx = context.WithValue(ctx, requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		ctxLogger.Debug("request handled", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start).String())
	})
}

// rateLimit rejects requests once the shared token bucket is empty
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			loggerFrom(r.Context()).Warn("rate limit exceeded", "path", r.URL.Path)
			sendJSONError(r.Context(), w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func loggerFrom(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// RequestID returns the ID assigned to the request, if any
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
