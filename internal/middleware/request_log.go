package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/httputil"
	"docvault/internal/ids"
)

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// RequestLog assigns each request an ID, logs it on completion and records
// it in the activity log. Activity insertion is best effort: a storage
// hiccup must not fail the request that already succeeded.
func RequestLog(activity repositories.ActivityRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := ids.New()
			w.Header().Set("X-Request-Id", requestID)
			r = httputil.WithRequestID(r, requestID)

			rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)
			elapsed := time.Since(start)

			logger.Info("request",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.code,
				"duration_ms", float64(elapsed.Microseconds())/1000,
			)

			if activity == nil {
				return
			}
			entry := &models.ActivityEntry{
				Timestamp:  start.UTC(),
				Method:     r.Method,
				Path:       r.URL.Path,
				StatusCode: rec.code,
				DurationMS: float64(elapsed.Microseconds()) / 1000,
				ClientIP:   clientIP(r),
			}
			if p, ok := httputil.GetPrincipal(r); ok {
				entry.UserID = &p.UserID
			}
			if err := activity.Insert(r.Context(), entry); err != nil {
				logger.Warn("activity entry not recorded", "request_id", requestID, "error", err)
			}
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
