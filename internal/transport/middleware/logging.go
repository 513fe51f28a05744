package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// sensitiveFields are body field names that must never reach the logs.
var sensitiveFields = []string{
	"password",
	"password_hash",
	"token",
	"access_token",
	"refresh_token",
	"authorization",
	"secret",
}

func LoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(ww, r)

			logger.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"query", filterSensitiveQuery(r.URL.RawQuery),
				"remote_addr", r.RemoteAddr,
				"status", ww.statusCode,
				"duration_ms", time.Since(start).Milliseconds())
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func filterSensitiveQuery(query string) string {
	if query == "" {
		return ""
	}
	parts := strings.Split(query, "&")
	for i, part := range parts {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && isSensitive(kv[0]) {
			parts[i] = kv[0] + "=[FILTERED]"
		}
	}
	return strings.Join(parts, "&")
}

// FilterSensitiveBody masks sensitive fields in a JSON body for logging.
func FilterSensitiveBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "[unparseable body]"
	}

	for key := range payload {
		if isSensitive(key) {
			payload[key] = "[FILTERED]"
		}
	}

	filtered, err := json.Marshal(payload)
	if err != nil {
		return "[unparseable body]"
	}
	return string(filtered)
}

func isSensitive(field string) bool {
	lower := strings.ToLower(field)
	for _, s := range sensitiveFields {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
