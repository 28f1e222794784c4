package middleware

import (
	"bufio"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"ricepro-web/internal/timeutil"
)

// requestLog is one served request, written out by the async logger.
type requestLog struct {
	Time       time.Time
	Method     string
	Path       string
	StatusCode int
	DurationMs float64
	Bytes      int
	Profile    string
	IPAddress  string
}

// RequestLogger logs served requests without blocking them
type RequestLogger struct {
	logChan chan *requestLog
	done    chan struct{}
}

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// NewRequestLogger creates the logger and starts its writer
func NewRequestLogger() *RequestLogger {
	m := &RequestLogger{
		logChan: make(chan *requestLog, 1000), // Buffer for async logging
		done:    make(chan struct{}),
	}

	// Start async log writer
	go m.asyncLogWriter()

	return m
}

func (m *RequestLogger) asyncLogWriter() {
	defer close(m.done)
	for entry := range m.logChan {
		line := entry.Method + " " + entry.Path
		if entry.Profile != "" {
			log.Printf("[HTTP] %s %d %.1fms %dB ip=%s profile=%s", line, entry.StatusCode, entry.DurationMs, entry.Bytes, entry.IPAddress, shortProfile(entry.Profile))
		} else {
			log.Printf("[HTTP] %s %d %.1fms %dB ip=%s", line, entry.StatusCode, entry.DurationMs, entry.Bytes, entry.IPAddress)
		}
	}
}

// Handler returns the middleware handler
func (m *RequestLogger) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip logging for static files and health checks
		if shouldSkipLogging(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := timeutil.Now()

		// Wrap response writer to capture status and size
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		profile, _ := GetProfileFromContext(r.Context())
		entry := &requestLog{
			Time:       start,
			Method:     r.Method,
			Path:       sanitizePath(r.URL.Path),
			StatusCode: wrapped.statusCode,
			DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
			Bytes:      wrapped.bytesWritten,
			Profile:    profile,
			IPAddress:  getClientIP(r),
		}

		// Send to async writer (non-blocking)
		select {
		case m.logChan <- entry:
		default:
			log.Printf("[HTTP] Log buffer full, dropping log entry for %s", r.URL.Path)
		}
	})
}

// Hijack lets the websocket upgrader take over a logged connection.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}

// shouldSkipLogging returns true for paths that shouldn't be logged
func shouldSkipLogging(path string) bool {
	skipPaths := []string{
		"/static/",
		"/health",
		"/metrics",
		"/favicon.ico",
		"/robots.txt",
	}

	for _, skip := range skipPaths {
		if strings.HasPrefix(path, skip) {
			return true
		}
	}

	return false
}

// sanitizePath drops the query, which may carry reset tokens
func sanitizePath(path string) string {
	if idx := strings.Index(path, "?"); idx != -1 {
		path = path[:idx]
	}

	// Truncate very long paths
	if len(path) > 500 {
		path = path[:500]
	}

	return path
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (for proxies/load balancers)
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		// Take the first IP in the list
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	// Check X-Real-IP header
	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fall back to RemoteAddr
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}

	return ip
}

func shortProfile(profile string) string {
	if len(profile) > 8 {
		return profile[:8]
	}
	return profile
}

// Close stops accepting entries and waits for pending ones to be written
func (m *RequestLogger) Close() {
	close(m.logChan)
	<-m.done
}
