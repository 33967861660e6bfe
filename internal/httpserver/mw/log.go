package mw

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"linkdigest/internal/logger"
)

// statusWriter captures status code and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	// Ensure status is set if handler wrote body without calling WriteHeader.
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// triggersDispatch reports whether a request can push bookmarks to a
// channel. Feed readers and status probes poll the other routes
// constantly, so only these are worth an info-level line.
func triggersDispatch(r *http.Request) bool {
	return r.URL.Path == "/send-now" || strings.HasPrefix(r.URL.Path, "/test-")
}

// Log returns a middleware that logs one line per HTTP request.
// Dispatch-triggering requests log at info; feed and status polling at
// debug, or warn when they fail.
func Log(loggerClient logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w}

			next.ServeHTTP(ww, r)

			logFn := loggerClient.Debug
			switch {
			case triggersDispatch(r):
				logFn = loggerClient.Info
			case ww.status >= http.StatusInternalServerError:
				logFn = loggerClient.Warn
			}

			reqID := middleware.GetReqID(r.Context())
			logFn("http_request",
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.Int("status", ww.status),
				logger.Int("bytes", ww.bytes),
				logger.Duration("duration", time.Since(start)),
				logger.String("remote_ip", r.RemoteAddr),
				logger.String("request_id", reqID),
			)
		})
	}
}
