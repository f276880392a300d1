package middleware

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const latencyWindowSize = 128

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack and Flush pass through so websocket upgrades and streaming
// responses still work behind the recorder.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Write(data []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(data)
	r.bytes += n
	return n, err
}

// routeLatencies keeps a fixed-size ring of recent durations per route so the
// access log can carry rough p50/p95 figures without an external metrics
// backend.
type routeLatencies struct {
	mu    sync.Mutex
	rings map[string]*latencyRing
}

type latencyRing struct {
	samples []int64
	next    int
	full    bool
}

func (l *routeLatencies) observe(route string, millis int64) (p50, p95 int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ring, ok := l.rings[route]
	if !ok {
		ring = &latencyRing{samples: make([]int64, 0, latencyWindowSize)}
		l.rings[route] = ring
	}
	if ring.full {
		ring.samples[ring.next] = millis
		ring.next = (ring.next + 1) % latencyWindowSize
	} else {
		ring.samples = append(ring.samples, millis)
		if len(ring.samples) == latencyWindowSize {
			ring.full = true
		}
	}

	sorted := make([]int64, len(ring.samples))
	copy(sorted, ring.samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return rank(sorted, 0.5), rank(sorted, 0.95)
}

func rank(sorted []int64, p float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p*float64(len(sorted))+0.5) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

var latencies = &routeLatencies{rings: make(map[string]*latencyRing)}

// Telemetry logs one structured line per request with status, size, duration
// and rolling latency percentiles for the matched route.
func Telemetry(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recorder := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(recorder, r)

			status := recorder.status
			if status == 0 {
				status = http.StatusOK
			}
			duration := time.Since(start)

			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			p50, p95 := latencies.observe(r.Method+" "+route, duration.Milliseconds())

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", route),
				zap.String("requestId", strings.TrimSpace(r.Header.Get(requestIDHeader))),
				zap.Int("status", status),
				zap.Int("bytes", recorder.bytes),
				zap.Int64("duration_ms", duration.Milliseconds()),
				zap.Int64("p50_ms", p50),
				zap.Int64("p95_ms", p95),
			}
			if session, ok := GetSession(r.Context()); ok {
				fields = append(fields, zap.String("user", session.Username))
			}
			switch {
			case status >= 500:
				logger.Error("http_request", fields...)
			case status >= 400:
				logger.Warn("http_request", fields...)
			default:
				logger.Info("http_request", fields...)
			}
		})
	}
}
