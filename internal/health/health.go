// Package health aggregates dependency checks behind a single /health
// endpoint.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

type CheckResult struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Duration string `json:"duration"`
}

type Response struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Service   string                 `json:"service"`
	Checks    map[string]CheckResult `json:"checks"`
}

// Checker is anything that can be pinged.
type Checker interface {
	Ping(ctx context.Context) error
}

// CheckerFunc adapts a plain function, e.g. (*sql.DB).PingContext.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthChecker struct {
	service  string
	timeout  time.Duration
	mu       sync.RWMutex
	checkers map[string]Checker
}

func NewHealthChecker(service string) *HealthChecker {
	return &HealthChecker{
		service:  service,
		timeout:  5 * time.Second,
		checkers: make(map[string]Checker),
	}
}

func (h *HealthChecker) AddCheck(name string, c Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = c
}

func (h *HealthChecker) Check(ctx context.Context) Response {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	h.mu.RLock()
	names := make([]string, 0, len(h.checkers))
	for name := range h.checkers {
		names = append(names, name)
	}
	h.mu.RUnlock()
	sort.Strings(names)

	resp := Response{
		Status:    StatusHealthy,
		Timestamp: time.Now().UTC(),
		Service:   h.service,
		Checks:    make(map[string]CheckResult, len(names)),
	}

	for _, name := range names {
		h.mu.RLock()
		c := h.checkers[name]
		h.mu.RUnlock()

		start := time.Now()
		result := CheckResult{Status: StatusHealthy, Message: "connection OK"}
		if err := c.Ping(ctx); err != nil {
			result = CheckResult{Status: StatusUnhealthy, Message: err.Error()}
			resp.Status = StatusUnhealthy
		}
		result.Duration = time.Since(start).String()
		resp.Checks[name] = result
	}

	return resp
}

func (h *HealthChecker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := h.Check(r.Context())
		code := http.StatusOK
		if result.Status != StatusHealthy {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(result)
	}
}
