// internal/handlers/health.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/ammerola/catalog-be/internal/core/domain"
)

// Pinger is anything that can report its connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness, readiness and detailed health checks
type HealthHandler struct {
	deps        map[string]Pinger
	version     string
	environment string
	logger      *slog.Logger
	started     time.Time
}

// NewHealthHandler creates a new health handler. cache and queue may be nil
// when those features are disabled.
func NewHealthHandler(store, cache, queue Pinger, version, environment string, logger *slog.Logger) *HealthHandler {
	deps := map[string]Pinger{"store": store}
	if cache != nil {
		deps["cache"] = cache
	}
	if queue != nil {
		deps["queue"] = queue
	}
	return &HealthHandler{
		deps:        deps,
		version:     version,
		environment: environment,
		logger:      logger.With(slog.String("handler", "health")),
		started:     time.Now(),
	}
}

// StoreHealth is the body of GET /health
type StoreHealth struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HealthStatus is the body of GET /api/v1/health
type HealthStatus struct {
	Status      string                 `json:"status"`
	Version     string                 `json:"version"`
	Environment string                 `json:"environment"`
	Uptime      string                 `json:"uptime"`
	Timestamp   time.Time              `json:"timestamp"`
	Services    map[string]ServiceInfo `json:"services"`
	System      SystemInfo             `json:"system"`
}

// ServiceInfo is the check result of one dependency
type ServiceInfo struct {
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	ResponseTime string `json:"response_time,omitempty"`
}

// SystemInfo describes the running process
type SystemInfo struct {
	GoVersion      string `json:"go_version"`
	NumGoroutines  int    `json:"num_goroutines"`
	NumCPU         int    `json:"num_cpu"`
	MemoryAllocMB  uint64 `json:"memory_alloc_mb"`
	MemorySysMB    uint64 `json:"memory_sys_mb"`
	GCPauseTotalMs uint64 `json:"gc_pause_total_ms"`
	NumGC          uint32 `json:"num_gc"`
}

type depResult struct {
	err  error
	took time.Duration
}

// checkDeps pings every dependency concurrently
func (h *HealthHandler) checkDeps(ctx context.Context) map[string]depResult {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]depResult, len(h.deps))
	)
	for name, dep := range h.deps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			err := dep.Ping(ctx)
			if err != nil {
				h.logger.WarnContext(ctx, "dependency check failed",
					slog.String("dependency", name),
					slog.String("error", err.Error()))
			}
			mu.Lock()
			results[name] = depResult{err: err, took: time.Since(start)}
			mu.Unlock()
		}()
	}
	wg.Wait()
	return results
}

func noStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
}

// Health handles GET /health, the document store check
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	noStore(w)

	if err := h.deps["store"].Ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "store health check failed", slog.String("error", err.Error()))
		respondJSON(w, h.logger, http.StatusServiceUnavailable, StoreHealth{
			Status:   "error",
			Database: "disconnected",
			Error:    err.Error(),
		})
		return
	}

	respondJSON(w, h.logger, http.StatusOK, StoreHealth{
		Status:    "ok",
		Database:  "connected",
		Timestamp: domain.Timestamp(time.Now()),
	})
}

// Readiness handles GET /ready. Every enabled dependency must answer.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	noStore(w)

	ready := true
	details := make(map[string]string, len(h.deps))
	for name, res := range h.checkDeps(ctx) {
		details[name] = "ready"
		if res.err != nil {
			ready = false
			details[name] = "not ready"
		}
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, h.logger, status, map[string]any{"ready": ready, "details": details})
}

// Detailed handles GET /api/v1/health
func (h *HealthHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	noStore(w)

	health := HealthStatus{
		Status:      "healthy",
		Version:     h.version,
		Environment: h.environment,
		Uptime:      time.Since(h.started).Round(time.Second).String(),
		Timestamp:   time.Now(),
		Services:    make(map[string]ServiceInfo, len(h.deps)),
		System:      systemInfo(),
	}

	for name, res := range h.checkDeps(ctx) {
		if res.err != nil {
			health.Status = "degraded"
			health.Services[name] = ServiceInfo{Status: "unhealthy", Message: res.err.Error()}
			continue
		}
		health.Services[name] = ServiceInfo{Status: "healthy", ResponseTime: res.took.String()}
	}

	status := http.StatusOK
	if health.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, h.logger, status, health)
}

func systemInfo() SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	const mb = 1 << 20
	return SystemInfo{
		GoVersion:      runtime.Version(),
		NumGoroutines:  runtime.NumGoroutine(),
		NumCPU:         runtime.NumCPU(),
		MemoryAllocMB:  m.Alloc / mb,
		MemorySysMB:    m.Sys / mb,
		GCPauseTotalMs: m.PauseTotalNs / uint64(time.Millisecond),
		NumGC:          m.NumGC,
	}
}
