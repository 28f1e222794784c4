package health

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"ricepro-web/internal/models"
)

// Pinger is anything with a liveness check, such as the session store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BackendProbe asks the rice backend for its health.
type BackendProbe func(ctx context.Context) (*models.BackendHealth, error)

type HealthChecker struct {
	sessions Pinger
	backend  BackendProbe
	started  time.Time
}

type HealthStatus struct {
	Status       string          `json:"status"`
	SessionStore ComponentHealth `json:"session_store"`
	Backend      ComponentHealth `json:"backend"`
}

type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
	Detail       string `json:"detail,omitempty"`
}

type DetailedStatus struct {
	HealthStatus
	Uptime string     `json:"uptime"`
	Host   HostHealth `json:"host"`
}

type HostHealth struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	DiskPercent   float64 `json:"disk_percent"`
	Goroutines    int     `json:"goroutines"`
}

func NewHealthChecker(sessions Pinger, backend BackendProbe) *HealthChecker {
	return &HealthChecker{sessions: sessions, backend: backend, started: time.Now()}
}

// CheckBasic is unhealthy when the session store is down. An unreachable
// backend only degrades the service: pages still render their error state.
func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	store := h.checkStore(ctx)
	backend := h.checkBackend(ctx)

	status := "healthy"
	switch {
	case store.Status != "healthy":
		status = "unhealthy"
	case backend.Status == "unhealthy":
		status = "degraded"
	}

	return HealthStatus{
		Status:       status,
		SessionStore: store,
		Backend:      backend,
	}
}

// CheckDetailed adds process and host figures for the monitoring view
func (h *HealthChecker) CheckDetailed(ctx context.Context) DetailedStatus {
	out := DetailedStatus{
		HealthStatus: h.CheckBasic(ctx),
		Uptime:       time.Since(h.started).Round(time.Second).String(),
	}
	out.Host.Goroutines = runtime.NumGoroutine()

	if cpuPercents, err := cpu.PercentWithContext(ctx, 200*time.Millisecond, false); err == nil && len(cpuPercents) > 0 {
		out.Host.CPUPercent = cpuPercents[0]
	}
	if memStats, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		out.Host.MemoryPercent = memStats.UsedPercent
	}
	if diskStats, err := disk.UsageWithContext(ctx, "/"); err == nil {
		out.Host.DiskPercent = diskStats.UsedPercent
	}
	return out
}

func (h *HealthChecker) checkStore(ctx context.Context) ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.sessions.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return ComponentHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
			Detail:       err.Error(),
		}
	}

	return ComponentHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}

func (h *HealthChecker) checkBackend(ctx context.Context) ComponentHealth {
	if h.backend == nil {
		return ComponentHealth{Status: "unknown"}
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	resp, err := h.backend(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return ComponentHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
			Detail:       err.Error(),
		}
	}

	// The backend reports "warning" when its database is not initialized.
	status := "healthy"
	if resp.Status != "healthy" {
		status = "unhealthy"
	}
	return ComponentHealth{
		Status:       status,
		ResponseTime: responseTime,
		Detail:       resp.Database,
	}
}
