package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

// HealthChecker reports the state of each backing store: "ok", "disabled",
// or an error message.
type HealthChecker func(ctx context.Context) map[string]string

// HealthHandler reports process and dependency status.
type HealthHandler struct {
	check     HealthChecker
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(check HealthChecker) *HealthHandler {
	return &HealthHandler{check: check, startTime: time.Now()}
}

// Health godoc
// GET /health
// Returns 503 when PostgreSQL is unreachable. Redis is optional.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	deps := h.check(ctx)

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	status, code := "ok", http.StatusOK
	if deps["postgres"] != "ok" {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":       status,
		"dependencies": deps,
		"uptime":       formatDuration(time.Since(h.startTime)),
		"goroutines":   runtime.NumGoroutine(),
		"heap_bytes":   mem.HeapAlloc,
	})
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
