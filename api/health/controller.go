package health

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"storefront/config"

	"github.com/gin-gonic/gin"
)

// CheckFunc probes one dependency, e.g. the database or the cart store.
type CheckFunc func(ctx context.Context) error

const checkTimeout = 2 * time.Second

// Controller Health check controller
type Controller struct {
	config    *config.Config
	checks    map[string]CheckFunc
	startTime time.Time
}

// NewController checks may be empty (memory store without redis).
func NewController(cfg *config.Config, checks map[string]CheckFunc) *Controller {
	return &Controller{
		config:    cfg,
		checks:    checks,
		startTime: time.Now(),
	}
}

// RegisterRoutes Register health check routes
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", c.Health)
	router.GET("/health/live", c.Liveness)
	router.GET("/health/ready", c.Readiness)
}

// HealthResponse Health check response
type HealthResponse struct {
	Status    string           `json:"status"`
	Version   string           `json:"version"`
	Uptime    string           `json:"uptime"`
	Timestamp string           `json:"timestamp"`
	Checks    map[string]Check `json:"checks,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check Check item
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo System information
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumCPU       int    `json:"num_cpu"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
}

// Health Complete health check
func (c *Controller) Health(ctx *gin.Context) {
	checks, healthy := c.runChecks(ctx.Request.Context())
	overallStatus := "healthy"
	if !healthy {
		overallStatus = "unhealthy"
	}

	resp := HealthResponse{
		Status:    overallStatus,
		Version:   c.config.App.Version,
		Uptime:    time.Since(c.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	// Only expose system info in development mode
	if c.config.IsDevelopment() {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)
		resp.System = &SystemInfo{
			GoVersion:    runtime.Version(),
			NumCPU:       runtime.NumCPU(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAlloc:     memStats.Alloc,
		}
	}

	statusCode := http.StatusOK
	if !healthy {
		statusCode = http.StatusServiceUnavailable
	}
	ctx.JSON(statusCode, resp)
}

// Liveness Liveness check (Kubernetes liveness probe)
func (c *Controller) Liveness(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Readiness Readiness check (Kubernetes readiness probe)
func (c *Controller) Readiness(ctx *gin.Context) {
	checks, healthy := c.runChecks(ctx.Request.Context())
	if !healthy {
		failed := make([]string, 0, len(checks))
		for name, check := range checks {
			if check.Status != "healthy" {
				failed = append(failed, name)
			}
		}
		sort.Strings(failed)
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "not_ready",
			"failing": failed,
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (c *Controller) runChecks(ctx context.Context) (map[string]Check, bool) {
	results := make(map[string]Check, len(c.checks))
	healthy := true
	for name, fn := range c.checks {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		start := time.Now()
		err := fn(checkCtx)
		cancel()

		check := Check{Status: "healthy", Latency: time.Since(start).String()}
		if err != nil {
			check.Status = "unhealthy"
			check.Message = err.Error()
			healthy = false
		}
		results[name] = check
	}
	return results, healthy
}
