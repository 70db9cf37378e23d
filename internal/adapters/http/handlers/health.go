// Package handlers provides HTTP request handlers for the service.
package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamuelsen/go-blog-service/internal/ports"
)

// BuildInfo describes the running binary. Version, Commit and BuildTime
// are injected with ldflags.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`

	// Store names the post store driver ("memory" or "postgres").
	Store string `json:"store,omitempty"`
}

// NewBuildInfo creates a BuildInfo stamped with the running Go version.
func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

// HealthHandler serves the operational endpoints under /-/.
type HealthHandler struct {
	registry  ports.HealthRegistry
	buildInfo BuildInfo
	gatherer  prometheus.Gatherer
	started   time.Time
}

// NewHealthHandler creates a health handler. A nil registry reports ready
// unconditionally. Metrics come from gatherer, or the process-wide default
// registry when it is nil.
func NewHealthHandler(registry ports.HealthRegistry, buildInfo BuildInfo, gatherer prometheus.Gatherer) *HealthHandler {
	return &HealthHandler{
		registry:  registry,
		buildInfo: buildInfo,
		gatherer:  gatherer,
		started:   time.Now(),
	}
}

type livenessResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// Liveness answers 200 while the process runs. It never touches the store.
func (h *HealthHandler) Liveness(c *gin.Context) {
	noStore(c)
	c.JSON(http.StatusOK, livenessResponse{
		Status: "ok",
		Uptime: time.Since(h.started).Truncate(time.Second).String(),
	})
}

type readinessResponse struct {
	Status    string                        `json:"status"`
	Checks    map[string]*ports.CheckResult `json:"checks,omitempty"`
	CheckedAt time.Time                     `json:"checkedAt"`
}

// Readiness runs every registered check, the post store among them, and
// answers 503 when any fails so the instance is taken out of rotation.
func (h *HealthHandler) Readiness(c *gin.Context) {
	noStore(c)

	if h.registry == nil {
		c.JSON(http.StatusOK, readinessResponse{Status: string(ports.HealthStatusHealthy), CheckedAt: time.Now()})
		return
	}

	result := h.registry.CheckAll(c.Request.Context())

	status := http.StatusOK
	if result.Status == ports.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, readinessResponse{
		Status:    string(result.Status),
		Checks:    result.Checks,
		CheckedAt: result.Timestamp,
	})
}

// BuildInfoHandler answers with the build description.
func (h *HealthHandler) BuildInfoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.buildInfo)
}

// MetricsHandler exposes g in the Prometheus text format, falling back to
// the default registry when g is nil. Mount it with gin.WrapH.
func MetricsHandler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}

	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// RegisterHealthRoutes mounts the health checks, build info and metrics on rg.
// Liveness and readiness also answer HEAD for load balancers that do not read bodies.
func (h *HealthHandler) RegisterHealthRoutes(rg *gin.RouterGroup) {
	checkMethods := []string{http.MethodGet, http.MethodHead}

	rg.Match(checkMethods, "/live", h.Liveness)
	rg.Match(checkMethods, "/ready", h.Readiness)
	rg.GET("/build", h.BuildInfoHandler)
	rg.GET("/metrics", gin.WrapH(MetricsHandler(h.gatherer)))
}

// RegisterHealthRoutesOnEngine mounts the health routes under /-/.
func (h *HealthHandler) RegisterHealthRoutesOnEngine(engine *gin.Engine) {
	h.RegisterHealthRoutes(engine.Group("/-"))
}

// noStore keeps health answers out of intermediary caches.
func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
}
