package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"campuscanteen/internal/caching"
	"campuscanteen/internal/services"

	"github.com/labstack/echo/v4"
)

const healthCheckTimeout = 3 * time.Second

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	db        Pinger
	cacheSvc  caching.CacheService
	images    services.ImageStore
	jobStatus func() map[string]interface{}
	startedAt time.Time
}

// NewHealthHandlers creates a new health handlers instance. cacheSvc,
// images and jobStatus may be nil when the dependency is not configured.
func NewHealthHandlers(db Pinger, cacheSvc caching.CacheService, images services.ImageStore,
	jobStatus func() map[string]interface{}) *HealthHandlers {
	return &HealthHandlers{
		db:        db,
		cacheSvc:  cacheSvc,
		images:    images,
		jobStatus: jobStatus,
		startedAt: time.Now(),
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Services  map[string]string      `json:"services"`
	Uptime    string                 `json:"uptime"`
	Jobs      map[string]interface{} `json:"jobs,omitempty"`
}

// HealthCheck reports every dependency. Only the database makes the service
// unhealthy; cache and storage failures degrade it.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
	}
	if h.jobStatus != nil {
		health.Jobs = h.jobStatus()
	}

	statusCode := http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		health.Services["database"] = "unhealthy"
		health.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	} else {
		health.Services["database"] = "healthy"
	}

	for name, check := range map[string]func(context.Context) error{
		"redis":   h.checkRedis,
		"storage": h.checkStorage,
	} {
		switch err := check(ctx); {
		case err == errNotConfigured:
			health.Services[name] = "disabled"
		case err != nil:
			health.Services[name] = "unhealthy"
			if health.Status == "healthy" {
				health.Status = "degraded"
			}
		default:
			health.Services[name] = "healthy"
		}
	}

	return c.JSON(statusCode, health)
}

// ReadinessCheck determines if the application is ready to serve traffic
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "Database unavailable",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
	})
}

// LivenessCheck reports that the process is up
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":     "alive",
		"goroutines": runtime.NumGoroutine(),
	})
}

type healthError string

func (e healthError) Error() string { return string(e) }

const errNotConfigured = healthError("not configured")

func (h *HealthHandlers) checkRedis(ctx context.Context) error {
	if h.cacheSvc == nil {
		return errNotConfigured
	}
	return h.cacheSvc.Ping(ctx)
}

func (h *HealthHandlers) checkStorage(ctx context.Context) error {
	if h.images == nil {
		return errNotConfigured
	}
	return h.images.Ping(ctx)
}
