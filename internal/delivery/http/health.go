package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// HealthCheck probes each dependency concurrently and reports a per-service
// status map. Database failure makes the endpoint a 503; a cold gateway is
// only degraded.
func (h *HttpAPIHandler) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.cfg.Health.ProbeTimeout)
	defer cancel()

	var (
		dbStatus     = "connected"
		schwabStatus string
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sqlDB, err := h.db.DB()
		if err != nil {
			dbStatus = "error: " + err.Error()
			return nil
		}
		if err := sqlDB.PingContext(gCtx); err != nil {
			dbStatus = "error: " + err.Error()
		}
		return nil
	})
	g.Go(func() error {
		status := h.service.AuthService.Status(gCtx)
		switch {
		case !status.Configured:
			schwabStatus = "not_configured"
		case status.Authenticated:
			schwabStatus = "authenticated"
		default:
			schwabStatus = "not_authenticated"
		}
		return nil
	})
	_ = g.Wait()

	response := healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Services: map[string]string{
			"database": dbStatus,
			"schwab":   schwabStatus,
		},
	}

	code := http.StatusOK
	if dbStatus != "connected" {
		response.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	} else if schwabStatus != "authenticated" {
		response.Status = "degraded"
	}
	return c.JSON(code, response)
}
