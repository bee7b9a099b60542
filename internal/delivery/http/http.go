package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"finsight-trading/config"
	"finsight-trading/internal/dto"
	"finsight-trading/internal/service"
	"finsight-trading/pkg/common"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type HttpAPIHandler struct {
	cfg       *config.Config
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
	db        *gorm.DB
}

func NewHttpAPIHandler(ctx context.Context, cfg *config.Config, echo *echo.Echo, validator *goValidator.Validate, service *service.Service, db *gorm.DB) *HttpAPIHandler {
	return &HttpAPIHandler{
		cfg:       cfg,
		echo:      echo,
		validator: validator,
		service:   service,
		db:        db,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	h.echo.GET("/", h.SystemStatus)
	h.echo.GET("/health", h.HealthCheck)

	base := h.echo.Group("/api")
	h.SetupAuth(base)
	h.SetupMarket(base)
	h.SetupPortfolio(base)
}

// SystemStatus is the root landing endpoint.
func (h *HttpAPIHandler) SystemStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "FInsightAI Trading Agent",
		"status":    "active",
		"version":   "1.0.0",
		"timestamp": time.Now().UTC(),
	})
}

// errorResponse maps the sentinel taxonomy onto HTTP statuses. Anything
// unrecognized is a 500 carrying the error text.
func (h *HttpAPIHandler) errorResponse(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrNotConfigured), errors.Is(err, common.ErrNotInitialized):
		code = http.StatusServiceUnavailable
	case errors.Is(err, common.ErrGateway):
		code = http.StatusServiceUnavailable
	case errors.Is(err, common.ErrNotAuthenticated):
		code = http.StatusUnauthorized
	case errors.Is(err, common.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, common.ErrValidation):
		code = http.StatusBadRequest
	}
	return c.JSON(code, dto.NewBaseResponse(code, err.Error(), nil))
}
