package http

import (
	"fmt"
	"net/http"
	"strconv"

	"finsight-trading/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupPortfolio(base *echo.Group) {
	v1 := base.Group("/v1")
	{
		v1.GET("/portfolio", h.GetPortfolio)
		v1.GET("/trades", h.GetTrades)
		v1.POST("/trades", h.CreateTrade)
		v1.GET("/positions", h.GetPositions)
		v1.GET("/positions/:symbol", h.GetPositionBySymbol)
	}
}

func (h *HttpAPIHandler) GetPortfolio(c echo.Context) error {
	portfolio, err := h.service.PortfolioService.GetPortfolio(c.Request().Context())
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, portfolio)
}

func (h *HttpAPIHandler) GetTrades(c echo.Context) error {
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(fmt.Sprintf("invalid limit: %s", raw)))
		}
		limit = parsed
	}

	trades, err := h.service.PortfolioService.GetTrades(c.Request().Context(), limit)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, trades)
}

func (h *HttpAPIHandler) CreateTrade(c echo.Context) error {
	var req dto.CreateTradeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	trade, err := h.service.PortfolioService.CreateTrade(c.Request().Context(), &req)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, trade)
}

func (h *HttpAPIHandler) GetPositions(c echo.Context) error {
	positions, err := h.service.PortfolioService.GetPositions(c.Request().Context())
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, positions)
}

func (h *HttpAPIHandler) GetPositionBySymbol(c echo.Context) error {
	position, err := h.service.PortfolioService.GetPositionBySymbol(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, position)
}
