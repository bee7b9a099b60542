package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"finsight-trading/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupMarket(base *echo.Group) {
	market := base.Group("/market")
	{
		market.GET("/test-connection", h.TestConnection)
		market.GET("/quotes/:symbols", h.GetQuotes)
		market.GET("/history/:symbol", h.GetHistory)
		market.GET("/accounts", h.GetAccounts)
		market.GET("/data/recent/:symbol", h.GetRecentData)
		market.GET("/signals/recent", h.GetRecentSignals)
		market.POST("/stream/start", h.StartStream)
		market.POST("/stream/stop", h.StopStream)
	}
}

func (h *HttpAPIHandler) TestConnection(c echo.Context) error {
	result, err := h.service.MarketService.TestConnection(c.Request().Context())
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *HttpAPIHandler) GetQuotes(c echo.Context) error {
	result, err := h.service.MarketService.GetQuotes(c.Request().Context(), c.Param("symbols"))
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *HttpAPIHandler) GetHistory(c echo.Context) error {
	periodType := c.QueryParam("period_type")
	if periodType == "" {
		periodType = "day"
	}
	period := 1
	if raw := c.QueryParam("period"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(fmt.Sprintf("invalid period: %s", raw)))
		}
		period = parsed
	}

	result, err := h.service.MarketService.GetHistory(c.Request().Context(), c.Param("symbol"), periodType, period)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *HttpAPIHandler) GetAccounts(c echo.Context) error {
	accounts, err := h.service.MarketService.GetAccounts(c.Request().Context())
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "success",
		"accounts":  accounts,
		"timestamp": time.Now().UTC(),
	})
}

func (h *HttpAPIHandler) GetRecentData(c echo.Context) error {
	hours := 24
	if raw := c.QueryParam("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(fmt.Sprintf("invalid hours: %s", raw)))
		}
		hours = parsed
	}

	symbol := c.Param("symbol")
	data, err := h.service.MarketService.GetRecentData(c.Request().Context(), symbol, hours)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "success",
		"symbol": symbol,
		"hours":  hours,
		"count":  len(data),
		"data":   data,
	})
}

func (h *HttpAPIHandler) GetRecentSignals(c echo.Context) error {
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(fmt.Sprintf("invalid limit: %s", raw)))
		}
		limit = parsed
	}

	signals, err := h.service.MarketService.GetRecentSignals(c.Request().Context(), limit)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "success",
		"count":   len(signals),
		"signals": signals,
	})
}

func (h *HttpAPIHandler) StartStream(c echo.Context) error {
	var req dto.StartStreamRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	if err := h.service.MarketService.StartStream(c.Request().Context(), req.Symbols); err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "success",
		"message":   fmt.Sprintf("Started real-time streaming for %d symbols", len(req.Symbols)),
		"symbols":   req.Symbols,
		"timestamp": time.Now().UTC(),
	})
}

func (h *HttpAPIHandler) StopStream(c echo.Context) error {
	h.service.MarketService.StopStream()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "success",
		"message":   "Stopped market data streaming",
		"timestamp": time.Now().UTC(),
	})
}
