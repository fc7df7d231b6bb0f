// Package handler はmetricsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/api"
	"stock_dashboard/internal/feature/metrics/transport/http/dto"
	"stock_dashboard/internal/feature/metrics/usecase"
	stockdomain "stock_dashboard/internal/feature/stocks/domain"
)

// MetricsUsecase は派生メトリクス計算のユースケースインターフェースを定義します。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type MetricsUsecase interface {
	MovingAverage(ctx context.Context, stockID uint, window int) ([]usecase.MovingAveragePoint, error)
	Projection(ctx context.Context, stockID uint, daysAhead, lookback int) (*usecase.ProjectionResult, error)
	Volatility(ctx context.Context, stockID uint, lookback int) (*usecase.VolatilityResult, error)
}

// MetricsHandler は派生メトリクスのHTTPリクエストを処理します。
type MetricsHandler struct {
	uc MetricsUsecase
}

// NewMetricsHandler は新しいMetricsHandlerを生成します。
func NewMetricsHandler(uc MetricsUsecase) *MetricsHandler {
	return &MetricsHandler{uc: uc}
}

// MovingAverage は終値の単純移動平均シリーズを返します。
//
// GET /api/v1/prices/:id/moving-average?window=20
func (h *MetricsHandler) MovingAverage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	window, ok := parseIntQuery(c, "window", usecase.DefaultWindow)
	if !ok {
		return
	}

	points, err := h.uc.MovingAverage(c.Request.Context(), id, window)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromMovingAverage(points))
}

// Projection は直線回帰による価格予測を返します。
//
// GET /api/v1/prices/:id/projection?days_ahead=30&lookback_days=90
func (h *MetricsHandler) Projection(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	daysAhead, ok := parseIntQuery(c, "days_ahead", usecase.DefaultDaysAhead)
	if !ok {
		return
	}
	lookback, ok := parseIntQuery(c, "lookback_days", usecase.DefaultLookback)
	if !ok {
		return
	}

	result, err := h.uc.Projection(c.Request.Context(), id, daysAhead, lookback)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromProjection(*result))
}

// Volatility は日次リターンの年率換算ボラティリティを返します。
//
// GET /api/v1/prices/:id/volatility?lookback_days=30
func (h *MetricsHandler) Volatility(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	lookback, ok := parseIntQuery(c, "lookback_days", usecase.DefaultVolatilityLookback)
	if !ok {
		return
	}

	result, err := h.uc.Volatility(c.Request.Context(), id, lookback)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromVolatility(*result))
}

// parseID parses the :id path parameter, responding with 400 on failure.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeValidationError, Error: "invalid stock id"})
		return 0, false
	}
	return uint(id), true
}

// parseIntQuery parses an optional integer query parameter, responding with 400 on failure.
func parseIntQuery(c *gin.Context, name string, def int) (int, bool) {
	value := c.Query(name)
	if value == "" {
		return def, true
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeValidationError, Error: "invalid " + name + ", expected an integer"})
		return 0, false
	}
	return n, true
}

// respondError maps usecase errors onto the HTTP error taxonomy.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, stockdomain.ErrStockNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Code: api.CodeNotFound, Error: err.Error()})
	case errors.Is(err, usecase.ErrInvalidParameter):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeValidationError, Error: err.Error()})
	case errors.Is(err, usecase.ErrInsufficientData):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeInsufficientData, Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Code: api.CodeInternal, Error: "internal error"})
	}
}
