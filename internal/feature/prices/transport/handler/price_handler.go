// Package handler はpricesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/api"
	"stock_dashboard/internal/feature/prices/domain/entity"
	"stock_dashboard/internal/feature/prices/transport/http/dto"
	"stock_dashboard/internal/feature/prices/usecase"
	stockdomain "stock_dashboard/internal/feature/stocks/domain"
)

// PricesUsecase は保存済み価格データ照会のユースケースインターフェースを定義します。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type PricesUsecase interface {
	GetSeries(ctx context.Context, stockID uint, start, end time.Time, limit int) ([]entity.PriceBar, error)
	GetStats(ctx context.Context, stockID uint) (entity.PriceStats, error)
}

// FetchUsecase は外部プロバイダからの価格フェッチのユースケースインターフェースです。
type FetchUsecase interface {
	Fetch(ctx context.Context, req usecase.FetchRequest) (*usecase.FetchResult, error)
}

// PriceHandler は価格データのHTTPリクエストを処理します。
type PriceHandler struct {
	prices PricesUsecase
	fetch  FetchUsecase
}

// NewPriceHandler は新しいPriceHandlerを生成します。
func NewPriceHandler(prices PricesUsecase, fetch FetchUsecase) *PriceHandler {
	return &PriceHandler{prices: prices, fetch: fetch}
}

// Fetch は外部プロバイダから価格データを取得して保存します。
//
// POST /api/v1/prices/fetch
func (h *PriceHandler) Fetch(c *gin.Context) {
	var req dto.FetchPricesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeValidationError, Error: "symbol is required"})
		return
	}

	start, ok := parseDate(c, req.StartDate, "start_date")
	if !ok {
		return
	}
	end, ok := parseDate(c, req.EndDate, "end_date")
	if !ok {
		return
	}

	result, err := h.fetch.Fetch(c.Request.Context(), usecase.FetchRequest{
		Symbol: req.Symbol,
		Period: req.Period,
		Start:  start,
		End:    end,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FetchResultResponse{
		StockID:      result.StockID,
		Symbol:       result.Symbol,
		TotalFetched: result.TotalFetched,
		NewRecords:   result.NewRecords,
	})
}

// GetSeries は指定銘柄の価格バーを日付昇順のJSONで返します。
//
// GET /api/v1/prices/:id?start_date=2024-01-01&end_date=2024-03-31&limit=200
func (h *PriceHandler) GetSeries(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	start, ok := parseDate(c, c.Query("start_date"), "start_date")
	if !ok {
		return
	}
	end, ok := parseDate(c, c.Query("end_date"), "end_date")
	if !ok {
		return
	}
	limit, ok := parseIntQuery(c, "limit", 0)
	if !ok {
		return
	}

	bars, err := h.prices.GetSeries(c.Request.Context(), id, start, end, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.PriceBarResponse, 0, len(bars))
	for _, b := range bars {
		out = append(out, dto.FromBar(b))
	}
	c.JSON(http.StatusOK, out)
}

// GetStats は指定銘柄の終値集計を返します。
//
// GET /api/v1/prices/:id/stats
func (h *PriceHandler) GetStats(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	stats, err := h.prices.GetStats(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PriceStatsResponse{
		StockID:      id,
		MinPrice:     stats.MinPrice,
		MaxPrice:     stats.MaxPrice,
		AvgPrice:     stats.AvgPrice,
		TotalRecords: stats.TotalRecords,
	})
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

// parseDate parses an optional YYYY-MM-DD value, responding with 400 on failure.
func parseDate(c *gin.Context, value, name string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeValidationError, Error: "invalid " + name + ", expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return t, true
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
	case errors.Is(err, usecase.ErrInvalidDateRange), errors.Is(err, usecase.ErrInvalidPeriod):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeValidationError, Error: err.Error()})
	case errors.Is(err, usecase.ErrProviderUnavailable):
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Code: api.CodeProviderUnavailable, Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Code: api.CodeInternal, Error: "internal error"})
	}
}
