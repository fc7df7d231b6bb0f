// Package handler はstocksフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/api"
	"stock_dashboard/internal/feature/stocks/domain"
	"stock_dashboard/internal/feature/stocks/domain/entity"
	"stock_dashboard/internal/feature/stocks/transport/http/dto"
	"stock_dashboard/internal/feature/stocks/usecase"
)

// StockUsecase は銘柄CRUD操作のユースケースインターフェースを定義します。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type StockUsecase interface {
	List(ctx context.Context) ([]entity.Stock, error)
	Get(ctx context.Context, id uint) (*entity.Stock, error)
	Create(ctx context.Context, in usecase.CreateStockInput) (*entity.Stock, error)
	CreateFromProvider(ctx context.Context, symbol string) (*entity.Stock, error)
	Update(ctx context.Context, id uint, in usecase.UpdateStockInput) (*entity.Stock, error)
	Delete(ctx context.Context, id uint) error
}

// StockHandler は銘柄に関するHTTPリクエストを処理します。
type StockHandler struct {
	uc StockUsecase
}

// NewStockHandler は新しいStockHandlerを生成します。
func NewStockHandler(uc StockUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

// List は登録済みのすべての銘柄を返します。
//
// GET /api/v1/stocks
func (h *StockHandler) List(c *gin.Context) {
	stocks, err := h.uc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.StockResponse, 0, len(stocks))
	for _, s := range stocks {
		out = append(out, dto.FromEntity(s))
	}
	c.JSON(http.StatusOK, out)
}

// Get はIDで1件の銘柄を返します。
//
// GET /api/v1/stocks/:id
func (h *StockHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	stock, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(*stock))
}

// Create は手動入力から銘柄を登録します。
//
// POST /api/v1/stocks
func (h *StockHandler) Create(c *gin.Context) {
	var req dto.CreateStockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeValidationError, Error: "symbol and name are required"})
		return
	}

	stock, err := h.uc.Create(c.Request.Context(), usecase.CreateStockInput{
		Symbol:   req.Symbol,
		Name:     req.Name,
		Sector:   req.Sector,
		Industry: req.Industry,
		Exchange: req.Exchange,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromEntity(*stock))
}

// FetchAndCreate は外部プロバイダのメタデータから銘柄を登録します（クイック追加）。
//
// POST /api/v1/stocks/fetch/:symbol
func (h *StockHandler) FetchAndCreate(c *gin.Context) {
	symbol := c.Param("symbol")
	if symbol == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeValidationError, Error: "symbol is required"})
		return
	}

	stock, err := h.uc.CreateFromProvider(c.Request.Context(), symbol)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromEntity(*stock))
}

// Update は銘柄の表示メタデータを更新します。
//
// PUT /api/v1/stocks/:id
func (h *StockHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateStockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Code: api.CodeValidationError, Error: "invalid request body"})
		return
	}

	stock, err := h.uc.Update(c.Request.Context(), id, usecase.UpdateStockInput{
		Name:     req.Name,
		Sector:   req.Sector,
		Industry: req.Industry,
		Exchange: req.Exchange,
		IsActive: req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(*stock))
}

// Delete は銘柄とその価格データを削除します。
//
// DELETE /api/v1/stocks/:id
func (h *StockHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.uc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
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

// respondError maps domain and usecase errors onto the HTTP error taxonomy.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrStockNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Code: api.CodeNotFound, Error: err.Error()})
	case errors.Is(err, domain.ErrSymbolAlreadyExists):
		c.JSON(http.StatusConflict, api.ErrorResponse{Code: api.CodeConflict, Error: err.Error()})
	case errors.Is(err, usecase.ErrProviderUnavailable):
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Code: api.CodeProviderUnavailable, Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Code: api.CodeInternal, Error: "internal error"})
	}
}
