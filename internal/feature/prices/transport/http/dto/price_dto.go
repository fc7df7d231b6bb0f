// Package dto defines data transfer objects for the prices HTTP API.
package dto

import (
	"time"

	"stock_dashboard/internal/feature/prices/domain/entity"
)

// FetchPricesReq represents the request body for POST /api/v1/prices/fetch.
// Dates use the YYYY-MM-DD format; when both are set they override the period.
type FetchPricesReq struct {
	Symbol    string `json:"symbol" binding:"required"`
	Period    string `json:"period"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// FetchResultResponse は価格フェッチ結果のサマリDTOです。
type FetchResultResponse struct {
	StockID      uint   `json:"stock_id"`
	Symbol       string `json:"symbol"`
	TotalFetched int    `json:"total_fetched"`
	NewRecords   int64  `json:"new_records"`
}

// PriceBarResponse は価格バー1件のレスポンスDTOです。
type PriceBarResponse struct {
	ID         uint    `json:"id"`
	StockID    uint    `json:"stock_id"`
	Date       string  `json:"date"`        // 日付
	OpenPrice  float64 `json:"open_price"`  // 始値
	HighPrice  float64 `json:"high_price"`  // 高値
	LowPrice   float64 `json:"low_price"`   // 安値
	ClosePrice float64 `json:"close_price"` // 終値
	Volume     int64   `json:"volume"`      // 出来高
}

// PriceStatsResponse は終値集計のレスポンスDTOです。
type PriceStatsResponse struct {
	StockID      uint    `json:"stock_id"`
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
	AvgPrice     float64 `json:"avg_price"`
	TotalRecords int64   `json:"total_records"`
}

// FromBar converts a domain PriceBar into its response representation.
func FromBar(b entity.PriceBar) PriceBarResponse {
	return PriceBarResponse{
		ID:         b.ID,
		StockID:    b.StockID,
		Date:       b.Date.UTC().Format(time.DateOnly),
		OpenPrice:  b.Open,
		HighPrice:  b.High,
		LowPrice:   b.Low,
		ClosePrice: b.Close,
		Volume:     b.Volume,
	}
}
