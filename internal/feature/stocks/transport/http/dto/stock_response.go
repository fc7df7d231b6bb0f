package dto

import (
	"time"

	"stock_dashboard/internal/feature/stocks/domain/entity"
)

// StockResponse は銘柄1件のレスポンスDTOです。
type StockResponse struct {
	ID        uint   `json:"id"`
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	Sector    string `json:"sector"`
	Industry  string `json:"industry"`
	Exchange  string `json:"exchange"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// FromEntity converts a domain Stock into its response representation.
func FromEntity(s entity.Stock) StockResponse {
	return StockResponse{
		ID:        s.ID,
		Symbol:    s.Symbol,
		Name:      s.Name,
		Sector:    s.Sector,
		Industry:  s.Industry,
		Exchange:  s.Exchange,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
