// Package dto defines data transfer objects for the stocks HTTP API.
package dto

// CreateStockReq represents the request body for POST /api/v1/stocks.
// It uses Gin's binding tags for validation.
type CreateStockReq struct {
	Symbol   string `json:"symbol" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
	Exchange string `json:"exchange"`
}

// UpdateStockReq represents the request body for PUT /api/v1/stocks/:id.
// Omitted fields are left unchanged; the symbol cannot be changed.
type UpdateStockReq struct {
	Name     *string `json:"name"`
	Sector   *string `json:"sector"`
	Industry *string `json:"industry"`
	Exchange *string `json:"exchange"`
	IsActive *bool   `json:"is_active"`
}
