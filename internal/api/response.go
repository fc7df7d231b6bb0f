// Package api defines the shared HTTP error vocabulary used by every handler.
package api

// Error codes returned in ErrorResponse.Code. Clients branch on these rather
// than on the human-readable message.
const (
	CodeNotFound            = "not_found"
	CodeValidationError     = "validation_error"
	CodeConflict            = "conflict"
	CodeProviderUnavailable = "provider_unavailable"
	CodeInsufficientData    = "insufficient_data"
	CodeInternal            = "internal_error"
)

// ErrorResponse はAPIエラーの統一レスポンス形式です。
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}
