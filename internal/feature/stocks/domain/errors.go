// Package domain defines domain-level errors for the stocks feature.
package domain

import "errors"

var (
	// ErrStockNotFound indicates that no stock exists for the given id or symbol.
	ErrStockNotFound = errors.New("stock not found")

	// ErrSymbolAlreadyExists is returned when creating a stock whose symbol is
	// already registered. Symbols are compared case-insensitively.
	ErrSymbolAlreadyExists = errors.New("stock with this symbol already exists")
)
