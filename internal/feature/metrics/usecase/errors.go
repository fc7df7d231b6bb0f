// Package usecase implements the business logic for the metrics feature.
package usecase

import "errors"

var (
	// ErrInvalidParameter is returned for malformed metric parameters, such as
	// a window or horizon that is not positive.
	ErrInvalidParameter = errors.New("invalid metric parameter")

	// ErrInsufficientData is returned when the stored series is too short for
	// the requested metric.
	ErrInsufficientData = errors.New("not enough price data")
)
