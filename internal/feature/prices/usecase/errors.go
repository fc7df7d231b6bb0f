package usecase

import "errors"

var (
	// ErrProviderUnavailable is returned when the upstream market-data provider
	// errors out or reports an empty series for the requested symbol.
	ErrProviderUnavailable = errors.New("market data provider unavailable")

	// ErrInvalidDateRange is returned when a start date lies after its end date.
	ErrInvalidDateRange = errors.New("start date is after end date")

	// ErrInvalidPeriod is returned for a period outside the supported
	// vocabulary (1mo, 3mo, 6mo, 1y, 2y, 5y, max).
	ErrInvalidPeriod = errors.New("invalid period")
)
