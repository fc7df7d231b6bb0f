package usecase

import "errors"

// ErrProviderUnavailable is returned when the market-data provider fails or
// reports no data for the requested symbol.
var ErrProviderUnavailable = errors.New("market data provider unavailable")
