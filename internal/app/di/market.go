// Package di provides dependency injection factories for creating application components.
package di

import (
	"log/slog"
	"os"

	pricesusecase "stock_dashboard/internal/feature/prices/usecase"
	stocksusecase "stock_dashboard/internal/feature/stocks/usecase"
	"stock_dashboard/internal/platform/externalapi/alphavantage"
	"stock_dashboard/internal/platform/externalapi/yahoo"
	infrahttp "stock_dashboard/internal/platform/http"
)

// Market is the combined provider surface consumed by the prices and stocks
// features. Both concrete providers implement it.
type Market interface {
	pricesusecase.MarketRepository
	stocksusecase.MarketRepository
}

// NewMarket selects the market-data provider. Yahoo Finance is the default;
// PRICE_PROVIDER=alphavantage switches to Alpha Vantage when an API key is set.
func NewMarket() Market {
	if os.Getenv("PRICE_PROVIDER") == "alphavantage" {
		cfg := alphavantage.LoadConfig()
		if cfg.APIKey != "" {
			slog.Info("using Alpha Vantage market data provider")
			return alphavantage.NewAlphaVantageMarket(cfg, infrahttp.NewHTTPClient(cfg.Timeout))
		}
		slog.Warn("PRICE_PROVIDER=alphavantage but ALPHA_VANTAGE_API_KEY is not set, falling back to Yahoo")
	}
	cfg := yahoo.LoadConfig()
	return yahoo.NewYahooMarket(cfg, infrahttp.NewHTTPClient(cfg.Timeout))
}
