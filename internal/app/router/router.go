// Package router wires HTTP routes to their handlers.
package router

import (
	"github.com/gin-gonic/gin"

	metricshandler "stock_dashboard/internal/feature/metrics/transport/handler"
	priceshandler "stock_dashboard/internal/feature/prices/transport/handler"
	stockshandler "stock_dashboard/internal/feature/stocks/transport/handler"
	"stock_dashboard/internal/platform/http/handler"
)

// NewRouter builds the Gin engine with the full API surface.
func NewRouter(stocks *stockshandler.StockHandler, prices *priceshandler.PriceHandler,
	metrics *metricshandler.MetricsHandler) *gin.Engine {
	r := gin.Default()

	// 導通確認用（/healthは元のダッシュボードが参照する）
	r.GET("/healthz", handler.Health)
	r.GET("/health", handler.Health)

	// ダッシュボード（静的ページ、ビジネスロジックなし）
	r.StaticFile("/", "./web/static/index.html")

	v1 := r.Group("/api/v1")
	{
		// 銘柄CRUD
		v1.GET("/stocks", stocks.List)
		v1.POST("/stocks", stocks.Create)
		v1.POST("/stocks/fetch/:symbol", stocks.FetchAndCreate)
		v1.GET("/stocks/:id", stocks.Get)
		v1.PUT("/stocks/:id", stocks.Update)
		v1.DELETE("/stocks/:id", stocks.Delete)

		// 価格データ
		v1.POST("/prices/fetch", prices.Fetch)
		v1.GET("/prices/:id", prices.GetSeries)
		v1.GET("/prices/:id/stats", prices.GetStats)

		// 派生メトリクス
		v1.GET("/prices/:id/moving-average", metrics.MovingAverage)
		v1.GET("/prices/:id/projection", metrics.Projection)
		v1.GET("/prices/:id/volatility", metrics.Volatility)
	}

	return r
}
