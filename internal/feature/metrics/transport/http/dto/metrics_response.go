// Package dto defines data transfer objects for the metrics HTTP API.
package dto

import (
	"time"

	"stock_dashboard/internal/feature/metrics/usecase"
)

// MovingAveragePointResponse は終値と移動平均の1バー分のDTOです。
type MovingAveragePointResponse struct {
	Date          string  `json:"date"`
	ClosePrice    float64 `json:"close_price"`
	MovingAverage float64 `json:"moving_average"`
}

// ProjectionPointResponse は1日分の予測価格のDTOです。
type ProjectionPointResponse struct {
	Date           string  `json:"date"`
	ProjectedPrice float64 `json:"projected_price"`
}

// ProjectionResponse は直線回帰による価格予測のレスポンスDTOです。
type ProjectionResponse struct {
	StockID         uint                      `json:"stock_id"`
	LastPrice       float64                   `json:"last_price"`
	Trend           string                    `json:"trend"`
	DailyChangeRate float64                   `json:"daily_change_rate"`
	RSquared        float64                   `json:"r_squared"`
	Projections     []ProjectionPointResponse `json:"projections"`
}

// VolatilityResponse はボラティリティ分析のレスポンスDTOです。
type VolatilityResponse struct {
	StockID        uint    `json:"stock_id"`
	Volatility     float64 `json:"volatility"`
	AvgDailyReturn float64 `json:"avg_daily_return"`
	PriceRangePct  float64 `json:"price_range_pct"`
	MinPrice       float64 `json:"min_price"`
	MaxPrice       float64 `json:"max_price"`
}

// FromMovingAverage converts usecase moving-average points into their response form.
func FromMovingAverage(points []usecase.MovingAveragePoint) []MovingAveragePointResponse {
	out := make([]MovingAveragePointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, MovingAveragePointResponse{
			Date:          p.Date.UTC().Format(time.DateOnly),
			ClosePrice:    p.ClosePrice,
			MovingAverage: p.MovingAverage,
		})
	}
	return out
}

// FromProjection converts a usecase projection result into its response form.
func FromProjection(r usecase.ProjectionResult) ProjectionResponse {
	points := make([]ProjectionPointResponse, 0, len(r.Projections))
	for _, p := range r.Projections {
		points = append(points, ProjectionPointResponse{
			Date:           p.Date.UTC().Format(time.DateOnly),
			ProjectedPrice: p.ProjectedPrice,
		})
	}
	return ProjectionResponse{
		StockID:         r.StockID,
		LastPrice:       r.LastPrice,
		Trend:           r.Trend,
		DailyChangeRate: r.DailyChangeRate,
		RSquared:        r.RSquared,
		Projections:     points,
	}
}

// FromVolatility converts a usecase volatility result into its response form.
func FromVolatility(r usecase.VolatilityResult) VolatilityResponse {
	return VolatilityResponse{
		StockID:        r.StockID,
		Volatility:     r.Volatility,
		AvgDailyReturn: r.AvgDailyReturn,
		PriceRangePct:  r.PriceRangePct,
		MinPrice:       r.MinPrice,
		MaxPrice:       r.MaxPrice,
	}
}
