package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	pricesentity "stock_dashboard/internal/feature/prices/domain/entity"
	stockentity "stock_dashboard/internal/feature/stocks/domain/entity"
	"stock_dashboard/internal/shared/calculator"
)

const (
	// DefaultWindow はmoving averageのデフォルトウィンドウ幅（営業日数）です。
	DefaultWindow = 20
	// DefaultDaysAhead はプロジェクションのデフォルト予測日数です。
	DefaultDaysAhead = 30
	// DefaultLookback はトレンド推定に使うデフォルトの直近バー数です。
	DefaultLookback = 90
	// DefaultVolatilityLookback はボラティリティ計算のデフォルトの直近バー数です。
	DefaultVolatilityLookback = 30
	// TradingDaysPerYear はボラティリティの年率換算に使う営業日数です。
	TradingDaysPerYear = 252
)

// PriceReader は保存済み価格データの読み取りを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type PriceReader interface {
	FindByStock(ctx context.Context, stockID uint, start, end time.Time, limit int) ([]pricesentity.PriceBar, error)
}

// StockDirectory はメトリクス計算前の銘柄存在確認を抽象化します。
type StockDirectory interface {
	GetByID(ctx context.Context, id uint) (*stockentity.Stock, error)
}

// MovingAveragePoint は1バー分の終値と移動平均の組です。
type MovingAveragePoint struct {
	Date          time.Time
	ClosePrice    float64
	MovingAverage float64
}

// ProjectionPoint は1日分の予測価格です。
type ProjectionPoint struct {
	Date           time.Time
	ProjectedPrice float64
}

// ProjectionResult は直線回帰による価格予測の結果です。
type ProjectionResult struct {
	StockID         uint
	LastPrice       float64
	Trend           string // "bullish" / "bearish" / "neutral"
	DailyChangeRate float64
	RSquared        float64
	Projections     []ProjectionPoint
}

// VolatilityResult は日次リターンの年率換算ボラティリティと関連統計です。
// Volatility と AvgDailyReturn はパーセント表記です。
type VolatilityResult struct {
	StockID        uint
	Volatility     float64
	AvgDailyReturn float64
	PriceRangePct  float64
	MinPrice       float64
	MaxPrice       float64
}

// MetricsUsecase は保存済み価格シリーズから派生メトリクスを計算します。
type MetricsUsecase struct {
	price  PriceReader
	stocks StockDirectory
}

// NewMetricsUsecase は新しいMetricsUsecaseを生成します。
func NewMetricsUsecase(price PriceReader, stocks StockDirectory) *MetricsUsecase {
	return &MetricsUsecase{price: price, stocks: stocks}
}

// MovingAverage は全保存バーに対するwindow日単純移動平均を返します。
// シリーズがwindowより短い場合はErrInsufficientDataを返します。
func (u *MetricsUsecase) MovingAverage(ctx context.Context, stockID uint, window int) ([]MovingAveragePoint, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w: window must be positive", ErrInvalidParameter)
	}

	bars, err := u.loadBars(ctx, stockID, 0)
	if err != nil {
		return nil, err
	}

	ma, err := calculator.SMASeries(extractCloses(bars), window)
	if err != nil {
		if errors.Is(err, calculator.ErrInsufficientData) {
			return nil, fmt.Errorf("%w: need at least %d bars, have %d", ErrInsufficientData, window, len(bars))
		}
		return nil, err
	}

	out := make([]MovingAveragePoint, 0, len(ma))
	for i, avg := range ma {
		bar := bars[i+window-1]
		out = append(out, MovingAveragePoint{
			Date:          bar.Date,
			ClosePrice:    bar.Close,
			MovingAverage: avg,
		})
	}
	return out, nil
}

// Projection は直近lookbackバーの終値に最小二乗法で直線をあてはめ、
// daysAhead日先までの価格を外挿します。2バー未満ではErrInsufficientDataです。
func (u *MetricsUsecase) Projection(ctx context.Context, stockID uint, daysAhead, lookback int) (*ProjectionResult, error) {
	if daysAhead <= 0 {
		return nil, fmt.Errorf("%w: days_ahead must be positive", ErrInvalidParameter)
	}
	if lookback <= 0 {
		return nil, fmt.Errorf("%w: lookback_days must be positive", ErrInvalidParameter)
	}

	bars, err := u.loadBars(ctx, stockID, lookback)
	if err != nil {
		return nil, err
	}

	closes := extractCloses(bars)
	slope, intercept, r2, err := calculator.LinearFit(closes)
	if err != nil {
		if errors.Is(err, calculator.ErrInsufficientData) {
			return nil, fmt.Errorf("%w: need at least 2 bars for a projection", ErrInsufficientData)
		}
		return nil, err
	}

	n := len(closes)
	lastDate := bars[n-1].Date
	projections := make([]ProjectionPoint, 0, daysAhead)
	for i := 1; i <= daysAhead; i++ {
		projections = append(projections, ProjectionPoint{
			Date:           lastDate.AddDate(0, 0, i),
			ProjectedPrice: intercept + slope*float64(n-1+i),
		})
	}

	trend := "neutral"
	switch {
	case slope > 0:
		trend = "bullish"
	case slope < 0:
		trend = "bearish"
	}

	return &ProjectionResult{
		StockID:         stockID,
		LastPrice:       closes[n-1],
		Trend:           trend,
		DailyChangeRate: slope,
		RSquared:        r2,
		Projections:     projections,
	}, nil
}

// Volatility は直近lookbackバーの日次リターンの標準偏差を√252で年率換算し、
// パーセント表記で返します。2バー未満ではErrInsufficientDataです。
func (u *MetricsUsecase) Volatility(ctx context.Context, stockID uint, lookback int) (*VolatilityResult, error) {
	if lookback <= 0 {
		return nil, fmt.Errorf("%w: lookback_days must be positive", ErrInvalidParameter)
	}

	bars, err := u.loadBars(ctx, stockID, lookback)
	if err != nil {
		return nil, err
	}
	if len(bars) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 bars for volatility", ErrInsufficientData)
	}

	closes := extractCloses(bars)
	returns := calculator.DailyReturns(closes)

	minPrice, maxPrice := closes[0], closes[0]
	for _, c := range closes[1:] {
		if c < minPrice {
			minPrice = c
		}
		if c > maxPrice {
			maxPrice = c
		}
	}
	rangePct := 0.0
	if minPrice > 0 {
		rangePct = (maxPrice - minPrice) / minPrice * 100
	}

	return &VolatilityResult{
		StockID:        stockID,
		Volatility:     calculator.StdDev(returns) * math.Sqrt(TradingDaysPerYear) * 100,
		AvgDailyReturn: calculator.Mean(returns) * 100,
		PriceRangePct:  rangePct,
		MinPrice:       minPrice,
		MaxPrice:       maxPrice,
	}, nil
}

// loadBars は銘柄の存在確認をしてから日付昇順のバーを読み込みます。
func (u *MetricsUsecase) loadBars(ctx context.Context, stockID uint, limit int) ([]pricesentity.PriceBar, error) {
	if _, err := u.stocks.GetByID(ctx, stockID); err != nil {
		return nil, err
	}
	return u.price.FindByStock(ctx, stockID, time.Time{}, time.Time{}, limit)
}

func extractCloses(bars []pricesentity.PriceBar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
