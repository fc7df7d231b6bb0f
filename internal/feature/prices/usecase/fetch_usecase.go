package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"stock_dashboard/internal/feature/prices/domain/entity"
	stockdomain "stock_dashboard/internal/feature/stocks/domain"
	stockentity "stock_dashboard/internal/feature/stocks/domain/entity"
)

// DefaultPeriod は期間未指定時に取得する履歴の長さです。
const DefaultPeriod = "1mo"

// validPeriods は元のUIが提供する期間の語彙です。
var validPeriods = map[string]bool{
	"1mo": true, "3mo": true, "6mo": true, "1y": true, "2y": true, "5y": true, "max": true,
}

// MarketRepository は株価データを取得する外部プロバイダのインターフェイスです。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	// GetDailyBars は日足の価格バーを日付昇順で返します。
	// start/endがゼロ値の場合はperiod（"1mo"〜"max"）が使われます。
	GetDailyBars(ctx context.Context, symbol string, start, end time.Time, period string) ([]entity.PriceBar, error)
	// GetStockInfo は銘柄のメタデータを返します。
	GetStockInfo(ctx context.Context, symbol string) (stockentity.StockInfo, error)
}

// StockRegistry は初回フェッチ時の銘柄自動登録に必要な操作を抽象化します。
type StockRegistry interface {
	GetBySymbol(ctx context.Context, symbol string) (*stockentity.Stock, error)
	Create(ctx context.Context, stock *stockentity.Stock) error
}

// FetchRequest は価格フェッチの入力です。Start/Endがゼロ値の場合はPeriodが使われます。
type FetchRequest struct {
	Symbol string
	Period string
	Start  time.Time
	End    time.Time
}

// FetchResult は価格フェッチの結果サマリです。
type FetchResult struct {
	StockID      uint
	Symbol       string
	TotalFetched int
	NewRecords   int64
}

// FetchUsecase は外部プロバイダから価格データを取得し、データベースに永続化するユースケースです。
type FetchUsecase struct {
	market MarketRepository
	price  PriceRepository
	stocks StockRegistry
}

// NewFetchUsecase は新しいFetchUsecaseを生成します。
func NewFetchUsecase(market MarketRepository, price PriceRepository, stocks StockRegistry) *FetchUsecase {
	return &FetchUsecase{market: market, price: price, stocks: stocks}
}

// Fetch はプロバイダから価格バーを取得して保存します。
// 銘柄が未登録の場合は初回フェッチ成功時に自動登録します（スペック上の仕様）。
// 同一バーの再取得は上書きとなり、結果は冪等です。
func (u *FetchUsecase) Fetch(ctx context.Context, req FetchRequest) (*FetchResult, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if !req.Start.IsZero() && !req.End.IsZero() && req.Start.After(req.End) {
		return nil, ErrInvalidDateRange
	}
	period := req.Period
	if period == "" {
		period = DefaultPeriod
	}
	if !validPeriods[period] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}

	bars, err := u.market.GetDailyBars(ctx, symbol, req.Start, req.End, period)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if len(bars) == 0 {
		// 未知のシンボルに対してプロバイダは空のシリーズを返すことがある
		return nil, fmt.Errorf("%w: no data for symbol %s", ErrProviderUnavailable, symbol)
	}

	stock, err := u.stocks.GetBySymbol(ctx, symbol)
	if errors.Is(err, stockdomain.ErrStockNotFound) {
		stock, err = u.registerStock(ctx, symbol)
	}
	if err != nil {
		return nil, err
	}

	for i := range bars {
		bars[i].StockID = stock.ID
	}

	before, err := u.price.CountByStock(ctx, stock.ID)
	if err != nil {
		return nil, err
	}
	if err := u.price.UpsertBatch(ctx, bars); err != nil {
		return nil, err
	}
	after, err := u.price.CountByStock(ctx, stock.ID)
	if err != nil {
		return nil, err
	}

	return &FetchResult{
		StockID:      stock.ID,
		Symbol:       symbol,
		TotalFetched: len(bars),
		NewRecords:   after - before,
	}, nil
}

// registerStock は初回フェッチ時に銘柄を自動登録します。
// メタデータ取得に失敗してもフェッチ自体は継続し、シンボルを名前として使います。
func (u *FetchUsecase) registerStock(ctx context.Context, symbol string) (*stockentity.Stock, error) {
	stock := &stockentity.Stock{Symbol: symbol, Name: symbol, IsActive: true}

	if info, err := u.market.GetStockInfo(ctx, symbol); err != nil {
		slog.Warn("failed to fetch stock info, registering with symbol only", "symbol", symbol, "error", err)
	} else {
		if info.Name != "" {
			stock.Name = info.Name
		}
		stock.Sector = info.Sector
		stock.Industry = info.Industry
		stock.Exchange = info.Exchange
	}

	if err := u.stocks.Create(ctx, stock); err != nil {
		return nil, err
	}
	return stock, nil
}
