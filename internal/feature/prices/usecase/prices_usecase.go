// Package usecase は価格データの取得・照会のビジネスロジックを実装します。
package usecase

import (
	"context"
	"time"

	"stock_dashboard/internal/feature/prices/domain/entity"
	stockentity "stock_dashboard/internal/feature/stocks/domain/entity"
)

const (
	// DefaultLimit は価格照会のデフォルト返却件数です。
	DefaultLimit = 200
	// MaxLimit は価格照会の最大返却件数です。
	MaxLimit = 1000
)

// PriceRepository は価格データの永続化レイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type PriceRepository interface {
	// UpsertBatch は(stock_id, date)をキーとして価格バーを挿入または上書きします。
	UpsertBatch(ctx context.Context, bars []entity.PriceBar) error
	// FindByStock は日付昇順の価格バーを返します。limit>0は直近N件を意味します。
	FindByStock(ctx context.Context, stockID uint, start, end time.Time, limit int) ([]entity.PriceBar, error)
	// CountByStock は銘柄の保存済みバー数を返します。
	CountByStock(ctx context.Context, stockID uint) (int64, error)
	// Stats は終値の集計値を返します。
	Stats(ctx context.Context, stockID uint) (entity.PriceStats, error)
}

// StockDirectory は価格照会に必要な銘柄の存在確認を抽象化します。
type StockDirectory interface {
	GetByID(ctx context.Context, id uint) (*stockentity.Stock, error)
}

// PricesUsecase は保存済み価格データの照会ユースケースを定義します。
type PricesUsecase struct {
	price  PriceRepository
	stocks StockDirectory
}

// NewPricesUsecase は新しいPricesUsecaseを生成します。
func NewPricesUsecase(price PriceRepository, stocks StockDirectory) *PricesUsecase {
	return &PricesUsecase{price: price, stocks: stocks}
}

// GetSeries は指定銘柄の価格バーを日付昇順で返します。
// 銘柄が存在しない場合はStockDirectory由来のエラーをそのまま返します。
func (u *PricesUsecase) GetSeries(ctx context.Context, stockID uint, start, end time.Time, limit int) ([]entity.PriceBar, error) {
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return nil, ErrInvalidDateRange
	}
	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}

	if _, err := u.stocks.GetByID(ctx, stockID); err != nil {
		return nil, err
	}

	return u.price.FindByStock(ctx, stockID, start, end, limit)
}

// GetStats は指定銘柄の終値集計（最小・最大・平均・件数）を返します。
func (u *PricesUsecase) GetStats(ctx context.Context, stockID uint) (entity.PriceStats, error) {
	if _, err := u.stocks.GetByID(ctx, stockID); err != nil {
		return entity.PriceStats{}, err
	}
	return u.price.Stats(ctx, stockID)
}
