// Package usecase は銘柄（Instrument）CRUD操作のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stock_dashboard/internal/feature/stocks/domain"
	"stock_dashboard/internal/feature/stocks/domain/entity"
)

// StockRepository は銘柄データの永続化レイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type StockRepository interface {
	Create(ctx context.Context, stock *entity.Stock) error
	List(ctx context.Context) ([]entity.Stock, error)
	GetByID(ctx context.Context, id uint) (*entity.Stock, error)
	GetBySymbol(ctx context.Context, symbol string) (*entity.Stock, error)
	Update(ctx context.Context, stock *entity.Stock) error
	// Delete は銘柄とそのすべての価格データを削除します。
	Delete(ctx context.Context, id uint) error
}

// MarketRepository は外部プロバイダからの銘柄メタデータ取得を抽象化します。
type MarketRepository interface {
	GetStockInfo(ctx context.Context, symbol string) (entity.StockInfo, error)
}

// CreateStockInput は手動での銘柄登録の入力です。
type CreateStockInput struct {
	Symbol   string
	Name     string
	Sector   string
	Industry string
	Exchange string
}

// UpdateStockInput は銘柄の表示メタデータ更新の入力です。
// nilのフィールドは変更されません。シンボルは作成後は変更できません。
type UpdateStockInput struct {
	Name     *string
	Sector   *string
	Industry *string
	Exchange *string
	IsActive *bool
}

// StockUsecase は銘柄CRUD操作のユースケースを定義します。
type StockUsecase struct {
	repo   StockRepository
	market MarketRepository
}

// NewStockUsecase は新しいStockUsecaseを生成します。
func NewStockUsecase(repo StockRepository, market MarketRepository) *StockUsecase {
	return &StockUsecase{repo: repo, market: market}
}

// NormalizeSymbol はシンボルを大文字・前後空白なしの正規形に変換します。
// 一意性は大文字小文字を区別しないため、保存・検索の前に必ず適用します。
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// List はすべての銘柄を返します。
func (u *StockUsecase) List(ctx context.Context) ([]entity.Stock, error) {
	return u.repo.List(ctx)
}

// Get はIDで銘柄を取得します。
func (u *StockUsecase) Get(ctx context.Context, id uint) (*entity.Stock, error) {
	return u.repo.GetByID(ctx, id)
}

// Create は手動入力から銘柄を登録します。
// シンボルが登録済みの場合はErrSymbolAlreadyExistsを返します。
func (u *StockUsecase) Create(ctx context.Context, in CreateStockInput) (*entity.Stock, error) {
	symbol := NormalizeSymbol(in.Symbol)

	if _, err := u.repo.GetBySymbol(ctx, symbol); err == nil {
		return nil, domain.ErrSymbolAlreadyExists
	} else if !errors.Is(err, domain.ErrStockNotFound) {
		return nil, err
	}

	stock := &entity.Stock{
		Symbol:   symbol,
		Name:     in.Name,
		Sector:   in.Sector,
		Industry: in.Industry,
		Exchange: in.Exchange,
		IsActive: true,
	}
	if err := u.repo.Create(ctx, stock); err != nil {
		return nil, err
	}
	return stock, nil
}

// CreateFromProvider は外部プロバイダから銘柄メタデータを取得して登録します（クイック追加）。
func (u *StockUsecase) CreateFromProvider(ctx context.Context, symbol string) (*entity.Stock, error) {
	symbol = NormalizeSymbol(symbol)

	if _, err := u.repo.GetBySymbol(ctx, symbol); err == nil {
		return nil, domain.ErrSymbolAlreadyExists
	} else if !errors.Is(err, domain.ErrStockNotFound) {
		return nil, err
	}

	info, err := u.market.GetStockInfo(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	name := info.Name
	if name == "" {
		name = symbol
	}
	stock := &entity.Stock{
		Symbol:   symbol,
		Name:     name,
		Sector:   info.Sector,
		Industry: info.Industry,
		Exchange: info.Exchange,
		IsActive: true,
	}
	if err := u.repo.Create(ctx, stock); err != nil {
		return nil, err
	}
	return stock, nil
}

// Update は銘柄の表示メタデータを更新します。シンボルは変更されません。
func (u *StockUsecase) Update(ctx context.Context, id uint, in UpdateStockInput) (*entity.Stock, error) {
	stock, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		stock.Name = *in.Name
	}
	if in.Sector != nil {
		stock.Sector = *in.Sector
	}
	if in.Industry != nil {
		stock.Industry = *in.Industry
	}
	if in.Exchange != nil {
		stock.Exchange = *in.Exchange
	}
	if in.IsActive != nil {
		stock.IsActive = *in.IsActive
	}

	if err := u.repo.Update(ctx, stock); err != nil {
		return nil, err
	}
	return stock, nil
}

// Delete は銘柄と関連する価格データを削除します。
func (u *StockUsecase) Delete(ctx context.Context, id uint) error {
	return u.repo.Delete(ctx, id)
}
