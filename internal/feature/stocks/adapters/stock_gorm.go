// Package adapters はstocksフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	pricesadapters "stock_dashboard/internal/feature/prices/adapters"
	"stock_dashboard/internal/feature/stocks/domain"
	"stock_dashboard/internal/feature/stocks/domain/entity"
	"stock_dashboard/internal/feature/stocks/usecase"
)

// stockGorm はStockRepositoryインターフェースのGORM実装です。
type stockGorm struct {
	db *gorm.DB
}

var _ usecase.StockRepository = (*stockGorm)(nil)

// NewStockRepository は指定されたDB接続でstockGormリポジトリの新しいインスタンスを生成します。
func NewStockRepository(db *gorm.DB) *stockGorm {
	return &stockGorm{db: db}
}

// Create は新しい銘柄を保存します。
func (r *stockGorm) Create(ctx context.Context, stock *entity.Stock) error {
	return r.db.WithContext(ctx).Create(stock).Error
}

// List はシンボル順にすべての銘柄を返します。
func (r *stockGorm) List(ctx context.Context) ([]entity.Stock, error) {
	var stocks []entity.Stock
	if err := r.db.WithContext(ctx).
		Order("symbol ASC").
		Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// GetByID はIDで銘柄を検索します。見つからない場合はErrStockNotFoundを返します。
func (r *stockGorm) GetByID(ctx context.Context, id uint) (*entity.Stock, error) {
	var stock entity.Stock
	if err := r.db.WithContext(ctx).First(&stock, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStockNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// GetBySymbol は正規化済みシンボルで銘柄を検索します。
func (r *stockGorm) GetBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	var stock entity.Stock
	if err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStockNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// Update は銘柄を保存します。
func (r *stockGorm) Update(ctx context.Context, stock *entity.Stock) error {
	return r.db.WithContext(ctx).Save(stock).Error
}

// Delete は銘柄とその価格バーをトランザクション内で削除します。
// SQLiteテストドライバでは外部キー制約が効かないため、カスケードはここで明示的に行います。
func (r *stockGorm) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("stock_id = ?", id).
			Delete(&pricesadapters.PriceBarModel{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&entity.Stock{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrStockNotFound
		}
		return nil
	})
}
