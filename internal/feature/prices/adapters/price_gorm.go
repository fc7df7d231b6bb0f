package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_dashboard/internal/feature/prices/domain/entity"
	"stock_dashboard/internal/feature/prices/usecase"
)

type priceGorm struct {
	db *gorm.DB
}

var _ usecase.PriceRepository = (*priceGorm)(nil)

func NewPriceRepository(db *gorm.DB) *priceGorm {
	return &priceGorm{db: db}
}

// PriceBarModel is the persistence model for price bars. The composite unique
// index on (stock_id, date) is what makes upserts idempotent.
type PriceBarModel struct {
	ID      uint      `gorm:"primaryKey"`
	StockID uint      `gorm:"not null;uniqueIndex:price_stock_date,priority:1"`
	Date    time.Time `gorm:"not null;uniqueIndex:price_stock_date,priority:2"`

	Open   float64 `gorm:"not null"`
	High   float64 `gorm:"not null"`
	Low    float64 `gorm:"not null"`
	Close  float64 `gorm:"not null"`
	Volume int64   `gorm:"not null;default:0"`
}

func (PriceBarModel) TableName() string {
	return "price_bars"
}

func toModel(e entity.PriceBar) PriceBarModel {
	return PriceBarModel{
		StockID: e.StockID,
		Date:    e.Date,
		Open:    e.Open,
		High:    e.High,
		Low:     e.Low,
		Close:   e.Close,
		Volume:  e.Volume,
	}
}

func toEntity(m PriceBarModel) entity.PriceBar {
	return entity.PriceBar{
		ID:      m.ID,
		StockID: m.StockID,
		Date:    m.Date,
		Open:    m.Open,
		High:    m.High,
		Low:     m.Low,
		Close:   m.Close,
		Volume:  m.Volume,
	}
}

// UpsertBatch inserts the given bars, overwriting any existing bar with the
// same (stock_id, date). Re-running the same batch leaves the table unchanged.
func (r *priceGorm) UpsertBatch(ctx context.Context, bars []entity.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	ms := make([]PriceBarModel, 0, len(bars))
	for _, e := range bars {
		ms = append(ms, toModel(e))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stock_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume"}),
	}).Create(&ms).Error
}

// FindByStock returns bars for one stock ordered ascending by date. Zero start
// and end mean unbounded. A positive limit selects the most recent bars; the
// result is still returned ascending.
func (r *priceGorm) FindByStock(ctx context.Context, stockID uint, start, end time.Time, limit int) ([]entity.PriceBar, error) {
	var rows []PriceBarModel
	q := r.db.WithContext(ctx).
		Where("stock_id = ?", stockID).
		Order("date DESC")
	if !start.IsZero() {
		q = q.Where("date >= ?", start)
	}
	if !end.IsZero() {
		q = q.Where("date <= ?", end)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	// Rows were selected newest-first; reverse to ascending order.
	out := make([]entity.PriceBar, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		out = append(out, toEntity(rows[i]))
	}
	return out, nil
}

// CountByStock returns the number of stored bars for one stock.
func (r *priceGorm) CountByStock(ctx context.Context, stockID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&PriceBarModel{}).
		Where("stock_id = ?", stockID).
		Count(&n).Error
	return n, err
}

// Stats aggregates min/max/avg close price and the row count for one stock.
// An empty series yields all-zero stats.
func (r *priceGorm) Stats(ctx context.Context, stockID uint) (entity.PriceStats, error) {
	var row struct {
		MinPrice     float64
		MaxPrice     float64
		AvgPrice     float64
		TotalRecords int64
	}
	err := r.db.WithContext(ctx).
		Model(&PriceBarModel{}).
		Select("COALESCE(MIN(close), 0) AS min_price, COALESCE(MAX(close), 0) AS max_price, COALESCE(AVG(close), 0) AS avg_price, COUNT(*) AS total_records").
		Where("stock_id = ?", stockID).
		Scan(&row).Error
	if err != nil {
		return entity.PriceStats{}, err
	}
	return entity.PriceStats{
		MinPrice:     row.MinPrice,
		MaxPrice:     row.MaxPrice,
		AvgPrice:     row.AvgPrice,
		TotalRecords: row.TotalRecords,
	}, nil
}
