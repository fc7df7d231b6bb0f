package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_dashboard/internal/feature/prices/domain/entity"
	"stock_dashboard/internal/feature/prices/usecase"
	stockdomain "stock_dashboard/internal/feature/stocks/domain"
	stockentity "stock_dashboard/internal/feature/stocks/domain/entity"
)

// mockStockDirectory はStockDirectoryインターフェースのモック実装です。
type mockStockDirectory struct {
	GetByIDFunc func(ctx context.Context, id uint) (*stockentity.Stock, error)
}

func (m *mockStockDirectory) GetByID(ctx context.Context, id uint) (*stockentity.Stock, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return &stockentity.Stock{ID: id, Symbol: "AAPL"}, nil
}

// TestPricesUsecase_GetSeries はGetSeriesメソッドの各種シナリオをテーブル駆動テストで検証します。
func TestPricesUsecase_GetSeries(t *testing.T) {
	t.Parallel()

	t.Run("success: passes clamped limit to the repository", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name          string
			limit         int
			expectedLimit int
		}{
			{name: "zero falls back to default", limit: 0, expectedLimit: usecase.DefaultLimit},
			{name: "negative falls back to default", limit: -5, expectedLimit: usecase.DefaultLimit},
			{name: "in range is kept", limit: 50, expectedLimit: 50},
			{name: "above max falls back to default", limit: usecase.MaxLimit + 1, expectedLimit: usecase.DefaultLimit},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				var gotLimit int
				price := newMockPriceRepository()
				price.FindByStockFunc = func(ctx context.Context, stockID uint, start, end time.Time, limit int) ([]entity.PriceBar, error) {
					gotLimit = limit
					return []entity.PriceBar{}, nil
				}
				uc := usecase.NewPricesUsecase(price, &mockStockDirectory{})

				_, err := uc.GetSeries(context.Background(), 1, time.Time{}, time.Time{}, tt.limit)

				require.NoError(t, err)
				assert.Equal(t, tt.expectedLimit, gotLimit)
			})
		}
	})

	t.Run("failure: start after end", func(t *testing.T) {
		t.Parallel()

		uc := usecase.NewPricesUsecase(newMockPriceRepository(), &mockStockDirectory{})

		_, err := uc.GetSeries(context.Background(), 1,
			time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 0)

		assert.ErrorIs(t, err, usecase.ErrInvalidDateRange)
	})

	t.Run("failure: unknown stock", func(t *testing.T) {
		t.Parallel()

		stocks := &mockStockDirectory{
			GetByIDFunc: func(ctx context.Context, id uint) (*stockentity.Stock, error) {
				return nil, stockdomain.ErrStockNotFound
			},
		}
		uc := usecase.NewPricesUsecase(newMockPriceRepository(), stocks)

		_, err := uc.GetSeries(context.Background(), 99, time.Time{}, time.Time{}, 0)

		assert.ErrorIs(t, err, stockdomain.ErrStockNotFound)
	})
}

// TestPricesUsecase_GetStats はGetStatsが集計値を返すことと存在確認を検証します。
func TestPricesUsecase_GetStats(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		price := newMockPriceRepository()
		require.NoError(t, price.UpsertBatch(context.Background(), testBars(
			time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		)))
		uc := usecase.NewPricesUsecase(price, &mockStockDirectory{})

		stats, err := uc.GetStats(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.TotalRecords)
	})

	t.Run("failure: unknown stock", func(t *testing.T) {
		t.Parallel()

		stocks := &mockStockDirectory{
			GetByIDFunc: func(ctx context.Context, id uint) (*stockentity.Stock, error) {
				return nil, stockdomain.ErrStockNotFound
			},
		}
		uc := usecase.NewPricesUsecase(newMockPriceRepository(), stocks)

		_, err := uc.GetStats(context.Background(), 99)

		assert.ErrorIs(t, err, stockdomain.ErrStockNotFound)
	})
}
