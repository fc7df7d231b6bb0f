package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_dashboard/internal/feature/prices/domain/entity"
	"stock_dashboard/internal/feature/prices/usecase"
	stockdomain "stock_dashboard/internal/feature/stocks/domain"
	stockentity "stock_dashboard/internal/feature/stocks/domain/entity"
)

// mockMarketRepository はMarketRepositoryインターフェースのモック実装です。
type mockMarketRepository struct {
	GetDailyBarsFunc func(ctx context.Context, symbol string, start, end time.Time, period string) ([]entity.PriceBar, error)
	GetStockInfoFunc func(ctx context.Context, symbol string) (stockentity.StockInfo, error)
}

func (m *mockMarketRepository) GetDailyBars(ctx context.Context, symbol string, start, end time.Time, period string) ([]entity.PriceBar, error) {
	if m.GetDailyBarsFunc != nil {
		return m.GetDailyBarsFunc(ctx, symbol, start, end, period)
	}
	return nil, nil
}

func (m *mockMarketRepository) GetStockInfo(ctx context.Context, symbol string) (stockentity.StockInfo, error) {
	if m.GetStockInfoFunc != nil {
		return m.GetStockInfoFunc(ctx, symbol)
	}
	return stockentity.StockInfo{}, errors.New("not implemented")
}

// mockPriceRepository はPriceRepositoryインターフェースのモック実装です。
// countはUpsertBatchで挿入された(stock_id, date)の組を数えるインメモリ実装です。
type mockPriceRepository struct {
	stored map[string]entity.PriceBar

	UpsertBatchFunc func(ctx context.Context, bars []entity.PriceBar) error
	FindByStockFunc func(ctx context.Context, stockID uint, start, end time.Time, limit int) ([]entity.PriceBar, error)
}

func newMockPriceRepository() *mockPriceRepository {
	return &mockPriceRepository{stored: make(map[string]entity.PriceBar)}
}

func (m *mockPriceRepository) UpsertBatch(ctx context.Context, bars []entity.PriceBar) error {
	if m.UpsertBatchFunc != nil {
		return m.UpsertBatchFunc(ctx, bars)
	}
	for _, b := range bars {
		b := b
		m.stored[b.Date.Format(time.DateOnly)] = b
	}
	return nil
}

func (m *mockPriceRepository) FindByStock(ctx context.Context, stockID uint, start, end time.Time, limit int) ([]entity.PriceBar, error) {
	if m.FindByStockFunc != nil {
		return m.FindByStockFunc(ctx, stockID, start, end, limit)
	}
	return nil, nil
}

func (m *mockPriceRepository) CountByStock(ctx context.Context, stockID uint) (int64, error) {
	return int64(len(m.stored)), nil
}

func (m *mockPriceRepository) Stats(ctx context.Context, stockID uint) (entity.PriceStats, error) {
	return entity.PriceStats{TotalRecords: int64(len(m.stored))}, nil
}

// mockStockRegistry はStockRegistryインターフェースのモック実装です。
type mockStockRegistry struct {
	GetBySymbolFunc func(ctx context.Context, symbol string) (*stockentity.Stock, error)
	CreateFunc      func(ctx context.Context, stock *stockentity.Stock) error
}

func (m *mockStockRegistry) GetBySymbol(ctx context.Context, symbol string) (*stockentity.Stock, error) {
	if m.GetBySymbolFunc != nil {
		return m.GetBySymbolFunc(ctx, symbol)
	}
	return nil, stockdomain.ErrStockNotFound
}

func (m *mockStockRegistry) Create(ctx context.Context, stock *stockentity.Stock) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, stock)
	}
	stock.ID = 1
	return nil
}

func testBars(dates ...time.Time) []entity.PriceBar {
	bars := make([]entity.PriceBar, 0, len(dates))
	for i, d := range dates {
		d := d
		bars = append(bars, entity.PriceBar{
			Date:   d,
			Open:   100 + float64(i),
			High:   101 + float64(i),
			Low:    99 + float64(i),
			Close:  100.5 + float64(i),
			Volume: 1000,
		})
	}
	return bars
}

// TestFetchUsecase_Fetch_NewStock は未登録シンボルのフェッチで銘柄が自動登録されることを検証します。
func TestFetchUsecase_Fetch_NewStock(t *testing.T) {
	t.Parallel()

	d1 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)

	market := &mockMarketRepository{
		GetDailyBarsFunc: func(ctx context.Context, symbol string, start, end time.Time, period string) ([]entity.PriceBar, error) {
			assert.Equal(t, "AAPL", symbol)
			assert.Equal(t, "1mo", period)
			return testBars(d1, d2), nil
		},
		GetStockInfoFunc: func(ctx context.Context, symbol string) (stockentity.StockInfo, error) {
			return stockentity.StockInfo{Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NasdaqGS"}, nil
		},
	}
	price := newMockPriceRepository()
	var created *stockentity.Stock
	stocks := &mockStockRegistry{
		CreateFunc: func(ctx context.Context, stock *stockentity.Stock) error {
			stock.ID = 5
			created = stock
			return nil
		},
	}
	uc := usecase.NewFetchUsecase(market, price, stocks)

	result, err := uc.Fetch(context.Background(), usecase.FetchRequest{Symbol: " aapl "})

	require.NoError(t, err)
	require.NotNil(t, created, "stock should be auto-registered")
	assert.Equal(t, "Apple Inc.", created.Name)
	assert.True(t, created.IsActive)
	assert.Equal(t, uint(5), result.StockID)
	assert.Equal(t, "AAPL", result.Symbol)
	assert.Equal(t, 2, result.TotalFetched)
	assert.Equal(t, int64(2), result.NewRecords)
	for _, b := range price.stored {
		b := b
		assert.Equal(t, uint(5), b.StockID, "bars should carry the stock ID")
	}
}

// TestFetchUsecase_Fetch_RegisterWithoutInfo はメタデータ取得失敗時にシンボル名で登録されることを検証します。
func TestFetchUsecase_Fetch_RegisterWithoutInfo(t *testing.T) {
	t.Parallel()

	d := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	market := &mockMarketRepository{
		GetDailyBarsFunc: func(ctx context.Context, symbol string, start, end time.Time, period string) ([]entity.PriceBar, error) {
			return testBars(d), nil
		},
		GetStockInfoFunc: func(ctx context.Context, symbol string) (stockentity.StockInfo, error) {
			return stockentity.StockInfo{}, errors.New("status 503")
		},
	}
	var created *stockentity.Stock
	stocks := &mockStockRegistry{
		CreateFunc: func(ctx context.Context, stock *stockentity.Stock) error {
			stock.ID = 1
			created = stock
			return nil
		},
	}
	uc := usecase.NewFetchUsecase(market, newMockPriceRepository(), stocks)

	_, err := uc.Fetch(context.Background(), usecase.FetchRequest{Symbol: "AAPL"})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "AAPL", created.Name, "name falls back to the symbol")
}

// TestFetchUsecase_Fetch_ExistingStock は登録済み銘柄への再フェッチでnew_recordsが差分のみになることを検証します。
func TestFetchUsecase_Fetch_ExistingStock(t *testing.T) {
	t.Parallel()

	d1 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	d3 := d1.AddDate(0, 0, 2)

	market := &mockMarketRepository{
		GetDailyBarsFunc: func(ctx context.Context, symbol string, start, end time.Time, period string) ([]entity.PriceBar, error) {
			return testBars(d1, d2, d3), nil
		},
	}
	price := newMockPriceRepository()
	// 既存の2本をシード
	require.NoError(t, price.UpsertBatch(context.Background(), testBars(d1, d2)))

	stocks := &mockStockRegistry{
		GetBySymbolFunc: func(ctx context.Context, symbol string) (*stockentity.Stock, error) {
			return &stockentity.Stock{ID: 3, Symbol: "AAPL"}, nil
		},
	}
	uc := usecase.NewFetchUsecase(market, price, stocks)

	result, err := uc.Fetch(context.Background(), usecase.FetchRequest{Symbol: "AAPL"})

	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalFetched)
	assert.Equal(t, int64(1), result.NewRecords, "only the unseen bar counts as new")
}

// TestFetchUsecase_Fetch_Validation は入力バリデーションの失敗ケースを検証します。
func TestFetchUsecase_Fetch_Validation(t *testing.T) {
	t.Parallel()

	uc := usecase.NewFetchUsecase(&mockMarketRepository{}, newMockPriceRepository(), &mockStockRegistry{})

	t.Run("failure: start after end", func(t *testing.T) {
		t.Parallel()

		_, err := uc.Fetch(context.Background(), usecase.FetchRequest{
			Symbol: "AAPL",
			Start:  time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			End:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		})
		assert.ErrorIs(t, err, usecase.ErrInvalidDateRange)
	})

	t.Run("failure: unknown period", func(t *testing.T) {
		t.Parallel()

		_, err := uc.Fetch(context.Background(), usecase.FetchRequest{Symbol: "AAPL", Period: "7w"})
		assert.ErrorIs(t, err, usecase.ErrInvalidPeriod)
	})
}

// TestFetchUsecase_Fetch_ProviderFailure はプロバイダ障害と空シリーズの扱いを検証します。
func TestFetchUsecase_Fetch_ProviderFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		getDailyBars func(ctx context.Context, symbol string, start, end time.Time, period string) ([]entity.PriceBar, error)
	}{
		{
			name: "failure: provider error",
			getDailyBars: func(ctx context.Context, symbol string, start, end time.Time, period string) ([]entity.PriceBar, error) {
				return nil, errors.New("connection refused")
			},
		},
		{
			name: "failure: empty series for unknown symbol",
			getDailyBars: func(ctx context.Context, symbol string, start, end time.Time, period string) ([]entity.PriceBar, error) {
				return nil, nil
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			market := &mockMarketRepository{GetDailyBarsFunc: tt.getDailyBars}
			uc := usecase.NewFetchUsecase(market, newMockPriceRepository(), &mockStockRegistry{})

			result, err := uc.Fetch(context.Background(), usecase.FetchRequest{Symbol: "AAPL"})

			assert.ErrorIs(t, err, usecase.ErrProviderUnavailable)
			assert.Nil(t, result)
		})
	}
}
