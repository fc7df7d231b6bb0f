package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	pricesentity "stock_dashboard/internal/feature/prices/domain/entity"
	pricesusecase "stock_dashboard/internal/feature/prices/usecase"
	stockentity "stock_dashboard/internal/feature/stocks/domain/entity"
	stocksusecase "stock_dashboard/internal/feature/stocks/usecase"
	"stock_dashboard/internal/platform/externalapi/alphavantage/dto"
)

// periodDays は期間指定を「今日から遡る日数」に変換します。0は無制限（max）です。
var periodDays = map[string]int{
	"1mo": 31,
	"3mo": 93,
	"6mo": 186,
	"1y":  366,
	"2y":  731,
	"5y":  1827,
	"max": 0,
}

// AlphaVantageMarket はAlpha Vantage APIから株価データを取得するMarketRepository実装です。
type AlphaVantageMarket struct {
	cfg    Config
	client *http.Client
}

// AlphaVantageMarketが各MarketRepositoryを実装していることをコンパイル時に検証します。
var (
	_ pricesusecase.MarketRepository = (*AlphaVantageMarket)(nil)
	_ stocksusecase.MarketRepository = (*AlphaVantageMarket)(nil)
)

// NewAlphaVantageMarket は指定された設定とHTTPクライアントでAlphaVantageMarketの新しいインスタンスを生成します。
func NewAlphaVantageMarket(cfg Config, client *http.Client) *AlphaVantageMarket {
	return &AlphaVantageMarket{cfg: cfg, client: client}
}

// GetDailyBars はTIME_SERIES_DAILYから日足の価格バーを取得し、日付昇順で返します。
// start/endが指定されていればその期間、なければperiod分にフィルタします。
func (a *AlphaVantageMarket) GetDailyBars(ctx context.Context, symbol string, start, end time.Time, period string) ([]pricesentity.PriceBar, error) {
	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY")
	q.Set("symbol", symbol)
	q.Set("outputsize", outputSize(start, period))
	q.Set("apikey", a.cfg.APIKey)

	var body dto.DailyResponse
	if err := a.getJSON(ctx, q, &body); err != nil {
		return nil, err
	}
	if body.ErrorMessage != "" {
		return nil, fmt.Errorf("alphavantage: %s", body.ErrorMessage)
	}
	if body.Note != "" {
		return nil, fmt.Errorf("alphavantage rate limited: %s", body.Note)
	}
	if body.Information != "" {
		return nil, fmt.Errorf("alphavantage: %s", body.Information)
	}

	if start.IsZero() {
		if days := periodDays[period]; days > 0 {
			start = toUTCDate(time.Now().UTC().AddDate(0, 0, -days))
		}
	}

	bars := make([]pricesentity.PriceBar, 0, len(body.TimeSeries))
	for day, v := range body.TimeSeries {
		d, err := time.Parse(time.DateOnly, day)
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", day, err)
		}
		if !start.IsZero() && d.Before(start) {
			continue
		}
		if !end.IsZero() && d.After(end) {
			continue
		}

		// 始値をパース
		o, err := strconv.ParseFloat(v.Open, 64)
		if err != nil {
			return nil, fmt.Errorf("parse open %q: %w", v.Open, err)
		}
		// 高値をパース
		h, err := strconv.ParseFloat(v.High, 64)
		if err != nil {
			return nil, fmt.Errorf("parse high %q: %w", v.High, err)
		}
		// 安値をパース
		l, err := strconv.ParseFloat(v.Low, 64)
		if err != nil {
			return nil, fmt.Errorf("parse low %q: %w", v.Low, err)
		}
		// 終値をパース
		c, err := strconv.ParseFloat(v.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("parse close %q: %w", v.Close, err)
		}
		// 出来高をパース
		vol, err := strconv.ParseInt(v.Volume, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse volume %q: %w", v.Volume, err)
		}

		bars = append(bars, pricesentity.PriceBar{
			Date:   d,
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: vol,
		})
	}

	// マップ由来なので日付昇順に並べ替える
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// GetStockInfo は会社OVERVIEWから銘柄のメタ情報を取得します。
func (a *AlphaVantageMarket) GetStockInfo(ctx context.Context, symbol string) (stockentity.StockInfo, error) {
	q := url.Values{}
	q.Set("function", "OVERVIEW")
	q.Set("symbol", symbol)
	q.Set("apikey", a.cfg.APIKey)

	var body dto.OverviewResponse
	if err := a.getJSON(ctx, q, &body); err != nil {
		return stockentity.StockInfo{}, err
	}
	if body.Symbol == "" {
		return stockentity.StockInfo{}, fmt.Errorf("alphavantage: no overview data for %s", symbol)
	}
	return stockentity.StockInfo{
		Symbol:   body.Symbol,
		Name:     body.Name,
		Exchange: body.Exchange,
		Sector:   body.Sector,
		Industry: body.Industry,
	}, nil
}

// getJSON はAPIを呼び出してJSONレスポンスをデコードします。
func (a *AlphaVantageMarket) getJSON(ctx context.Context, q url.Values, out any) error {
	u := fmt.Sprintf("%s/query?%s", a.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	res, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("alphavantage http %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// outputSize は必要な履歴の長さからcompact/fullを選びます。
// compactは直近100営業日のみを返します。
func outputSize(start time.Time, period string) string {
	if !start.IsZero() {
		if time.Since(start) < 100*24*time.Hour {
			return "compact"
		}
		return "full"
	}
	if days := periodDays[period]; days > 0 && days <= 100 {
		return "compact"
	}
	return "full"
}

// toUTCDate は時刻をUTCの0時に正規化します。
func toUTCDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
