package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	pricesentity "stock_dashboard/internal/feature/prices/domain/entity"
	pricesusecase "stock_dashboard/internal/feature/prices/usecase"
	stockentity "stock_dashboard/internal/feature/stocks/domain/entity"
	stocksusecase "stock_dashboard/internal/feature/stocks/usecase"
	"stock_dashboard/internal/platform/externalapi/yahoo/dto"
)

// YahooMarket はYahoo Finance chart APIから株価データを取得するMarketRepository実装です。
type YahooMarket struct {
	cfg    Config
	client *http.Client
}

// YahooMarketが各MarketRepositoryを実装していることをコンパイル時に検証します。
var (
	_ pricesusecase.MarketRepository = (*YahooMarket)(nil)
	_ stocksusecase.MarketRepository = (*YahooMarket)(nil)
)

// NewYahooMarket は指定された設定とHTTPクライアントでYahooMarketの新しいインスタンスを生成します。
func NewYahooMarket(cfg Config, client *http.Client) *YahooMarket {
	return &YahooMarket{cfg: cfg, client: client}
}

// GetDailyBars はYahoo Financeから日足の価格バーを取得し、日付昇順で返します。
// start/endが指定されていればその期間、なければperiod（"1mo"〜"max"）分を取得します。
func (y *YahooMarket) GetDailyBars(ctx context.Context, symbol string, start, end time.Time, period string) ([]pricesentity.PriceBar, error) {
	q := url.Values{}
	q.Set("interval", "1d")
	if !start.IsZero() || !end.IsZero() {
		if end.IsZero() {
			end = time.Now().UTC()
		}
		q.Set("period1", strconv.FormatInt(start.Unix(), 10))
		// endは当日を含む
		q.Set("period2", strconv.FormatInt(end.Unix()+24*60*60, 10))
	} else {
		q.Set("range", period)
	}

	body, err := y.fetchChart(ctx, symbol, q)
	if err != nil {
		return nil, err
	}

	result := body.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote data for %s", symbol)
	}
	quote := result.Indicators.Quote[0]

	bars := make([]pricesentity.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) || i >= len(quote.Close) {
			break
		}
		// 休場日などのnullバーはスキップ
		if quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil || quote.Close[i] == nil {
			continue
		}
		day := toUTCDate(time.Unix(ts, 0))
		var volume int64
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			volume = *quote.Volume[i]
		}
		bar := pricesentity.PriceBar{
			Date:   day,
			Open:   *quote.Open[i],
			High:   *quote.High[i],
			Low:    *quote.Low[i],
			Close:  *quote.Close[i],
			Volume: volume,
		}
		// 同一日の途中足（当日分）は最後の値で置き換える
		if n := len(bars); n > 0 && bars[n-1].Date.Equal(day) {
			bars[n-1] = bar
			continue
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// GetStockInfo はchartメタデータから銘柄のメタ情報を取得します。
// Yahoo chart APIはセクター・業種を返さないため、それらは空になります。
func (y *YahooMarket) GetStockInfo(ctx context.Context, symbol string) (stockentity.StockInfo, error) {
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("range", "1d")

	body, err := y.fetchChart(ctx, symbol, q)
	if err != nil {
		return stockentity.StockInfo{}, err
	}

	meta := body.Chart.Result[0].Meta
	name := meta.LongName
	if name == "" {
		name = meta.ShortName
	}
	exchange := meta.FullExchangeName
	if exchange == "" {
		exchange = meta.ExchangeName
	}
	return stockentity.StockInfo{
		Symbol:   meta.Symbol,
		Name:     name,
		Exchange: exchange,
	}, nil
}

// fetchChart はchartエンドポイントを呼び出し、結果が空でないことを検証します。
func (y *YahooMarket) fetchChart(ctx context.Context, symbol string, q url.Values) (*dto.ChartResponse, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.cfg.BaseURL, url.PathEscape(symbol), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	// Yahooはデフォルトのgo UAを弾くことがある
	req.Header.Set("User-Agent", "Mozilla/5.0")

	res, err := y.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("yahoo http %d", res.StatusCode)
	}

	var body dto.ChartResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo: %s", body.Chart.Error.Description)
	}
	if len(body.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no data for symbol %s", symbol)
	}
	return &body, nil
}

// toUTCDate はタイムスタンプをUTCの0時に正規化します。
func toUTCDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
