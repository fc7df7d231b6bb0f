package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func TestNewYahooMarket(t *testing.T) {
	t.Parallel()

	cfg := Config{BaseURL: "https://query1.test.com", Timeout: 10 * time.Second}
	market := NewYahooMarket(cfg, &http.Client{})

	if market == nil {
		t.Fatal("expected non-nil market")
	}
	if market.cfg.BaseURL != cfg.BaseURL {
		t.Errorf("expected base URL %q, got %q", cfg.BaseURL, market.cfg.BaseURL)
	}
}

// chartJSON は2営業日+1休場日(null)のchartレスポンスです。
const chartJSON = `{
	"chart": {
		"result": [{
			"meta": {
				"symbol": "AAPL",
				"exchangeName": "NMS",
				"fullExchangeName": "NasdaqGS",
				"longName": "Apple Inc.",
				"shortName": "Apple"
			},
			"timestamp": [1704171600, 1704258000, 1704344400],
			"indicators": {
				"quote": [{
					"open":   [184.0, null, 183.0],
					"high":   [186.0, null, 185.0],
					"low":    [183.0, null, 182.5],
					"close":  [185.5, null, 184.2],
					"volume": [52000000, null, 48000000]
				}]
			}
		}],
		"error": null
	}
}`

func TestYahooMarket_GetDailyBars_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/AAPL" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("interval") != "1d" {
			t.Errorf("expected interval 1d, got %s", r.URL.Query().Get("interval"))
		}
		if r.URL.Query().Get("range") != "1mo" {
			t.Errorf("expected range 1mo, got %s", r.URL.Query().Get("range"))
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected an explicit User-Agent header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartJSON))
	}))
	defer server.Close()

	market := NewYahooMarket(Config{BaseURL: server.URL}, server.Client())

	bars, err := market.GetDailyBars(context.Background(), "AAPL", time.Time{}, time.Time{}, "1mo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// nullバーはスキップされる
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if bars[0].Close != 185.5 {
		t.Errorf("expected close 185.5, got %f", bars[0].Close)
	}
	if bars[0].Volume != 52000000 {
		t.Errorf("expected volume 52000000, got %d", bars[0].Volume)
	}
	if !bars[0].Date.Before(bars[1].Date) {
		t.Error("expected bars in ascending date order")
	}
	for _, b := range bars {
		if b.Date.Hour() != 0 || b.Date.Location() != time.UTC {
			t.Errorf("expected dates normalized to midnight UTC, got %v", b.Date)
		}
	}
}

func TestYahooMarket_GetDailyBars_ExplicitRange(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("period1"); got != strconv.FormatInt(start.Unix(), 10) {
			t.Errorf("unexpected period1 %s", got)
		}
		// period2は終了日を含むよう1日進む
		if got := r.URL.Query().Get("period2"); got != strconv.FormatInt(end.Unix()+24*60*60, 10) {
			t.Errorf("unexpected period2 %s", got)
		}
		if r.URL.Query().Get("range") != "" {
			t.Error("range should not be set when explicit dates are given")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartJSON))
	}))
	defer server.Close()

	market := NewYahooMarket(Config{BaseURL: server.URL}, server.Client())

	if _, err := market.GetDailyBars(context.Background(), "AAPL", start, end, "1mo"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestYahooMarket_GetDailyBars_APIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"chart": {
				"result": null,
				"error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}
			}
		}`))
	}))
	defer server.Close()

	market := NewYahooMarket(Config{BaseURL: server.URL}, server.Client())

	_, err := market.GetDailyBars(context.Background(), "NOPE", time.Time{}, time.Time{}, "1mo")
	if err == nil {
		t.Fatal("expected an error for the API error envelope")
	}
}

func TestYahooMarket_GetDailyBars_HTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	market := NewYahooMarket(Config{BaseURL: server.URL}, server.Client())

	_, err := market.GetDailyBars(context.Background(), "AAPL", time.Time{}, time.Time{}, "1mo")
	if err == nil {
		t.Fatal("expected an error for HTTP 429")
	}
}

func TestYahooMarket_GetStockInfo(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("range") != "1d" {
			t.Errorf("expected range 1d, got %s", r.URL.Query().Get("range"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartJSON))
	}))
	defer server.Close()

	market := NewYahooMarket(Config{BaseURL: server.URL}, server.Client())

	info, err := market.GetStockInfo(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Symbol != "AAPL" {
		t.Errorf("expected symbol AAPL, got %s", info.Symbol)
	}
	if info.Name != "Apple Inc." {
		t.Errorf("expected long name preferred, got %s", info.Name)
	}
	if info.Exchange != "NasdaqGS" {
		t.Errorf("expected full exchange name preferred, got %s", info.Exchange)
	}
}
