package usecase

import (
	"context"
	"log/slog"

	"stock_dashboard/internal/shared/ratelimiter"
)

// Fetcher は1銘柄分の価格フェッチを抽象化します。
type Fetcher interface {
	Fetch(ctx context.Context, req FetchRequest) (*FetchResult, error)
}

// IngestUsecase は設定された全銘柄の価格データを外部プロバイダから取得し、
// データベースに永続化するユースケースを定義します。
type IngestUsecase struct {
	fetch       Fetcher
	rateLimiter ratelimiter.RateLimiterInterface
}

// NewIngestUsecase は新しいIngestUsecaseを生成します。
func NewIngestUsecase(fetch Fetcher, rateLimiter ratelimiter.RateLimiterInterface) *IngestUsecase {
	return &IngestUsecase{fetch: fetch, rateLimiter: rateLimiter}
}

// IngestAll は全銘柄の価格データを取得して保存します。プロバイダのレートリミットを
// 考慮してリクエスト間に待機を入れ、1銘柄の失敗はログに残して次へ進みます。
func (iu *IngestUsecase) IngestAll(ctx context.Context, symbols []string, period string) error {
	for _, s := range symbols {
		iu.rateLimiter.WaitIfNeeded()

		result, err := iu.fetch.Fetch(ctx, FetchRequest{Symbol: s, Period: period})
		if err != nil {
			// 1つの銘柄でエラーが発生しても処理を止めずにログに出力し、次の処理を続ける
			slog.Error("failed to ingest prices", "symbol", s, "period", period, "error", err)
			continue
		}
		slog.Info("ingested prices", "symbol", result.Symbol, "fetched", result.TotalFetched, "new", result.NewRecords)
	}
	return nil
}
