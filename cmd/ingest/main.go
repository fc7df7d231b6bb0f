package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"stock_dashboard/internal/app/config"
	"stock_dashboard/internal/app/di"
	pricesadapters "stock_dashboard/internal/feature/prices/adapters"
	pricesusecase "stock_dashboard/internal/feature/prices/usecase"
	stocksadapters "stock_dashboard/internal/feature/stocks/adapters"
	"stock_dashboard/internal/platform/db"
	"stock_dashboard/internal/shared/ratelimiter"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "configs/ingest.yaml", "path to the ingest config file")
	once := flag.Bool("once", false, "run a single ingest pass and exit, ignoring the schedule")
	flag.Parse()

	cfg, err := config.LoadIngest(*configPath)
	if err != nil {
		log.Fatal("failed to load config:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config:", err)
	}

	db := db.OpenDB()
	marketRepo := di.NewMarket()
	priceRepo := pricesadapters.NewPriceRepository(db)
	stockRepo := stocksadapters.NewStockRepository(db)

	fetchUC := pricesusecase.NewFetchUsecase(marketRepo, priceRepo, stockRepo)
	limiter := ratelimiter.NewRateLimiter(cfg.RateLimit.PerMinute, time.Minute)
	uc := pricesusecase.NewIngestUsecase(fetchUC, limiter)

	runOnce := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if err := uc.IngestAll(ctx, cfg.Symbols, cfg.Period); err != nil {
			log.Println("[ERROR] ingest failed:", err)
			return
		}
		log.Println("ingest ok")
	}

	if cfg.Schedule == "" || *once {
		runOnce()
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Schedule, runOnce); err != nil {
		log.Fatal("invalid schedule:", err)
	}
	c.Start()
	log.Println("ingest scheduler started:", cfg.Schedule)

	// SIGINT/SIGTERMまで常駐し、実行中のジョブを待ってから終了する
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	<-c.Stop().Done()
	log.Println("ingest scheduler stopped")
}
