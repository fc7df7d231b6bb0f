package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"stock_dashboard/internal/app/di"
	"stock_dashboard/internal/app/router"
	metricshandler "stock_dashboard/internal/feature/metrics/transport/handler"
	metricsusecase "stock_dashboard/internal/feature/metrics/usecase"
	pricesadapters "stock_dashboard/internal/feature/prices/adapters"
	priceshandler "stock_dashboard/internal/feature/prices/transport/handler"
	pricesusecase "stock_dashboard/internal/feature/prices/usecase"
	stocksadapters "stock_dashboard/internal/feature/stocks/adapters"
	stockshandler "stock_dashboard/internal/feature/stocks/transport/handler"
	stocksusecase "stock_dashboard/internal/feature/stocks/usecase"
	"stock_dashboard/internal/platform/cache"
	infradb "stock_dashboard/internal/platform/db"
	infraredis "stock_dashboard/internal/platform/redis"
)

func main() {
	// .envはローカル開発用。無ければ環境変数をそのまま使う
	_ = godotenv.Load()

	if os.Getenv("DEBUG") != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	// db
	db := infradb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	stockRepo := stocksadapters.NewStockRepository(db)
	priceRepo := pricesadapters.NewPriceRepository(db)
	marketRepo := di.NewMarket()

	// Redisキャッシュでラップ
	cachedPriceRepo := cache.NewCachingPriceRepository(rdb, 5*time.Minute, priceRepo, "prices")

	// Usecase
	stocksUC := stocksusecase.NewStockUsecase(stockRepo, marketRepo)
	pricesUC := pricesusecase.NewPricesUsecase(cachedPriceRepo, stockRepo)
	fetchUC := pricesusecase.NewFetchUsecase(marketRepo, cachedPriceRepo, stockRepo)
	metricsUC := metricsusecase.NewMetricsUsecase(cachedPriceRepo, stockRepo)

	// Handler
	stocksH := stockshandler.NewStockHandler(stocksUC)
	pricesH := priceshandler.NewPriceHandler(pricesUC, fetchUC)
	metricsH := metricshandler.NewMetricsHandler(metricsUC)

	// ルータ生成
	router := router.NewRouter(stocksH, pricesH, metricsH)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	if err := router.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
