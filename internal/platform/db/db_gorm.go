package db

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	pricesadapters "stock_dashboard/internal/feature/prices/adapters"
	stockentity "stock_dashboard/internal/feature/stocks/domain/entity"
)

// OpenDB connects to Postgres using DATABASE_URL, retrying for up to a minute
// so the server survives a database that is still starting up.
// With RUN_MIGRATIONS=true the schema is auto-migrated after connecting.
func OpenDB() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	var (
		db  *gorm.DB
		err error
	)

	deadline := time.Now().Add(60 * time.Second)
	for {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			log.Fatalf("DB connect failed after 60s: %v", err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		// マイグレーション（Stock, PriceBar）
		if err := db.AutoMigrate(
			&stockentity.Stock{},
			&pricesadapters.PriceBarModel{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
