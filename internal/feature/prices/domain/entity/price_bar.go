// Package entity defines the domain models for the prices feature.
package entity

import "time"

// PriceBar represents one day's OHLCV (Open, High, Low, Close, Volume) record
// for a stock. Dates are normalized to midnight UTC; there is at most one bar
// per (stock, date).
type PriceBar struct {
	ID      uint
	StockID uint      // Owning stock
	Date    time.Time // Trading day, midnight UTC
	Open    float64   // Opening price
	High    float64   // Highest price of the day
	Low     float64   // Lowest price of the day
	Close   float64   // Closing price
	Volume  int64     // Trading volume
}

// PriceStats is an aggregate over the stored close prices of one stock.
type PriceStats struct {
	MinPrice     float64
	MaxPrice     float64
	AvgPrice     float64
	TotalRecords int64
}
