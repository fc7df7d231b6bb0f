// Package entity defines the domain models for the stocks feature.
package entity

import "time"

// Stock represents a tracked instrument (a tradable ticker symbol).
// The symbol is stored upper-case and is immutable once created; updates only
// touch the display metadata and the active flag.
type Stock struct {
	ID        uint      `gorm:"primaryKey"`
	Symbol    string    `gorm:"size:20;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null"`
	Sector    string    `gorm:"size:100"`
	Industry  string    `gorm:"size:100"`
	Exchange  string    `gorm:"size:100"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the database table name for Stock.
func (Stock) TableName() string {
	return "stocks"
}

// StockInfo is instrument metadata as reported by a market-data provider,
// used to create a Stock on quick add.
type StockInfo struct {
	Symbol   string
	Name     string
	Sector   string
	Industry string
	Exchange string
}
