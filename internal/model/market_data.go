package model

import "time"

// MarketData is one price sample for a symbol. Append-only; duplicates for
// the same symbol and timestamp are permitted.
type MarketData struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Symbol        string    `gorm:"size:10;not null;index" json:"symbol"`
	Price         float64   `gorm:"not null" json:"price"`
	Volume        int64     `gorm:"not null;default:0" json:"volume"`
	High          float64   `gorm:"not null" json:"high"`
	Low           float64   `gorm:"not null" json:"low"`
	OpenPrice     float64   `gorm:"not null" json:"open_price"`
	Change        float64   `gorm:"not null;default:0" json:"change"`
	ChangePercent float64   `gorm:"not null;default:0" json:"change_percent"`
	Bid           *float64  `json:"bid"`
	Ask           *float64  `json:"ask"`
	Timestamp     time.Time `gorm:"not null;index" json:"timestamp"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (MarketData) TableName() string {
	return "market_data"
}
