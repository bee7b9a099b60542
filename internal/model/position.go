package model

import "time"

type Position struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PortfolioID   uint      `gorm:"not null;index" json:"portfolio_id"`
	Symbol        string    `gorm:"size:10;not null;index" json:"symbol"`
	Shares        float64   `gorm:"not null;default:0" json:"shares"`
	AvgCost       float64   `gorm:"not null;default:0" json:"avg_cost"`
	CurrentPrice  float64   `gorm:"not null;default:0" json:"current_price"`
	MarketValue   float64   `gorm:"not null;default:0" json:"market_value"`
	UnrealizedPnl float64   `gorm:"not null;default:0" json:"unrealized_pnl"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Position) TableName() string {
	return "positions"
}

type GetPositionsParam struct {
	PortfolioID *uint
	Symbol      *string
}
