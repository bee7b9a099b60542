package model

import "time"

// Default seed values for the first portfolio row.
const (
	SeedTotalValue    = 100000.00
	SeedCashBalance   = 50000.00
	SeedInvestedValue = 50000.00
)

type Portfolio struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TotalValue    float64   `gorm:"not null;default:0" json:"total_value"`
	CashBalance   float64   `gorm:"not null;default:0" json:"cash_balance"`
	InvestedValue float64   `gorm:"not null;default:0" json:"invested_value"`
	TotalPnl      float64   `gorm:"not null;default:0" json:"total_pnl"`
	DailyPnl      float64   `gorm:"not null;default:0" json:"daily_pnl"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Positions []Position `gorm:"foreignKey:PortfolioID" json:"positions,omitempty"`
	Trades    []Trade    `gorm:"foreignKey:PortfolioID" json:"trades,omitempty"`
}

func (Portfolio) TableName() string {
	return "portfolios"
}
