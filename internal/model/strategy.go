package model

import (
	"time"

	"gorm.io/datatypes"
)

type Strategy struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Type             StrategyType   `gorm:"size:30;not null" json:"type"`
	IsActive         *bool          `gorm:"default:true" json:"is_active"`
	Parameters       datatypes.JSON `gorm:"type:jsonb" json:"parameters"`
	PerformanceScore *float64       `json:"performance_score"`
	TotalTrades      int            `gorm:"default:0" json:"total_trades"`
	WinningTrades    int            `gorm:"default:0" json:"winning_trades"`
	TotalPnl         float64        `gorm:"default:0" json:"total_pnl"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Strategy) TableName() string {
	return "strategies"
}
