package model

import "time"

type TradingSignal struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StrategyID  uint      `gorm:"not null;index" json:"strategy_id"`
	Symbol      string    `gorm:"size:10;not null;index" json:"symbol"`
	Side        TradeSide `gorm:"size:10;not null" json:"side"`
	Confidence  float64   `gorm:"not null" json:"confidence"`
	TargetPrice *float64  `json:"target_price"`
	StopLoss    *float64  `json:"stop_loss"`
	TakeProfit  *float64  `json:"take_profit"`
	Reasoning   *string   `gorm:"type:text" json:"reasoning"`
	IsExecuted  bool      `gorm:"default:false" json:"is_executed"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	Strategy Strategy `gorm:"foreignKey:StrategyID;references:ID" json:"-"`
}

func (TradingSignal) TableName() string {
	return "trading_signals"
}
