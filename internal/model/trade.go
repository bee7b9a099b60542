package model

import "time"

type TradeSide string

const (
	TradeSideBuy  TradeSide = "buy"
	TradeSideSell TradeSide = "sell"
)

type TradeStatus string

const (
	TradeStatusPending   TradeStatus = "pending"
	TradeStatusFilled    TradeStatus = "filled"
	TradeStatusCancelled TradeStatus = "cancelled"
	TradeStatusRejected  TradeStatus = "rejected"
	TradeStatusPartial   TradeStatus = "partial"
)

type StrategyType string

const (
	StrategyTypeMomentum      StrategyType = "momentum"
	StrategyTypeMeanReversion StrategyType = "mean_reversion"
	StrategyTypeSentiment     StrategyType = "sentiment"
	StrategyTypeEarnings      StrategyType = "earnings"
	StrategyTypeTechnical     StrategyType = "technical"
	StrategyTypeFundamental   StrategyType = "fundamental"
)

type Trade struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	PortfolioID     uint          `gorm:"not null;index" json:"portfolio_id"`
	Symbol          string        `gorm:"size:10;not null;index" json:"symbol"`
	Side            TradeSide     `gorm:"size:10;not null" json:"side"`
	Quantity        float64       `gorm:"not null" json:"quantity"`
	Price           float64       `gorm:"not null" json:"price"`
	TotalAmount     float64       `gorm:"not null" json:"total_amount"`
	Status          TradeStatus   `gorm:"size:20;not null;default:pending" json:"status"`
	Strategy        *StrategyType `gorm:"size:30" json:"strategy"`
	ConfidenceScore *float64      `json:"confidence_score"`
	BrokerOrderID   *string       `gorm:"size:100" json:"broker_order_id"`
	ExecutedAt      *time.Time    `json:"executed_at"`
	CreatedAt       time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

func (Trade) TableName() string {
	return "trades"
}
