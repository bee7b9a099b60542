package dto

import "time"

type PositionResponse struct {
	Symbol        string  `json:"symbol"`
	Shares        float64 `json:"shares"`
	AvgCost       float64 `json:"avg_cost"`
	CurrentPrice  float64 `json:"current_price"`
	MarketValue   float64 `json:"market_value"`
	UnrealizedPnl float64 `json:"unrealized_pnl"`
}

type PerformanceResponse struct {
	DailyPnl        float64 `json:"daily_pnl"`
	DailyPnlPercent float64 `json:"daily_pnl_percent"`
	TotalPnl        float64 `json:"total_pnl"`
	TotalPnlPercent float64 `json:"total_pnl_percent"`
}

type PortfolioResponse struct {
	TotalValue    float64             `json:"total_value"`
	CashBalance   float64             `json:"cash_balance"`
	InvestedValue float64             `json:"invested_value"`
	Positions     []PositionResponse  `json:"positions"`
	Performance   PerformanceResponse `json:"performance"`
}

type TradeResponse struct {
	ID              uint       `json:"id"`
	Symbol          string     `json:"symbol"`
	Side            string     `json:"side"`
	Quantity        float64    `json:"quantity"`
	Price           float64    `json:"price"`
	TotalAmount     float64    `json:"total_amount"`
	Status          string     `json:"status"`
	Strategy        *string    `json:"strategy"`
	ConfidenceScore *float64   `json:"confidence_score"`
	ExecutedAt      *time.Time `json:"executed_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

type CreateTradeRequest struct {
	Symbol          string   `json:"symbol" validate:"required,max=10"`
	Side            string   `json:"side" validate:"required,oneof=buy sell"`
	Quantity        float64  `json:"quantity" validate:"required,gt=0"`
	Price           float64  `json:"price" validate:"required,gt=0"`
	Strategy        *string  `json:"strategy" validate:"omitempty,oneof=momentum mean_reversion sentiment earnings technical fundamental"`
	ConfidenceScore *float64 `json:"confidence_score" validate:"omitempty,gte=0,lte=1"`
}
