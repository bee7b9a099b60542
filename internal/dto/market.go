package dto

import "time"

type StartStreamRequest struct {
	Symbols []string `json:"symbols" validate:"required,min=1,max=50,dive,required,max=10"`
}

type MarketDataResponse struct {
	ID            uint      `json:"id"`
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Volume        int64     `json:"volume"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Bid           *float64  `json:"bid,omitempty"`
	Ask           *float64  `json:"ask,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

type SignalResponse struct {
	ID          uint      `json:"id"`
	StrategyID  uint      `json:"strategy_id"`
	Symbol      string    `json:"symbol"`
	Side        string    `json:"side"`
	Confidence  float64   `json:"confidence"`
	TargetPrice *float64  `json:"target_price"`
	StopLoss    *float64  `json:"stop_loss"`
	TakeProfit  *float64  `json:"take_profit"`
	IsExecuted  bool      `json:"is_executed"`
	CreatedAt   time.Time `json:"created_at"`
}

type QuotesResponse struct {
	Status    string           `json:"status"`
	Symbols   []string         `json:"symbols"`
	Quotes    map[string]Quote `json:"quotes"`
	Timestamp time.Time        `json:"timestamp"`
}

type HistoryResponse struct {
	Status         string               `json:"status"`
	Symbol         string               `json:"symbol"`
	HistoricalData *PriceHistory        `json:"historical_data"`
	StoredData     []MarketDataResponse `json:"stored_data"`
	Timestamp      time.Time            `json:"timestamp"`
}

type ConnectionTestResponse struct {
	Status         string    `json:"status"`
	Message        string    `json:"message"`
	AccountsFound  int       `json:"accounts_found,omitempty"`
	ConnectionTime time.Time `json:"connection_time"`
}
