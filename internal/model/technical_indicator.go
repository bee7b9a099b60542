package model

import "time"

type TechnicalIndicator struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Symbol        string    `gorm:"size:10;not null;index" json:"symbol"`
	IndicatorName string    `gorm:"size:50;not null" json:"indicator_name"`
	Value         float64   `gorm:"not null" json:"value"`
	Timeframe     string    `gorm:"size:10;not null" json:"timeframe"`
	Timestamp     time.Time `gorm:"not null;index" json:"timestamp"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (TechnicalIndicator) TableName() string {
	return "technical_indicators"
}
