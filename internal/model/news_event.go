package model

import "time"

// NewsEvent is a news item affecting one or more symbols. Symbols is a
// comma-separated list; sentiment is in [-1,1], impact in [0,1].
type NewsEvent struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"size:500;not null" json:"title"`
	Content        *string   `gorm:"type:text" json:"content"`
	Source         string    `gorm:"size:100;not null" json:"source"`
	Symbols        *string   `gorm:"size:500" json:"symbols"`
	SentimentScore *float64  `json:"sentiment_score"`
	ImpactScore    *float64  `json:"impact_score"`
	PublishedAt    time.Time `gorm:"not null" json:"published_at"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (NewsEvent) TableName() string {
	return "news_events"
}
