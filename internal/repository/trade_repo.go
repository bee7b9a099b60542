package repository

import (
	"context"

	"finsight-trading/internal/model"
	"finsight-trading/pkg/utils"

	"gorm.io/gorm"
)

const defaultTradeLimit = 50

type TradeRepository interface {
	Create(ctx context.Context, trade *model.Trade, opts ...utils.DBOption) error
	GetRecent(ctx context.Context, limit int) ([]model.Trade, error)
}

type tradeRepository struct {
	db *gorm.DB
}

func NewTradeRepository(db *gorm.DB) TradeRepository {
	return &tradeRepository{
		db: db,
	}
}

func (r *tradeRepository) Create(ctx context.Context, trade *model.Trade, opts ...utils.DBOption) error {
	trade.Symbol = utils.NormalizeSymbol(trade.Symbol)
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(trade).Error
}

func (r *tradeRepository) GetRecent(ctx context.Context, limit int) ([]model.Trade, error) {
	var trades []model.Trade

	if limit <= 0 {
		limit = defaultTradeLimit
	}

	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&trades).Error; err != nil {
		return nil, err
	}
	return trades, nil
}
