package repository

import (
	"context"

	"finsight-trading/internal/model"
	"finsight-trading/pkg/utils"

	"gorm.io/gorm"
)

const defaultSignalLimit = 50

type SignalRepository interface {
	Create(ctx context.Context, signal *model.TradingSignal, opts ...utils.DBOption) error
	GetRecent(ctx context.Context, limit int) ([]model.TradingSignal, error)
}

type signalRepository struct {
	db *gorm.DB
}

func NewSignalRepository(db *gorm.DB) SignalRepository {
	return &signalRepository{
		db: db,
	}
}

func (r *signalRepository) Create(ctx context.Context, signal *model.TradingSignal, opts ...utils.DBOption) error {
	signal.Symbol = utils.NormalizeSymbol(signal.Symbol)
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(signal).Error
}

func (r *signalRepository) GetRecent(ctx context.Context, limit int) ([]model.TradingSignal, error) {
	var signals []model.TradingSignal

	if limit <= 0 {
		limit = defaultSignalLimit
	}

	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&signals).Error; err != nil {
		return nil, err
	}
	return signals, nil
}
