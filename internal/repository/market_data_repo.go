package repository

import (
	"context"
	"time"

	"finsight-trading/internal/model"
	"finsight-trading/pkg/utils"

	"gorm.io/gorm"
)

type MarketDataRepository interface {
	Create(ctx context.Context, data *model.MarketData, opts ...utils.DBOption) error
	CreateBatch(ctx context.Context, data []model.MarketData, opts ...utils.DBOption) error
	GetRecent(ctx context.Context, symbol string, since time.Time) ([]model.MarketData, error)
	GetLatest(ctx context.Context, symbol string, limit int) ([]model.MarketData, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type marketDataRepository struct {
	db *gorm.DB
}

func NewMarketDataRepository(db *gorm.DB) MarketDataRepository {
	return &marketDataRepository{
		db: db,
	}
}

func (r *marketDataRepository) Create(ctx context.Context, data *model.MarketData, opts ...utils.DBOption) error {
	data.Symbol = utils.NormalizeSymbol(data.Symbol)
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(data).Error
}

func (r *marketDataRepository) CreateBatch(ctx context.Context, data []model.MarketData, opts ...utils.DBOption) error {
	if len(data) == 0 {
		return nil
	}
	for i := range data {
		data[i].Symbol = utils.NormalizeSymbol(data[i].Symbol)
	}
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(&data).Error
}

// GetRecent returns rows for symbol with timestamp >= since, newest first.
func (r *marketDataRepository) GetRecent(ctx context.Context, symbol string, since time.Time) ([]model.MarketData, error) {
	var rows []model.MarketData

	err := r.db.WithContext(ctx).
		Where("symbol = ? AND timestamp >= ?", utils.NormalizeSymbol(symbol), since).
		Order("timestamp DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *marketDataRepository) GetLatest(ctx context.Context, symbol string, limit int) ([]model.MarketData, error) {
	var rows []model.MarketData

	err := r.db.WithContext(ctx).
		Where("symbol = ?", utils.NormalizeSymbol(symbol)).
		Order("timestamp DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *marketDataRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&model.MarketData{})
	return result.RowsAffected, result.Error
}
