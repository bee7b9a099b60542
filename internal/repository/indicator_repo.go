package repository

import (
	"context"
	"time"

	"finsight-trading/internal/model"
	"finsight-trading/pkg/utils"

	"gorm.io/gorm"
)

type IndicatorRepository interface {
	Create(ctx context.Context, indicator *model.TechnicalIndicator, opts ...utils.DBOption) error
	GetRecent(ctx context.Context, symbol string, since time.Time) ([]model.TechnicalIndicator, error)
}

type indicatorRepository struct {
	db *gorm.DB
}

func NewIndicatorRepository(db *gorm.DB) IndicatorRepository {
	return &indicatorRepository{
		db: db,
	}
}

func (r *indicatorRepository) Create(ctx context.Context, indicator *model.TechnicalIndicator, opts ...utils.DBOption) error {
	indicator.Symbol = utils.NormalizeSymbol(indicator.Symbol)
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(indicator).Error
}

func (r *indicatorRepository) GetRecent(ctx context.Context, symbol string, since time.Time) ([]model.TechnicalIndicator, error) {
	var indicators []model.TechnicalIndicator

	err := r.db.WithContext(ctx).
		Where("symbol = ? AND timestamp >= ?", utils.NormalizeSymbol(symbol), since).
		Order("timestamp DESC").
		Find(&indicators).Error
	if err != nil {
		return nil, err
	}
	return indicators, nil
}
