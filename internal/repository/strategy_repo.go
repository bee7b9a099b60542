package repository

import (
	"context"
	"errors"
	"fmt"

	"finsight-trading/internal/model"
	"finsight-trading/pkg/common"
	"finsight-trading/pkg/utils"

	"gorm.io/gorm"
)

type StrategyRepository interface {
	Create(ctx context.Context, strategy *model.Strategy, opts ...utils.DBOption) error
	GetByName(ctx context.Context, name string) (*model.Strategy, error)
	Update(ctx context.Context, strategy *model.Strategy, opts ...utils.DBOption) error
}

type strategyRepository struct {
	db *gorm.DB
}

func NewStrategyRepository(db *gorm.DB) StrategyRepository {
	return &strategyRepository{
		db: db,
	}
}

func (r *strategyRepository) Create(ctx context.Context, strategy *model.Strategy, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(strategy).Error
}

func (r *strategyRepository) GetByName(ctx context.Context, name string) (*model.Strategy, error) {
	var strategy model.Strategy

	err := r.db.WithContext(ctx).Where("name = ?", name).First(&strategy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: strategy %q", common.ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return &strategy, nil
}

func (r *strategyRepository) Update(ctx context.Context, strategy *model.Strategy, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Updates(strategy).Error
}
