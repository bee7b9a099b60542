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

type PositionRepository interface {
	Get(ctx context.Context, param model.GetPositionsParam) ([]model.Position, error)
	GetBySymbol(ctx context.Context, symbol string) (*model.Position, error)
	Create(ctx context.Context, position *model.Position, opts ...utils.DBOption) error
	Update(ctx context.Context, position *model.Position, opts ...utils.DBOption) error
}

type positionRepository struct {
	db *gorm.DB
}

func NewPositionRepository(db *gorm.DB) PositionRepository {
	return &positionRepository{
		db: db,
	}
}

func (r *positionRepository) Get(ctx context.Context, param model.GetPositionsParam) ([]model.Position, error) {
	var positions []model.Position

	q := r.db.WithContext(ctx)
	if param.PortfolioID != nil {
		q = q.Where("portfolio_id = ?", *param.PortfolioID)
	}
	if param.Symbol != nil {
		q = q.Where("symbol = ?", utils.NormalizeSymbol(*param.Symbol))
	}

	if err := q.Order("symbol ASC").Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

func (r *positionRepository) GetBySymbol(ctx context.Context, symbol string) (*model.Position, error) {
	var position model.Position

	normalized := utils.NormalizeSymbol(symbol)
	err := r.db.WithContext(ctx).Where("symbol = ?", normalized).First(&position).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: position not found for symbol %s", common.ErrNotFound, normalized)
	}
	if err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *positionRepository) Create(ctx context.Context, position *model.Position, opts ...utils.DBOption) error {
	position.Symbol = utils.NormalizeSymbol(position.Symbol)
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(position).Error
}

func (r *positionRepository) Update(ctx context.Context, position *model.Position, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Updates(position).Error
}
