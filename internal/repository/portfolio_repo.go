package repository

import (
	"context"
	"errors"

	"finsight-trading/internal/model"
	"finsight-trading/pkg/utils"

	"gorm.io/gorm"
)

type PortfolioRepository interface {
	GetOrCreate(ctx context.Context) (*model.Portfolio, error)
	Update(ctx context.Context, portfolio *model.Portfolio, opts ...utils.DBOption) error
}

type portfolioRepository struct {
	db *gorm.DB
}

func NewPortfolioRepository(db *gorm.DB) PortfolioRepository {
	return &portfolioRepository{
		db: db,
	}
}

// GetOrCreate returns the first portfolio row, inserting the seed row when
// none exists. Concurrent first calls can race and insert duplicate seed
// rows; the ordered First keeps subsequent reads stable. Known limitation.
func (r *portfolioRepository) GetOrCreate(ctx context.Context) (*model.Portfolio, error) {
	var portfolio model.Portfolio

	err := r.db.WithContext(ctx).Order("id ASC").First(&portfolio).Error
	if err == nil {
		return &portfolio, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	portfolio = model.Portfolio{
		TotalValue:    model.SeedTotalValue,
		CashBalance:   model.SeedCashBalance,
		InvestedValue: model.SeedInvestedValue,
		TotalPnl:      0,
		DailyPnl:      0,
	}
	if err := r.db.WithContext(ctx).Create(&portfolio).Error; err != nil {
		return nil, err
	}
	return &portfolio, nil
}

func (r *portfolioRepository) Update(ctx context.Context, portfolio *model.Portfolio, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Updates(portfolio).Error
}
