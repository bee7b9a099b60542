package repository

import (
	"context"

	"finsight-trading/internal/model"
	"finsight-trading/pkg/utils"

	"gorm.io/gorm"
)

const defaultNewsLimit = 50

type NewsRepository interface {
	Create(ctx context.Context, event *model.NewsEvent, opts ...utils.DBOption) error
	GetRecent(ctx context.Context, limit int) ([]model.NewsEvent, error)
}

type newsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{
		db: db,
	}
}

func (r *newsRepository) Create(ctx context.Context, event *model.NewsEvent, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(event).Error
}

func (r *newsRepository) GetRecent(ctx context.Context, limit int) ([]model.NewsEvent, error) {
	var events []model.NewsEvent

	if limit <= 0 {
		limit = defaultNewsLimit
	}

	if err := r.db.WithContext(ctx).Order("published_at DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
