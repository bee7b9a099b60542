package repository

import (
	"finsight-trading/config"
	"finsight-trading/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	PortfolioRepo  PortfolioRepository
	PositionRepo   PositionRepository
	TradeRepo      TradeRepository
	MarketDataRepo MarketDataRepository
	StrategyRepo   StrategyRepository
	SignalRepo     SignalRepository
	IndicatorRepo  IndicatorRepository
	NewsRepo       NewsRepository
	SchwabRepo     SchwabRepository
	UnitOfWork     UnitOfWork
}

func NewRepository(cfg *config.Config, db *gorm.DB, log *logger.Logger) (*Repository, error) {
	schwabRepo, err := NewSchwabRepository(cfg, log)
	if err != nil {
		return nil, err
	}

	return &Repository{
		PortfolioRepo:  NewPortfolioRepository(db),
		PositionRepo:   NewPositionRepository(db),
		TradeRepo:      NewTradeRepository(db),
		MarketDataRepo: NewMarketDataRepository(db),
		StrategyRepo:   NewStrategyRepository(db),
		SignalRepo:     NewSignalRepository(db),
		IndicatorRepo:  NewIndicatorRepository(db),
		NewsRepo:       NewNewsRepository(db),
		SchwabRepo:     schwabRepo,
		UnitOfWork:     NewUnitOfWork(db),
	}, nil
}
