package service

import (
	"finsight-trading/config"
	"finsight-trading/internal/repository"
	"finsight-trading/pkg/cache"
	"finsight-trading/pkg/logger"
)

type Service struct {
	AuthService      AuthService
	MarketService    MarketService
	PortfolioService PortfolioService
	RetentionService RetentionService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
) *Service {
	return &Service{
		AuthService:      NewAuthService(cfg, log, repo.SchwabRepo),
		MarketService:    NewMarketService(cfg, log, repo.SchwabRepo, repo.MarketDataRepo, repo.SignalRepo, inmemoryCache),
		PortfolioService: NewPortfolioService(cfg, log, repo.PortfolioRepo, repo.PositionRepo, repo.TradeRepo, repo.UnitOfWork),
		RetentionService: NewRetentionService(cfg, log, repo.MarketDataRepo),
	}
}
