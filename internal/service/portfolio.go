package service

import (
	"context"

	"finsight-trading/config"
	"finsight-trading/internal/dto"
	"finsight-trading/internal/model"
	"finsight-trading/internal/repository"
	"finsight-trading/pkg/logger"
	"finsight-trading/pkg/utils"
)

type PortfolioService interface {
	GetPortfolio(ctx context.Context) (*dto.PortfolioResponse, error)
	GetTrades(ctx context.Context, limit int) ([]dto.TradeResponse, error)
	GetPositions(ctx context.Context) ([]dto.PositionResponse, error)
	GetPositionBySymbol(ctx context.Context, symbol string) (*dto.PositionResponse, error)
	CreateTrade(ctx context.Context, req *dto.CreateTradeRequest) (*dto.TradeResponse, error)
}

type portfolioService struct {
	cfg           *config.Config
	log           *logger.Logger
	portfolioRepo repository.PortfolioRepository
	positionRepo  repository.PositionRepository
	tradeRepo     repository.TradeRepository
	uow           repository.UnitOfWork
}

func NewPortfolioService(
	cfg *config.Config,
	log *logger.Logger,
	portfolioRepo repository.PortfolioRepository,
	positionRepo repository.PositionRepository,
	tradeRepo repository.TradeRepository,
	uow repository.UnitOfWork,
) PortfolioService {
	return &portfolioService{
		cfg:           cfg,
		log:           log,
		portfolioRepo: portfolioRepo,
		positionRepo:  positionRepo,
		tradeRepo:     tradeRepo,
		uow:           uow,
	}
}

func (s *portfolioService) GetPortfolio(ctx context.Context) (*dto.PortfolioResponse, error) {
	portfolio, err := s.portfolioRepo.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	positions, err := s.positionRepo.Get(ctx, model.GetPositionsParam{PortfolioID: &portfolio.ID})
	if err != nil {
		return nil, err
	}

	return &dto.PortfolioResponse{
		TotalValue:    portfolio.TotalValue,
		CashBalance:   portfolio.CashBalance,
		InvestedValue: portfolio.InvestedValue,
		Positions:     toPositionResponses(positions),
		Performance:   ComputePerformance(portfolio),
	}, nil
}

// ComputePerformance derives pnl percentages from the portfolio's total
// value. A non-positive total value yields 0 rather than a division error.
func ComputePerformance(portfolio *model.Portfolio) dto.PerformanceResponse {
	performance := dto.PerformanceResponse{
		DailyPnl: portfolio.DailyPnl,
		TotalPnl: portfolio.TotalPnl,
	}
	if portfolio.TotalValue > 0 {
		performance.DailyPnlPercent = portfolio.DailyPnl / portfolio.TotalValue * 100
		performance.TotalPnlPercent = portfolio.TotalPnl / portfolio.TotalValue * 100
	}
	return performance
}

func (s *portfolioService) GetTrades(ctx context.Context, limit int) ([]dto.TradeResponse, error) {
	trades, err := s.tradeRepo.GetRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.TradeResponse, 0, len(trades))
	for _, trade := range trades {
		out = append(out, toTradeResponse(trade))
	}
	return out, nil
}

func (s *portfolioService) GetPositions(ctx context.Context) ([]dto.PositionResponse, error) {
	positions, err := s.positionRepo.Get(ctx, model.GetPositionsParam{})
	if err != nil {
		return nil, err
	}
	return toPositionResponses(positions), nil
}

func (s *portfolioService) GetPositionBySymbol(ctx context.Context, symbol string) (*dto.PositionResponse, error) {
	position, err := s.positionRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}

	response := toPositionResponse(*position)
	return &response, nil
}

// CreateTrade records a pending trade against the (first-or-created)
// portfolio. total_amount is derived as quantity x price.
func (s *portfolioService) CreateTrade(ctx context.Context, req *dto.CreateTradeRequest) (*dto.TradeResponse, error) {
	portfolio, err := s.portfolioRepo.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	trade := model.Trade{
		PortfolioID:     portfolio.ID,
		Symbol:          utils.NormalizeSymbol(req.Symbol),
		Side:            model.TradeSide(req.Side),
		Quantity:        req.Quantity,
		Price:           req.Price,
		TotalAmount:     req.Quantity * req.Price,
		Status:          model.TradeStatusPending,
		ConfidenceScore: req.ConfidenceScore,
	}
	if req.Strategy != nil {
		strategy := model.StrategyType(*req.Strategy)
		trade.Strategy = &strategy
	}

	err = s.uow.Run(func(opts ...utils.DBOption) error {
		return s.tradeRepo.Create(ctx, &trade, opts...)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Created trade",
		logger.StringField("symbol", trade.Symbol),
		logger.StringField("side", string(trade.Side)),
	)
	response := toTradeResponse(trade)
	return &response, nil
}

func toPositionResponse(position model.Position) dto.PositionResponse {
	return dto.PositionResponse{
		Symbol:        position.Symbol,
		Shares:        position.Shares,
		AvgCost:       position.AvgCost,
		CurrentPrice:  position.CurrentPrice,
		MarketValue:   position.MarketValue,
		UnrealizedPnl: position.UnrealizedPnl,
	}
}

func toPositionResponses(positions []model.Position) []dto.PositionResponse {
	out := make([]dto.PositionResponse, 0, len(positions))
	for _, position := range positions {
		out = append(out, toPositionResponse(position))
	}
	return out
}

func toTradeResponse(trade model.Trade) dto.TradeResponse {
	response := dto.TradeResponse{
		ID:              trade.ID,
		Symbol:          trade.Symbol,
		Side:            string(trade.Side),
		Quantity:        trade.Quantity,
		Price:           trade.Price,
		TotalAmount:     trade.TotalAmount,
		Status:          string(trade.Status),
		ConfidenceScore: trade.ConfidenceScore,
		ExecutedAt:      trade.ExecutedAt,
		CreatedAt:       trade.CreatedAt,
	}
	if trade.Strategy != nil {
		strategy := string(*trade.Strategy)
		response.Strategy = &strategy
	}
	return response
}
