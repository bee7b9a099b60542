package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finsight-trading/config"
	"finsight-trading/internal/dto"
	"finsight-trading/internal/model"
	"finsight-trading/internal/repository"
	"finsight-trading/pkg/cache"
	"finsight-trading/pkg/common"
	"finsight-trading/pkg/logger"
	"finsight-trading/pkg/utils"
)

const storedHistoryLimit = 100

type MarketService interface {
	TestConnection(ctx context.Context) (*dto.ConnectionTestResponse, error)
	GetQuotes(ctx context.Context, symbols string) (*dto.QuotesResponse, error)
	GetHistory(ctx context.Context, symbol, periodType string, period int) (*dto.HistoryResponse, error)
	GetAccounts(ctx context.Context) ([]dto.Account, error)
	GetRecentData(ctx context.Context, symbol string, hours int) ([]dto.MarketDataResponse, error)
	GetRecentSignals(ctx context.Context, limit int) ([]dto.SignalResponse, error)
	StartStream(ctx context.Context, symbols []string) error
	StopStream()
}

type marketService struct {
	cfg            *config.Config
	log            *logger.Logger
	schwabRepo     repository.SchwabRepository
	marketDataRepo repository.MarketDataRepository
	signalRepo     repository.SignalRepository
	inmemoryCache  cache.Cache
}

func NewMarketService(
	cfg *config.Config,
	log *logger.Logger,
	schwabRepo repository.SchwabRepository,
	marketDataRepo repository.MarketDataRepository,
	signalRepo repository.SignalRepository,
	inmemoryCache cache.Cache,
) MarketService {
	return &marketService{
		cfg:            cfg,
		log:            log,
		schwabRepo:     schwabRepo,
		marketDataRepo: marketDataRepo,
		signalRepo:     signalRepo,
		inmemoryCache:  inmemoryCache,
	}
}

func (s *marketService) TestConnection(ctx context.Context) (*dto.ConnectionTestResponse, error) {
	if !s.schwabRepo.IsConfigured() {
		return &dto.ConnectionTestResponse{
			Status:         "unavailable",
			Message:        "Schwab API service not configured. Please set APP_KEY and APP_SECRET.",
			ConnectionTime: time.Now().UTC(),
		}, nil
	}

	if err := s.schwabRepo.InitializeClient(ctx); err != nil {
		return nil, err
	}

	accounts, err := s.schwabRepo.GetAccounts(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.ConnectionTestResponse{
		Status:         "success",
		Message:        "Successfully connected to Schwab API",
		AccountsFound:  len(accounts),
		ConnectionTime: time.Now().UTC(),
	}, nil
}

// GetQuotes takes a comma-separated symbol list. Results are cached for a few
// seconds to keep dashboard polling off the vendor API.
func (s *marketService) GetQuotes(ctx context.Context, symbols string) (*dto.QuotesResponse, error) {
	symbolList := utils.NormalizeSymbols(strings.Split(symbols, ","))
	if len(symbolList) == 0 {
		return nil, fmt.Errorf("%w: no symbols provided", common.ErrValidation)
	}

	cacheKey := fmt.Sprintf(common.KeyQuotes, strings.Join(symbolList, ","))
	if cached, found := cache.GetFromCache[map[string]dto.Quote](cacheKey); found {
		return &dto.QuotesResponse{
			Status:    "success",
			Symbols:   symbolList,
			Quotes:    cached,
			Timestamp: time.Now().UTC(),
		}, nil
	}

	if err := s.schwabRepo.InitializeClient(ctx); err != nil {
		return nil, err
	}

	quotes, err := s.schwabRepo.GetQuotes(ctx, symbolList)
	if err != nil {
		return nil, err
	}
	s.inmemoryCache.Set(cacheKey, quotes, s.cfg.Cache.QuoteExpiration)

	return &dto.QuotesResponse{
		Status:    "success",
		Symbols:   symbolList,
		Quotes:    quotes,
		Timestamp: time.Now().UTC(),
	}, nil
}

// GetHistory returns the vendor's historical data alongside the most recently
// stored rows for the symbol.
func (s *marketService) GetHistory(ctx context.Context, symbol, periodType string, period int) (*dto.HistoryResponse, error) {
	if err := s.schwabRepo.InitializeClient(ctx); err != nil {
		return nil, err
	}

	normalized := utils.NormalizeSymbol(symbol)
	history, err := s.schwabRepo.GetPriceHistory(ctx, normalized, periodType, period)
	if err != nil {
		return nil, err
	}

	stored, err := s.marketDataRepo.GetLatest(ctx, normalized, storedHistoryLimit)
	if err != nil {
		return nil, err
	}

	return &dto.HistoryResponse{
		Status:         "success",
		Symbol:         normalized,
		HistoricalData: history,
		StoredData:     toMarketDataResponses(stored),
		Timestamp:      time.Now().UTC(),
	}, nil
}

func (s *marketService) GetAccounts(ctx context.Context) ([]dto.Account, error) {
	if err := s.schwabRepo.InitializeClient(ctx); err != nil {
		return nil, err
	}
	return s.schwabRepo.GetAccounts(ctx)
}

func (s *marketService) GetRecentData(ctx context.Context, symbol string, hours int) ([]dto.MarketDataResponse, error) {
	if hours <= 0 {
		hours = 24
	}
	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)

	rows, err := s.marketDataRepo.GetRecent(ctx, symbol, since)
	if err != nil {
		return nil, err
	}
	return toMarketDataResponses(rows), nil
}

func (s *marketService) GetRecentSignals(ctx context.Context, limit int) ([]dto.SignalResponse, error) {
	signals, err := s.signalRepo.GetRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SignalResponse, 0, len(signals))
	for _, signal := range signals {
		out = append(out, dto.SignalResponse{
			ID:          signal.ID,
			StrategyID:  signal.StrategyID,
			Symbol:      signal.Symbol,
			Side:        string(signal.Side),
			Confidence:  signal.Confidence,
			TargetPrice: signal.TargetPrice,
			StopLoss:    signal.StopLoss,
			TakeProfit:  signal.TakeProfit,
			IsExecuted:  signal.IsExecuted,
			CreatedAt:   signal.CreatedAt,
		})
	}
	return out, nil
}

func (s *marketService) StartStream(ctx context.Context, symbols []string) error {
	if err := s.schwabRepo.InitializeClient(ctx); err != nil {
		return err
	}
	return s.schwabRepo.StartStream(ctx, symbols, s.SaveStreamMessage)
}

func (s *marketService) StopStream() {
	s.schwabRepo.StopStream()
}

// SaveStreamMessage appends one MarketData row per level-one content entry.
// It runs on the websocket read goroutine with its own DB work per call; a
// failed save is logged and discarded. The level-one frame carries a last
// trade price but no session open, so price and open_price are both written
// from the last price (known data-fidelity gap, kept from the source).
func (s *marketService) SaveStreamMessage(msg dto.StreamMessage) {
	ctx := context.Background()

	var rows []model.MarketData
	now := time.Now().UTC()
	for _, data := range msg.Data {
		if data.Service != "LEVELONE_EQUITIES" {
			continue
		}
		for _, item := range data.Content {
			if item.Key == "" || item.LastPrice == nil {
				continue
			}
			last := *item.LastPrice

			row := model.MarketData{
				Symbol:    item.Key,
				Price:     last,
				OpenPrice: last,
				High:      last,
				Low:       last,
				Bid:       item.BidPrice,
				Ask:       item.AskPrice,
				Timestamp: now,
			}
			if item.HighPrice != nil {
				row.High = *item.HighPrice
			}
			if item.LowPrice != nil {
				row.Low = *item.LowPrice
			}
			if item.TotalVolume != nil {
				row.Volume = int64(*item.TotalVolume)
			}
			if item.NetChange != nil {
				row.Change = *item.NetChange
				if last != 0 {
					row.ChangePercent = *item.NetChange / last * 100
				}
			}
			rows = append(rows, row)
		}
	}

	if len(rows) == 0 {
		return
	}
	if err := s.marketDataRepo.CreateBatch(ctx, rows); err != nil {
		s.log.Error("Failed to save stream data", logger.ErrorField(err), logger.IntField("rows", len(rows)))
		return
	}
	s.log.Debug("Saved stream data", logger.IntField("rows", len(rows)))
}

func toMarketDataResponses(rows []model.MarketData) []dto.MarketDataResponse {
	out := make([]dto.MarketDataResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.MarketDataResponse{
			ID:            row.ID,
			Symbol:        row.Symbol,
			Price:         row.Price,
			Volume:        row.Volume,
			Open:          row.OpenPrice,
			High:          row.High,
			Low:           row.Low,
			Change:        row.Change,
			ChangePercent: row.ChangePercent,
			Bid:           row.Bid,
			Ask:           row.Ask,
			Timestamp:     row.Timestamp,
		})
	}
	return out
}
