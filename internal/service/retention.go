package service

import (
	"context"
	"time"

	"finsight-trading/config"
	"finsight-trading/internal/repository"
	"finsight-trading/pkg/logger"

	"github.com/robfig/cron/v3"
)

// RetentionService periodically deletes market data rows older than the
// configured retention window. Disabled when retention_days <= 0.
type RetentionService interface {
	Start() error
	Stop()
	SweepOnce(ctx context.Context) (int64, error)
}

type retentionService struct {
	cfg            *config.Config
	log            *logger.Logger
	marketDataRepo repository.MarketDataRepository
	cron           *cron.Cron
}

func NewRetentionService(cfg *config.Config, log *logger.Logger, marketDataRepo repository.MarketDataRepository) RetentionService {
	return &retentionService{
		cfg:            cfg,
		log:            log,
		marketDataRepo: marketDataRepo,
		cron:           cron.New(),
	}
}

func (s *retentionService) Start() error {
	if s.cfg.Market.RetentionDays <= 0 {
		s.log.Info("Market data retention sweep disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.Market.RetentionSchedule, func() {
		if _, err := s.SweepOnce(context.Background()); err != nil {
			s.log.Error("Retention sweep failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("Started market data retention sweep",
		logger.StringField("schedule", s.cfg.Market.RetentionSchedule),
		logger.IntField("retention_days", s.cfg.Market.RetentionDays),
	)
	return nil
}

func (s *retentionService) Stop() {
	s.cron.Stop()
}

func (s *retentionService) SweepOnce(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.cfg.Market.RetentionDays)
	deleted, err := s.marketDataRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.log.InfoContext(ctx, "Retention sweep completed",
		logger.Field("cutoff", cutoff),
		logger.Field("deleted", deleted),
	)
	return deleted, nil
}
