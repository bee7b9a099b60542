package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"finsight-trading/internal/dto"
	"finsight-trading/internal/model"
	"finsight-trading/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Portfolio{},
		&model.Position{},
		&model.Trade{},
		&model.MarketData{},
		&model.Strategy{},
		&model.TradingSignal{},
		&model.TechnicalIndicator{},
		&model.NewsEvent{},
	))
	return db
}

// fakeSchwabRepo is a scripted in-memory stand-in for the brokerage gateway.
type fakeSchwabRepo struct {
	configured    bool
	authenticated bool
	initErr       error

	quotes     map[string]dto.Quote
	quoteCalls int
	accounts   []dto.Account
	history    *dto.PriceHistory

	exchangedCode string
	refreshed     bool
	loggedOut     bool

	streamSymbols []string
	streamHandler repository.StreamHandler
	streamStopped bool
}

func (f *fakeSchwabRepo) IsConfigured() bool { return f.configured }

func (f *fakeSchwabRepo) InitializeClient(ctx context.Context) error { return f.initErr }

func (f *fakeSchwabRepo) GetAuthorizationURL() string {
	if !f.configured {
		return ""
	}
	return "https://api.example.com/v1/oauth/authorize?client_id=test"
}

func (f *fakeSchwabRepo) ExchangeCode(ctx context.Context, code string) error {
	f.exchangedCode = code
	f.authenticated = true
	return nil
}

func (f *fakeSchwabRepo) IsAuthenticated(ctx context.Context) bool { return f.authenticated }

func (f *fakeSchwabRepo) RefreshToken(ctx context.Context) error {
	f.refreshed = true
	return nil
}

func (f *fakeSchwabRepo) Logout(ctx context.Context) error {
	f.loggedOut = true
	f.authenticated = false
	return nil
}

func (f *fakeSchwabRepo) GetAccounts(ctx context.Context) ([]dto.Account, error) {
	return f.accounts, nil
}

func (f *fakeSchwabRepo) GetQuotes(ctx context.Context, symbols []string) (map[string]dto.Quote, error) {
	f.quoteCalls++
	return f.quotes, nil
}

func (f *fakeSchwabRepo) GetPriceHistory(ctx context.Context, symbol, periodType string, period int) (*dto.PriceHistory, error) {
	return f.history, nil
}

func (f *fakeSchwabRepo) StartStream(ctx context.Context, symbols []string, handler repository.StreamHandler) error {
	f.streamSymbols = symbols
	f.streamHandler = handler
	return nil
}

func (f *fakeSchwabRepo) StopStream() { f.streamStopped = true }
