package repository

import (
	"fmt"
	"strings"
	"testing"

	"finsight-trading/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory sqlite database migrated with the
// full schema. Each test gets its own named database so parallel tests do
// not share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
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
