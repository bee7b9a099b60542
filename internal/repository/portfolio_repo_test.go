package repository

import (
	"context"
	"testing"

	"finsight-trading/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortfolioRepository_GetOrCreate(t *testing.T) {
	db := newTestDB(t)
	repo := NewPortfolioRepository(db)
	ctx := context.Background()

	t.Run("seeds default portfolio when table is empty", func(t *testing.T) {
		portfolio, err := repo.GetOrCreate(ctx)
		require.NoError(t, err)

		assert.NotZero(t, portfolio.ID)
		assert.Equal(t, float64(model.SeedTotalValue), portfolio.TotalValue)
		assert.Equal(t, float64(model.SeedCashBalance), portfolio.CashBalance)
		assert.Equal(t, float64(model.SeedInvestedValue), portfolio.InvestedValue)
		assert.Zero(t, portfolio.TotalPnl)
		assert.Zero(t, portfolio.DailyPnl)
	})

	t.Run("returns the same row on subsequent calls", func(t *testing.T) {
		first, err := repo.GetOrCreate(ctx)
		require.NoError(t, err)

		second, err := repo.GetOrCreate(ctx)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		var count int64
		require.NoError(t, db.Model(&model.Portfolio{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestPortfolioRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := NewPortfolioRepository(db)
	ctx := context.Background()

	portfolio, err := repo.GetOrCreate(ctx)
	require.NoError(t, err)

	portfolio.TotalPnl = 1234.56
	portfolio.DailyPnl = -42.10
	require.NoError(t, repo.Update(ctx, portfolio))

	reloaded, err := repo.GetOrCreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1234.56, reloaded.TotalPnl)
	assert.Equal(t, -42.10, reloaded.DailyPnl)
}
