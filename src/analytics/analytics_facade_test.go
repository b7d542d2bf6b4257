package analytics

import (
	"testing"

	"github.com/jhchoi91066/system-trading-sub000/src/helpers"
	"github.com/jhchoi91066/system-trading-sub000/src/logger"
	"github.com/jhchoi91066/system-trading-sub000/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

func newTestFacade(t *testing.T) *AnalyticsFacade {
	t.Helper()

	cfg := &models.MConfig{
		Name:      "facade-test",
		Analytics: models.MAnalyticsConfig{InitialCapital: 10000},
	}
	return NewAnalyticsFacade(cfg, logger.NewLogger("ERROR", "AnalyticsTest"))
}

// -----------------------------------------------------------------------------

func TestRunBacktest(t *testing.T) {
	facade := newTestFacade(t)

	trades := []models.MTradeRecord{
		{Timestamp: 1000, Side: models.TradeSideBuy, Amount: 1, Price: 100, CapitalAfter: 10000},
		{Timestamp: 2000, Side: models.TradeSideSell, Amount: 1, Price: 105, CapitalAfter: 10500},
	}

	t.Run("explicit initial capital", func(t *testing.T) {
		s, err := facade.RunBacktest(10000, trades)
		require.NoError(t, err)
		assert.InDelta(t, 10500.0, s.FinalCapital, 1e-9)
		assert.InDelta(t, 500.0, s.ProfitLoss, 1e-9)
	})

	t.Run("falls back to configured capital when non-positive", func(t *testing.T) {
		s, err := facade.RunBacktest(0, trades)
		require.NoError(t, err)
		assert.InDelta(t, 500.0, s.ProfitLoss, 1e-9)
		assert.InDelta(t, 5.0, s.ProfitLossPercent, 1e-9)
	})

	t.Run("rejects invalid side", func(t *testing.T) {
		bad := []models.MTradeRecord{
			{Timestamp: 1000, Side: "hold", Amount: 1, Price: 100, CapitalAfter: 10000},
		}
		_, err := facade.RunBacktest(10000, bad)
		require.Error(t, err)
		var vErr *helpers.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("rejects non-positive amount and price", func(t *testing.T) {
		for _, bad := range []models.MTradeRecord{
			{Timestamp: 1000, Side: models.TradeSideBuy, Amount: 0, Price: 100, CapitalAfter: 10000},
			{Timestamp: 1000, Side: models.TradeSideBuy, Amount: 1, Price: 0, CapitalAfter: 10000},
		} {
			_, err := facade.RunBacktest(10000, []models.MTradeRecord{bad})
			assert.Error(t, err)
		}
	})
}

// -----------------------------------------------------------------------------

func TestComputeDistribution(t *testing.T) {
	facade := newTestFacade(t)

	t.Run("empty log", func(t *testing.T) {
		d := facade.ComputeDistribution(nil)
		assert.Zero(t, d.SampleSize)
		assert.Zero(t, d.Mean)
	})

	t.Run("per-sell deltas", func(t *testing.T) {
		trades := []models.MTradeRecord{
			{Timestamp: 1000, Side: models.TradeSideBuy, Amount: 1, Price: 100, CapitalAfter: 10000},
			{Timestamp: 2000, Side: models.TradeSideSell, Amount: 1, Price: 105, CapitalAfter: 10500},
			{Timestamp: 3000, Side: models.TradeSideBuy, Amount: 1, Price: 104, CapitalAfter: 10500},
			{Timestamp: 4000, Side: models.TradeSideSell, Amount: 1, Price: 101, CapitalAfter: 10200},
		}

		d := facade.ComputeDistribution(trades)
		assert.Equal(t, 2, d.SampleSize)
		assert.InDelta(t, 100.0, d.Mean, 1e-9) // (+500 - 300) / 2
		assert.InDelta(t, 500.0, d.Best, 1e-9)
		assert.InDelta(t, -300.0, d.Worst, 1e-9)
	})
}
