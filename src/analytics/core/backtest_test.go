package core

import (
	"testing"

	"github.com/jhchoi91066/system-trading-sub000/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

func trade(ts int64, side string, capitalAfter float64) models.MTradeRecord {
	return models.MTradeRecord{
		Timestamp:    ts,
		Side:         side,
		Amount:       1,
		Price:        100,
		CapitalAfter: capitalAfter,
	}
}

// -----------------------------------------------------------------------------

func TestComputeSummary_ReferenceCase(t *testing.T) {
	trades := []models.MTradeRecord{
		trade(1000, models.TradeSideBuy, 10000),
		trade(2000, models.TradeSideSell, 10500),
		trade(3000, models.TradeSideSell, 10200),
	}

	s := ComputeSummary(10000, trades)

	assert.Equal(t, 3, s.TotalTrades)
	assert.Equal(t, 1, s.WinningTrades)
	assert.Equal(t, 1, s.LosingTrades)
	assert.InDelta(t, 100.0, s.WinRate, 1e-9) // one round trip, one win
	assert.InDelta(t, 10200.0, s.FinalCapital, 1e-9)
	assert.InDelta(t, 200.0, s.ProfitLoss, 1e-9)
	assert.InDelta(t, 2.0, s.ProfitLossPercent, 1e-9)
	// Peak 10500, trough 10200: (10500-10200)/10500*100
	assert.InDelta(t, 2.857142857142857, s.MaxDrawdown, 1e-9)

	require.Len(t, s.EquityCurve, 3)
	require.Len(t, s.DrawdownCurve, 3)
	assert.Equal(t, int64(2000), s.EquityCurve[1].Timestamp)
	assert.InDelta(t, 10500.0, s.EquityCurve[1].Value, 1e-9)
	assert.InDelta(t, 0.0, s.DrawdownCurve[1].Value, 1e-9)
	assert.InDelta(t, 2.857142857142857, s.DrawdownCurve[2].Value, 1e-9)
}

// -----------------------------------------------------------------------------

func TestComputeSummary_EmptyLog(t *testing.T) {
	s := ComputeSummary(10000, nil)

	assert.Equal(t, 0, s.TotalTrades)
	assert.Equal(t, 0, s.WinningTrades)
	assert.Equal(t, 0, s.LosingTrades)
	assert.Zero(t, s.WinRate)
	assert.Zero(t, s.MaxDrawdown)
	assert.InDelta(t, 10000.0, s.FinalCapital, 1e-9)
	assert.Zero(t, s.ProfitLoss)
	assert.Zero(t, s.ProfitLossPercent)
	assert.Empty(t, s.EquityCurve)
	assert.Empty(t, s.DrawdownCurve)
}

// -----------------------------------------------------------------------------

func TestComputeSummary_Classification(t *testing.T) {
	t.Run("first trade is never classified even as a sell", func(t *testing.T) {
		s := ComputeSummary(10000, []models.MTradeRecord{
			trade(1000, models.TradeSideSell, 12000),
		})
		assert.Equal(t, 0, s.WinningTrades)
		assert.Equal(t, 0, s.LosingTrades)
	})

	t.Run("buys are never classified", func(t *testing.T) {
		s := ComputeSummary(10000, []models.MTradeRecord{
			trade(1000, models.TradeSideBuy, 10000),
			trade(2000, models.TradeSideBuy, 11000),
			trade(3000, models.TradeSideBuy, 9000),
		})
		assert.Equal(t, 0, s.WinningTrades)
		assert.Equal(t, 0, s.LosingTrades)
	})

	t.Run("unchanged capital on a sell counts as neither", func(t *testing.T) {
		s := ComputeSummary(10000, []models.MTradeRecord{
			trade(1000, models.TradeSideBuy, 10000),
			trade(2000, models.TradeSideSell, 10000),
		})
		assert.Equal(t, 0, s.WinningTrades)
		assert.Equal(t, 0, s.LosingTrades)
	})

	t.Run("win rate can exceed 100 when sells outnumber round trips", func(t *testing.T) {
		s := ComputeSummary(10000, []models.MTradeRecord{
			trade(1000, models.TradeSideBuy, 10000),
			trade(2000, models.TradeSideSell, 10100),
			trade(3000, models.TradeSideSell, 10200),
		})
		// Three trades floor to one round trip but carry two winning sells.
		assert.Equal(t, 2, s.WinningTrades)
		assert.InDelta(t, 200.0, s.WinRate, 1e-9)
	})

	t.Run("odd trailing trade does not add a round trip", func(t *testing.T) {
		s := ComputeSummary(10000, []models.MTradeRecord{
			trade(1000, models.TradeSideBuy, 10000),
			trade(2000, models.TradeSideSell, 10100),
			trade(3000, models.TradeSideBuy, 10100),
			trade(4000, models.TradeSideSell, 10300),
			trade(5000, models.TradeSideBuy, 10300),
		})
		// floor(5/2) = 2 round trips, 2 wins
		assert.Equal(t, 2, s.WinningTrades)
		assert.InDelta(t, 100.0, s.WinRate, 1e-9)
	})
}

// -----------------------------------------------------------------------------

func TestComputeSummary_Drawdown(t *testing.T) {
	t.Run("zero peak yields zero drawdown instead of dividing", func(t *testing.T) {
		s := ComputeSummary(0, []models.MTradeRecord{
			trade(1000, models.TradeSideBuy, 0),
			trade(2000, models.TradeSideSell, 0),
		})
		assert.Zero(t, s.MaxDrawdown)
		for _, p := range s.DrawdownCurve {
			assert.Zero(t, p.Value)
		}
	})

	t.Run("monotonically rising equity never draws down", func(t *testing.T) {
		s := ComputeSummary(10000, []models.MTradeRecord{
			trade(1000, models.TradeSideBuy, 10100),
			trade(2000, models.TradeSideSell, 10400),
			trade(3000, models.TradeSideBuy, 10500),
		})
		assert.Zero(t, s.MaxDrawdown)
	})

	t.Run("peak does not reset after recovery", func(t *testing.T) {
		s := ComputeSummary(10000, []models.MTradeRecord{
			trade(1000, models.TradeSideBuy, 12000),
			trade(2000, models.TradeSideSell, 9000),
			trade(3000, models.TradeSideBuy, 11000),
			trade(4000, models.TradeSideSell, 8000),
		})
		// Peak stays 12000 throughout: worst point is (12000-8000)/12000
		assert.InDelta(t, 33.33333333333333, s.MaxDrawdown, 1e-9)
		assert.InDelta(t, 25.0, s.DrawdownCurve[1].Value, 1e-9)
		assert.InDelta(t, 8.333333333333332, s.DrawdownCurve[2].Value, 1e-9)
	})

	t.Run("capital below initial draws down against the initial peak", func(t *testing.T) {
		s := ComputeSummary(10000, []models.MTradeRecord{
			trade(1000, models.TradeSideBuy, 9000),
		})
		assert.InDelta(t, 10.0, s.MaxDrawdown, 1e-9)
	})
}

// -----------------------------------------------------------------------------

func TestComputeSummary_ZeroInitialCapitalPercent(t *testing.T) {
	s := ComputeSummary(0, []models.MTradeRecord{
		trade(1000, models.TradeSideBuy, 500),
	})
	assert.InDelta(t, 500.0, s.ProfitLoss, 1e-9)
	assert.Zero(t, s.ProfitLossPercent)
}
