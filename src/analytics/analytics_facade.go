package analytics

import (
	"fmt"
	"time"

	"github.com/jhchoi91066/system-trading-sub000/src/analytics/core"
	"github.com/jhchoi91066/system-trading-sub000/src/helpers"
	"github.com/jhchoi91066/system-trading-sub000/src/logger"
	"github.com/jhchoi91066/system-trading-sub000/src/models"
)

type AnalyticsFacade struct {
	Config *models.MConfig
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewAnalyticsFacade(cfg *models.MConfig, log *logger.Logger) *AnalyticsFacade {
	return &AnalyticsFacade{
		Config: cfg,
		Logger: log,
	}
}

// -----------------------------------------------------------------------------

// RunBacktest validates the trade log and computes the full summary.
// initialCapital <= 0 falls back to the configured default.
func (a *AnalyticsFacade) RunBacktest(initialCapital float64, trades []models.MTradeRecord) (models.MBacktestSummary, error) {
	if initialCapital <= 0 {
		initialCapital = a.Config.Analytics.InitialCapital
	}

	if err := ValidateTrades(trades); err != nil {
		return models.MBacktestSummary{}, err
	}

	start := time.Now()
	summary := core.ComputeSummary(initialCapital, trades)
	elapsed := time.Since(start)

	a.Logger.Info("Backtest over %d trades computed in %v (final capital %.2f, max drawdown %.2f%%)",
		summary.TotalTrades, elapsed, summary.FinalCapital, summary.MaxDrawdown)

	return summary, nil
}

// -----------------------------------------------------------------------------

// ComputeDistribution summarizes per-sell capital deltas (the realized swing
// of each exit against the preceding trade).
func (a *AnalyticsFacade) ComputeDistribution(trades []models.MTradeRecord) models.MTradeDistribution {
	var deltas []float64
	for i := 1; i < len(trades); i++ {
		if trades[i].Side == models.TradeSideSell {
			deltas = append(deltas, trades[i].CapitalAfter-trades[i-1].CapitalAfter)
		}
	}

	if len(deltas) == 0 {
		return models.MTradeDistribution{}
	}

	mean, std := core.CalculateMeanStd(deltas)
	worst, best := core.CalculateMinMax(deltas)

	return models.MTradeDistribution{
		Mean:       mean,
		StdDev:     std,
		Best:       best,
		Worst:      worst,
		SampleSize: len(deltas),
	}
}

// -----------------------------------------------------------------------------

// ValidateTrades rejects records the engine would silently misread.
// Ordering is the caller's contract and is not checked here.
func ValidateTrades(trades []models.MTradeRecord) error {
	for i, t := range trades {
		if t.Side != models.TradeSideBuy && t.Side != models.TradeSideSell {
			return helpers.NewValidationError(fmt.Sprintf("trade %d: invalid side %q", i, t.Side), nil)
		}
		if t.Amount <= 0 {
			return helpers.NewValidationError(fmt.Sprintf("trade %d: amount must be positive", i), nil)
		}
		if t.Price <= 0 {
			return helpers.NewValidationError(fmt.Sprintf("trade %d: price must be positive", i), nil)
		}
	}
	return nil
}
