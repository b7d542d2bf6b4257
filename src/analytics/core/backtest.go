package core

import "github.com/jhchoi91066/system-trading-sub000/src/models"

// -----------------------------------------------------------------------------

// ComputeSummary runs the full post-hoc analysis of a trade log in one pass.
// It is pure: no I/O, no clock reads, nothing mutated but the result.
//
// The trade list is trusted to be in chronological order; callers sort,
// this function never does. Capital deltas are taken from CapitalAfter
// bookkeeping, not recomputed from amount and price.
func ComputeSummary(initialCapital float64, trades []models.MTradeRecord) models.MBacktestSummary {
	summary := models.MBacktestSummary{
		FinalCapital:  initialCapital,
		EquityCurve:   make([]models.MCurvePoint, 0, len(trades)),
		DrawdownCurve: make([]models.MCurvePoint, 0, len(trades)),
	}

	// Running peak never decreases; it starts at the initial capital so a
	// log that only loses money still measures drawdown against something.
	peak := initialCapital
	maxDrawdown := 0.0

	for i, t := range trades {
		capital := t.CapitalAfter

		summary.EquityCurve = append(summary.EquityCurve, models.MCurvePoint{
			Timestamp: t.Timestamp,
			Value:     capital,
		})

		if capital > peak {
			peak = capital
		}

		drawdown := 0.0
		if peak != 0 {
			drawdown = (peak - capital) / peak * 100
		}
		summary.DrawdownCurve = append(summary.DrawdownCurve, models.MCurvePoint{
			Timestamp: t.Timestamp,
			Value:     drawdown,
		})
		if drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}

		// Only sells classify as wins or losses, and only against a
		// predecessor. Equal capital counts as neither.
		if i > 0 && t.Side == models.TradeSideSell {
			prev := trades[i-1].CapitalAfter
			if capital > prev {
				summary.WinningTrades++
			} else if capital < prev {
				summary.LosingTrades++
			}
		}
	}

	summary.TotalTrades = len(trades)
	summary.MaxDrawdown = maxDrawdown

	if len(trades) > 0 {
		summary.FinalCapital = trades[len(trades)-1].CapitalAfter
	}

	// Round trips are counted by pairing, not position matching: two trades
	// make one round trip. The win rate is measured against that count, so
	// it can exceed 100 when sells outnumber pairs.
	roundTrips := len(trades) / 2
	if roundTrips > 0 {
		summary.WinRate = float64(summary.WinningTrades) / float64(roundTrips) * 100
	}

	summary.ProfitLoss = summary.FinalCapital - initialCapital
	if initialCapital != 0 {
		summary.ProfitLossPercent = summary.ProfitLoss / initialCapital * 100
	}

	return summary
}
