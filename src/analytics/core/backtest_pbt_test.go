package core

import (
	"reflect"
	"testing"

	"github.com/jhchoi91066/system-trading-sub000/src/models"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// tradesFromCapitals builds a chronological log alternating buy/sell with the
// given capital path.
func tradesFromCapitals(capitals []float64) []models.MTradeRecord {
	trades := make([]models.MTradeRecord, len(capitals))
	for i, c := range capitals {
		side := models.TradeSideBuy
		if i%2 == 1 {
			side = models.TradeSideSell
		}
		trades[i] = models.MTradeRecord{
			Timestamp:    int64(i+1) * 1000,
			Side:         side,
			Amount:       1,
			Price:        100,
			CapitalAfter: c,
		}
	}
	return trades
}

// -----------------------------------------------------------------------------

func TestComputeSummary_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	capitalsGen := gen.SliceOf(gen.Float64Range(0, 1e9))
	initialGen := gen.Float64Range(1, 1e6)

	properties.Property("curves mirror the trade log one to one", prop.ForAll(
		func(capitals []float64, initial float64) bool {
			trades := tradesFromCapitals(capitals)
			s := ComputeSummary(initial, trades)
			if len(s.EquityCurve) != len(trades) || len(s.DrawdownCurve) != len(trades) {
				return false
			}
			for i, p := range s.EquityCurve {
				if p.Timestamp != trades[i].Timestamp || p.Value != trades[i].CapitalAfter {
					return false
				}
			}
			return true
		},
		capitalsGen,
		initialGen,
	))

	properties.Property("final capital is the last entry or the initial capital", prop.ForAll(
		func(capitals []float64, initial float64) bool {
			s := ComputeSummary(initial, tradesFromCapitals(capitals))
			if len(capitals) == 0 {
				return s.FinalCapital == initial
			}
			return s.FinalCapital == capitals[len(capitals)-1]
		},
		capitalsGen,
		initialGen,
	))

	properties.Property("profit is exactly final minus initial", prop.ForAll(
		func(capitals []float64, initial float64) bool {
			s := ComputeSummary(initial, tradesFromCapitals(capitals))
			return s.ProfitLoss == s.FinalCapital-initial
		},
		capitalsGen,
		initialGen,
	))

	properties.Property("drawdown stays within [0, 100] for non-negative capital", prop.ForAll(
		func(capitals []float64, initial float64) bool {
			s := ComputeSummary(initial, tradesFromCapitals(capitals))
			for _, p := range s.DrawdownCurve {
				if p.Value < 0 || p.Value > 100 {
					return false
				}
			}
			return s.MaxDrawdown >= 0 && s.MaxDrawdown <= 100
		},
		capitalsGen,
		initialGen,
	))

	properties.Property("max drawdown dominates every curve point", prop.ForAll(
		func(capitals []float64, initial float64) bool {
			s := ComputeSummary(initial, tradesFromCapitals(capitals))
			for _, p := range s.DrawdownCurve {
				if p.Value > s.MaxDrawdown {
					return false
				}
			}
			return true
		},
		capitalsGen,
		initialGen,
	))

	properties.Property("classified trades never exceed the sells that follow a predecessor", prop.ForAll(
		func(capitals []float64, initial float64) bool {
			trades := tradesFromCapitals(capitals)
			s := ComputeSummary(initial, trades)
			sells := 0
			for i := 1; i < len(trades); i++ {
				if trades[i].Side == models.TradeSideSell {
					sells++
				}
			}
			return s.WinningTrades+s.LosingTrades <= sells
		},
		capitalsGen,
		initialGen,
	))

	properties.Property("running the same log twice gives identical summaries", prop.ForAll(
		func(capitals []float64, initial float64) bool {
			trades := tradesFromCapitals(capitals)
			first := ComputeSummary(initial, trades)
			second := ComputeSummary(initial, trades)
			return reflect.DeepEqual(first, second)
		},
		capitalsGen,
		initialGen,
	))

	properties.Property("appending trades never changes earlier curve points", prop.ForAll(
		func(capitals []float64, extra float64, initial float64) bool {
			trades := tradesFromCapitals(capitals)
			before := ComputeSummary(initial, trades)
			after := ComputeSummary(initial, tradesFromCapitals(append(append([]float64{}, capitals...), extra)))
			for i := range before.DrawdownCurve {
				if after.DrawdownCurve[i] != before.DrawdownCurve[i] {
					return false
				}
			}
			return true
		},
		capitalsGen,
		gen.Float64Range(0, 1e9),
		initialGen,
	))

	properties.TestingRun(t)
}
