package models

// -----------------------------------------------------------------------------
// Backtest result structures
// -----------------------------------------------------------------------------

// MCurvePoint is one sample of a time-indexed curve (equity or drawdown).
type MCurvePoint struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// MBacktestSummary is the full post-hoc result of a trade-log analysis.
// WinRate is measured against completed round trips (pairs of trades), so
// values above 100 are possible when sells outnumber round trips.
type MBacktestSummary struct {
	TotalTrades       int           `json:"total_trades"`
	WinningTrades     int           `json:"winning_trades"`
	LosingTrades      int           `json:"losing_trades"`
	WinRate           float64       `json:"win_rate"`
	ProfitLoss        float64       `json:"profit_loss"`
	ProfitLossPercent float64       `json:"profit_loss_percent"`
	FinalCapital      float64       `json:"final_capital"`
	MaxDrawdown       float64       `json:"max_drawdown"`
	EquityCurve       []MCurvePoint `json:"equity_curve"`
	DrawdownCurve     []MCurvePoint `json:"drawdown_curve"`
}

// MTradeDistribution summarizes per-sell capital deltas across a trade log.
type MTradeDistribution struct {
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	Best       float64 `json:"best"`
	Worst      float64 `json:"worst"`
	SampleSize int     `json:"sample_size"`
}

// MBacktestRequest is the POST /api/backtest body.
type MBacktestRequest struct {
	InitialCapital float64        `json:"initial_capital"`
	Trades         []MTradeRecord `json:"trades"`
}
