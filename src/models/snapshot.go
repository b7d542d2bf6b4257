package models

// -----------------------------------------------------------------------------
// Realtime snapshot: the merged client-side view of the monitoring stream
// -----------------------------------------------------------------------------

// MPortfolioStats is the account-level summary pushed by the monitor.
type MPortfolioStats struct {
	TotalBalance     float64 `json:"total_balance"`
	AvailableBalance float64 `json:"available_balance"`
	TotalPnl         float64 `json:"total_pnl"`
	DailyPnl         float64 `json:"daily_pnl"`
	OpenPositions    int     `json:"open_positions"`
	UpdatedAt        int64   `json:"updated_at"`
}

// MActiveStrategy is one running strategy instance.
type MActiveStrategy struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	Status        string  `json:"status"`
	EntryPrice    float64 `json:"entry_price"`
	CurrentPrice  float64 `json:"current_price"`
	UnrealizedPnl float64 `json:"unrealized_pnl"`
	StartedAt     int64   `json:"started_at"`
}

// MStrategyPerformance is the per-strategy tally keyed by strategy id.
type MStrategyPerformance struct {
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`
	TotalPnl      float64 `json:"total_pnl"`
	MaxDrawdown   float64 `json:"max_drawdown"`
	UpdatedAt     int64   `json:"updated_at"`
}

// MNotification is one event pushed by the monitor. Payloads are opaque to
// the sync layer; only ordering matters (newest first).
type MNotification struct {
	ID        string `json:"id"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// MRealtimeSnapshot is the merged state. Sub-records update independently;
// a field untouched by the last message keeps its previous value. The
// notification list is unbounded here, display capping is the consumer's
// job (see utils.NotificationRing).
type MRealtimeSnapshot struct {
	PortfolioStats   MPortfolioStats                 `json:"portfolio_stats"`
	ActiveStrategies []MActiveStrategy               `json:"active_strategies"`
	PerformanceData  map[string]MStrategyPerformance `json:"performance_data"`
	Notifications    []MNotification                 `json:"notifications"`
	UpdatedAt        int64                           `json:"updated_at"`
}
