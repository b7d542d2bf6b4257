package models

// Trade sides accepted by the analytics engine and the trade journal.
const (
	TradeSideBuy  = "buy"
	TradeSideSell = "sell"
)

// MTradeRecord represents one executed trade from a strategy log.
// CapitalAfter is the account capital immediately after execution.
type MTradeRecord struct {
	ID           int64   `json:"id,omitempty"`
	Timestamp    int64   `json:"timestamp"`
	Symbol       string  `json:"symbol,omitempty"`
	Side         string  `json:"side"`
	Amount       float64 `json:"amount"`
	Price        float64 `json:"price"`
	CapitalAfter float64 `json:"capital_after_trade"`
}
