package interfaces

import "github.com/jhchoi91066/system-trading-sub000/src/models"

// -----------------------------------------------------------------------------
// ITradeStore defines the contract for the trade journal storage.
// -----------------------------------------------------------------------------

type ITradeStore interface {

	// -----------------------------------------------------------------------------

	// Initialize sets up the database schema and tables.
	Initialize() error

	// -----------------------------------------------------------------------------

	// SaveTradesBulk inserts a batch of executed trades inside one transaction.
	SaveTradesBulk(trades []models.MTradeRecord) error

	// -----------------------------------------------------------------------------

	// LoadTrades returns trades ordered by timestamp ascending.
	// limit <= 0 means no limit.
	LoadTrades(limit int) ([]models.MTradeRecord, error)

	// -----------------------------------------------------------------------------

	// CountTrades returns the journal size.
	CountTrades() (int64, error)

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
