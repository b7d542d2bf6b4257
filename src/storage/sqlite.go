package storage

import (
	"database/sql"
	"fmt"

	"github.com/jhchoi91066/system-trading-sub000/src/helpers"
	"github.com/jhchoi91066/system-trading-sub000/src/logger"
	"github.com/jhchoi91066/system-trading-sub000/src/models"

	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------

type SQLiteTradeDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewSQLiteTradeDB(cfg *models.MConfig, log *logger.Logger) (*SQLiteTradeDB, error) {
	return &SQLiteTradeDB{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteTradeDB) Initialize() error {
	dsn := d.Config.Storage.DBPath

	// Open DB
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return helpers.NewDatabaseError(fmt.Sprintf("sqlite journal at %s is not reachable", dsn), err)
	}

	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000;"); err != nil {
		d.Logger.Warning("Failed to set busy timeout: %v", err)
	}

	return d.ensureTables()
}

// -----------------------------------------------------------------------------

// ensureTables creates the trade journal if it does not exist yet. The
// journal is durable across restarts, so nothing is ever dropped here.
func (d *SQLiteTradeDB) ensureTables() error {
	// SQLite types: INTEGER for int64, REAL for float64, TEXT for string
	query := `
		CREATE TABLE IF NOT EXISTS trades (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			symbol TEXT,
			side TEXT NOT NULL,
			amount REAL,
			price REAL,
			capital_after REAL
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create trades: %w", err)
	}

	if _, err := d.DB.Exec(`CREATE INDEX IF NOT EXISTS idx_trades_timestamp ON trades (timestamp);`); err != nil {
		return fmt.Errorf("failed to create trades index: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteTradeDB) SaveTradesBulk(trades []models.MTradeRecord) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO trades (timestamp, symbol, side, amount, price, capital_after)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range trades {
		_, err := stmt.Exec(t.Timestamp, t.Symbol, t.Side, t.Amount, t.Price, t.CapitalAfter)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

// LoadTrades returns the journal ordered by execution time, oldest first.
// The analytics engine trusts this order, so ties break on insert order.
func (d *SQLiteTradeDB) LoadTrades(limit int) ([]models.MTradeRecord, error) {
	query := `
		SELECT id, timestamp, symbol, side, amount, price, capital_after
		FROM trades
		ORDER BY timestamp ASC, id ASC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []models.MTradeRecord
	for rows.Next() {
		var t models.MTradeRecord
		if err := rows.Scan(&t.ID, &t.Timestamp, &t.Symbol, &t.Side, &t.Amount, &t.Price, &t.CapitalAfter); err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}

	return trades, rows.Err()
}

// -----------------------------------------------------------------------------

func (d *SQLiteTradeDB) CountTrades() (int64, error) {
	var count int64
	err := d.DB.QueryRow("SELECT COUNT(*) FROM trades").Scan(&count)
	return count, err
}

// -----------------------------------------------------------------------------

func (d *SQLiteTradeDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
