package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhchoi91066/system-trading-sub000/src/helpers"
	"github.com/jhchoi91066/system-trading-sub000/src/logger"
	"github.com/jhchoi91066/system-trading-sub000/src/models"

	_ "github.com/lib/pq"
)

// -----------------------------------------------------------------------------

type PostgresTradeDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Schema string
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewPostgresTradeDB(cfg *models.MConfig, log *logger.Logger) (*PostgresTradeDB, error) {
	// The executable name doubles as the schema, so several dashboards can
	// share one database without stepping on each other.
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable name: %w", err)
	}
	name := filepath.Base(exe)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	return &PostgresTradeDB{
		Config: cfg,
		Schema: name,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresTradeDB) Initialize() error {
	dsn := d.Config.Storage.DBConnectionString
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return helpers.NewDatabaseError("postgres is not reachable", err)
	}

	d.DB = db

	// Create Schema
	if _, err := d.DB.Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, d.Schema)); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", d.Schema, err)
	}

	if err := d.ensureTables(); err != nil {
		return err
	}

	d.Logger.Info("PostgresTradeDB initialized successfully (Schema: %s)", d.Schema)
	return nil
}

// -----------------------------------------------------------------------------

// ensureTables creates the trade journal if missing. The journal survives
// restarts, so tables are never dropped.
func (d *PostgresTradeDB) ensureTables() error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS "%s"."trades" (
			id BIGSERIAL PRIMARY KEY,
			timestamp BIGINT NOT NULL,
			symbol TEXT,
			side TEXT NOT NULL,
			amount DOUBLE PRECISION,
			price DOUBLE PRECISION,
			capital_after DOUBLE PRECISION
		);
	`, d.Schema)
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create trades: %w", err)
	}

	query = fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_trades_timestamp ON "%s"."trades" (timestamp);`, d.Schema)
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create trades index: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresTradeDB) SaveTradesBulk(trades []models.MTradeRecord) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
		INSERT INTO "%s"."trades" (timestamp, symbol, side, amount, price, capital_after)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, d.Schema)
	stmt, err := tx.Prepare(query)
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

func (d *PostgresTradeDB) LoadTrades(limit int) ([]models.MTradeRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, timestamp, symbol, side, amount, price, capital_after
		FROM "%s"."trades"
		ORDER BY timestamp ASC, id ASC
	`, d.Schema)
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
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

func (d *PostgresTradeDB) CountTrades() (int64, error) {
	var count int64
	err := d.DB.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM "%s"."trades"`, d.Schema)).Scan(&count)
	return count, err
}

// -----------------------------------------------------------------------------

func (d *PostgresTradeDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
