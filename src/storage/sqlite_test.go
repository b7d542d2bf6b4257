package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhchoi91066/system-trading-sub000/src/logger"
	"github.com/jhchoi91066/system-trading-sub000/src/models"
)

func newTestSQLiteDB(t *testing.T, path string) *SQLiteTradeDB {
	t.Helper()

	cfg := &models.MConfig{
		Name:    "dashboard-test",
		Storage: models.MStorageConfig{DBType: "sqlite", DBPath: path},
	}

	db, err := NewSQLiteTradeDB(cfg, logger.NewLogger("ERROR", "StorageTest"))
	require.NoError(t, err)
	require.NoError(t, db.Initialize())
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleTrades() []models.MTradeRecord {
	return []models.MTradeRecord{
		{Timestamp: 1000, Symbol: "BTCUSDT", Side: models.TradeSideBuy, Amount: 0.5, Price: 40000, CapitalAfter: 10000},
		{Timestamp: 2000, Symbol: "BTCUSDT", Side: models.TradeSideSell, Amount: 0.5, Price: 42000, CapitalAfter: 10500},
		{Timestamp: 3000, Symbol: "ETHUSDT", Side: models.TradeSideSell, Amount: 2, Price: 2100, CapitalAfter: 10200},
	}
}

func TestSQLiteTradeDB_RoundTrip(t *testing.T) {
	db := newTestSQLiteDB(t, filepath.Join(t.TempDir(), "trades.db"))

	count, err := db.CountTrades()
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, db.SaveTradesBulk(sampleTrades()))

	count, err = db.CountTrades()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	trades, err := db.LoadTrades(0)
	require.NoError(t, err)
	require.Len(t, trades, 3)
	assert.Equal(t, "BTCUSDT", trades[0].Symbol)
	assert.Equal(t, models.TradeSideSell, trades[2].Side)
	assert.Equal(t, 10200.0, trades[2].CapitalAfter)
	assert.NotZero(t, trades[0].ID)
}

func TestSQLiteTradeDB_LoadOrdersByTimestamp(t *testing.T) {
	db := newTestSQLiteDB(t, filepath.Join(t.TempDir(), "trades.db"))

	// Insert out of order; reads must come back oldest first regardless.
	shuffled := []models.MTradeRecord{
		{Timestamp: 3000, Side: models.TradeSideSell, Amount: 1, Price: 1, CapitalAfter: 3},
		{Timestamp: 1000, Side: models.TradeSideBuy, Amount: 1, Price: 1, CapitalAfter: 1},
		{Timestamp: 2000, Side: models.TradeSideSell, Amount: 1, Price: 1, CapitalAfter: 2},
	}
	require.NoError(t, db.SaveTradesBulk(shuffled))

	trades, err := db.LoadTrades(0)
	require.NoError(t, err)
	require.Len(t, trades, 3)
	assert.Equal(t, int64(1000), trades[0].Timestamp)
	assert.Equal(t, int64(2000), trades[1].Timestamp)
	assert.Equal(t, int64(3000), trades[2].Timestamp)
}

func TestSQLiteTradeDB_LoadLimit(t *testing.T) {
	db := newTestSQLiteDB(t, filepath.Join(t.TempDir(), "trades.db"))
	require.NoError(t, db.SaveTradesBulk(sampleTrades()))

	trades, err := db.LoadTrades(2)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, int64(1000), trades[0].Timestamp)
}

func TestSQLiteTradeDB_EmptyBulkIsNoOp(t *testing.T) {
	db := newTestSQLiteDB(t, filepath.Join(t.TempDir(), "trades.db"))

	require.NoError(t, db.SaveTradesBulk(nil))
	count, err := db.CountTrades()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSQLiteTradeDB_JournalSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.db")

	db := newTestSQLiteDB(t, path)
	require.NoError(t, db.SaveTradesBulk(sampleTrades()))
	require.NoError(t, db.Close())

	reopened := newTestSQLiteDB(t, path)
	count, err := reopened.CountTrades()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count, "initialization never drops existing rows")
}
