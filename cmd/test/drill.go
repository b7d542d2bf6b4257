package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jhchoi91066/system-trading-sub000/src/analytics"
	"github.com/jhchoi91066/system-trading-sub000/src/logger"
	"github.com/jhchoi91066/system-trading-sub000/src/models"
	"github.com/jhchoi91066/system-trading-sub000/src/monitor"
	"github.com/jhchoi91066/system-trading-sub000/src/utils"
)

// Balance pushed by the steady session; the drill polls for it to prove the
// recovery update merged after the reconnect.
const recoveredBalance = 10410.00

// drillTimeout bounds every wait in the drill.
const drillTimeout = 10 * time.Second

// -----------------------------------------------------------------------------

// drillObserver records what the stream client reports through callbacks.
type drillObserver struct {
	mu            sync.Mutex
	states        []models.ConnectionState
	snapshots     int
	notifications int
}

// attach must run before client.Start.
func (o *drillObserver) attach(client *monitor.StreamClient) {
	client.OnStatus = func(status models.MConnectionStatus) {
		o.mu.Lock()
		defer o.mu.Unlock()
		if len(o.states) == 0 || o.states[len(o.states)-1] != status.State {
			o.states = append(o.states, status.State)
		}
	}
	client.OnSnapshot = func(models.MRealtimeSnapshot) {
		o.mu.Lock()
		o.snapshots++
		o.mu.Unlock()
	}
	client.OnNotification = func(models.MNotification) {
		o.mu.Lock()
		o.notifications++
		o.mu.Unlock()
	}
}

// journey renders the deduplicated state history.
func (o *drillObserver) journey() string {
	o.mu.Lock()
	defer o.mu.Unlock()

	parts := make([]string, len(o.states))
	for i, s := range o.states {
		parts[i] = string(s)
	}
	return strings.Join(parts, " > ")
}

func (o *drillObserver) counts() (int, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshots, o.notifications
}

// -----------------------------------------------------------------------------

// runReconnectDrill walks the client through first contact, the scripted
// drop, and the recovery session, then stops it cleanly.
func runReconnectDrill(client *monitor.StreamClient, mock *mockMonitor, appLogger *logger.Logger) error {
	if err := client.Start(); err != nil {
		return err
	}
	defer client.Stop()

	if err := awaitSession(mock, 1); err != nil {
		return err
	}
	if err := waitUntil(func() bool {
		return client.Snapshot().UpdatedAt != 0
	}); err != nil {
		return fmt.Errorf("initial snapshot never arrived: %w", err)
	}
	appLogger.Info("Drill: first session up, waiting for the scripted drop")

	if err := awaitSession(mock, 2); err != nil {
		return fmt.Errorf("client never re-dialed: %w", err)
	}
	appLogger.Info("Drill: client re-dialed after the drop")

	if err := waitUntil(func() bool {
		return client.Snapshot().PortfolioStats.TotalBalance == recoveredBalance
	}); err != nil {
		return fmt.Errorf("recovery update never merged: %w", err)
	}

	if err := waitUntil(func() bool {
		return client.Status().LastHeartbeat != 0
	}); err != nil {
		return fmt.Errorf("no pong on the new session: %w", err)
	}
	appLogger.Info("Drill: heartbeat confirmed on the new session")

	return nil
}

// -----------------------------------------------------------------------------

// awaitSession blocks until the mock accepts the numbered session.
func awaitSession(mock *mockMonitor, n int) error {
	deadline := time.After(drillTimeout)
	for {
		select {
		case got := <-mock.handshakes:
			if got >= n {
				return nil
			}
		case <-deadline:
			return fmt.Errorf("timed out waiting for session %d", n)
		}
	}
}

// waitUntil polls a condition until it holds or the drill times out.
func waitUntil(cond func() bool) error {
	deadline := time.Now().Add(drillTimeout)
	for time.Now().Before(deadline) {
		if cond() {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return fmt.Errorf("condition not met within %v", drillTimeout)
}

// -----------------------------------------------------------------------------

// printDrillReport dumps the merged snapshot and runs the sample backtest.
func printDrillReport(client *monitor.StreamClient, obs *drillObserver, analyzer *analytics.AnalyticsFacade) {
	snapshot := client.Snapshot()
	status := client.Status()
	snapshots, notifications := obs.counts()

	fmt.Println()
	fmt.Println("=== Loopback drill report ===")
	fmt.Printf("Connection journey : %s\n", obs.journey())
	fmt.Printf("Final state        : %s (last error: %q)\n", status.State, status.LastError)
	fmt.Printf("Callbacks observed : %d snapshot updates, %d notifications\n", snapshots, notifications)
	fmt.Println()
	fmt.Println("Merged snapshot:")
	fmt.Printf("  balance %.2f (available %.2f), pnl %.2f, open positions %d\n",
		snapshot.PortfolioStats.TotalBalance,
		snapshot.PortfolioStats.AvailableBalance,
		snapshot.PortfolioStats.TotalPnl,
		snapshot.PortfolioStats.OpenPositions)
	for _, s := range snapshot.ActiveStrategies {
		fmt.Printf("  strategy %s (%s) %s, unrealized pnl %.2f\n", s.Name, s.Symbol, s.Status, s.UnrealizedPnl)
	}
	for id, p := range snapshot.PerformanceData {
		fmt.Printf("  performance %s: %d trades, win rate %.1f%%\n", id, p.TotalTrades, p.WinRate)
	}
	fmt.Println("  notifications, newest first:")
	for _, n := range snapshot.Notifications {
		fmt.Printf("    [%s] %s\n", n.Level, n.Message)
	}

	printSampleBacktest(analyzer)
}

// -----------------------------------------------------------------------------

// printSampleBacktest runs the engine over a small fixed trade log.
func printSampleBacktest(analyzer *analytics.AnalyticsFacade) {
	const initialCapital = 10000.0

	base := time.Now().Add(-3 * time.Hour)
	trades := []models.MTradeRecord{
		{Timestamp: utils.UnixMs(base), Symbol: "BTC/USDT", Side: models.TradeSideBuy, Amount: 0.25, Price: 40000, CapitalAfter: 10000},
		{Timestamp: utils.UnixMs(base.Add(time.Hour)), Symbol: "BTC/USDT", Side: models.TradeSideSell, Amount: 0.25, Price: 42000, CapitalAfter: 10500},
		{Timestamp: utils.UnixMs(base.Add(2 * time.Hour)), Symbol: "BTC/USDT", Side: models.TradeSideSell, Amount: 0.10, Price: 39000, CapitalAfter: 10200},
	}

	summary, err := analyzer.RunBacktest(initialCapital, trades)
	if err != nil {
		fmt.Printf("Sample backtest failed: %v\n", err)
		return
	}
	dist := analyzer.ComputeDistribution(trades)

	fmt.Println()
	fmt.Println("Sample backtest (3 trades):")
	fmt.Printf("  capital %.2f > %.2f (%+.2f, %+.2f%%)\n",
		initialCapital, summary.FinalCapital, summary.ProfitLoss, summary.ProfitLossPercent)
	fmt.Printf("  max drawdown %.2f%%, wins %d, losses %d, win rate %.1f%%\n",
		summary.MaxDrawdown, summary.WinningTrades, summary.LosingTrades, summary.WinRate)
	fmt.Printf("  sell deltas: mean %+.2f, std %.2f, best %+.2f, worst %+.2f, samples %d\n",
		dist.Mean, dist.StdDev, dist.Best, dist.Worst, dist.SampleSize)
}
