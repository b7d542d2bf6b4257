package main

import (
	"fmt"
	"os"

	"github.com/jhchoi91066/system-trading-sub000/src/logger"
)

// The drill hands the client its credential through the standard env
// provider, same as production.
const drillTokenEnv = "DRILL_MONITOR_TOKEN"

func main() {
	// 1. Setup Logger
	appLogger := logger.NewLogger("DEBUG", "LoopbackDrill")

	// 2. Start the scripted monitoring endpoint on an ephemeral port
	mock := newMockMonitor(logger.NewLogger("DEBUG", "MockMonitor"))
	endpointURL, err := mock.Start()
	if err != nil {
		fmt.Printf("Error starting mock monitor: %v\n", err)
		os.Exit(1)
	}
	defer mock.Stop()

	// 3. Point an in-process config at it and seed the credential
	conf := buildDrillConfig(endpointURL)
	os.Setenv(drillTokenEnv, "drill-session-token")

	// 4. Setup Components
	analyzer := setupAnalytics(conf)
	client := setupStreamClient(conf)

	// 5. Record everything the client reports through callbacks
	obs := &drillObserver{}
	obs.attach(client)

	// 6. Run the reconnect drill: first contact, scripted drop, recovery
	if err := runReconnectDrill(client, mock, appLogger); err != nil {
		mock.Stop()
		appLogger.Critical("Drill failed: %v", err)
	}

	// 7. Print the merged snapshot and a sample backtest
	printDrillReport(client, obs, analyzer)
}
