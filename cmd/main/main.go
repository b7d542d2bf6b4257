package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhchoi91066/system-trading-sub000/src/analytics"
	"github.com/jhchoi91066/system-trading-sub000/src/auth"
	"github.com/jhchoi91066/system-trading-sub000/src/config"
	"github.com/jhchoi91066/system-trading-sub000/src/helpers"
	"github.com/jhchoi91066/system-trading-sub000/src/interfaces"
	"github.com/jhchoi91066/system-trading-sub000/src/logger"
	"github.com/jhchoi91066/system-trading-sub000/src/models"
	"github.com/jhchoi91066/system-trading-sub000/src/monitor"
	"github.com/jhchoi91066/system-trading-sub000/src/server"
	"github.com/jhchoi91066/system-trading-sub000/src/storage"
	"github.com/jhchoi91066/system-trading-sub000/src/utils"
)

// -----------------------------------------------------------------------------

func main() {

	// 1. Parse command line flags
	configPath := flag.String("config", "../../config/default.yaml", "path to config file")
	flag.Parse()

	// 2. Load config
	config, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// 3. Setup Logger
	appLogger := logger.NewLogger(config.LogLevel, config.Name)

	// 4. Trade journal store
	var store interfaces.ITradeStore

	switch config.Storage.DBType {
	case "postgres":
		store, err = storage.NewPostgresTradeDB(config.MConfig, appLogger)
	default:
		// Default to SQLite
		store, err = storage.NewSQLiteTradeDB(config.MConfig, appLogger)
	}

	if err != nil {
		appLogger.Critical("Failed to init trade store: %v", err)
	}

	// The database may come up after us; retry with the same doubling
	// schedule the stream client uses.
	_, err = helpers.RetryWithBackoff(appLogger, "store initialization", 3, time.Second, func() (interface{}, error) {
		return nil, store.Initialize()
	})
	if err != nil {
		appLogger.Critical("Failed to initialize trade store: %v", err)
	}

	// 5. Snapshot cache (optional warm start)
	var cache interfaces.ISnapshotCache
	if config.Cache.Enabled {
		cache, err = storage.NewRedisSnapshotCache(config.MConfig, appLogger)
		if err != nil {
			appLogger.Warning("Snapshot cache unavailable, cold start: %v", err)
			cache = nil
		}
	}

	// 6. Shared components
	historyLimit := config.Notifications.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = utils.DefaultNotificationHistory
	}
	ring := utils.NewNotificationRing(historyLimit)

	facade := analytics.NewAnalyticsFacade(config.MConfig, appLogger)
	tokens := auth.NewTokenProvider(config.MConfig, appLogger)
	client := monitor.NewStreamClient(config.MConfig, appLogger, monitor.NewGorillaDialer(), tokens, utils.NewSystemClock())
	var srv interfaces.IDataExchanger = server.NewDashboardServer(config.MConfig, appLogger, store, facade, client, ring)

	// 7. Warm start from the cached snapshot, if any
	if cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		cached, err := cache.LoadSnapshot(ctx)
		cancel()
		if err != nil {
			appLogger.Warning("Failed to load cached snapshot: %v", err)
		} else if cached != nil {
			appLogger.Info("Warm start from cached snapshot (updated_at=%d)", cached.UpdatedAt)
			client.SeedSnapshot(*cached)
			srv.UpdateSnapshot(*cached)
			for i := len(cached.Notifications) - 1; i >= 0; i-- {
				ring.Append(cached.Notifications[i])
			}
		}
	}

	// 8. Wire monitor callbacks to the dashboard surface
	client.OnSnapshot = func(snapshot models.MRealtimeSnapshot) {
		srv.UpdateSnapshot(snapshot)
		srv.Broadcast(models.MDashboardState{
			Type:       "UPDATE",
			Snapshot:   snapshot,
			Connection: client.Status(),
			Timestamp:  utils.UnixMs(time.Now()),
		})

		if cache != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			if err := cache.SaveSnapshot(ctx, snapshot); err != nil {
				appLogger.Warning("Failed to cache snapshot: %v", err)
			}
			cancel()
		}
	}

	client.OnNotification = func(n models.MNotification) {
		ring.Append(n)
	}

	client.OnStatus = func(status models.MConnectionStatus) {
		srv.UpdateConnection(status)
		srv.Broadcast(models.MDashboardState{
			Type:       "UPDATE",
			Snapshot:   client.Snapshot(),
			Connection: status,
			Timestamp:  utils.UnixMs(time.Now()),
		})
	}

	// 9. Start Server
	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Error("Server failed: %v", err)
		}
	}()

	// 10. Start the monitoring stream
	if err := client.Start(); err != nil {
		appLogger.Critical("Failed to start stream client: %v", err)
	}

	appLogger.Info("Dashboard up; streaming from %s", config.Monitor.EndpointURL)

	// 11. Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")

	// Stream client first: after Stop returns no callback can fire, so the
	// server and cache tear down without racing late events.
	client.Stop()

	if err := srv.Stop(); err != nil {
		appLogger.Warning("Server shutdown: %v", err)
	}
	if cache != nil {
		cache.Close()
	}
	if err := store.Close(); err != nil {
		appLogger.Warning("Store close: %v", err)
	}

	appLogger.Info("Shutdown complete")
}
