package main

import (
	"github.com/jhchoi91066/system-trading-sub000/src/analytics"
	"github.com/jhchoi91066/system-trading-sub000/src/auth"
	"github.com/jhchoi91066/system-trading-sub000/src/config"
	"github.com/jhchoi91066/system-trading-sub000/src/logger"
	"github.com/jhchoi91066/system-trading-sub000/src/models"
	"github.com/jhchoi91066/system-trading-sub000/src/monitor"
	"github.com/jhchoi91066/system-trading-sub000/src/utils"
)

// -----------------------------------------------------------------------------

// buildDrillConfig assembles the config in-process. The mock endpoint URL is
// only known after its listener binds, so no YAML file can describe it. The
// intervals are cranked down to keep the whole drill under a few seconds.
func buildDrillConfig(endpointURL string) *config.Config {
	return &config.Config{MConfig: &models.MConfig{
		Name:     "loopback-drill",
		LogLevel: "DEBUG",
		Monitor: models.MMonitorConfig{
			EndpointURL:          endpointURL,
			PingIntervalSeconds:  1,
			ReconnectBaseDelayMs: 50,
			ReconnectMaxAttempts: 5,
			AuthTokenEnv:         drillTokenEnv,
		},
		Analytics: models.MAnalyticsConfig{
			InitialCapital: 10000,
		},
	}}
}

// -----------------------------------------------------------------------------

// setupStreamClient wires the real dialer and clock; only the endpoint is a
// stand-in.
func setupStreamClient(conf *config.Config) *monitor.StreamClient {
	tokens := auth.NewTokenProvider(conf.MConfig, logger.NewLogger(conf.LogLevel, "Auth"))
	streamLogger := logger.NewLogger(conf.LogLevel, "StreamSync")
	return monitor.NewStreamClient(conf.MConfig, streamLogger, monitor.NewGorillaDialer(), tokens, utils.NewSystemClock())
}

// -----------------------------------------------------------------------------

// setupAnalytics initializes the analytics facade
func setupAnalytics(conf *config.Config) *analytics.AnalyticsFacade {
	analyticsLogger := logger.NewLogger(conf.LogLevel, "Analytics")
	return analytics.NewAnalyticsFacade(conf.MConfig, analyticsLogger)
}
