package main

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jhchoi91066/system-trading-sub000/src/logger"
	"github.com/jhchoi91066/system-trading-sub000/src/models"
	"github.com/jhchoi91066/system-trading-sub000/src/utils"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Pacing between scripted frames, slow enough to follow in the log but quick
// enough to keep the drill short.
const frameGap = 40 * time.Millisecond

// -----------------------------------------------------------------------------

// mockMonitor is the scripted in-process monitoring endpoint. The first
// session replays one frame of every inbound type and then drops the socket;
// later sessions push a recovery update and answer pings until stopped.
type mockMonitor struct {
	Logger *logger.Logger

	upgrader websocket.Upgrader
	listener net.Listener
	srv      *http.Server
	done     chan struct{}
	stopOnce sync.Once

	mu       sync.Mutex
	sessions int

	// handshakes receives the session number after each accepted auth hello.
	handshakes chan int
}

// -----------------------------------------------------------------------------

func newMockMonitor(log *logger.Logger) *mockMonitor {
	return &mockMonitor{
		Logger: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		done:       make(chan struct{}),
		handshakes: make(chan int, 8),
	}
}

// -----------------------------------------------------------------------------

// Start binds an ephemeral loopback port and returns the ws:// endpoint URL.
func (m *mockMonitor) Start() (string, error) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to bind mock monitor: %w", err)
	}
	m.listener = lis

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/monitor", m.handleStream)
	m.srv = &http.Server{Handler: mux}

	go func() {
		if err := m.srv.Serve(lis); err != nil && err != http.ErrServerClosed {
			m.Logger.Error("Mock monitor server failed: %v", err)
		}
	}()

	endpointURL := fmt.Sprintf("ws://%s/ws/monitor", lis.Addr().String())
	m.Logger.Info("Mock monitor listening on %s", endpointURL)
	return endpointURL, nil
}

// -----------------------------------------------------------------------------

func (m *mockMonitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.done)
		m.srv.Close()
	})
}

// -----------------------------------------------------------------------------

// handleStream runs one scripted session.
func (m *mockMonitor) handleStream(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("token") == "" {
		m.Logger.Warning("Rejecting session without token")
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.Logger.Error("Upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Upgraded sockets are hijacked, so srv.Close does not reach them;
	// watch done instead to unblock any pending read.
	go func() {
		<-m.done
		conn.Close()
	}()

	if !m.awaitHello(conn) {
		return
	}

	m.mu.Lock()
	m.sessions++
	n := m.sessions
	m.mu.Unlock()

	select {
	case m.handshakes <- n:
	default:
	}

	m.Logger.Info("Session %d authenticated", n)

	if n == 1 {
		m.runFirstSession(conn)
		m.Logger.Info("Session 1 script done, dropping the connection")
		return
	}
	m.runSteadySession(conn, n)
}

// -----------------------------------------------------------------------------

// awaitHello consumes the post-handshake auth frame.
func (m *mockMonitor) awaitHello(conn *websocket.Conn) bool {
	_, raw, err := conn.ReadMessage()
	if err != nil {
		m.Logger.Warning("Session closed before hello: %v", err)
		return false
	}

	var hello models.MAuthMessage
	if err := json.Unmarshal(raw, &hello); err != nil || hello.Type != models.MonitorMsgAuth {
		m.Logger.Warning("Unexpected hello frame: %s", raw)
		return false
	}
	return true
}

// -----------------------------------------------------------------------------

// runFirstSession replays one frame of every inbound type, then returns so
// the deferred close drops the socket mid-stream.
func (m *mockMonitor) runFirstSession(conn *websocket.Conn) {
	now := utils.UnixMs(time.Now())

	stats := &models.MPortfolioStats{
		TotalBalance:     10350.25,
		AvailableBalance: 8200.00,
		TotalPnl:         350.25,
		DailyPnl:         42.10,
		OpenPositions:    1,
		UpdatedAt:        now,
	}
	strategies := []models.MActiveStrategy{{
		ID:            "strat-btc-momentum",
		Name:          "BTC Momentum",
		Symbol:        "BTC/USDT",
		Status:        "running",
		EntryPrice:    64250.0,
		CurrentPrice:  64810.5,
		UnrealizedPnl: 56.05,
		StartedAt:     now - time.Hour.Milliseconds(),
	}}
	performance := map[string]models.MStrategyPerformance{
		"strat-btc-momentum": {
			TotalTrades:   24,
			WinningTrades: 14,
			LosingTrades:  10,
			WinRate:       58.33,
			TotalPnl:      350.25,
			MaxDrawdown:   4.8,
			UpdatedAt:     now,
		},
	}
	backlog := []models.MNotification{{
		ID:        uuid.NewString(),
		Level:     "info",
		Message:   "strategy strat-btc-momentum started",
		Timestamp: now - time.Hour.Milliseconds(),
	}}

	m.send(conn, models.MonitorMsgInitialData, &models.MMonitorData{
		PortfolioStats:   stats,
		ActiveStrategies: &strategies,
		PerformanceData:  performance,
		Notifications:    &backlog,
		Timestamp:        now,
	})
	time.Sleep(frameGap)

	// Partial update: portfolio only, everything else rides on the merge.
	update := *stats
	update.TotalBalance = 10362.75
	update.DailyPnl = 54.60
	update.UpdatedAt = utils.UnixMs(time.Now())
	m.send(conn, models.MonitorMsgMonitoringUpdate, &models.MMonitorData{
		PortfolioStats: &update,
		Timestamp:      update.UpdatedAt,
	})
	time.Sleep(frameGap)

	m.send(conn, models.MonitorMsgNewNotification, models.MNotification{
		ID:        uuid.NewString(),
		Level:     "warning",
		Message:   "unrealized pnl crossed alert threshold",
		Timestamp: utils.UnixMs(time.Now()),
	})
	time.Sleep(frameGap)

	m.send(conn, models.MonitorMsgPong, nil)
	time.Sleep(frameGap)
}

// -----------------------------------------------------------------------------

// runSteadySession pushes the recovery update and then answers pings until
// the peer goes away or the drill stops.
func (m *mockMonitor) runSteadySession(conn *websocket.Conn, n int) {
	now := utils.UnixMs(time.Now())
	m.send(conn, models.MonitorMsgMonitoringUpdate, &models.MMonitorData{
		PortfolioStats: &models.MPortfolioStats{
			TotalBalance:     recoveredBalance,
			AvailableBalance: 8250.00,
			TotalPnl:         410.00,
			DailyPnl:         101.85,
			OpenPositions:    1,
			UpdatedAt:        now,
		},
		Timestamp: now,
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			m.Logger.Info("Session %d closed: %v", n, err)
			return
		}

		var envelope models.MMonitorEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			m.Logger.Warning("Session %d sent junk: %s", n, raw)
			continue
		}
		if envelope.Type == models.MonitorMsgPing {
			m.send(conn, models.MonitorMsgPong, nil)
		}
	}
}

// -----------------------------------------------------------------------------

// send writes one enveloped frame. Payload may be nil for data-less types.
func (m *mockMonitor) send(conn *websocket.Conn, msgType string, payload interface{}) {
	frame := map[string]interface{}{"type": msgType}
	if payload != nil {
		frame["data"] = payload
	}
	if err := conn.WriteJSON(frame); err != nil {
		m.Logger.Warning("Failed to send %s: %v", msgType, err)
	}
}
