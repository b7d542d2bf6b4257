package monitor

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/jhchoi91066/system-trading-sub000/src/interfaces"
	"github.com/jhchoi91066/system-trading-sub000/src/logger"
	"github.com/jhchoi91066/system-trading-sub000/src/models"
	"github.com/jhchoi91066/system-trading-sub000/src/utils"
)

// authUnavailable is the lastError value when the token provider has nothing
// for us. No transport attempt is made in that case.
const authUnavailable = "auth-unavailable"

// -----------------------------------------------------------------------------
// StreamClient owns the one logical connection to the monitoring endpoint.
//
// Every state transition, merge, and timer decision runs on a single event
// loop goroutine; a per-connection reader goroutine only forwards frames into
// the loop. Reader events carry a connection generation, and the loop drops
// events from retired generations, so a close notice from an abandoned
// socket can never double-fire a reconnect. At most one reconnect timer
// exists at any moment, and Stop cancels it before teardown.
//
// Transport failures never escape as errors to the caller; they surface as
// state plus LastError on the observable status.
// -----------------------------------------------------------------------------

type StreamClient struct {
	Config *models.MConfig
	Logger *logger.Logger

	dialer interfaces.IStreamDialer
	tokens interfaces.ITokenProvider
	clock  interfaces.IClock

	// Callbacks fire on the event loop goroutine and never after Stop
	// returns. Assign before Start; they must not block.
	OnSnapshot     func(models.MRealtimeSnapshot)
	OnNotification func(models.MNotification)
	OnStatus       func(models.MConnectionStatus)

	pingInterval time.Duration

	mu             sync.RWMutex
	running        bool
	state          models.ConnectionState
	lastErr        string
	budget         ReconnectBudget
	snapshot       models.MRealtimeSnapshot
	connectedSince int64
	lastHeartbeat  int64
	cancel         context.CancelFunc
	doneCh         chan struct{}
	readCh         chan readEvent
	sendCh         chan interface{}

	// gen is touched by the event loop only.
	gen int
}

type readEvent struct {
	gen  int
	data []byte
	err  error
}

// -----------------------------------------------------------------------------

func NewStreamClient(
	cfg *models.MConfig,
	log *logger.Logger,
	dialer interfaces.IStreamDialer,
	tokens interfaces.ITokenProvider,
	clock interfaces.IClock,
) *StreamClient {
	return &StreamClient{
		Config:       cfg,
		Logger:       log,
		dialer:       dialer,
		tokens:       tokens,
		clock:        clock,
		pingInterval: time.Duration(cfg.Monitor.PingIntervalSeconds) * time.Second,
		state:        models.StateDisconnected,
	}
}

// -----------------------------------------------------------------------------

// Start fetches a credential and brings the connection up in the background.
// It returns an error only when the client is already running; connection
// failures are reported through state, never here.
func (c *StreamClient) Start() error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("stream client already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.running = true
	c.cancel = cancel
	c.doneCh = make(chan struct{})
	c.readCh = make(chan readEvent, 64)
	c.sendCh = make(chan interface{}, 16)
	// A fresh start gets a fresh budget, including a start after Failed.
	c.budget = NewReconnectBudget(c.Config.Monitor.ReconnectMaxAttempts, time.Duration(c.Config.Monitor.ReconnectBaseDelayMs)*time.Millisecond)
	c.mu.Unlock()

	c.Logger.Info("Starting monitor stream client for %s", c.Config.Monitor.EndpointURL)
	go c.run(ctx)
	return nil
}

// -----------------------------------------------------------------------------

// Stop cancels any pending reconnect, tears the transport down, and waits
// for the event loop to exit. After it returns no callback will fire again.
// Stopping a stopped client is a no-op.
func (c *StreamClient) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		c.Logger.Debug("Stop called on a stopped client")
		return
	}
	cancel := c.cancel
	done := c.doneCh
	c.mu.Unlock()

	cancel()
	<-done
	c.Logger.Info("Monitor stream client stopped")
}

// -----------------------------------------------------------------------------

// Send writes one payload upstream when connected. Anything else is a logged
// no-op: nothing is ever queued for a future connection.
func (c *StreamClient) Send(payload interface{}) {
	c.mu.RLock()
	running := c.running
	state := c.state
	sendCh := c.sendCh
	c.mu.RUnlock()

	if !running || state != models.StateConnected {
		c.Logger.Info("Dropping outbound message: connection is %s", state)
		return
	}

	select {
	case sendCh <- payload:
	default:
		c.Logger.Warning("Dropping outbound message: send buffer full")
	}
}

// -----------------------------------------------------------------------------

// Status returns a copy of the observable connection status.
func (c *StreamClient) Status() models.MConnectionStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.statusLocked()
}

// -----------------------------------------------------------------------------

// Snapshot returns a reader-safe copy of the merged state.
func (c *StreamClient) Snapshot() models.MRealtimeSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copySnapshot(c.snapshot)
}

// -----------------------------------------------------------------------------

// SeedSnapshot pre-populates the merged state (warm start from a cache)
// before Start. Later initial_data merges over it.
func (c *StreamClient) SeedSnapshot(snapshot models.MRealtimeSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = copySnapshot(snapshot)
}

// -----------------------------------------------------------------------------
// Event loop
// -----------------------------------------------------------------------------

func (c *StreamClient) run(ctx context.Context) {
	defer func() {
		c.mu.Lock()
		c.running = false
		done := c.doneCh
		c.mu.Unlock()
		close(done)
	}()

	// No credential, no transport.
	token, err := c.tokens.Token(ctx)
	if err != nil {
		if ctx.Err() != nil {
			c.setState(models.StateDisconnected, "")
			return
		}
		c.Logger.Error("No credential available: %v", err)
		c.setState(models.StateFailed, authUnavailable)
		return
	}

	for {
		c.setState(models.StateConnecting, "")

		conn, err := c.dialer.Dial(ctx, c.dialURL(token))
		if err != nil {
			if ctx.Err() != nil {
				c.setState(models.StateDisconnected, "")
				return
			}
			c.Logger.Warning("Dial failed: %v", err)
			if !c.awaitReconnect(ctx, fmt.Sprintf("dial failed: %v", err)) {
				return
			}
			continue
		}

		// Minimal hello; the credential already rode the handshake URL.
		if err := conn.WriteJSON(models.MAuthMessage{Type: models.MonitorMsgAuth}); err != nil {
			conn.Close()
			c.Logger.Warning("Auth hello failed: %v", err)
			if !c.awaitReconnect(ctx, fmt.Sprintf("auth hello failed: %v", err)) {
				return
			}
			continue
		}

		// Successful handshake: this is the one place the budget resets.
		c.mu.Lock()
		c.budget = c.budget.Reset()
		c.connectedSince = utils.UnixMs(c.clock.Now())
		c.mu.Unlock()
		c.setState(models.StateConnected, "")

		reason, stopped := c.serveConn(ctx, conn)
		if stopped {
			return
		}
		if !c.awaitReconnect(ctx, reason) {
			return
		}
	}
}

// -----------------------------------------------------------------------------

// serveConn pumps one live connection until a transport error or Stop.
// It returns the failure reason, or stopped=true when the loop must exit.
func (c *StreamClient) serveConn(ctx context.Context, conn interfaces.IStreamConn) (string, bool) {
	c.gen++
	gen := c.gen
	go c.readLoop(ctx, gen, conn)

	ticker := c.clock.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.Close()
			c.setState(models.StateDisconnected, "")
			return "", true

		case <-ticker.C():
			if err := conn.WriteJSON(models.MPingMessage{Type: models.MonitorMsgPing}); err != nil {
				conn.Close()
				return fmt.Sprintf("ping write failed: %v", err), false
			}

		case payload := <-c.sendCh:
			if err := conn.WriteJSON(payload); err != nil {
				conn.Close()
				return fmt.Sprintf("send failed: %v", err), false
			}

		case ev := <-c.readCh:
			if ev.gen != gen {
				continue // retired connection
			}
			if ev.err != nil {
				conn.Close()
				return fmt.Sprintf("read failed: %v", ev.err), false
			}
			c.handleFrame(ev.data)
		}
	}
}

// -----------------------------------------------------------------------------

// awaitReconnect spends one budget attempt and waits out the backoff delay.
// It returns false when the loop must exit: budget exhausted (state Failed)
// or Stop arrived (timer cancelled first, state Disconnected).
func (c *StreamClient) awaitReconnect(ctx context.Context, reason string) bool {
	c.setState(models.StateReconnecting, reason)

	c.mu.Lock()
	next, delay, ok := c.budget.Next()
	c.budget = next
	c.mu.Unlock()

	if !ok {
		c.Logger.Error("Reconnect budget exhausted after %d attempts: %s", next.Attempts, reason)
		c.setState(models.StateFailed, reason)
		return false
	}

	c.Logger.Info("Reconnecting in %v (attempt %d/%d)", delay, next.Attempts, next.Max)
	timer := c.clock.NewTimer(delay)

	for {
		select {
		case <-timer.C():
			return true

		case <-ctx.Done():
			// Cancel the pending retry before any teardown.
			timer.Stop()
			c.setState(models.StateDisconnected, "")
			return false

		case ev := <-c.readCh:
			_ = ev // stale events from the closed connection

		case payload := <-c.sendCh:
			_ = payload
			c.Logger.Info("Dropping outbound message: connection is %s", models.StateReconnecting)
		}
	}
}

// -----------------------------------------------------------------------------

// readLoop forwards frames from one connection into the event loop until the
// transport errors out. It never touches client state.
func (c *StreamClient) readLoop(ctx context.Context, gen int, conn interfaces.IStreamConn) {
	for {
		data, err := conn.ReadMessage()
		if err != nil {
			select {
			case c.readCh <- readEvent{gen: gen, err: err}:
			case <-ctx.Done():
			}
			return
		}

		select {
		case c.readCh <- readEvent{gen: gen, data: data}:
		case <-ctx.Done():
			return
		}
	}
}

// -----------------------------------------------------------------------------

// handleFrame decodes and dispatches one inbound frame on the event loop.
func (c *StreamClient) handleFrame(raw []byte) {
	msg, err := decodeInbound(raw)
	if err != nil {
		// Bad frame, healthy connection: drop it and move on.
		c.Logger.Warning("Dropping inbound frame: %v", err)
		return
	}

	switch msg.kind {
	case kindInitialData, kindMonitoringUpdate:
		c.mu.Lock()
		mergeMonitorData(&c.snapshot, msg.data)
		snap := copySnapshot(c.snapshot)
		c.mu.Unlock()
		if c.OnSnapshot != nil {
			c.OnSnapshot(snap)
		}

	case kindNewNotification:
		c.mu.Lock()
		prependNotification(&c.snapshot, *msg.notification)
		snap := copySnapshot(c.snapshot)
		c.mu.Unlock()
		if c.OnNotification != nil {
			c.OnNotification(*msg.notification)
		}
		if c.OnSnapshot != nil {
			c.OnSnapshot(snap)
		}

	case kindPong:
		// Heartbeat bookkeeping only. Staleness drives no local policy;
		// dead peers are detected by transport close or read errors.
		c.mu.Lock()
		c.lastHeartbeat = utils.UnixMs(c.clock.Now())
		c.mu.Unlock()

	case kindUnknown:
		c.Logger.Warning("Ignoring unknown message type %q", msg.rawType)
	}
}

// -----------------------------------------------------------------------------

// setState records a transition and pushes the new status to the observer.
func (c *StreamClient) setState(state models.ConnectionState, lastErr string) {
	c.mu.Lock()
	prev := c.state
	c.state = state
	if lastErr != "" {
		c.lastErr = lastErr
	}
	if state != models.StateConnected {
		c.connectedSince = 0
	}
	status := c.statusLocked()
	c.mu.Unlock()

	if prev != state {
		c.Logger.Info("Connection state %s -> %s", prev, state)
	}
	if c.OnStatus != nil {
		c.OnStatus(status)
	}
}

// -----------------------------------------------------------------------------

func (c *StreamClient) statusLocked() models.MConnectionStatus {
	return models.MConnectionStatus{
		State:             c.state,
		EndpointURL:       c.Config.Monitor.EndpointURL,
		LastError:         c.lastErr,
		ReconnectAttempts: c.budget.Attempts,
		ConnectedSince:    c.connectedSince,
		LastHeartbeat:     c.lastHeartbeat,
	}
}

// -----------------------------------------------------------------------------

// dialURL appends the credential to the endpoint as a query parameter; the
// post-handshake hello stays minimal to respect upstream frame-size limits.
func (c *StreamClient) dialURL(token string) string {
	u, err := url.Parse(c.Config.Monitor.EndpointURL)
	if err != nil {
		return c.Config.Monitor.EndpointURL
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
