package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jhchoi91066/system-trading-sub000/src/helpers"
	"github.com/jhchoi91066/system-trading-sub000/src/models"
	"github.com/jhchoi91066/system-trading-sub000/src/utils"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// handleWebsockets is the main Hub loop
func (s *DashboardServer) handleWebsockets() {
	for {
		select {
		case client := <-s.register:
			s.stateMutex.Lock()
			s.clients[client] = struct{}{}
			// Send initial state on connect
			replay := *s.latestState
			replay.Type = "INITIAL"
			s.stateMutex.Unlock()
			client.send <- &replay

		case client := <-s.unregister:
			s.stateMutex.Lock()
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
			}
			s.stateMutex.Unlock()

		case message := <-s.broadcast:
			// Update state and broadcast
			s.stateMutex.Lock()
			s.latestState = message

			// Broadcast to all clients
			for client := range s.clients {
				select {
				case client.send <- message:
					// Message sent successfully
				default:
					// Client too slow, disconnect to prevent Hub blocking
					delete(s.clients, client)
					close(client.send)
				}
			}
			s.stateMutex.Unlock()

		case <-s.done:
			return
		}
	}
}

// -----------------------------------------------------------------------------
// Data Exchange Interface Implementation
// -----------------------------------------------------------------------------

// UpdateSnapshot merges the latest monitor snapshot into the retained state.
// It does not broadcast; pair it with Broadcast when clients should hear.
func (s *DashboardServer) UpdateSnapshot(snapshot models.MRealtimeSnapshot) {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()

	state := *s.latestState
	state.Snapshot = snapshot
	state.Timestamp = utils.UnixMs(time.Now())
	state.Type = "UPDATE"
	s.latestState = &state
}

// -----------------------------------------------------------------------------

// UpdateConnection records the upstream link status in the retained state.
func (s *DashboardServer) UpdateConnection(status models.MConnectionStatus) {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()

	state := *s.latestState
	state.Connection = status
	state.Timestamp = utils.UnixMs(time.Now())
	state.Type = "UPDATE"
	s.latestState = &state
}

// -----------------------------------------------------------------------------

// Broadcast - pushes a dashboard state to every connected client (Queue)
func (s *DashboardServer) Broadcast(message interface{}) {
	var state *models.MDashboardState

	switch m := message.(type) {
	case *models.MDashboardState:
		state = m
	case models.MDashboardState:
		state = &m
	default:
		// Log error but don't crash
		s.Logger.Info("Broadcast expected MDashboardState, got %T", message)
		return
	}

	// We'll trust the large buffer (set in NewDashboardServer) handling.
	select {
	case s.broadcast <- state:
	case <-s.done:
	}
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		// Buffered channel to prevent blocking the Hub loop
		send: make(chan interface{}, 256),
	}

	s.register <- client

	// Start goroutines for reading/writing
	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

// HandleClientMessage dispatches one inbound WS frame. "subscribe" replays
// the retained state; anything else is treated as an upstream command and
// takes the same path as POST /api/command.
func (s *DashboardServer) HandleClientMessage(client *Client, message []byte) {
	var cmd models.MClientCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.Logger.Info("Failed to parse client command: %v, disconnecting client", err)
		client.conn.Close()
		return
	}

	if cmd.Command == "subscribe" {
		s.stateMutex.RLock()
		replay := *s.latestState
		replay.Type = "INITIAL"
		s.stateMutex.RUnlock()

		// Use select to avoid blocking if client's send buffer is full
		select {
		case client.send <- &replay:
		default:
		}
		return
	}

	id, err := s.forwardCommand(cmd)
	response := map[string]interface{}{"type": "command_ack", "command": cmd.Command}
	if err != nil {
		response["type"] = "command_rejected"
		response["error"] = err.Error()
	} else {
		response["id"] = id
	}

	select {
	case client.send <- response:
	default:
	}
}

// -----------------------------------------------------------------------------

// forwardCommand relays one dashboard command to the monitoring endpoint.
// Commands are never queued: without a live link the command is refused.
func (s *DashboardServer) forwardCommand(cmd models.MClientCommand) (string, error) {
	if s.stream == nil || s.stream.Status().State != models.StateConnected {
		return "", helpers.NewNetworkError("monitor link is not connected", nil)
	}

	id := uuid.NewString()
	s.stream.Send(models.MCommandMessage{
		Type:    models.MonitorMsgCommand,
		ID:      id,
		Command: cmd.Command,
		Params:  cmd.Params,
	})
	s.Logger.Info("Forwarded command %s (%s) upstream", cmd.Command, id)
	return id, nil
}
