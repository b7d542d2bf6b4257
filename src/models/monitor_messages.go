package models

import "encoding/json"

// -----------------------------------------------------------------------------
// Monitoring stream wire messages
// -----------------------------------------------------------------------------

// Inbound message types sent by the monitoring endpoint.
const (
	MonitorMsgInitialData      = "initial_data"
	MonitorMsgMonitoringUpdate = "monitoring_update"
	MonitorMsgNewNotification  = "new_notification"
	MonitorMsgPong             = "pong"
)

// Outbound message types sent by this client.
const (
	MonitorMsgAuth    = "auth"
	MonitorMsgPing    = "ping"
	MonitorMsgCommand = "command"
)

// MMonitorEnvelope is the outer frame of every monitoring message. Data is
// decoded per type; unknown types are dropped with a warning.
type MMonitorEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// MMonitorData is the partial snapshot payload of initial_data and
// monitoring_update frames. Pointer fields distinguish "absent" from
// "present but empty": a nil field leaves the merged state untouched.
type MMonitorData struct {
	PortfolioStats   *MPortfolioStats                `json:"portfolio_stats,omitempty"`
	ActiveStrategies *[]MActiveStrategy              `json:"active_strategies,omitempty"`
	PerformanceData  map[string]MStrategyPerformance `json:"performance_data,omitempty"`
	Notifications    *[]MNotification                `json:"notifications,omitempty"`
	Timestamp        int64                           `json:"timestamp,omitempty"`
}

// MAuthMessage is the minimal post-handshake hello. The credential itself
// rides the dial URL, keeping this frame under upstream message-size limits.
type MAuthMessage struct {
	Type string `json:"type"`
}

// MPingMessage is the application-level heartbeat.
type MPingMessage struct {
	Type string `json:"type"`
}

// MCommandMessage carries a dashboard command upstream.
type MCommandMessage struct {
	Type    string                 `json:"type"`
	ID      string                 `json:"id"`
	Command string                 `json:"command"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
