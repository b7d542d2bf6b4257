package models

// ConnectionState is the lifecycle state of the monitoring stream client.
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
	StateReconnecting ConnectionState = "reconnecting"
	StateFailed       ConnectionState = "failed"
)

// MConnectionStatus is the observable status of the stream client. LastError
// holds the most recent transport or auth failure; it is informational and
// never raised to callers.
type MConnectionStatus struct {
	State             ConnectionState `json:"state"`
	EndpointURL       string          `json:"endpoint_url,omitempty"`
	LastError         string          `json:"last_error,omitempty"`
	ReconnectAttempts int             `json:"reconnect_attempts"`
	ConnectedSince    int64           `json:"connected_since,omitempty"`
	LastHeartbeat     int64           `json:"last_heartbeat,omitempty"`
}
