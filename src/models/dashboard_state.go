package models

// -----------------------------------------------------------------------------
// Dashboard push state (hub -> local UI clients)
// -----------------------------------------------------------------------------

type MDashboardState struct {
	Type       string            `json:"type"` // "INITIAL" or "UPDATE"
	Snapshot   MRealtimeSnapshot `json:"snapshot"`
	Connection MConnectionStatus `json:"connection"`
	Timestamp  int64             `json:"timestamp"`
}

// -----------------------------------------------------------------------------
// MClientCommand for dashboard client messages
// -----------------------------------------------------------------------------

type MClientCommand struct {
	Command    string                 `json:"command"`
	ClientType string                 `json:"clientType"`
	Params     map[string]interface{} `json:"params,omitempty"`
}
