package monitor

import (
	"encoding/json"
	"fmt"

	"github.com/jhchoi91066/system-trading-sub000/src/models"
)

// -----------------------------------------------------------------------------
// Inbound message decoding. The set of message kinds is closed: every frame
// decodes to exactly one of the variants below, and dispatch switches over
// the kind, so a new upstream message type is a compile-visible change here
// rather than a stringly branch somewhere in the loop.
// -----------------------------------------------------------------------------

type messageKind int

const (
	kindUnknown messageKind = iota
	kindInitialData
	kindMonitoringUpdate
	kindNewNotification
	kindPong
)

// inboundMessage is one decoded frame. Exactly one payload field is set,
// matching the kind.
type inboundMessage struct {
	kind         messageKind
	rawType      string
	data         *models.MMonitorData
	notification *models.MNotification
}

// -----------------------------------------------------------------------------

// decodeInbound parses one frame off the wire. A malformed envelope is an
// error (the frame is dropped, the connection lives on); an unrecognized
// type is not an error, it decodes to kindUnknown for the caller to warn on.
func decodeInbound(raw []byte) (inboundMessage, error) {
	var env models.MMonitorEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return inboundMessage{}, fmt.Errorf("malformed frame: %w", err)
	}

	switch env.Type {
	case models.MonitorMsgInitialData, models.MonitorMsgMonitoringUpdate:
		kind := kindInitialData
		if env.Type == models.MonitorMsgMonitoringUpdate {
			kind = kindMonitoringUpdate
		}

		var data models.MMonitorData
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &data); err != nil {
				return inboundMessage{}, fmt.Errorf("malformed %s payload: %w", env.Type, err)
			}
		}
		return inboundMessage{kind: kind, rawType: env.Type, data: &data}, nil

	case models.MonitorMsgNewNotification:
		var n models.MNotification
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &n); err != nil {
				return inboundMessage{}, fmt.Errorf("malformed notification payload: %w", err)
			}
		}
		return inboundMessage{kind: kindNewNotification, rawType: env.Type, notification: &n}, nil

	case models.MonitorMsgPong:
		return inboundMessage{kind: kindPong, rawType: env.Type}, nil

	default:
		return inboundMessage{kind: kindUnknown, rawType: env.Type}, nil
	}
}
