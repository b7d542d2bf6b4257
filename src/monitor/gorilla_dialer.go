package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhchoi91066/system-trading-sub000/src/interfaces"

	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Constants
// -----------------------------------------------------------------------------

const (
	streamWriteWait        = 2 * time.Second
	streamHandshakeTimeout = 10 * time.Second
	maxStreamMessageSize   = 1024 * 1024 // 1MB for larger JSON messages
)

// -----------------------------------------------------------------------------
// GorillaDialer is the production IStreamDialer over gorilla/websocket.
// -----------------------------------------------------------------------------

type GorillaDialer struct {
	HandshakeTimeout time.Duration
}

// -----------------------------------------------------------------------------

func NewGorillaDialer() *GorillaDialer {
	return &GorillaDialer{HandshakeTimeout: streamHandshakeTimeout}
}

// -----------------------------------------------------------------------------

func (d *GorillaDialer) Dial(ctx context.Context, url string) (interfaces.IStreamConn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: d.HandshakeTimeout,
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
	}

	conn, resp, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("handshake rejected (status %d): %w", resp.StatusCode, err)
		}
		return nil, err
	}

	conn.SetReadLimit(maxStreamMessageSize)
	return &gorillaConn{conn: conn}, nil
}

// -----------------------------------------------------------------------------
// gorillaConn adapts *websocket.Conn to IStreamConn.
// -----------------------------------------------------------------------------

type gorillaConn struct {
	conn      *websocket.Conn
	closeOnce sync.Once
	closeErr  error
}

// -----------------------------------------------------------------------------

func (g *gorillaConn) ReadMessage() ([]byte, error) {
	_, data, err := g.conn.ReadMessage()
	return data, err
}

// -----------------------------------------------------------------------------

func (g *gorillaConn) WriteJSON(v interface{}) error {
	g.conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return g.conn.WriteJSON(v)
}

// -----------------------------------------------------------------------------

func (g *gorillaConn) Close() error {
	g.closeOnce.Do(func() {
		g.closeErr = g.conn.Close()
	})
	return g.closeErr
}
