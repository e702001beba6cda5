package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Machine-readable close reasons so clients can react without parsing
// free-form text.
const (
	ReasonForceRelogin    = "FORCE_RELOGIN"
	ReasonSessionNotFound = "SESSION_NOT_FOUND"
	ReasonReplaced        = "REPLACED"
)

const writeTimeout = 5 * time.Second

// Conn is the transport handle the session fans out to. The HTTP layer
// hands over an already-upgraded websocket; tests substitute fakes.
type Conn interface {
	Send(data []byte) error
	Close(reason string) error
}

// wsConn serializes writes (gorilla allows a single concurrent writer) and
// bounds every write so one stalled client cannot hold up a broadcast.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func NewConn(conn *websocket.Conn) Conn {
	return &wsConn{conn: conn}
}

func (c *wsConn) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConn) Close(reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	c.conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason),
	)
	return c.conn.Close()
}
