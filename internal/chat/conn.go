package chat

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

// Client is the hub's handle on one live connection. *Conn is the real
// implementation; tests substitute fakes to observe outbound frames.
type Client interface {
	ID() string
	// Enqueue hands an encoded frame to the connection's writer without
	// blocking. False means the send buffer is full.
	Enqueue(b []byte) bool
	// Close tears down the transport; the read loop then unwinds and the
	// hub cleans up membership.
	Close() error
}

// Conn adapts one websocket to the Client interface. Outbound frames go
// through a buffered channel drained by WriteLoop so a slow reader never
// holds up a broadcast.
type Conn struct {
	id   string
	ws   *websocket.Conn
	out  chan []byte
	ping time.Duration
}

// Accept upgrades HTTP to websocket
func Accept(w http.ResponseWriter, r *http.Request, origins []string) (*websocket.Conn, error) {
	return websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  origins,
		CompressionMode: websocket.CompressionDisabled,
	})
}

// NewConn wraps a WS connection with a fresh ID and send buffer
func NewConn(ws *websocket.Conn, buffer int, ping time.Duration) *Conn {
	return &Conn{
		id:   uuid.NewString(),
		ws:   ws,
		out:  make(chan []byte, buffer),
		ping: ping,
	}
}

func (c *Conn) ID() string { return c.id }

// Enqueue queues b for the write loop; drops to false when full.
func (c *Conn) Enqueue(b []byte) bool {
	select {
	case c.out <- b:
		return true
	default:
		return false
	}
}

// Read blocks until it receives a text/binary message
// Returns false if connection is closed
func (c *Conn) Read(ctx context.Context) ([]byte, bool) {
	for {
		typ, data, err := c.ws.Read(ctx)
		if err != nil {
			return nil, false
		}
		if typ == websocket.MessageText || typ == websocket.MessageBinary {
			return data, true
		}
	}
}

// WriteLoop sends outbound frames + periodic pings
// Exits when ctx is cancelled
func (c *Conn) WriteLoop(ctx context.Context) {
	t := time.NewTicker(c.ping)
	defer t.Stop()

	for {
		select {
		case b := <-c.out:
			_ = c.ws.Write(ctx, websocket.MessageText, b)
		case <-t.C:
			_ = c.ws.Ping(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Close closes the WS connection normally
func (c *Conn) Close() error { return c.ws.Close(websocket.StatusNormalClosure, "bye") }
