package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/L3pereira/ndgms/pkg/log"
)

// maxCommandBytes bounds inbound client messages. Clients only send
// small subscription commands.
const maxCommandBytes = 512

// Connection represents one subscriber's WebSocket connection.
type Connection struct {
	// Hub reference
	hub *Hub

	// WebSocket connection
	conn *websocket.Conn

	// Server-assigned subscriber id
	subscriberID string

	// Buffered channel of outbound messages. Never closed; teardown is
	// signaled on done so concurrent queueing from the hub stays safe.
	send chan []byte

	// Configuration
	pongWait   time.Duration
	pingPeriod time.Duration
	writeWait  time.Duration

	// Logger
	logger log.Logger

	// Done signal
	done      chan struct{}
	closeOnce sync.Once
}

func newConnection(
	hub *Hub,
	conn *websocket.Conn,
	subscriberID string,
	pongWait time.Duration,
	pingPeriod time.Duration,
	writeWait time.Duration,
	logger log.Logger,
) *Connection {
	return &Connection{
		hub:          hub,
		conn:         conn,
		subscriberID: subscriberID,
		send:         make(chan []byte, 256),
		pongWait:     pongWait,
		pingPeriod:   pingPeriod,
		writeWait:    writeWait,
		logger:       logger,
		done:         make(chan struct{}),
	}
}

// readPump pumps messages from the WebSocket connection to the hub.
//
// The application runs readPump in a per-connection goroutine. The
// application ensures that there is at most one reader on a connection
// by executing all reads from this goroutine.
func (c *Connection) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
		return nil
	})
	c.conn.SetReadLimit(maxCommandBytes)

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Errorf(context.Background(), "WebSocket read error for subscriber %s: %v", c.subscriberID, err)
			}
			break
		}

		c.hub.handleCommand(c, message)
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
//
// A goroutine running writePump is started for each connection. The
// application ensures that there is at most one writer to a connection
// by executing all writes from this goroutine. Each queued message is
// written as its own text frame so clients can parse frames as complete
// JSON documents.
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// Start starts the connection's read and write pumps.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection. Safe to call from multiple goroutines.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}
