package feed

import (
	"encoding/json"
	"time"

	"codeberg.org/gemiwell/server/internal/logger"
	"github.com/gorilla/websocket"
)

func NewClient(id, userID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:     id,
		UserID: userID,
		conn:   conn,
		hub:    hub,
		send:   make(chan []byte, sendBufferSize),
	}
}

// reads client frames until the connection drops; only ping is understood
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.Unregister <- c:
		case <-c.hub.shutdown:
		}

		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: websocket setup
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: pong handler
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("feed websocket error",
					"client_id", c.ID,
					"user_id", c.UserID,
					"error", err,
				)
			}

			return
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != TypePing {
			c.SendError("unsupported message")
			continue
		}

		c.Send(Event{Type: TypePong, Timestamp: time.Now().UTC()}) //nolint:errcheck // connection may already be closing
	}
}

// writes queued events to the connection and keeps it alive with pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket timing

			if !ok {
				// hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck,gosec // G104: close message
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket ping timing

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) Send(ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return c.enqueue(payload)
}

func (c *Client) SendError(message string) {
	data, _ := json.Marshal(map[string]string{"message": message}) //nolint:errcheck // map of strings

	c.Send(Event{Type: TypeError, Data: data, Timestamp: time.Now().UTC()}) //nolint:errcheck // best effort
}

// a full buffer means the peer stopped reading; the connection is dropped
func (c *Client) enqueue(payload []byte) error {
	c.mu.RLock()

	if c.closed {
		c.mu.RUnlock()
		return ErrConnectionClosed
	}

	select {
	case c.send <- payload:
		c.mu.RUnlock()
		return nil
	default:
		c.mu.RUnlock()
		c.Close()
		return ErrConnectionClosed
	}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.closed
}
