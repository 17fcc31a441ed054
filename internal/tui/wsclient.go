package tui

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"codeberg.org/gemiwell/server/internal/feed"
)

// creates a feed client; the endpoint defaults to the API endpoint's /api/v1/ws
func NewFeedClient() *FeedClient {
	endpoint := os.Getenv("GEMIWELL_WS_ENDPOINT")
	if endpoint == "" {
		api := os.Getenv("GEMIWELL_API_ENDPOINT")
		if api == "" {
			api = "http://localhost:8080"
		}
		endpoint = "ws" + strings.TrimPrefix(api, "http") + "/api/v1/ws"
	}

	return &FeedClient{
		endpoint: endpoint,
		token:    os.Getenv("GEMIWELL_TOKEN"),
		events:   make(chan feed.Event, feedBuffer),
		done:     make(chan struct{}),
	}
}

// Connect dials the feed and starts the read and ping pumps
func (c *FeedClient) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	conn, resp, err := websocket.DefaultDialer.Dial(c.endpoint+"?token="+url.QueryEscape(c.token), nil)
	if resp != nil {
		resp.Body.Close() //nolint:errcheck,gosec // handshake response
	}
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.conn = conn

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go c.readPump(conn)
	go c.pingPump(conn)

	return nil
}

// sends feed-level pings so the server keeps the connection open
func (c *FeedClient) pingPump(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second)) //nolint:errcheck,gosec
			err := conn.WriteJSON(map[string]string{"type": feed.TypePing})
			c.mu.Unlock()

			if err != nil {
				return
			}
		}
	}
}

func (c *FeedClient) readPump(conn *websocket.Conn) {
	defer close(c.events)

	for {
		conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec

		var ev feed.Event
		if err := conn.ReadJSON(&ev); err != nil {
			return
		}

		if ev.Type == feed.TypePong {
			continue
		}

		select {
		case c.events <- ev:
		case <-c.done:
			return
		}
	}
}

// closes the connection; safe to call more than once
func (c *FeedClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return
	default:
		close(c.done)
	}

	if c.conn != nil {
		c.conn.Close() //nolint:errcheck,gosec
	}
}

// returns a tea.Cmd that connects and waits for the first event
func (c *FeedClient) ConnectCmd() tea.Cmd {
	return func() tea.Msg {
		if err := c.Connect(); err != nil {
			return FeedClosedMsg{err: err}
		}

		return c.next()
	}
}

// returns a tea.Cmd that waits for the next event
func (c *FeedClient) ListenCmd() tea.Cmd {
	return c.next
}

func (c *FeedClient) next() tea.Msg {
	ev, ok := <-c.events
	if !ok {
		return FeedClosedMsg{}
	}

	return FeedEventMsg{event: ev}
}
