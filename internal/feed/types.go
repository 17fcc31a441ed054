package feed

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// event types pushed to subscribers
const (
	TypeProfileUpdated = "profile_updated"
	TypeMessageCreated = "message_created"
	TypeReportCreated  = "report_created"
	TypeReportDeleted  = "report_deleted"

	// is sent by clients to keep the connection alive
	TypePing = "ping"

	// is sent by server in response to ping
	TypePong = "pong"

	TypeError = "error"

	// is sent by server before shutdown
	TypeServerShutdown = "server_shutdown"
)

// collections events refer to
const (
	CollectionProfile  = "profile"
	CollectionMessages = "messages"
	CollectionReports  = "reports"
)

// redis channel events for a user are published on
const ChannelPrefix = "gemiwell:feed:"

// client connection constants
const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// clients only ever send pings
	maxMessageSize = 4 * 1024

	sendBufferSize = 64
)

const MaxConnectionsPerUser = 5

var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrTooManyClients   = errors.New("too many connections for user")
)

// delivers events to a user's subscribers
type Publisher interface {
	Publish(ctx context.Context, userID string, ev Event) error
}

// a change to one of a user's documents
type Event struct {
	Type       string          `json:"type"`
	Collection string          `json:"collection,omitempty"`
	DocumentID string          `json:"document_id,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

// tracks every live feed connection on this instance, grouped by user
type Hub struct {
	clients     map[string]map[string]*Client
	Register    chan *Client
	Unregister  chan *Client
	deliveries  chan delivery
	shutdown    chan struct{}
	done        chan struct{}
	mu          sync.RWMutex
	closeOnce   sync.Once
	running     bool
	gracePeriod time.Duration
}

type delivery struct {
	userID  string
	payload []byte
}

// one websocket connection subscribed to a user's feed
type Client struct {
	ID     string
	UserID string
	conn   *websocket.Conn
	hub    *Hub
	send   chan []byte
	mu     sync.RWMutex
	closed bool
}

// what a client may send
type inbound struct {
	Type string `json:"type"`
}
