package tui

import (
	"net/http"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/gorilla/websocket"

	"codeberg.org/gemiwell/server/internal/feed"
)

// represents the current state of the TUI
type AppState int

const (
	StateWelcome AppState = iota
	StateChat
)

// main TUI application model
type Model struct {
	state   AppState
	mode    string
	width   int
	height  int
	err     error
	welcome *Welcome
	chat    *ChatModel
}

// sent when an error occurs
type ErrorMsg struct {
	err error
}

// sent to transition to the chat state
type EnterChatMsg struct{}

// a chat line as returned by /api/v1/chat/messages
type ChatMessage struct {
	ID      string `json:"id,omitempty"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// health coach conversation view
type ChatModel struct {
	input              textinput.Model
	viewport           viewport.Model
	width              int
	height             int
	history            []ChatMessage
	notice             string
	isFetching         bool
	spinner            spinner.Model
	glamourRenderer    *glamour.TermRenderer
	ready              bool
	started            bool
	api                *APIClient
	feed               *FeedClient
}

// sent when the advisor answers; refused is set for moderated failures
type ChatResponseMsg struct {
	query   string
	answer  string
	refused bool
}

// sent when the request itself fails (network, auth, rate limit)
type ChatErrorMsg struct {
	query string
	err   error
}

// sent when stored history has loaded
type HistoryMsg struct {
	messages []ChatMessage
}

// sent for every event pushed over the live feed
type FeedEventMsg struct {
	event feed.Event
}

// sent when the live feed can't connect or drops
type FeedClosedMsg struct {
	err error
}

// welcome screen model
type Welcome struct {
	mode     string
	input    string
	commands []Command
}

// represents an available TUI command
type Command struct {
	Name        string
	Description string
	Available   bool
}

// talks to the GemiWell REST API with a bearer token
type APIClient struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// subscribes to the user's live feed
type FeedClient struct {
	endpoint string
	token    string
	conn     *websocket.Conn
	events   chan feed.Event
	mu       sync.Mutex
	done     chan struct{}
}

// REST API request/response types

type chatRequest struct {
	Query string `json:"query"`
}

type chatResponse struct {
	Advice string `json:"advice,omitempty"`
	Error  string `json:"error,omitempty"`
}

type historyResponse struct {
	Messages []ChatMessage `json:"messages"`
}

type apiErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
