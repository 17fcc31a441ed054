package feed

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveFeed(t *testing.T, hub *Hub, userID string) string {
	t.Helper()

	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		client := NewClient(r.URL.Query().Get("id"), userID, conn, hub)
		hub.Register <- client

		go client.WritePump()
		go client.ReadPump()
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close() //nolint:errcheck // handshake response

	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestClientPingPongAndDelivery(t *testing.T) {
	hub := startHub(t)
	url := serveFeed(t, hub, "user-1")

	conn := dial(t, url+"?id=client-1")
	defer conn.Close() //nolint:errcheck // test cleanup

	require.NoError(t, conn.WriteJSON(map[string]string{"type": TypePing}))
	assert.Equal(t, TypePong, readEvent(t, conn).Type)

	ev, err := NewEvent(TypeMessageCreated, CollectionMessages, "msg-1", map[string]string{"role": "assistant"})
	require.NoError(t, err)
	payload, err := json.Marshal(ev)
	require.NoError(t, err)

	hub.Deliver("user-1", payload)

	got := readEvent(t, conn)
	assert.Equal(t, TypeMessageCreated, got.Type)
	assert.Equal(t, CollectionMessages, got.Collection)
	assert.Equal(t, "msg-1", got.DocumentID)
}

func TestClientRejectsUnknownMessages(t *testing.T) {
	hub := startHub(t)
	conn := dial(t, serveFeed(t, hub, "user-1")+"?id=client-1")
	defer conn.Close() //nolint:errcheck // test cleanup

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"code_update"}`)))

	got := readEvent(t, conn)
	assert.Equal(t, TypeError, got.Type)
	assert.JSONEq(t, `{"message":"unsupported message"}`, string(got.Data))
}

func TestClientDisconnectUnregisters(t *testing.T) {
	hub := startHub(t)
	conn := dial(t, serveFeed(t, hub, "user-1")+"?id=client-1")

	require.NoError(t, conn.WriteJSON(map[string]string{"type": TypePing}))
	readEvent(t, conn)
	require.Equal(t, 1, hub.ClientCount("user-1"))

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return hub.ClientCount("user-1") == 0 }, 2*time.Second, 10*time.Millisecond)
}
