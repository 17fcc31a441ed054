package feed

import (
	"time"

	"codeberg.org/gemiwell/server/internal/logger"
)

func NewHub() *Hub {
	return &Hub{
		clients:     make(map[string]map[string]*Client),
		Register:    make(chan *Client),
		Unregister:  make(chan *Client),
		deliveries:  make(chan delivery, 256),
		shutdown:    make(chan struct{}),
		done:        make(chan struct{}),
		gracePeriod: 500 * time.Millisecond,
	}
}

// starts the hub's main loop; returns after Shutdown
func (h *Hub) Run() {
	h.mu.Lock()
	h.running = true
	h.mu.Unlock()

	defer close(h.done)

	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case d := <-h.deliveries:
			h.deliver(d)

		case <-h.shutdown:
			h.closeAllConnections()
			return
		}
	}
}

// queues a published payload for every local connection of the user
func (h *Hub) Deliver(userID string, payload []byte) {
	select {
	case h.deliveries <- delivery{userID: userID, payload: payload}:
	case <-h.shutdown:
	}
}

// reports whether the user may open another connection on this instance
func (h *Hub) CanAcceptConnection(userID string) bool {
	return h.ClientCount(userID) < MaxConnectionsPerUser
}

func (h *Hub) ClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[userID])
}

// stops the loop, notifying and closing every connection first
func (h *Hub) Shutdown() {
	h.closeOnce.Do(func() {
		close(h.shutdown)
	})

	h.mu.RLock()
	running := h.running
	h.mu.RUnlock()

	if running {
		<-h.done
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.clients[client.UserID]) >= MaxConnectionsPerUser {
		logger.Warn("feed connection rejected, limit reached",
			"client_id", client.ID,
			"user_id", client.UserID,
		)

		client.Close()
		return
	}

	if h.clients[client.UserID] == nil {
		h.clients[client.UserID] = make(map[string]*Client)
	}

	h.clients[client.UserID][client.ID] = client

	logger.Info("feed client registered",
		"client_id", client.ID,
		"user_id", client.UserID,
		"connections", len(h.clients[client.UserID]),
	)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userClients, exists := h.clients[client.UserID]
	if !exists {
		return
	}

	if _, exists := userClients[client.ID]; !exists {
		return
	}

	delete(userClients, client.ID)
	client.Close()

	if len(userClients) == 0 {
		delete(h.clients, client.UserID)
	}

	logger.Info("feed client unregistered",
		"client_id", client.ID,
		"user_id", client.UserID,
	)
}

func (h *Hub) deliver(d delivery) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[d.userID] {
		if err := client.enqueue(d.payload); err != nil {
			logger.Warn("dropped feed event",
				"client_id", client.ID,
				"user_id", d.userID,
				"error", err,
			)
		}
	}
}

func (h *Hub) closeAllConnections() {
	h.mu.Lock()

	logger.Info("notifying feed clients of server shutdown")

	notice := Event{Type: TypeServerShutdown, Timestamp: time.Now().UTC()}
	for _, userClients := range h.clients {
		for _, client := range userClients {
			client.Send(notice) //nolint:errcheck // best effort
		}
	}

	h.mu.Unlock()

	// give clients time to receive the shutdown notice
	time.Sleep(h.gracePeriod)

	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, userClients := range h.clients {
		for _, client := range userClients {
			client.Close()
		}

		delete(h.clients, userID)
	}

	logger.Info("closed all feed connections")
}
