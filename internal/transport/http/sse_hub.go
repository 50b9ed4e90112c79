package http

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"vn.io.arda/contos/internal/domain"
)

// Client is one open notification stream.
type Client struct {
	userID uuid.UUID
	send   chan []byte
	done   chan struct{}
	once   sync.Once
}

// Send yields SSE frames queued for this client.
func (c *Client) Send() <-chan []byte { return c.send }

// Done is closed when a newer stream for the same user replaces this one.
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) close() {
	c.once.Do(func() { close(c.done) })
}

// Hub keeps at most one live stream per user. It is process-local; the redis
// Broker relays notifications created on other instances into it.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
	buffer  int
}

// NewHub creates a Hub whose clients queue up to buffer frames.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 32
	}
	return &Hub{clients: make(map[uuid.UUID]*Client), buffer: buffer}
}

// Register opens a stream for userID, replacing and closing any previous one.
func (h *Hub) Register(userID uuid.UUID) *Client {
	c := &Client{userID: userID, send: make(chan []byte, h.buffer), done: make(chan struct{})}

	h.mu.Lock()
	prev := h.clients[userID]
	h.clients[userID] = c
	h.mu.Unlock()

	if prev != nil {
		prev.close()
		log.Debug().Str("user", userID.String()).Msg("SSE client replaced")
	}
	log.Debug().Str("user", userID.String()).Msg("SSE client connected")
	return c
}

// Unregister removes c unless a newer stream already took its place.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if h.clients[c.userID] == c {
		delete(h.clients, c.userID)
	}
	h.mu.Unlock()

	c.close()
	log.Debug().Str("user", c.userID.String()).Msg("SSE client disconnected")
}

// Emit queues n for the user's open stream. It never blocks; with no stream or
// a full buffer the frame is dropped.
func (h *Hub) Emit(userID uuid.UUID, n *domain.Notification) {
	h.mu.RLock()
	c := h.clients[userID]
	h.mu.RUnlock()
	if c == nil {
		return
	}

	msg, err := buildSSEMessage(n)
	if err != nil {
		log.Error().Err(err).Str("notification", n.ID.String()).Msg("encode SSE frame")
		return
	}

	select {
	case c.send <- msg:
	default:
		log.Warn().Str("user", userID.String()).Msg("SSE client send buffer full, skipping")
	}
}

// ConnectedCount returns the number of open streams.
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// buildSSEMessage formats a notification as an unnamed SSE data frame, which
// browsers deliver to EventSource.onmessage.
func buildSSEMessage(n any) ([]byte, error) {
	b, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	return []byte("data: " + string(b) + "\n\n"), nil
}
