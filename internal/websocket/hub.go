package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/blogcast/blogcast/domain"
	"github.com/blogcast/blogcast/usecase"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 256 * 1024 // generous headroom for raw_text payloads

	// Upper bound on one pipeline run started over this connection.
	runTimeout = 5 * time.Minute
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub maintains the set of active clients and hands each one the pipeline.
type Hub struct {
	// Registered clients.
	clients map[*Client]struct{}

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex

	pipeline *usecase.Pipeline

	logger *zap.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(pipeline *usecase.Pipeline, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		pipeline:   pipeline,
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
			h.logger.Info("Client registered", zap.String("clientID", client.clientID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
			}
			h.mu.Unlock()
			h.logger.Info("Client unregistered", zap.String("clientID", client.clientID))
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan []byte

	// Authenticated client ID for this connection
	clientID string

	validator *MessageValidator

	logger *zap.Logger

	// Guards running, closed, and sends on the send channel. A pipeline run
	// can outlive the connection, so send stays open until closeSend and
	// every producer checks closed under this mutex first.
	running bool
	closed  bool
	mutex   sync.Mutex
}

// closeSend marks the client closed and closes the send channel exactly once.
// After this, enqueue drops messages instead of sending.
func (c *Client) closeSend() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// HandleWebSocketWithAuth handles websocket requests with a pre-authenticated
// client ID.
func HandleWebSocketWithAuth(hub *Hub, c echo.Context, clientID string, logger *zap.Logger) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	client := &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, 16),
		clientID:  clientID,
		validator: NewMessageValidator(),
		logger:    logger,
	}

	client.hub.register <- client

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()

	return nil
}

// readPump pumps messages from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}

		if messageType != websocket.TextMessage {
			c.logger.Warn("Received unknown message type", zap.Int("type", messageType))
			continue
		}
		c.processMessage(message)
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// processMessage processes incoming messages from the client
func (c *Client) processMessage(message []byte) {
	parsed, err := c.validator.ValidateMessage(message)
	if err != nil {
		c.logger.Warn("Rejected message", zap.String("clientID", c.clientID), zap.Error(err))
		code := "invalid_message"
		if errors.Is(err, domain.ErrInvalidInput) {
			code = "invalid_input"
		}
		c.enqueue(CreateErrorMessage(code, err.Error()))
		return
	}

	switch msg := parsed.(type) {
	case *CreateEpisodeMessage:
		c.handleCreateEpisode(msg)
	case *PingMessage:
		c.enqueue(CreatePongMessage(msg.Data))
	}
}

// handleCreateEpisode runs the pipeline for one request, streaming stage
// transitions back as they happen.
func (c *Client) handleCreateEpisode(msg *CreateEpisodeMessage) {
	c.mutex.Lock()
	if c.running {
		c.mutex.Unlock()
		c.enqueue(CreateErrorMessage("run_in_progress", "an episode is already being produced on this connection"))
		return
	}
	c.running = true
	c.mutex.Unlock()

	c.logger.Info("Episode run started", zap.String("clientID", c.clientID))

	go func() {
		defer func() {
			c.mutex.Lock()
			c.running = false
			c.mutex.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		episode, err := c.hub.pipeline.Run(ctx, msg.RawInput, msg.Overrides, func(stage usecase.Stage) {
			c.enqueue(CreateStageMessage(stage))
		})
		if err != nil {
			c.logger.Error("Episode run failed",
				zap.String("clientID", c.clientID),
				zap.Error(err))
			c.enqueue(CreateErrorMessage(domain.ErrorCode(err), err.Error()))
			return
		}

		c.logger.Info("Episode run complete",
			zap.String("clientID", c.clientID),
			zap.String("episodeID", episode.ID))
		c.enqueue(CreateEpisodeResultMessage(episode))
	}()
}

// enqueue marshals a message onto the send channel, dropping it when the
// connection is gone or the writer has fallen too far behind.
func (c *Client) enqueue(v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("Failed to marshal outbound message", zap.Error(err))
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed {
		c.logger.Warn("Dropped outbound message: connection closed",
			zap.String("clientID", c.clientID))
		return
	}
	select {
	case c.send <- payload:
	default:
		c.logger.Warn("Dropped outbound message: send buffer full",
			zap.String("clientID", c.clientID))
	}
}
