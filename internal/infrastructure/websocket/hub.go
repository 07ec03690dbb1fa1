// Package websocket pushes cache refresh signals to connected browsers.
// Clients watch logical paths; when a mutation invalidates a path, every
// watcher receives a refresh message.
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/mkravets/eventhub/internal/infrastructure/revalidate"
)

const defaultBroadcastBufferSize = 256

// RefreshMessage is pushed to every client watching an invalidated path.
type RefreshMessage struct {
	Type       string    `json:"type"`
	Path       string    `json:"path"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Hub manages all WebSocket connections and their path subscriptions.
type Hub struct {
	// clients holds all connected clients.
	clients map[*Client]bool

	// watchers maps logical paths to the clients watching them.
	watchers map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMessage

	mu     sync.RWMutex
	logger *slog.Logger

	done      chan struct{}
	running   bool
	runningMu sync.RWMutex
}

// broadcastMessage targets all watchers of one path.
type broadcastMessage struct {
	path    string
	message []byte
}

// HubOption configures the Hub.
type HubOption func(*Hub)

// WithHubLogger sets the logger for the hub.
func WithHubLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		h.logger = logger
	}
}

// NewHub creates a new Hub with the given options.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		clients:    make(map[*Client]bool),
		watchers:   make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *broadcastMessage, defaultBroadcastBufferSize),
		logger:     slog.Default(),
		done:       make(chan struct{}),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Run starts the hub's main event loop. It should be run as a goroutine.
func (h *Hub) Run(ctx context.Context) {
	h.runningMu.Lock()
	if h.running {
		h.runningMu.Unlock()
		return
	}
	h.running = true
	h.runningMu.Unlock()

	h.logger.InfoContext(ctx, "websocket hub started")

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case <-h.done:
			h.shutdown()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.handleBroadcast(msg)
		}
	}
}

// Stop signals the hub to stop.
func (h *Hub) Stop() {
	h.runningMu.Lock()
	defer h.runningMu.Unlock()

	if !h.running {
		return
	}

	close(h.done)
}

func (h *Hub) shutdown() {
	h.runningMu.Lock()
	h.running = false
	h.runningMu.Unlock()

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.Close()
	}

	h.clients = make(map[*Client]bool)
	h.watchers = make(map[string]map[*Client]bool)

	h.logger.Info("websocket hub stopped")
}

// Register registers a new client with the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister unregisters a client from the hub.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	h.logger.Debug("client registered",
		slog.Int("total_clients", len(h.clients)),
	)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}

	for _, path := range client.WatchedPaths() {
		if watchers, ok := h.watchers[path]; ok {
			delete(watchers, client)
			if len(watchers) == 0 {
				delete(h.watchers, path)
			}
		}
	}

	delete(h.clients, client)
	client.Close()

	h.logger.Debug("client unregistered",
		slog.Int("total_clients", len(h.clients)),
	)
}

// Watch subscribes a client to refresh signals for a path.
func (h *Hub) Watch(client *Client, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}

	if h.watchers[path] == nil {
		h.watchers[path] = make(map[*Client]bool)
	}
	h.watchers[path][client] = true
	client.addPath(path)

	h.logger.Debug("client watching path",
		slog.String("path", path),
	)
}

// Unwatch removes a client's subscription to a path.
func (h *Hub) Unwatch(client *Client, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if watchers, ok := h.watchers[path]; ok {
		delete(watchers, client)
		if len(watchers) == 0 {
			delete(h.watchers, path)
		}
	}
	client.removePath(path)

	h.logger.Debug("client stopped watching path",
		slog.String("path", path),
	)
}

// BroadcastPath pushes a refresh message to every watcher of the path.
func (h *Hub) BroadcastPath(path string, occurredAt time.Time) {
	msg := RefreshMessage{
		Type:       "refresh",
		Path:       path,
		OccurredAt: occurredAt,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.broadcast <- &broadcastMessage{path: path, message: data}
}

func (h *Hub) handleBroadcast(msg *broadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	watchers, ok := h.watchers[msg.path]
	if !ok {
		return
	}

	for client := range watchers {
		select {
		case client.send <- msg.message:
		default:
			// Client's send buffer is full, skip this message
			h.logger.Warn("client send buffer full, dropping message",
				slog.String("path", msg.path),
			)
		}
	}
}

// AttachBus subscribes the hub to a revalidation bus so that notices
// published by mutations fan out to the watching clients.
func (h *Hub) AttachBus(bus *revalidate.RedisBus) error {
	return bus.Subscribe(func(_ context.Context, notice revalidate.Notice) error {
		h.BroadcastPath(notice.Path, notice.OccurredAt)
		return nil
	})
}

// ClientCount returns the total number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// WatchedPathCount returns the number of paths with at least one watcher.
func (h *Hub) WatchedPathCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers)
}

// WatcherCount returns the number of clients watching a specific path.
func (h *Hub) WatcherCount(path string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if watchers, ok := h.watchers[path]; ok {
		return len(watchers)
	}
	return 0
}

// IsRunning returns whether the hub is currently running.
func (h *Hub) IsRunning() bool {
	h.runningMu.RLock()
	defer h.runningMu.RUnlock()
	return h.running
}
