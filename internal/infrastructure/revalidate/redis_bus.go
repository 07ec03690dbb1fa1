// Package revalidate provides the cache revalidation bus. Mutations publish
// the logical paths they invalidate; subscribers (the websocket hub, edge
// caches) react by refreshing those paths.
package revalidate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	eventapp "github.com/mkravets/eventhub/internal/application/event"
)

const defaultChannel = "revalidate:paths"

// Notice is the message published for every invalidated path.
type Notice struct {
	ID         string    `json:"id"`
	Path       string    `json:"path"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Handler reacts to a revalidation notice.
type Handler func(ctx context.Context, notice Notice) error

// RedisBus fans revalidation notices out over Redis Pub/Sub. It implements
// the PathRevalidator interface consumed by the event use cases on the
// publish side, and drives registered handlers on the subscribe side.
type RedisBus struct {
	client    *redis.Client
	pubsub    *redis.PubSub
	pubsubMu  sync.RWMutex
	handlers  []Handler
	handlerMu sync.RWMutex
	running   bool
	runningMu sync.RWMutex
	shutdown  chan struct{}
	wg        sync.WaitGroup
	logger    *slog.Logger
	channel   string
}

// Option configures a RedisBus.
type Option func(*RedisBus)

// WithLogger sets the logger for the bus.
func WithLogger(logger *slog.Logger) Option {
	return func(b *RedisBus) {
		b.logger = logger
	}
}

// WithChannel overrides the Redis channel name.
func WithChannel(channel string) Option {
	return func(b *RedisBus) {
		b.channel = channel
	}
}

// NewRedisBus creates a new Redis-backed revalidation bus.
func NewRedisBus(client *redis.Client, opts ...Option) *RedisBus {
	b := &RedisBus{
		client:   client,
		shutdown: make(chan struct{}),
		logger:   slog.Default(),
		channel:  defaultChannel,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Revalidate publishes a notice for the given path.
func (b *RedisBus) Revalidate(ctx context.Context, path string) error {
	if path == "" {
		return errors.New("path cannot be empty")
	}

	notice := Notice{
		ID:         uuid.New().String(),
		Path:       path,
		OccurredAt: time.Now().UTC(),
	}

	data, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("failed to marshal revalidation notice: %w", err)
	}

	if publishErr := b.client.Publish(ctx, b.channel, data).Err(); publishErr != nil {
		return fmt.Errorf("failed to publish revalidation notice: %w", publishErr)
	}

	b.logger.DebugContext(ctx, "revalidation published",
		slog.String("notice_id", notice.ID),
		slog.String("path", path),
		slog.String("channel", b.channel),
	)

	return nil
}

// Subscribe registers a handler for incoming notices. Handlers run
// concurrently when a notice arrives.
func (b *RedisBus) Subscribe(handler Handler) error {
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	b.handlerMu.Lock()
	defer b.handlerMu.Unlock()
	b.handlers = append(b.handlers, handler)

	return nil
}

// Start begins listening for notices. It blocks until Shutdown is called or
// the context is cancelled.
func (b *RedisBus) Start(ctx context.Context) error {
	b.runningMu.Lock()
	if b.running {
		b.runningMu.Unlock()
		return errors.New("revalidation bus is already running")
	}
	b.running = true
	b.runningMu.Unlock()

	pubsub := b.client.Subscribe(ctx, b.channel)

	// Wait for subscription confirmation before reporting started.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("failed to subscribe to channel %s: %w", b.channel, err)
	}

	b.pubsubMu.Lock()
	b.pubsub = pubsub
	b.pubsubMu.Unlock()

	b.logger.InfoContext(ctx, "revalidation bus started",
		slog.String("channel", b.channel),
	)

	msgCh := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			b.logger.InfoContext(ctx, "revalidation bus stopping due to context cancellation")
			return ctx.Err()

		case <-b.shutdown:
			b.logger.InfoContext(ctx, "revalidation bus stopping due to shutdown signal")
			return nil

		case msg, ok := <-msgCh:
			if !ok {
				b.logger.WarnContext(ctx, "message channel closed")
				return nil
			}
			b.handleMessage(ctx, msg)
		}
	}
}

// Shutdown gracefully stops the bus, waiting for in-flight handlers.
func (b *RedisBus) Shutdown() error {
	b.runningMu.Lock()
	if !b.running {
		b.runningMu.Unlock()
		return nil
	}
	b.running = false
	b.runningMu.Unlock()

	close(b.shutdown)
	b.wg.Wait()

	b.pubsubMu.Lock()
	pubsub := b.pubsub
	b.pubsub = nil
	b.pubsubMu.Unlock()

	if pubsub != nil {
		if err := pubsub.Close(); err != nil {
			return fmt.Errorf("failed to close pubsub: %w", err)
		}
	}

	return nil
}

// IsRunning reports whether the bus is currently listening.
func (b *RedisBus) IsRunning() bool {
	b.runningMu.RLock()
	defer b.runningMu.RUnlock()
	return b.running
}

// HandlerCount returns the number of registered handlers.
func (b *RedisBus) HandlerCount() int {
	b.handlerMu.RLock()
	defer b.handlerMu.RUnlock()
	return len(b.handlers)
}

func (b *RedisBus) handleMessage(ctx context.Context, msg *redis.Message) {
	var notice Notice
	if err := json.Unmarshal([]byte(msg.Payload), &notice); err != nil {
		b.logger.ErrorContext(ctx, "failed to unmarshal revalidation notice",
			slog.String("channel", msg.Channel),
			slog.String("error", err.Error()),
		)
		return
	}

	b.handlerMu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.handlerMu.RUnlock()

	for i, handler := range handlers {
		b.wg.Add(1)
		go func(h Handler, index int) {
			defer b.wg.Done()
			if err := h(ctx, notice); err != nil {
				b.logger.WarnContext(ctx, "revalidation handler failed",
					slog.String("notice_id", notice.ID),
					slog.String("path", notice.Path),
					slog.Int("handler_index", index),
					slog.String("error", err.Error()),
				)
			}
		}(handler, i)
	}
}

// Ensure RedisBus implements the revalidator consumed by event use cases.
var _ eventapp.PathRevalidator = (*RedisBus)(nil)
