package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jonboulle/clockwork"

	"github.com/L3pereira/ndgms/internal/model"
	"github.com/L3pereira/ndgms/internal/observability"
	ws "github.com/L3pereira/ndgms/internal/websocket"
	"github.com/L3pereira/ndgms/pkg/log"
)

// admitFunc decides whether one notification reaches one subscriber.
// It returns the decision and, when rejected, the reason.
type admitFunc func(eq model.Earthquake, subscriberID string) (bool, string)

// Hub maintains the set of active connections and their channel
// subscriptions, and broadcasts messages to them.
type Hub struct {
	// Registered connections (subscriberID -> *Connection).
	connections map[string]*Connection

	// Channel subscriptions (channel -> set of subscriberIDs).
	subscribers map[ws.Channel]map[string]struct{}

	mu sync.RWMutex

	// Teardown requests from connection read pumps.
	unregister chan *Connection

	// Counters.
	totalMessagesSent     atomic.Int64
	totalMessagesFiltered atomic.Int64
	totalMessagesFailed   atomic.Int64

	// Configuration.
	maxConnections  int
	maxMessageBytes int

	// Dependencies.
	filter  *BroadcastFilter
	logger  log.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock

	// Context for graceful shutdown.
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func newHub(
	logger log.Logger,
	metrics *observability.Metrics,
	filter *BroadcastFilter,
	clock clockwork.Clock,
	maxConnections int,
	maxMessageBytes int,
) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		connections:     make(map[string]*Connection),
		subscribers:     make(map[ws.Channel]map[string]struct{}),
		unregister:      make(chan *Connection, 100),
		maxConnections:  maxConnections,
		maxMessageBytes: maxMessageBytes,
		filter:          filter,
		logger:          logger,
		metrics:         metrics,
		clock:           clock,
		ctx:             ctx,
		cancel:          cancel,
		done:            make(chan struct{}),
	}
}

// run is the hub's main loop.
func (h *Hub) run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.logger.Info(context.Background(), "Hub shutting down...")
			h.closeAllConnections()
			return

		case conn := <-h.unregister:
			h.unregisterConnection(conn)
		}
	}
}

// shutdown stops the run loop and waits for it to drain.
func (h *Hub) shutdown(ctx context.Context) error {
	h.cancel()

	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// registerConnection admits a connection into the registry. The caller
// starts the pumps only after a nil return.
func (h *Hub) registerConnection(conn *Connection) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.connections) >= h.maxConnections {
		h.logger.Warnf(context.Background(), "Max connections reached, rejecting subscriber: %s", conn.subscriberID)
		return ws.ErrMaxConnectionsReached
	}

	h.connections[conn.subscriberID] = conn
	h.metrics.ActiveConnections.Inc()

	h.logger.Infof(context.Background(), "Subscriber connected: %s (total connections: %d)",
		conn.subscriberID, len(h.connections))
	return nil
}

func (h *Hub) unregisterConnection(conn *Connection) {
	h.mu.Lock()
	h.removeLocked(conn)
	h.mu.Unlock()

	conn.Close()
}

// removeLocked drops a connection from the registry and every channel,
// and forgets its filter state. Idempotent; must be called with the
// write lock held. The send channel stays open: in-flight broadcasts
// may still queue on it, and the write pump is stopped through
// Connection.Close instead.
func (h *Hub) removeLocked(conn *Connection) {
	current, exists := h.connections[conn.subscriberID]
	if !exists || current != conn {
		return
	}

	delete(h.connections, conn.subscriberID)
	for _, subs := range h.subscribers {
		delete(subs, conn.subscriberID)
	}
	h.filter.Forget(conn.subscriberID)
	h.metrics.ActiveConnections.Dec()

	h.logger.Infof(context.Background(), "Subscriber disconnected: %s (total connections: %d)",
		conn.subscriberID, len(h.connections))
}

// subscribe adds a connection to a channel and acks it. Repeating a
// subscription is a no-op apart from the ack. A connection that has
// already been removed from the registry is ignored, so a command
// racing a disconnect cannot leave a dangling channel entry.
func (h *Hub) subscribe(conn *Connection, channel ws.Channel) {
	h.mu.Lock()
	if current, ok := h.connections[conn.subscriberID]; !ok || current != conn {
		h.mu.Unlock()
		return
	}
	if _, ok := h.subscribers[channel]; !ok {
		h.subscribers[channel] = make(map[string]struct{})
	}
	h.subscribers[channel][conn.subscriberID] = struct{}{}
	h.mu.Unlock()

	h.sendEnvelope(conn, ws.Envelope{
		Type:      ws.MessageTypeSubscriptionConfirmed,
		Data:      ws.SubscriptionData{Subscription: channel},
		Timestamp: h.clock.Now().UTC(),
	})

	h.logger.Debugf(context.Background(), "Subscriber %s subscribed to channel %s", conn.subscriberID, channel)
}

// handleCommand processes one inbound client message.
func (h *Hub) handleCommand(conn *Connection, raw []byte) {
	var cmd ws.Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		h.sendError(conn, "Invalid JSON message")
		return
	}

	switch cmd.Action {
	case ws.ActionSubscribeEvents:
		h.subscribe(conn, ws.ChannelEvents)
	case ws.ActionSubscribeAlerts:
		h.subscribe(conn, ws.ChannelAlerts)
	default:
		h.sendError(conn, fmt.Sprintf("Unknown action: %s", cmd.Action))
	}
}

// broadcast delivers an envelope to every subscriber of a channel that
// passes the admission function. The payload is marshaled once and
// size-checked before fan-out; subscribers whose send buffer is full
// are evicted.
func (h *Hub) broadcast(ctx context.Context, channel ws.Channel, env ws.Envelope, source model.Earthquake, admit admitFunc) {
	payload, err := json.Marshal(env)
	if err != nil {
		h.logger.Errorf(ctx, "internal.websocket.usecase.hub.broadcast.Marshal: %v", err)
		h.totalMessagesFailed.Add(1)
		return
	}

	if len(payload) > h.maxMessageBytes {
		h.metrics.MessagesOversized.Inc()
		h.logger.Warnf(ctx, "Oversized %s payload (%d bytes), substituting error notice", env.Type, len(payload))
		notice := ws.Envelope{
			Type:      ws.MessageTypeError,
			Message:   fmt.Sprintf("Message of type %s exceeded the size limit and was not delivered", env.Type),
			Timestamp: h.clock.Now().UTC(),
		}
		payload, err = json.Marshal(notice)
		if err != nil {
			h.logger.Errorf(ctx, "internal.websocket.usecase.hub.broadcast.MarshalNotice: %v", err)
			h.totalMessagesFailed.Add(1)
			return
		}
	}

	h.mu.RLock()
	subs := h.subscribers[channel]
	targets := make([]*Connection, 0, len(subs))
	for subscriberID := range subs {
		if conn, ok := h.connections[subscriberID]; ok {
			targets = append(targets, conn)
		}
	}
	h.mu.RUnlock()

	var dead []*Connection
	for _, conn := range targets {
		ok, reason := admit(source, conn.subscriberID)
		if !ok {
			h.totalMessagesFiltered.Add(1)
			h.metrics.MessagesFiltered.WithLabelValues(string(channel), reason).Inc()
			continue
		}

		select {
		case conn.send <- payload:
			h.totalMessagesSent.Add(1)
			h.metrics.MessagesSent.WithLabelValues(string(channel)).Inc()
		default:
			h.logger.Warnf(ctx, "Send buffer full for subscriber %s, evicting", conn.subscriberID)
			h.totalMessagesFailed.Add(1)
			h.metrics.SendFailures.Inc()
			dead = append(dead, conn)
		}
	}

	if len(dead) > 0 {
		h.mu.Lock()
		for _, conn := range dead {
			h.removeLocked(conn)
		}
		h.mu.Unlock()
		for _, conn := range dead {
			conn.Close()
		}
	}
}

// sendEnvelope marshals and queues a single envelope for one connection.
func (h *Hub) sendEnvelope(conn *Connection, env ws.Envelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		h.logger.Errorf(context.Background(), "internal.websocket.usecase.hub.sendEnvelope.Marshal: %v", err)
		return
	}

	select {
	case conn.send <- payload:
	default:
		h.logger.Warnf(context.Background(), "Send buffer full for subscriber %s, dropping message", conn.subscriberID)
		h.totalMessagesFailed.Add(1)
		h.metrics.SendFailures.Inc()
	}
}

func (h *Hub) sendError(conn *Connection, message string) {
	h.sendEnvelope(conn, ws.Envelope{
		Type:      ws.MessageTypeError,
		Message:   message,
		Timestamp: h.clock.Now().UTC(),
	})
}

// disconnect removes a connection by subscriber id. Idempotent.
func (h *Hub) disconnect(subscriberID string) {
	h.mu.Lock()
	conn, ok := h.connections[subscriberID]
	if ok {
		h.removeLocked(conn)
	}
	h.mu.Unlock()

	if ok {
		conn.Close()
	}
}

func (h *Hub) closeAllConnections() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for subscriberID, conn := range h.connections {
		conn.Close()
		h.filter.Forget(subscriberID)
		h.metrics.ActiveConnections.Dec()
	}
	h.connections = make(map[string]*Connection)
	h.subscribers = make(map[ws.Channel]map[string]struct{})
}

// stats returns a snapshot of the registry and delivery counters.
func (h *Hub) stats() ws.HubStats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return ws.HubStats{
		ActiveConnections: len(h.connections),
		EventSubscribers:  len(h.subscribers[ws.ChannelEvents]),
		AlertSubscribers:  len(h.subscribers[ws.ChannelAlerts]),
		MessagesSent:      h.totalMessagesSent.Load(),
		MessagesFiltered:  h.totalMessagesFiltered.Load(),
		MessagesFailed:    h.totalMessagesFailed.Load(),
	}
}
