package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/L3pereira/ndgms/internal/model"
	"github.com/L3pereira/ndgms/internal/observability"
	ws "github.com/L3pereira/ndgms/internal/websocket"
)

// testLogger implements log.Logger for testing
type testLogger struct{}

func (m *testLogger) Debug(ctx context.Context, arg ...any)                   {}
func (m *testLogger) Debugf(ctx context.Context, template string, arg ...any) {}
func (m *testLogger) Info(ctx context.Context, arg ...any)                    {}
func (m *testLogger) Infof(ctx context.Context, template string, arg ...any)  {}
func (m *testLogger) Warn(ctx context.Context, arg ...any)                    {}
func (m *testLogger) Warnf(ctx context.Context, template string, arg ...any)  {}
func (m *testLogger) Error(ctx context.Context, arg ...any)                   {}
func (m *testLogger) Errorf(ctx context.Context, template string, arg ...any) {}
func (m *testLogger) Fatal(ctx context.Context, arg ...any)                   {}
func (m *testLogger) Fatalf(ctx context.Context, template string, arg ...any) {}

func newTestHub(t *testing.T, clock clockwork.Clock, maxConnections, maxMessageBytes int) *Hub {
	t.Helper()

	logger := &testLogger{}
	metrics := observability.NewMetricsForTesting()
	filter := NewBroadcastFilter(DefaultFilterConfig(), clock)
	return newHub(logger, metrics, filter, clock, maxConnections, maxMessageBytes)
}

func newTestConnection(hub *Hub, subscriberID string, sendBuffer int) *Connection {
	return &Connection{
		hub:          hub,
		subscriberID: subscriberID,
		send:         make(chan []byte, sendBuffer),
		logger:       &testLogger{},
		done:         make(chan struct{}),
	}
}

func mustRegister(t *testing.T, hub *Hub, conn *Connection) {
	t.Helper()

	if err := hub.registerConnection(conn); err != nil {
		t.Fatalf("registerConnection: %v", err)
	}
}

func recvEnvelope(t *testing.T, conn *Connection) ws.Envelope {
	t.Helper()

	select {
	case payload := <-conn.send:
		var env ws.Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			t.Fatalf("unmarshal envelope: %v", err)
		}
		return env
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for envelope")
		return ws.Envelope{}
	}
}

func TestHubSubscribeIsIdempotent(t *testing.T) {
	clock := clockwork.NewFakeClock()
	hub := newTestHub(t, clock, 10, 102400)

	go hub.run()
	defer hub.shutdown(context.Background())

	conn := newTestConnection(hub, "sub-1", 256)
	mustRegister(t, hub, conn)

	hub.subscribe(conn, ws.ChannelEvents)
	hub.subscribe(conn, ws.ChannelEvents)

	// Each subscribe is acked, even a repeated one.
	for i := 0; i < 2; i++ {
		env := recvEnvelope(t, conn)
		if env.Type != ws.MessageTypeSubscriptionConfirmed {
			t.Errorf("envelope %d type = %s, want %s", i, env.Type, ws.MessageTypeSubscriptionConfirmed)
		}
	}

	// Membership stays single.
	stats := hub.stats()
	if stats.EventSubscribers != 1 {
		t.Errorf("EventSubscribers = %d, want 1", stats.EventSubscribers)
	}
}

func TestHubUnknownActionReturnsError(t *testing.T) {
	clock := clockwork.NewFakeClock()
	hub := newTestHub(t, clock, 10, 102400)

	conn := newTestConnection(hub, "sub-1", 256)

	hub.handleCommand(conn, []byte(`{"action":"subscribe_weather"}`))

	env := recvEnvelope(t, conn)
	if env.Type != ws.MessageTypeError {
		t.Fatalf("type = %s, want %s", env.Type, ws.MessageTypeError)
	}
	if env.Message != "Unknown action: subscribe_weather" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestHubMalformedCommandReturnsError(t *testing.T) {
	clock := clockwork.NewFakeClock()
	hub := newTestHub(t, clock, 10, 102400)

	conn := newTestConnection(hub, "sub-1", 256)

	hub.handleCommand(conn, []byte(`{not json`))

	env := recvEnvelope(t, conn)
	if env.Type != ws.MessageTypeError {
		t.Fatalf("type = %s, want %s", env.Type, ws.MessageTypeError)
	}
	if env.Message != "Invalid JSON message" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestHubBroadcastRespectsAdmission(t *testing.T) {
	clock := clockwork.NewFakeClock()
	hub := newTestHub(t, clock, 10, 102400)

	go hub.run()
	defer hub.shutdown(context.Background())

	conn := newTestConnection(hub, "sub-1", 256)
	mustRegister(t, hub, conn)

	hub.subscribe(conn, ws.ChannelEvents)
	recvEnvelope(t, conn) // drain the ack

	eq := testQuake(t, 5.0, clock.Now())
	env := ws.Envelope{Type: ws.MessageTypeEventDetected, Timestamp: clock.Now()}

	hub.broadcast(context.Background(), ws.ChannelEvents, env, eq, hub.filter.ShouldBroadcastEvent)
	got := recvEnvelope(t, conn)
	if got.Type != ws.MessageTypeEventDetected {
		t.Fatalf("type = %s, want %s", got.Type, ws.MessageTypeEventDetected)
	}

	// An immediate second broadcast is throttled for this subscriber.
	hub.broadcast(context.Background(), ws.ChannelEvents, env, eq, hub.filter.ShouldBroadcastEvent)
	select {
	case payload := <-conn.send:
		t.Fatalf("expected no delivery, got %s", payload)
	case <-time.After(50 * time.Millisecond):
	}

	stats := hub.stats()
	if stats.MessagesSent != 1 {
		t.Errorf("MessagesSent = %d, want 1", stats.MessagesSent)
	}
	if stats.MessagesFiltered != 1 {
		t.Errorf("MessagesFiltered = %d, want 1", stats.MessagesFiltered)
	}
}

func TestHubEvictsSubscriberWithFullBuffer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	hub := newTestHub(t, clock, 10, 102400)

	go hub.run()
	defer hub.shutdown(context.Background())

	// A zero-capacity send buffer with no reader fails every send.
	conn := newTestConnection(hub, "sub-1", 0)
	mustRegister(t, hub, conn)

	hub.subscribe(conn, ws.ChannelAlerts)

	eq := testQuake(t, 6.0, clock.Now())
	env := ws.Envelope{Type: ws.MessageTypeHighSeverityAlert, Timestamp: clock.Now()}
	hub.broadcast(context.Background(), ws.ChannelAlerts, env, eq, hub.filter.ShouldBroadcastAlert)

	stats := hub.stats()
	if stats.ActiveConnections != 0 {
		t.Errorf("ActiveConnections = %d, want 0", stats.ActiveConnections)
	}
	if stats.AlertSubscribers != 0 {
		t.Errorf("AlertSubscribers = %d, want 0", stats.AlertSubscribers)
	}
	// Both the subscription ack and the alert failed to queue.
	if stats.MessagesFailed != 2 {
		t.Errorf("MessagesFailed = %d, want 2", stats.MessagesFailed)
	}
}

func TestHubOversizedPayloadIsReplacedWithNotice(t *testing.T) {
	clock := clockwork.NewFakeClock()
	hub := newTestHub(t, clock, 10, 64)

	go hub.run()
	defer hub.shutdown(context.Background())

	conn := newTestConnection(hub, "sub-1", 256)
	mustRegister(t, hub, conn)

	hub.subscribe(conn, ws.ChannelEvents)
	recvEnvelope(t, conn) // drain the ack

	eq := testQuake(t, 5.0, clock.Now())
	env := ws.Envelope{
		Type:      ws.MessageTypeEventDetected,
		Data:      map[string]string{"filler": strings.Repeat("x", 256)},
		Timestamp: clock.Now(),
	}
	hub.broadcast(context.Background(), ws.ChannelEvents, env, eq, hub.filter.ShouldBroadcastEvent)

	got := recvEnvelope(t, conn)
	if got.Type != ws.MessageTypeError {
		t.Fatalf("type = %s, want %s", got.Type, ws.MessageTypeError)
	}
	if !strings.Contains(got.Message, "size limit") {
		t.Errorf("message = %q, want a size limit notice", got.Message)
	}
}

func TestHubDisconnectForgetsFilterState(t *testing.T) {
	clock := clockwork.NewFakeClock()
	hub := newTestHub(t, clock, 10, 102400)

	go hub.run()
	defer hub.shutdown(context.Background())

	conn := newTestConnection(hub, "sub-1", 256)
	mustRegister(t, hub, conn)

	eq := testQuake(t, 5.0, clock.Now())
	ok, _ := hub.filter.ShouldBroadcastEvent(eq, "sub-1")
	if !ok {
		t.Fatal("expected admission")
	}

	hub.disconnect("sub-1")

	if got := hub.filter.Stats().ActiveSubscribers; got != 0 {
		t.Errorf("ActiveSubscribers = %d, want 0", got)
	}
	if got := hub.stats().ActiveConnections; got != 0 {
		t.Errorf("ActiveConnections = %d, want 0", got)
	}

	// Disconnect is idempotent.
	hub.disconnect("sub-1")
}

func TestHubRejectsBeyondMaxConnections(t *testing.T) {
	clock := clockwork.NewFakeClock()
	hub := newTestHub(t, clock, 1, 102400)

	go hub.run()
	defer hub.shutdown(context.Background())

	first := newTestConnection(hub, "sub-1", 256)
	second := newTestConnection(hub, "sub-2", 256)
	mustRegister(t, hub, first)

	// The rejection is reported to the caller, not swallowed.
	if err := hub.registerConnection(second); !errors.Is(err, ws.ErrMaxConnectionsReached) {
		t.Fatalf("registerConnection error = %v, want %v", err, ws.ErrMaxConnectionsReached)
	}

	if got := hub.stats().ActiveConnections; got != 1 {
		t.Errorf("ActiveConnections = %d, want 1", got)
	}
}

func TestHubBroadcastSurvivesDisconnectDuringFanout(t *testing.T) {
	clock := clockwork.NewFakeClock()
	hub := newTestHub(t, clock, 10, 102400)

	go hub.run()
	defer hub.shutdown(context.Background())

	first := newTestConnection(hub, "sub-1", 256)
	second := newTestConnection(hub, "sub-2", 256)
	mustRegister(t, hub, first)
	mustRegister(t, hub, second)

	hub.subscribe(first, ws.ChannelEvents)
	hub.subscribe(second, ws.ChannelEvents)
	recvEnvelope(t, first)  // drain the ack
	recvEnvelope(t, second) // drain the ack

	// sub-1 disconnects while the fan-out is in flight, after the
	// target snapshot was taken. Delivery to sub-2 must not be
	// disturbed by it.
	admit := func(eq model.Earthquake, subscriberID string) (bool, string) {
		hub.disconnect("sub-1")
		return true, ""
	}

	eq := testQuake(t, 5.0, clock.Now())
	env := ws.Envelope{Type: ws.MessageTypeEventDetected, Timestamp: clock.Now()}
	hub.broadcast(context.Background(), ws.ChannelEvents, env, eq, admit)

	got := recvEnvelope(t, second)
	if got.Type != ws.MessageTypeEventDetected {
		t.Fatalf("type = %s, want %s", got.Type, ws.MessageTypeEventDetected)
	}
	if got := hub.stats().ActiveConnections; got != 1 {
		t.Errorf("ActiveConnections = %d, want 1", got)
	}
}

func TestHubSubscribeAfterDisconnectIsIgnored(t *testing.T) {
	clock := clockwork.NewFakeClock()
	hub := newTestHub(t, clock, 10, 102400)

	go hub.run()
	defer hub.shutdown(context.Background())

	conn := newTestConnection(hub, "sub-1", 256)
	mustRegister(t, hub, conn)
	hub.disconnect("sub-1")

	hub.subscribe(conn, ws.ChannelEvents)

	if got := hub.stats().EventSubscribers; got != 0 {
		t.Errorf("EventSubscribers = %d, want 0", got)
	}
	select {
	case payload := <-conn.send:
		t.Fatalf("expected no ack for a removed connection, got %s", payload)
	case <-time.After(50 * time.Millisecond):
	}

	// The error path still answers a removed connection without tearing
	// anything down.
	hub.handleCommand(conn, []byte(`{"action":"subscribe_weather"}`))
	env := recvEnvelope(t, conn)
	if env.Type != ws.MessageTypeError {
		t.Errorf("type = %s, want %s", env.Type, ws.MessageTypeError)
	}
}

func TestConnectionCloseIsConcurrencySafe(t *testing.T) {
	conn := newTestConnection(nil, "sub-1", 256)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn.Close()
		}()
	}
	wg.Wait()

	select {
	case <-conn.done:
	default:
		t.Fatal("expected done to be closed")
	}
}
