package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	gorillaws "github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/L3pereira/ndgms/internal/earthquake"
	"github.com/L3pereira/ndgms/internal/model"
	"github.com/L3pereira/ndgms/internal/observability"
	ws "github.com/L3pereira/ndgms/internal/websocket"
	"github.com/L3pereira/ndgms/pkg/log"
)

// Config holds the hub and connection tuning knobs.
type Config struct {
	MaxConnections  int
	MaxMessageBytes int
	PongWait        time.Duration
	PingPeriod      time.Duration
	WriteWait       time.Duration
}

// implUseCase implements websocket.UseCase and earthquake.Notifier.
type implUseCase struct {
	hub    *Hub
	filter *BroadcastFilter
	logger log.Logger
	clock  clockwork.Clock
	cfg    Config
}

// New creates the WebSocket broadcaster. A nil clock defaults to the
// real clock.
func New(
	logger log.Logger,
	metrics *observability.Metrics,
	cfg Config,
	filterCfg FilterConfig,
	clock clockwork.Clock,
) ws.UseCase {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	filter := NewBroadcastFilter(filterCfg, clock)
	hub := newHub(logger, metrics, filter, clock, cfg.MaxConnections, cfg.MaxMessageBytes)

	return &implUseCase{
		hub:    hub,
		filter: filter,
		logger: logger,
		clock:  clock,
		cfg:    cfg,
	}
}

func (uc *implUseCase) Run() {
	uc.hub.run()
}

func (uc *implUseCase) Shutdown(ctx context.Context) error {
	return uc.hub.shutdown(ctx)
}

func (uc *implUseCase) Register(ctx context.Context, input ws.ConnectionInput) (string, error) {
	conn, ok := input.Conn.(*gorillaws.Conn)
	if !ok {
		return "", ws.ErrInvalidConnection
	}

	subscriberID := uuid.New().String()
	client := newConnection(uc.hub, conn, subscriberID, uc.cfg.PongWait, uc.cfg.PingPeriod, uc.cfg.WriteWait, uc.logger)

	if err := uc.hub.registerConnection(client); err != nil {
		uc.logger.Warnf(ctx, "internal.websocket.usecase.new.Register.registerConnection: %v", err)
		return "", err
	}
	client.Start()

	return subscriberID, nil
}

func (uc *implUseCase) Disconnect(ctx context.Context, subscriberID string) {
	uc.hub.disconnect(subscriberID)
}

func (uc *implUseCase) Stats(ctx context.Context) ws.HubStats {
	return uc.hub.stats()
}

// NotifyEventDetected broadcasts a newly persisted earthquake to the
// events channel, subject to per-subscriber admission.
func (uc *implUseCase) NotifyEventDetected(ctx context.Context, eq model.Earthquake) {
	env := ws.Envelope{
		Type: ws.MessageTypeEventDetected,
		Data: ws.EventDetectedData{
			ID:         eq.ID,
			Magnitude:  eq.Magnitude.Value,
			AlertLevel: string(eq.Magnitude.Level()),
			Latitude:   eq.Location.Latitude,
			Longitude:  eq.Location.Longitude,
			DepthKm:    eq.Location.DepthKm,
			OccurredAt: eq.OccurredAt,
			Source:     eq.Source,
			Title:      eq.Title,
		},
		Timestamp: uc.clock.Now().UTC(),
	}

	uc.hub.broadcast(ctx, ws.ChannelEvents, env, eq, uc.filter.ShouldBroadcastEvent)
}

// NotifyHighSeverityAlert broadcasts a significant-earthquake alert to
// the alerts channel, subject only to the alert magnitude floor.
func (uc *implUseCase) NotifyHighSeverityAlert(ctx context.Context, alert earthquake.HighSeverityAlert) {
	eq := alert.Event
	env := ws.Envelope{
		Type: ws.MessageTypeHighSeverityAlert,
		Data: ws.HighSeverityAlertData{
			EarthquakeID:              eq.ID,
			Magnitude:                 eq.Magnitude.Value,
			AlertLevel:                string(eq.Magnitude.Level()),
			Latitude:                  eq.Location.Latitude,
			Longitude:                 eq.Location.Longitude,
			DepthKm:                   eq.Location.DepthKm,
			AffectedRadiusKm:          alert.AffectedRadiusKm,
			RequiresImmediateResponse: alert.RequiresImmediateResponse,
			OccurredAt:                eq.OccurredAt,
			Source:                    eq.Source,
		},
		Timestamp: uc.clock.Now().UTC(),
	}

	uc.hub.broadcast(ctx, ws.ChannelAlerts, env, eq, uc.filter.ShouldBroadcastAlert)
}
