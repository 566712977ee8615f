package websocket

import (
	"context"
)

// UseCase is the connection registry and broadcast surface of the
// WebSocket domain. It also implements earthquake.Notifier.
//
//go:generate mockery --name UseCase
type UseCase interface {
	// Lifecycle
	Run()
	Shutdown(ctx context.Context) error

	// Register attaches a new transport connection to the hub and starts
	// its read/write pumps. Conn must be a *gorilla/websocket.Conn.
	Register(ctx context.Context, input ConnectionInput) (string, error)

	// Disconnect removes a connection and all of its subscriptions and
	// filter state. Idempotent.
	Disconnect(ctx context.Context, subscriberID string)

	// Stats returns a snapshot of the registry and delivery counters.
	Stats(ctx context.Context) HubStats
}

// ConnectionInput represents a new connection attempt.
type ConnectionInput struct {
	Conn any // *websocket.Conn
}
