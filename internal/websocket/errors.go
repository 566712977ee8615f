package websocket

import "errors"

var (
	// ErrInvalidConnection is returned when Register receives something
	// other than a gorilla websocket connection.
	ErrInvalidConnection = errors.New("invalid connection type")

	// ErrMaxConnectionsReached is returned when the connection cap is hit.
	ErrMaxConnectionsReached = errors.New("maximum connections reached")
)
