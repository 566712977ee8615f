package http

import (
	ws "github.com/L3pereira/ndgms/internal/websocket"
	"github.com/L3pereira/ndgms/pkg/log"
)

// Handler exposes the WebSocket upgrade and stats endpoints.
type Handler struct {
	uc     ws.UseCase
	logger log.Logger
	cfg    UpgradeConfig
}

// UpgradeConfig tunes the HTTP-to-WebSocket upgrade.
type UpgradeConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
}

func New(uc ws.UseCase, logger log.Logger, cfg UpgradeConfig) *Handler {
	if cfg.ReadBufferSize == 0 {
		cfg.ReadBufferSize = 1024
	}
	if cfg.WriteBufferSize == 0 {
		cfg.WriteBufferSize = 1024
	}

	return &Handler{
		uc:     uc,
		logger: logger,
		cfg:    cfg,
	}
}
