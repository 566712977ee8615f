package httpserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/L3pereira/ndgms/config"
	"github.com/L3pereira/ndgms/internal/earthquake"
	"github.com/L3pereira/ndgms/internal/earthquake/repository"
	"github.com/L3pereira/ndgms/internal/observability"
	"github.com/L3pereira/ndgms/internal/scheduler"
	ws "github.com/L3pereira/ndgms/internal/websocket"
	"github.com/L3pereira/ndgms/pkg/log"
)

// HTTPServer wires the gin engine with all delivery handlers.
// New() only wires dependencies and validates them; Run() (in
// httpserver.go) starts background services and serves HTTP.
type HTTPServer struct {
	gin    *gin.Engine
	logger log.Logger

	host string
	port int

	wsUC      ws.UseCase
	eqUC      earthquake.UseCase
	repo      repository.Repository
	scheduler scheduler.Scheduler
	metrics   *observability.Metrics
	wsConfig  config.WebSocketConfig
}

// Config is the constructor input for HTTPServer.
type Config struct {
	Host string
	Port int
	Mode string

	WSUC      ws.UseCase
	EqUC      earthquake.UseCase
	Repo      repository.Repository
	Scheduler scheduler.Scheduler
	Metrics   *observability.Metrics
	WSConfig  config.WebSocketConfig
}

// New creates a new HTTPServer instance. It does not start any
// goroutines; use Run().
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	srv := &HTTPServer{
		gin:       gin.New(),
		logger:    logger,
		host:      cfg.Host,
		port:      cfg.Port,
		wsUC:      cfg.WSUC,
		eqUC:      cfg.EqUC,
		repo:      cfg.Repo,
		scheduler: cfg.Scheduler,
		metrics:   cfg.Metrics,
		wsConfig:  cfg.WSConfig,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv *HTTPServer) validate() error {
	if srv.logger == nil {
		return errors.New("logger is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.wsUC == nil {
		return errors.New("websocket use case is required")
	}
	if srv.eqUC == nil {
		return errors.New("earthquake use case is required")
	}
	if srv.repo == nil {
		return errors.New("repository is required")
	}
	if srv.scheduler == nil {
		return errors.New("scheduler is required")
	}
	if srv.metrics == nil {
		return errors.New("metrics are required")
	}
	return nil
}
