package httpserver

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	eqHTTP "github.com/L3pereira/ndgms/internal/earthquake/delivery/http"
	schedHTTP "github.com/L3pereira/ndgms/internal/scheduler/delivery/http"
	wsHTTP "github.com/L3pereira/ndgms/internal/websocket/delivery/http"
)

const Api = "/api/v1"

func (srv *HTTPServer) mapHandlers() error {
	srv.gin.Use(gin.Recovery())

	// Health and metrics endpoints
	srv.gin.GET("/healthz", srv.healthCheck)
	srv.gin.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := srv.gin.Group(Api)

	wsHandler := wsHTTP.New(srv.wsUC, srv.logger, wsHTTP.UpgradeConfig{
		ReadBufferSize:  srv.wsConfig.ReadBufferSize,
		WriteBufferSize: srv.wsConfig.WriteBufferSize,
	})
	wsHandler.RegisterRoutes(srv.gin, api)

	eqHandler := eqHTTP.New(srv.eqUC, srv.repo, srv.logger, srv.metrics)
	eqHandler.RegisterRoutes(api)

	schedHandler := schedHTTP.New(srv.scheduler, srv.logger)
	schedHandler.RegisterRoutes(api)

	return nil
}
