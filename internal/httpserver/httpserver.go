package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Run starts the hub and the HTTP server, then blocks until ctx is
// cancelled. Shutdown order: stop accepting HTTP, then drain the hub.
func (srv *HTTPServer) Run(ctx context.Context) error {
	if err := srv.mapHandlers(); err != nil {
		srv.logger.Errorf(ctx, "internal.httpserver.httpserver.Run.mapHandlers: %v", err)
		return err
	}

	go srv.wsUC.Run()
	srv.logger.Info(ctx, "WebSocket hub started")

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", srv.host, srv.port),
		Handler: srv.gin,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	srv.logger.Infof(ctx, "HTTP server started on %s", server.Addr)

	select {
	case err := <-errCh:
		srv.logger.Errorf(ctx, "internal.httpserver.httpserver.Run.ListenAndServe: %v", err)
		return err
	case <-ctx.Done():
	}

	srv.logger.Info(ctx, "Shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		srv.logger.Errorf(ctx, "internal.httpserver.httpserver.Run.Shutdown: %v", err)
	}

	if err := srv.wsUC.Shutdown(shutdownCtx); err != nil {
		srv.logger.Errorf(ctx, "internal.httpserver.httpserver.Run.HubShutdown: %v", err)
	}

	return nil
}
