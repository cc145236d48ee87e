package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 30 * time.Second

// Run starts the HTTP server and blocks until a shutdown signal is received.
// Interrupted runs from a previous process are failed before the listener opens. On shutdown
// the listener closes first, then in-flight Tier 2 executions get until shutdownTimeout to finish.
func (srv *HTTPServer) Run() error {
	ctx := context.Background()
	if err := srv.mapHandlers(ctx); err != nil {
		srv.l.Errorf(ctx, "Failed to map handlers: %v", err)
		return err
	}

	recovered, err := srv.runUC.RecoverStale(ctx)
	if err != nil {
		return fmt.Errorf("recovery sweep failed: %w", err)
	}
	if len(recovered.RunIDs) > 0 {
		srv.l.Warnf(ctx, "Recovery sweep failed %d interrupted runs", len(recovered.RunIDs))
	}

	addr := fmt.Sprintf("%s:%d", srv.host, srv.port)
	server := &http.Server{
		Addr:              addr,
		Handler:           srv.gin,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		srv.l.Infof(ctx, "Started server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return err
	case sig := <-ch:
		srv.l.Infof(ctx, "Received signal %v, shutting down gracefully", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		srv.l.Errorf(ctx, "Server shutdown error: %v", err)
		return err
	}
	if err := srv.runUC.Wait(shutdownCtx); err != nil {
		srv.l.Warnf(ctx, "Background runs still executing at shutdown, the next start will recover them: %v", err)
	}
	srv.l.Info(ctx, "API server stopped.")
	return nil
}
