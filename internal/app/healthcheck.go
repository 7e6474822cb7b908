package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// healthHandler answers liveness probes.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// Handler returns the mux served on the metrics port: /health and /metrics.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(a.metrics, promhttp.HandlerOpts{}))
	return mux
}

// startServer runs the health and metrics HTTP server in the background.
func (a *App) startServer() {
	a.logger.Debug("Configuring health check server.")
	if a.config.MetricsPort <= 0 {
		a.logger.Debug("Health check server not started: disabled")
		return
	}

	addr := fmt.Sprintf(":%d", a.config.MetricsPort)
	a.httpServer = &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		// ListenAndServe returns ErrServerClosed on graceful shutdown.
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Health check server failed unexpectedly", "error", err)
		}
	}()
}

func (a *App) stopServer(ctx context.Context) error {
	if a.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	a.logger.Info("🩺 Shutting down health check server...")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("Health check server shutdown failed", "error", err)
		return err
	}
	a.httpServer = nil
	return nil
}
