package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	serverReadTimeout     = 10 * time.Second
	serverWriteTimeout    = 30 * time.Second
	serverIdleTimeout     = 120 * time.Second
	serverShutdownTimeout = 10 * time.Second
)

// startHTTPServer runs the HTTP server until SIGINT or SIGTERM, then
// drains in-flight requests and stops the background workers.
func startHTTPServer(app *application) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:      app.setupRouter(),
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		app.logger.Info("HTTP server listening", slog.String("addr", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil

	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			app.logger.Error("graceful shutdown failed, forcing close",
				slog.String("error", err.Error()))
			if closeErr := server.Close(); closeErr != nil {
				return fmt.Errorf("failed to close server: %w", closeErr)
			}
		}

		app.cleanup()
		app.logger.Info("server stopped")
		return nil
	}
}
