// Package server is the JSON surface over the patient store.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/trobanga/medboard/internal/lib"
	"github.com/trobanga/medboard/internal/store"
)

// shutdownTimeout bounds how long in-flight requests may take after a stop signal
const shutdownTimeout = 10 * time.Second

// New builds the echo instance with middleware and every route under /api
func New(st *store.Store, logger *lib.Logger, now func() time.Time) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	zl := logger.Zerolog()
	e.Use(RequestLogger(zl))
	e.Use(Recovery(zl))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	NewHandler(st, now).RegisterRoutes(e.Group("/api"))
	return e
}

// Run serves e on addr until ctx is cancelled, then shuts down gracefully
func Run(ctx context.Context, e *echo.Echo, addr string, logger *lib.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}
