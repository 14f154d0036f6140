// Package api serves the read-only HTTP endpoints of a scored session.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/kilianp07/vrppd/api/routes"
	"github.com/kilianp07/vrppd/api/scores"
	"github.com/kilianp07/vrppd/core/scorelog"
	"github.com/kilianp07/vrppd/infra/logger"
)

// NewMux mounts /api/routes and /api/scores.
func NewMux(src routes.Source, store scorelog.Store, token string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/routes", routes.NewRouteHandler(src, token))
	mux.Handle("/api/scores", scores.NewLogHandler(store, token))
	return mux
}

// Serve runs h on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.New("api-server").Errorf("shutdown: %v", err)
		}
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
