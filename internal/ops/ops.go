// Package ops serves the operational HTTP endpoints (/health, /metrics) on a
// listener separate from the raw TCP users protocol.
package ops

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/users-server/internal/metrics"
	"github.com/ignite/users-server/internal/pkg/httputil"
	"github.com/ignite/users-server/internal/pkg/logger"
)

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves health and metrics.
type Handler struct {
	checks map[string]Pinger
}

// NewHandler creates an ops handler. Each named check is pinged on /health.
func NewHandler(checks map[string]Pinger) *Handler {
	return &Handler{checks: checks}
}

// Routes returns the ops router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/health", h.HandleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	return r
}

// HandleHealth pings every dependency and answers 200 when all are up.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := make(map[string]string, len(h.checks))
	healthy := true
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			status[name] = err.Error()
			healthy = false
			continue
		}
		status[name] = "ok"
	}

	if !healthy {
		httputil.Unavailable(w, status)
		return
	}
	httputil.OK(w, map[string]any{"status": "ok", "checks": status})
}

// Serve runs the ops endpoint on addr until ctx is done.
func Serve(ctx context.Context, addr string, h *Handler) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      h.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("ops endpoint listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
