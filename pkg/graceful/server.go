// Package graceful runs an http.Server until its context is canceled,
// then drains in-flight requests within a bounded timeout.
package graceful

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const defaultShutdownTimeout = 10 * time.Second

// Run serves srv until ctx is canceled or the listener fails, then shuts
// the server down, waiting up to timeout for in-flight requests.
// A non-positive timeout falls back to ten seconds.
func Run(ctx context.Context, srv *http.Server, timeout time.Duration, log *slog.Logger) error {
	if srv == nil {
		return nil
	}
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", slog.String("addr", srv.Addr))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		// listener failed before any shutdown was requested
		return err
	case <-ctx.Done():
	}

	log.Info("draining http server", slog.Duration("timeout", timeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if serveRes := <-serveErr; serveRes != nil && !errors.Is(serveRes, http.ErrServerClosed) {
		err = errors.Join(err, serveRes)
	}

	return err
}
