package modules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"smartdeals/pkg/logx"
)

// HTTPServer serves the admin API and shuts it down gracefully once ctx is
// cancelled. Request contexts derive from ctx without its cancellation, so
// handlers log through the application logger.
type HTTPServer struct {
	ListenAddress     string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

func (h HTTPServer) Run(ctx context.Context, g *errgroup.Group, handler http.Handler) {
	base := context.WithoutCancel(ctx)

	httpServer := &http.Server{
		Addr:              h.ListenAddress,
		Handler:           handler,
		ReadHeaderTimeout: h.ReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return base
		},
	}

	g.Go(func() error {
		listener, err := net.Listen("tcp", h.ListenAddress)
		if err != nil {
			return fmt.Errorf("net.Listen: %w", err)
		}

		go func() {
			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(base, h.ShutdownTimeout)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger(ctx).Error("server.Shutdown", logx.Error(err))
			}
		}()

		address := slog.String("address", listener.Addr().String())

		logger(ctx).Info("http server started", address)

		if err = httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("httpServer.Serve: %w", err)
		}

		logger(ctx).Info("http server stopped", address)

		return nil
	})
}
