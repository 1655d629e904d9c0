package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"smartdeals/pkg/contextx"
	"smartdeals/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	httpServerReadHeaderTimeout = 5 * time.Second
	readinessCheckTimeout       = 2 * time.Second
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// ReadinessCheck reports whether a dependency (database, redis) is usable.
type ReadinessCheck func(ctx context.Context) error

type Server struct {
	listenAddress string
	state         []byte
	checks        map[string]ReadinessCheck
}

type Options struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type notReadyResponse struct {
	Options
	Failed map[string]string `json:"failed"`
}

func NewServer(
	listenAddress string,
	options Options,
	checks map[string]ReadinessCheck,
) Server {
	stateJSON, _ := json.Marshal(options) //nolint:errcheck,errchkjson

	return Server{
		listenAddress: listenAddress,
		state:         stateJSON,
		checks:        checks,
	}
}

func (s Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handlerHealthz)
	mux.HandleFunc("/ready", s.handlerReady)

	return mux
}

func (s Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		//nolint:exhaustruct
		Addr:              s.listenAddress,
		Handler:           s.Handler(),
		ReadHeaderTimeout: httpServerReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		if err := httpServer.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger(ctx).Error("httpServer.Shutdown", logx.Error(err))
		}
	}()

	logger(ctx).Info("probe server started", slog.String("address", s.listenAddress))

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer.ListenAndServe: %w", err)
	}

	logger(ctx).Info("probe server stopped")

	return nil
}

func (s Server) handlerHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write(s.state) //nolint:errcheck
}

func (s Server) handlerReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessCheckTimeout)
	defer cancel()

	failed := make(map[string]string)

	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			failed[name] = err.Error()
		}
	}

	if len(failed) == 0 {
		w.WriteHeader(http.StatusOK)
		w.Write(s.state) //nolint:errcheck

		return
	}

	var options Options

	_ = json.Unmarshal(s.state, &options) //nolint:errcheck

	body, _ := json.Marshal(notReadyResponse{Options: options, Failed: failed}) //nolint:errcheck,errchkjson

	w.WriteHeader(http.StatusServiceUnavailable)
	w.Write(body) //nolint:errcheck
}
