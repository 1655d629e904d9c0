package modules_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"smartdeals/pkg/application/modules"
	"smartdeals/pkg/contextx"
)

func freeAddress(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	require.NoError(t, l.Close())

	return addr
}

func TestHTTPServerRun(t *testing.T) {
	rq := require.New(t)

	addr := freeAddress(t)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(contextx.WithLogger(context.Background(), logger))
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	var hasLogger atomic.Bool

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := contextx.LoggerFromContext(r.Context())
		hasLogger.Store(err == nil)

		w.WriteHeader(http.StatusNoContent)
	})

	modules.HTTPServer{
		ListenAddress:     addr,
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
	}.Run(gctx, g, handler)

	rq.Eventually(func() bool {
		resp, err := http.Get("http://" + addr + "/v1/deals") //nolint:noctx
		if err != nil {
			return false
		}
		defer resp.Body.Close()

		return resp.StatusCode == http.StatusNoContent
	}, 2*time.Second, 20*time.Millisecond)

	rq.True(hasLogger.Load())

	cancel()
	rq.NoError(g.Wait())
}

func TestHTTPServerRunAddressInUse(t *testing.T) {
	rq := require.New(t)

	busy, err := net.Listen("tcp", "127.0.0.1:0")
	rq.NoError(err)
	defer busy.Close()

	g, ctx := errgroup.WithContext(context.Background())

	modules.HTTPServer{
		ListenAddress:   busy.Addr().String(),
		ShutdownTimeout: time.Second,
	}.Run(ctx, g, http.NotFoundHandler())

	err = g.Wait()
	rq.Error(err)
	rq.ErrorContains(err, "net.Listen")
}
