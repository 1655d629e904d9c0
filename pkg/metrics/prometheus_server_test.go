package metrics_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"smartdeals/pkg/metrics"
)

func TestPrometheusServer(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name          string
		listenAddress string
		endpoint      string
		statusCode    int
		contains      string
	}{
		{
			name:          "Metrics handler",
			listenAddress: ":10010",
			endpoint:      "http://:10010/metrics",
			statusCode:    http.StatusOK,
			contains:      "test_ticks_total 1",
		},
		{
			name:          "Invalid endpoint",
			listenAddress: ":10020",
			endpoint:      "http://:10020/invalid",
			statusCode:    http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			registry := prometheus.NewRegistry()
			counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_ticks_total"})
			registry.MustRegister(counter)
			counter.Inc()

			prometheusServer := metrics.NewPrometheusServer(tc.listenAddress, registry)

			g, ctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				return prometheusServer.Run(ctx)
			})

			// Wait for server to start.
			time.Sleep(time.Second)

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, tc.endpoint, http.NoBody)
			rq.NoError(err)

			resp, err := http.DefaultClient.Do(req)
			rq.NoError(err)

			defer resp.Body.Close()

			rq.Equal(tc.statusCode, resp.StatusCode)

			if tc.contains != "" {
				body, err := io.ReadAll(resp.Body)
				rq.NoError(err)
				rq.Contains(string(body), tc.contains)
			}

			cancel()

			rq.NoError(g.Wait())
		})
	}
}
