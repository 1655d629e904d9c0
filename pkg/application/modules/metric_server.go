package modules

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"smartdeals/pkg/metrics"
)

type MetricServer struct {
	ListenAddress string
}

func (m MetricServer) Run(ctx context.Context, g *errgroup.Group, gatherer prometheus.Gatherer) {
	prometheusServer := metrics.NewPrometheusServer(
		m.ListenAddress,
		gatherer,
	)

	g.Go(func() error {
		if err := prometheusServer.Run(ctx); err != nil {
			return fmt.Errorf("prometheusServer.Run: %w", err)
		}

		return nil
	})
}
