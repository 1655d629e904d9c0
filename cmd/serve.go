package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"smartdeals/internal/application"
	"smartdeals/pkg/contextx"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the admin API, the scan trigger and the operator bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, err := setup(cmd)
			if err != nil {
				return err
			}

			log := contextx.LoggerFromContextOrDefault(ctx)
			log.Info("application starting", "env", cfg.App.Environment, "db-driver", cfg.Database.Driver)

			if err = application.Run(ctx, cfg); err != nil {
				return fmt.Errorf("application.Run: %w", err)
			}

			log.Info("application stopped")

			return nil
		},
	}
}
