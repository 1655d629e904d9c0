package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"smartdeals/internal/application"
	"smartdeals/internal/config"
	"smartdeals/pkg/contextx"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, err := setup(cmd)
			if err != nil {
				return err
			}

			if cfg.Database.Driver == config.DriverMemory {
				return errors.New("migrate: nothing to migrate for DB_DRIVER=memory")
			}

			storage, err := application.OpenStorage(ctx, cfg.Database, true)
			if err != nil {
				return fmt.Errorf("application.OpenStorage: %w", err)
			}
			defer storage.Close(ctx)

			contextx.LoggerFromContextOrDefault(ctx).Info("migrations applied", "db-driver", cfg.Database.Driver)

			return nil
		},
	}
}
