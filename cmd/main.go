package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"smartdeals/internal/config"
	"smartdeals/pkg/contextx"
	"smartdeals/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1) //nolint:gocritic
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "smartdeals",
		Short:         "Marketplace deal scanner with scoring and publishing",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		serveCmd(),
		scanCmd(),
		sourcesCmd(),
		migrateCmd(),
	)

	return cmd
}

// setup читает конфигурацию и кладёт логгер в контекст команды.
func setup(cmd *cobra.Command) (context.Context, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("config.Load: %w", err)
	}

	log := logx.NewLogger(os.Stdout, cfg.App.LogLevel, cfg.App.LogJSON).With(
		logx.FieldAppName, cfg.App.Name,
		logx.FieldAppVersion, cfg.App.Version,
	)
	slog.SetDefault(log)

	return contextx.WithLogger(cmd.Context(), log), cfg, nil
}
