package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"smartdeals/internal/application"
	"smartdeals/internal/domain/entity"
)

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Run a single scan tick and print its stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cfg, err := setup(cmd)
			if err != nil {
				return err
			}

			c, err := application.NewContainer(ctx, cfg)
			if err != nil {
				return fmt.Errorf("application.NewContainer: %w", err)
			}
			defer c.Close(context.WithoutCancel(ctx))

			run, err := c.Scanner.Tick(ctx)
			if err != nil {
				return fmt.Errorf("scanner.Tick: %w", err)
			}

			printRun(cmd, run)

			return nil
		},
	}
}

func printRun(cmd *cobra.Command, run entity.ScanRun) {
	st := run.Stats
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "run #%d %s\n", run.ID, run.Status)
	fmt.Fprintf(out, "  fetched:          %d\n", st.Fetched)
	fmt.Fprintf(out, "  filtered:         %d\n", st.Filtered)
	fmt.Fprintf(out, "  known:            %d\n", st.Known)
	fmt.Fprintf(out, "  near duplicates:  %d\n", st.NearDuplicates)
	fmt.Fprintf(out, "  new:              %d\n", st.New)
	fmt.Fprintf(out, "  scored:           %d\n", st.Scored)
	fmt.Fprintf(out, "  published:        %d\n", st.Published)
	fmt.Fprintf(out, "  source errors:    %d\n", st.SourceErrors)

	if run.Message != "" {
		fmt.Fprintf(out, "  message:          %s\n", run.Message)
	}
}
