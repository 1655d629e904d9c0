package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"smartdeals/internal/application"
)

func sourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "Fetch from every source once without storing anything",
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

			checks, err := c.Scanner.CheckSources(ctx)
			if err != nil {
				return fmt.Errorf("scanner.CheckSources: %w", err)
			}

			out := cmd.OutOrStdout()

			for _, check := range checks {
				if check.Error != "" {
					fmt.Fprintf(out, "%-14s error: %s\n", check.Name, check.Error)
					continue
				}

				fmt.Fprintf(out, "%-14s %d candidates\n", check.Name, check.Count)
			}

			return nil
		},
	}
}
