package main

import (
	"fmt"

	"negotiation-api/app"
	"negotiation-api/internal/config"

	"github.com/spf13/cobra"
)

var envFiles = []string{".env", ".env.local"}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "negotiation-api",
		Short:        "Buyer and supplier bulk-order negotiation service",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         serve,
	}
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())

	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
}

// serve is also what a bare invocation runs.
func serve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return err
	}

	return app.Run(cfg)
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(app.MigrateUp), string(app.MigrateDown)},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFiles...)
			if err != nil {
				return err
			}

			if err := app.Migrate(cfg, app.MigrateDirection(args[0])); err != nil {
				return fmt.Errorf("migrate %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: done\n", args[0])

			return nil
		},
	}
}
