package main

import (
	"fmt"

	"github.com/koustreak/kyselygen/internal/dialect"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve freshly generated declarations over HTTP",
		Long: `serve regenerates the declarations from the live database on every
GET /types.ts. GET /warnings reports the unmapped types of the last run and
GET /healthz answers liveness probes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.configForServe(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg, a.stderr)
			return a.serve(log.WithContext(cmd.Context()), cfg, log)
		},
	}
	cmd.Flags().String("addr", "", `listen address (default ":8080")`)
	return cmd
}

func newDialectsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List the supported database dialects",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			for _, name := range dialect.Names() {
				fmt.Fprintln(a.stdout, name)
			}
		},
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(a.stdout, "kysely-gen %s (%s)\n", version, commit)
		},
	}
}
