package main

import (
	"github.com/spf13/cobra"

	"toolgate/internal/app"
	"toolgate/internal/infra/telemetry"
)

func newServeCmd(opts *cliOptions) *cobra.Command {
	var (
		listenAddr string
		watch      bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search API over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := app.New(app.Config{
				CatalogPath: opts.catalogPath,
				ListenAddr:  listenAddr,
				Watch:       watch,
			}, opts.logger, telemetry.NewPrometheusMetrics(nil))
			if err != nil {
				return err
			}
			return application.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", "", "API listen address (default 127.0.0.1:8780)")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the catalog when the file changes")
	return cmd
}
