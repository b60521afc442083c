package cli

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/vrain/internal/app"
)

func newServeCommand(rt *runtime) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the preview and cards HTTP API",
		Long: `Serve the HTTP API: link classification and previews, the caller's cards,
health, infra and metrics endpoints, and the bookmark preview warmer.

Configuration is read from VRAIN_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *rt.opts.Config
			if port != "" {
				cfg.ListenPort = port
			}
			if rt.backend != "" {
				cfg.BackendURL = rt.backend
			}

			a, err := app.New(&cfg, rt.log)
			if err != nil {
				return err
			}
			return a.Run()
		},
	}

	cmd.Flags().StringVar(&port, "listen", "", "listen address (default $VRAIN_LISTEN_PORT)")
	return cmd
}
