package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/crudkit/internal/config"
	"github.com/example/crudkit/internal/logging"
	"github.com/example/crudkit/internal/wire"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scaffold HTTP API",
		Long: `Serve the scaffold operations over HTTP until interrupted.

Endpoints:
  GET  /healthz
  GET  /v1/frameworks
  GET  /v1/schemas/{model}
  POST /v1/scaffold     {"model", "framework", "project_path", "view_name", "fields", "dry_run"}
  GET  /v1/routes       ?project_path=&view_name=&framework=

Requests for the same project are serialised, so concurrent scaffolds all
land in its route table.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := wire.Config()
			if addr == "" {
				addr = cfg.Server.Addr
			}
			useServerLogging(cmd, cfg)

			server, err := wire.HTTPServer()
			if err != nil {
				return err
			}
			return server.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, 127.0.0.1:8080)")

	return cmd
}

// useServerLogging switches to json at info level unless the user chose a
// logging setup explicitly.
func useServerLogging(cmd *cobra.Command, cfg *config.Config) {
	defaults := config.Default().Log
	if cmd.Flags().Changed("log-level") || cmd.Flags().Changed("log-format") || cfg.Log != defaults {
		return
	}

	cfg.Log = config.LogConfig{Level: "info", Format: logging.FormatJSON}
	wire.Configure(cfg, logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cmd.ErrOrStderr()}))
}
