package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conneroisu/tessera/internal/server"
)

func newServeCommand(a *app) *cobra.Command {
	var stories string

	serveCmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Start the preview server",
		Long: `Start the preview server with component pages, a props playground and
live reload of the stories file.

Examples:
  tessera serve                         # Serve on the configured address
  tessera serve --port 3000             # Serve on a specific port
  tessera serve --stories ui/stories.yml`,
		Args: cobra.NoArgs,
	}
	flags := AddStandardFlags(serveCmd, "server")
	serveCmd.Flags().StringVar(&stories, "stories", "", "Stories file (overrides preview.stories)")

	serveCmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg := a.config
		if cmd.Flags().Changed("host") {
			cfg.Server.Host = flags.Host
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = flags.Port
		}
		if cmd.Flags().Changed("stories") {
			cfg.Preview.Stories = stories
		}

		srv, err := server.New(cfg, server.WithLogger(a.logger))
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.OutOrStdout(), "Preview server running at http://%s\n", cfg.Address())
		return srv.Start(ctx)
	}

	return serveCmd
}
