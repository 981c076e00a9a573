package app

import (
	"fmt"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/repoeval/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the evaluation HTTP API",
	Long: `Serve starts a JSON API:

  GET  /api/health                 liveness check
  POST /api/analyze                body {"url": "https://github.com/owner/repo"}
  GET  /api/analyze/{owner}/{repo} same, without a body
  GET  /metrics                    Prometheus metrics

The port comes from --port, then PORT or REPOEVAL_SERVER_PORT, then
server.port in the config file (default 5000). SIGINT or SIGTERM drains
in-flight requests before exiting.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	port := rt.cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), shutdownSignals...)
	defer stop()

	srv := server.New(rt.githubClient(), rt.evaluator, server.WithLogger(rt.logger))
	rt.logger.Info("starting api", "port", port, "policy", rt.policy.ID())
	return srv.ListenAndServe(ctx, fmt.Sprintf(":%d", port))
}
