package app

import (
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/repoeval/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP stdio server exposing the evaluator as tools",
	Long: `Start a Model Context Protocol stdio server. The server exposes three
tools:

  evaluate_repository  Fetch and evaluate a GitHub repository by URL
  score_snapshot       Evaluate an inline snapshot without network access
  get_policy           Show the active scoring policy

Register it with an MCP client, for example:
  {"mcpServers":{"repoeval":{"command":"repoeval","args":["mcp"]}}}

Logs go to stderr so stdout carries protocol messages only.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), shutdownSignals...)
	defer stop()

	srv := mcp.NewServer(rt.githubClient(), rt.evaluator, appVersion, mcp.WithLogger(rt.logger))
	rt.logger.Debug("mcp server starting", "policy", rt.policy.ID())
	return srv.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
}
