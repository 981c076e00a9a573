package app

import (
	"fmt"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/repoeval/internal/evaluate"
	"github.com/blackwell-systems/repoeval/internal/github"
	"github.com/blackwell-systems/repoeval/internal/output"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Fetch a GitHub repository and evaluate it",
	Long: `Analyze reads a repository's metadata, root listing, recent commits,
language breakdown, README and releases from the GitHub API, then scores it.

The repository may be given as https://github.com/owner/repo, as
git@github.com:owner/repo.git, or as owner/repo. Set GITHUB_TOKEN (or
github.token in the config file) to raise the API rate limit and reach
private repositories.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	owner, repo, err := github.ParseRepoURL(args[0])
	if err != nil {
		return fmt.Errorf("%w: %q (expected https://github.com/owner/repo)", err, args[0])
	}

	rt, err := loadRuntime(cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), shutdownSignals...)
	defer stop()

	rt.logger.Debug("fetching repository", "owner", owner, "repo", repo)
	snap, err := rt.githubClient().FetchSnapshot(ctx, owner, repo)
	if err != nil {
		switch {
		case github.IsNotFound(err):
			return fmt.Errorf("repository %s/%s does not exist or is private", owner, repo)
		case github.IsForbidden(err):
			return fmt.Errorf("access to %s/%s denied (private repository or rate limit): %w", owner, repo, err)
		}
		return err
	}

	res, err := rt.evaluator.Evaluate(snap)
	if err != nil {
		return err
	}
	return renderResult(cmd, rt, res)
}

// renderResult prints res as JSON or as a styled report.
func renderResult(cmd *cobra.Command, rt *runtime, res *evaluate.Result) error {
	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	return output.RenderReport(cmd.OutOrStdout(), res, rt.cfg.Output.Width)
}
