// Package app contains the Cobra command tree for repoeval.
package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/repoeval/internal/github"
	"github.com/blackwell-systems/repoeval/internal/snapshot"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
	flagPolicy  string
)

var rootCmd = &cobra.Command{
	Use:   "repoeval",
	Short: "Score GitHub repositories against a quality rubric",
	Long: `repoeval evaluates a repository along seven quality dimensions
(documentation, structure, commits, languages, community, testing and
versioning), combines them into a weighted 0-100 score, assigns a
Beginner/Intermediate/Advanced level, and produces a short summary plus a
prioritized improvement roadmap.

Scores come from fixed, versioned rules: the same snapshot under the same
policy always evaluates to the same result.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a command error to a process status: 2 for input the caller
// must fix, 1 for everything else.
func exitCode(err error) int {
	if errors.Is(err, github.ErrInvalidURL) || errors.Is(err, snapshot.ErrMissingMetadata) {
		return 2
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/repoeval/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagPolicy, "policy", "", "Scoring policy: a built-in name or a YAML file path (default: standard-v1)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
}
