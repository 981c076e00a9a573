package app

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/repoeval/internal/snapshot"
)

var scoreCmd = &cobra.Command{
	Use:   "score <snapshot-file|->",
	Short: "Evaluate a saved repository snapshot offline",
	Long: `Score evaluates a snapshot file without any network access. JSON and
YAML are accepted; files ending in .yaml or .yml are read as YAML. Pass "-"
to read the snapshot from stdin, where a leading "{" selects JSON.

A snapshot that carries captured_at always scores the same, which makes
score suitable for regression checks on a pinned policy.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	snap, err := readSnapshot(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	res, err := rt.evaluator.Evaluate(snap)
	if err != nil {
		return err
	}
	return renderResult(cmd, rt, res)
}

// readSnapshot loads a snapshot from path, or from stdin when path is "-".
func readSnapshot(stdin io.Reader, path string) (*snapshot.Snapshot, error) {
	if path != "-" {
		return snapshot.LoadFile(path)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return snapshot.DecodeJSON(data)
	}
	return snapshot.DecodeYAML(data)
}
