package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/repoeval/internal/output"
	"github.com/blackwell-systems/repoeval/internal/rubric"
)

var policyFlagTable bool

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Print the active scoring policy",
	Long: `Policy prints the resolved scoring policy as YAML, ready to be copied
into a file, edited and passed back with --policy. Use --table for a
readable summary or --json for machine output.`,
	Args: cobra.NoArgs,
	RunE: runPolicy,
}

var policyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in policies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range rubric.BuiltinNames() {
			p, err := rubric.LoadBuiltin(name)
			if err != nil {
				return err
			}
			marker := " "
			if name == rubric.DefaultPolicyName {
				marker = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %-14s %-14s %s\n", marker, name, p.ID(), p.Description)
		}
		return nil
	},
}

func init() {
	policyCmd.Flags().BoolVar(&policyFlagTable, "table", false, "Render as a table")
	policyCmd.AddCommand(policyListCmd)
	rootCmd.AddCommand(policyCmd)
}

func runPolicy(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	switch {
	case flagJSON:
		return writeJSON(cmd.OutOrStdout(), rt.policy)
	case policyFlagTable:
		return output.RenderPolicy(cmd.OutOrStdout(), rt.policy)
	}

	data, err := rt.policy.EncodeYAML()
	if err != nil {
		return fmt.Errorf("encoding policy: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
