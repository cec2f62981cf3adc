package main

import (
	"fmt"

	"github.com/holon-run/prflow/pkg/usage"
	"github.com/spf13/cobra"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show local usage counters",
	Long: `Show the counters prflow keeps in $PRFLOW_HOME/usage.yaml
(~/.prflow/usage.yaml by default). Set usage.disabled in
.prflow/config.yaml to stop recording.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t := usage.New("")
		counts, err := t.Counts()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "pull requests created: %d\n", counts.UpstreamPullRequests)
		if !counts.UpdatedAt.IsZero() {
			fmt.Fprintf(out, "last updated: %s\n", counts.UpdatedAt.Format("2006-01-02 15:04:05 MST"))
		}
		if !currentConfig().UsageEnabled() {
			fmt.Fprintln(out, "recording: disabled")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usageCmd)
}
