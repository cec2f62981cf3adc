package main

import (
	"fmt"

	"github.com/holon-run/prflow/pkg/prtemplate"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Print the repository's pull request template",
	Long: `Print the first readable pull request template found in the
repository root or .github directory. Nothing is printed when there is none.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openRepo(cmd.Context())
		if err != nil {
			return err
		}

		if tmpl, ok := prtemplate.NewFinder(afero.NewOsFs()).Lookup(client.Path()); ok {
			fmt.Fprint(cmd.OutOrStdout(), tmpl)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)
}
