package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var switchCmd = &cobra.Command{
	Use:   "switch <number>",
	Short: "Check out the local branch tracking a pull request",
	Long: `Check out a local branch previously created by "prflow checkout" for
the pull request. When several branches track it, the first one listed in
the repository config is used.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := parseNumber(args[0])
		if err != nil {
			return err
		}

		branch, err := newService(nil).SwitchToBranch(cmd.Context(), repoPath, number)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Switched to %s\n", branch)
		return nil
	},
}

var branchesCmd = &cobra.Command{
	Use:   "branches <number>",
	Short: "List local branches tracking a pull request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := parseNumber(args[0])
		if err != nil {
			return err
		}

		branches, err := newService(nil).LocalBranches(cmd.Context(), repoPath, number)
		if err != nil {
			return err
		}

		for _, b := range branches {
			fmt.Fprintln(cmd.OutOrStdout(), b)
		}
		return nil
	},
}

// parseNumber accepts "42" and "#42".
func parseNumber(arg string) (int, error) {
	if len(arg) > 0 && arg[0] == '#' {
		arg = arg[1:]
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid pull request number %q", arg)
	}
	return n, nil
}

func init() {
	rootCmd.AddCommand(switchCmd)
	rootCmd.AddCommand(branchesCmd)
}
