package main

import (
	"context"
	"fmt"

	"github.com/holon-run/prflow/pkg/git"
	"github.com/holon-run/prflow/pkg/github"
	holonlog "github.com/holon-run/prflow/pkg/log"
	"github.com/holon-run/prflow/pkg/prbranch"
	"github.com/spf13/cobra"
)

var checkoutBranch string

var checkoutCmd = &cobra.Command{
	Use:   "checkout <pr>",
	Short: "Fetch a pull request into a local branch and check it out",
	Long: `Fetch refs/pull/<n>/head from the remote into a local branch, check
it out and record the pull request number in the repository config.

<pr> is a number, #number, owner/repo#number or a pull request URL. Without
--branch the branch is named pr/<n>-<title>, which needs a GitHub token to
look the title up.

Examples:
  prflow checkout 42
  prflow checkout 42 --branch review/login
  prflow checkout https://github.com/holon-run/prflow/pull/42`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, err := openRepo(ctx)
		if err != nil {
			return err
		}

		remoteName, _ := currentConfig().ResolveRemote(remoteFlag, git.DefaultRemote)
		ref, err := parsePullRequestArg(ctx, client, remoteName, args[0])
		if err != nil {
			return err
		}

		branch := checkoutBranch
		if branch == "" {
			if ref.RepoRef.IsZero() {
				return fmt.Errorf("cannot look up the title of pull request #%d: remote %q does not name a GitHub repository; pass --branch", ref.Number, remoteName)
			}
			api, err := newGitHubClient()
			if err != nil {
				return fmt.Errorf("%w (or pass --branch)", err)
			}
			info, err := api.FetchPRInfo(ctx, ref.Owner, ref.Repo, ref.Number)
			if err != nil {
				return err
			}
			branch = prbranch.DefaultLocalBranchName(ref.Number, info.Title)
		}

		svc := newService(nil)
		if err := svc.FetchAndCheckout(ctx, client.Path(), ref.Number, branch); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Checked out pull request #%d as %s\n", ref.Number, branch)
		return nil
	},
}

// parsePullRequestArg resolves arg against the repository behind remoteName.
func parsePullRequestArg(ctx context.Context, client *git.Client, remoteName, arg string) (*github.PullRequestRef, error) {
	remoteRepo, err := repoFromRemote(ctx, client, remoteName)
	if err != nil {
		holonlog.Debug("remote does not name a GitHub repository", "remote", remoteName, "error", err)
		remoteRepo = github.RepoRef{}
	}
	return resolvePullRequestRef(arg, remoteName, remoteRepo)
}

// resolvePullRequestRef parses arg and rejects pull requests of any
// repository other than remoteRepo, since the pull ref is always fetched from
// remoteName. A bare number is accepted when remoteRepo is unknown; the
// repository is then left empty.
func resolvePullRequestRef(arg, remoteName string, remoteRepo github.RepoRef) (*github.PullRequestRef, error) {
	if remoteRepo.IsZero() {
		n, err := parseNumber(arg)
		if err != nil {
			return nil, fmt.Errorf("remote %q does not name a GitHub repository; pass a bare pull request number: %w", remoteName, err)
		}
		return &github.PullRequestRef{Number: n}, nil
	}

	ref, err := github.ParsePullRequestRef(arg, remoteRepo)
	if err != nil {
		return nil, err
	}
	if !ref.RepoRef.Equal(remoteRepo) {
		return nil, fmt.Errorf("pull request %s#%d is not in %s, the repository of remote %q", ref.FullName(), ref.Number, remoteRepo.FullName(), remoteName)
	}
	return ref, nil
}

func init() {
	checkoutCmd.Flags().StringVarP(&checkoutBranch, "branch", "b", "", "Local branch name (default pr/<n>-<title>)")
	rootCmd.AddCommand(checkoutCmd)
}
