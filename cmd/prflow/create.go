package main

import (
	"fmt"
	"os"
	"time"

	"github.com/holon-run/prflow/pkg/git"
	"github.com/holon-run/prflow/pkg/github"
	holonlog "github.com/holon-run/prflow/pkg/log"
	"github.com/holon-run/prflow/pkg/prbranch"
	"github.com/holon-run/prflow/pkg/prtemplate"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	createTitle    string
	createBody     string
	createBodyFile string
	createHead     string
	createBase     string
	createTarget   string
	createSource   string
	createDraft    bool
	createDelay    time.Duration
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Push the current branch and open a pull request",
	Long: `Push a local branch to the HTTP(S) remote and open a pull request for it.

The body defaults to the repository's pull request template. The target
repository defaults to the repository behind the remote; pass --target to
open the pull request against an upstream repository from a fork.

Examples:
  prflow create --title "Fix login redirect"
  prflow create --title "Add registry" --base develop --body-file notes.md
  prflow create --title "Support GHE" --target holon-run/prflow`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if createTitle == "" {
			return fmt.Errorf("\"title\" not set")
		}
		if createBody != "" && createBodyFile != "" {
			return fmt.Errorf("--body and --body-file are mutually exclusive")
		}

		client, err := openRepo(ctx)
		if err != nil {
			return err
		}

		head := createHead
		if head == "" {
			if head, err = client.CurrentBranch(ctx); err != nil {
				return err
			}
		}

		cfg := currentConfig()
		remoteName, _ := cfg.ResolveRemote(remoteFlag, git.DefaultRemote)

		source, err := resolveSource(cmd, client, remoteName)
		if err != nil {
			return err
		}

		target := source
		if targetName, _ := cfg.ResolveTarget(createTarget); targetName != "" {
			if target, err = github.ParseRepoRef(targetName); err != nil {
				return err
			}
		}

		base, _ := cfg.ResolveBaseBranch(createBase)

		body, err := resolveBody(client.Path())
		if err != nil {
			return err
		}

		api, err := newGitHubClient()
		if err != nil {
			return err
		}

		delay, _ := cfg.ResolveCreateDelay(createDelay, prbranch.DefaultCreateDelay)
		svc := newService(api, prbranch.WithCreateDelay(delay))

		holonlog.Progress("creating pull request", "head", head, "base", base, "target", target.FullName())
		pr, err := svc.CreatePullRequest(ctx, prbranch.CreateRequest{
			RepoPath:     client.Path(),
			SourceRepo:   source,
			TargetRepo:   target,
			SourceBranch: head,
			TargetBranch: base,
			Title:        createTitle,
			Body:         body,
			Draft:        createDraft,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created pull request #%d: %s\n", pr.Number, pr.URL)
		return nil
	},
}

// resolveSource returns --source, or the repository behind the push remote.
func resolveSource(cmd *cobra.Command, client *git.Client, remoteName string) (github.RepoRef, error) {
	if createSource != "" {
		return github.ParseRepoRef(createSource)
	}

	remote, err := client.HTTPRemote(cmd.Context(), remoteName)
	if err != nil {
		return github.RepoRef{}, &prbranch.Error{Op: "create pull request", Kind: prbranch.ErrRemoteNotFound, Err: err}
	}
	return github.ParseRemoteURL(remote.URL)
}

// resolveBody picks --body, --body-file or the repository template.
func resolveBody(root string) (string, error) {
	if createBody != "" {
		return createBody, nil
	}
	if createBodyFile != "" {
		data, err := os.ReadFile(createBodyFile)
		if err != nil {
			return "", fmt.Errorf("failed to read body file: %w", err)
		}
		return string(data), nil
	}
	if tmpl, ok := prtemplate.Lookup(afero.NewOsFs(), root); ok {
		holonlog.Debug("using pull request template as body")
		return tmpl, nil
	}
	return "", nil
}

func init() {
	createCmd.Flags().StringVarP(&createTitle, "title", "t", "", "Pull request title")
	createCmd.Flags().StringVarP(&createBody, "body", "b", "", "Pull request body (defaults to the template)")
	createCmd.Flags().StringVar(&createBodyFile, "body-file", "", "Read the pull request body from a file")
	createCmd.Flags().StringVar(&createHead, "head", "", "Branch to publish (defaults to the current branch)")
	createCmd.Flags().StringVar(&createBase, "base", "", "Branch to merge into (default from config, then main)")
	createCmd.Flags().StringVar(&createTarget, "target", "", "Repository to open the pull request in (owner/repo)")
	createCmd.Flags().StringVar(&createSource, "source", "", "Repository that owns the head branch (owner/repo, defaults to the remote)")
	createCmd.Flags().BoolVar(&createDraft, "draft", false, "Open the pull request as a draft")
	createCmd.Flags().DurationVar(&createDelay, "delay", -1, "Wait between push and create (default from config, then 5s)")
	rootCmd.AddCommand(createCmd)
}
