package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/holon-run/prflow/pkg/config"
	"github.com/holon-run/prflow/pkg/git"
	"github.com/holon-run/prflow/pkg/github"
	holonlog "github.com/holon-run/prflow/pkg/log"
	"github.com/holon-run/prflow/pkg/prbranch"
	"github.com/holon-run/prflow/pkg/usage"
)

var (
	usageOnce    sync.Once
	usageTracker *usage.Tracker
)

func currentConfig() *config.ProjectConfig {
	if projectConfig == nil {
		return &config.ProjectConfig{}
	}
	return projectConfig
}

// openRepo opens the repository containing --repo.
func openRepo(ctx context.Context) (*git.Client, error) {
	client, err := git.NewEngine().Open(ctx, repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", repoPath, err)
	}
	return client, nil
}

func gitEngine() prbranch.OpenFunc {
	engine := git.NewEngine()
	return func(ctx context.Context, path string) (prbranch.Repository, error) {
		client, err := engine.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// newGitHubClient builds an API client from the environment token.
func newGitHubClient() (*github.Client, error) {
	baseURL, _ := currentConfig().ResolveGitHubBaseURL("", github.DefaultBaseURL)
	client, err := github.NewClientFromEnv(github.WithBaseURL(baseURL))
	if err != nil {
		return nil, err
	}
	return client, nil
}

func tracker() prbranch.UsageTracker {
	if !currentConfig().UsageEnabled() {
		return usage.Noop{}
	}
	usageOnce.Do(func() {
		usageTracker = usage.New("")
	})
	return usageTracker
}

func flushUsage() {
	if usageTracker != nil {
		usageTracker.Wait()
	}
}

// newService wires the workflow. api may be nil for local-only commands.
func newService(api prbranch.PullRequestAPI, opts ...prbranch.Option) *prbranch.Service {
	remote, source := currentConfig().ResolveRemote(remoteFlag, git.DefaultRemote)
	holonlog.Debug("using remote", "remote", remote, "source", source)

	all := append([]prbranch.Option{prbranch.WithRemote(remote)}, opts...)
	return prbranch.NewService(gitEngine(), api, tracker(), all...)
}

// repoFromRemote derives owner/repo from a remote URL of the repository.
func repoFromRemote(ctx context.Context, client *git.Client, name string) (github.RepoRef, error) {
	url, err := client.RemoteURL(ctx, name)
	if err != nil {
		return github.RepoRef{}, err
	}
	return github.ParseRemoteURL(url)
}
