package prbranch

import (
	"context"

	"github.com/holon-run/prflow/pkg/git"
	"github.com/holon-run/prflow/pkg/github"
)

// GitEngine opens the repository at a path.
type GitEngine interface {
	Open(ctx context.Context, path string) (Repository, error)
}

// OpenFunc adapts a function to GitEngine.
type OpenFunc func(ctx context.Context, path string) (Repository, error)

// Open calls f(ctx, path).
func (f OpenFunc) Open(ctx context.Context, path string) (Repository, error) {
	return f(ctx, path)
}

// ConfigReader enumerates repository-local config entries.
type ConfigReader interface {
	ConfigEntries(ctx context.Context) ([]git.ConfigEntry, error)
}

// Repository is the git capability the workflow drives. *git.Client
// implements it.
type Repository interface {
	ConfigReader

	Fetch(ctx context.Context, remote string, refspecs ...string) error
	Checkout(ctx context.Context, ref string) error
	Push(ctx context.Context, opts git.PushOptions) error
	HTTPRemote(ctx context.Context, name string) (*git.Remote, error)
	HasUpstream(ctx context.Context, branch string) (bool, error)
	SetUpstream(ctx context.Context, branch, remote string) error
	SetConfigValue(ctx context.Context, key, value string) error
}

// PullRequestAPI creates pull requests on the hosting service.
type PullRequestAPI interface {
	CreatePullRequestFrom(ctx context.Context, source, target github.RepoRef, newPR *github.NewPullRequest) (*github.PRInfo, error)
}

// UsageTracker records usage counters. Implementations must not block.
type UsageTracker interface {
	IncrementUpstreamPullRequestCount()
}

type noopTracker struct{}

func (noopTracker) IncrementUpstreamPullRequestCount() {}

var _ Repository = (*git.Client)(nil)
