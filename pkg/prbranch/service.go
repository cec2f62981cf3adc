package prbranch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/holon-run/prflow/pkg/git"
	"github.com/holon-run/prflow/pkg/github"
	holonlog "github.com/holon-run/prflow/pkg/log"
)

const (
	// DefaultCreateDelay is how long CreatePullRequest waits between the push
	// and the API call so GitHub can see the new ref.
	DefaultCreateDelay = 5 * time.Second

	// TestModeEnv skips the create delay when set to "1" or "true".
	TestModeEnv = "PRFLOW_TEST_MODE"
)

// Option configures a Service.
type Option func(*Service)

// WithRemote sets the remote pull requests are fetched from and pushed to.
func WithRemote(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.remote = name
		}
	}
}

// WithCreateDelay overrides DefaultCreateDelay.
func WithCreateDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.createDelay = d
		}
	}
}

// WithTestMode forces the create delay on or off regardless of environment.
func WithTestMode(enabled bool) Option {
	return func(s *Service) {
		s.testMode = enabled
	}
}

// Service adopts, switches to and publishes pull request branches.
// Calls against one repository must be serialized by the caller.
type Service struct {
	engine  GitEngine
	api     PullRequestAPI
	tracker UsageTracker

	remote      string
	createDelay time.Duration
	testMode    bool
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewService creates a Service. api may be nil when only local operations
// are used; tracker may be nil to disable usage counting.
func NewService(engine GitEngine, api PullRequestAPI, tracker UsageTracker, opts ...Option) *Service {
	if tracker == nil {
		tracker = noopTracker{}
	}
	s := &Service{
		engine:      engine,
		api:         api,
		tracker:     tracker,
		remote:      git.DefaultRemote,
		createDelay: DefaultCreateDelay,
		testMode:    IsTestMode(),
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsTestMode reports whether we run under go test or PRFLOW_TEST_MODE.
func IsTestMode() bool {
	if testing.Testing() {
		return true
	}
	v := strings.ToLower(strings.TrimSpace(os.Getenv(TestModeEnv)))
	return v == "1" || v == "true"
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Service) open(ctx context.Context, op, repoPath string) (Repository, error) {
	if s.engine == nil {
		return nil, validationError(op, "no git engine configured")
	}
	repo, err := s.engine.Open(ctx, repoPath)
	if err != nil {
		return nil, validationError(op, "failed to open repository %q: %w", repoPath, err)
	}
	return repo, nil
}

// FetchAndCheckout fetches refs/pull/<prNumber>/head into localBranch,
// checks it out and records the pull request number in the repository
// config. Steps are not rolled back: a failed checkout leaves the fetched
// branch behind, a failed config write leaves the branch checked out but
// unmapped. Running it again with the same arguments is safe: the fetch is
// forced and may update the branch while it is checked out.
func (s *Service) FetchAndCheckout(ctx context.Context, repoPath string, prNumber int, localBranch string) error {
	const op = "checkout pull request"

	if repoPath == "" {
		return validationError(op, "repository path is required")
	}
	if prNumber <= 0 {
		return validationError(op, "pull request number must be positive, got %d", prNumber)
	}
	if strings.TrimSpace(localBranch) == "" {
		return validationError(op, "local branch name is required")
	}

	repo, err := s.open(ctx, op, repoPath)
	if err != nil {
		return err
	}

	key := ConfigKey(localBranch)
	refspec := fmt.Sprintf("+refs/pull/%d/head:%s", prNumber, localBranch)

	holonlog.Debug("fetching pull request", "remote", s.remote, "refspec", refspec)
	if err := repo.Fetch(ctx, s.remote, refspec); err != nil {
		return newError(op, ErrFetch, err)
	}

	holonlog.Debug("checking out branch", "branch", localBranch)
	if err := repo.Checkout(ctx, localBranch); err != nil {
		return newError(op, ErrCheckout, err)
	}

	if err := repo.SetConfigValue(ctx, key, strconv.Itoa(prNumber)); err != nil {
		return newError(op, ErrConfigWrite, err)
	}

	holonlog.Info("checked out pull request", "pr", prNumber, "branch", localBranch)
	return nil
}

// LocalBranches lists the local branches mapped to prNumber.
func (s *Service) LocalBranches(ctx context.Context, repoPath string, prNumber int) ([]string, error) {
	const op = "list branches"

	if prNumber <= 0 {
		return nil, validationError(op, "pull request number must be positive, got %d", prNumber)
	}

	repo, err := s.open(ctx, op, repoPath)
	if err != nil {
		return nil, err
	}
	return FindLocalBranchesForPullRequest(ctx, repo, prNumber)
}

// SwitchToBranch checks out a local branch mapped to prNumber. When several
// branches are mapped the first one in config order wins.
func (s *Service) SwitchToBranch(ctx context.Context, repoPath string, prNumber int) (string, error) {
	const op = "switch"

	if prNumber <= 0 {
		return "", validationError(op, "pull request number must be positive, got %d", prNumber)
	}

	repo, err := s.open(ctx, op, repoPath)
	if err != nil {
		return "", err
	}

	branches, err := FindLocalBranchesForPullRequest(ctx, repo, prNumber)
	if err != nil {
		return "", err
	}
	if len(branches) == 0 {
		return "", newError(op, ErrNotFound, fmt.Errorf("pull request #%d", prNumber))
	}
	if len(branches) > 1 {
		holonlog.Debug("several branches track pull request, using the first", "pr", prNumber, "branches", branches)
	}

	branch := branches[0]
	if err := repo.Checkout(ctx, branch); err != nil {
		return "", newError(op, ErrCheckout, err)
	}
	return branch, nil
}

// CreateRequest describes a pull request to publish.
type CreateRequest struct {
	RepoPath string
	// SourceRepo owns SourceBranch. It may equal TargetRepo.
	SourceRepo   github.RepoRef
	TargetRepo   github.RepoRef
	SourceBranch string
	TargetBranch string
	Title        string
	Body         string
	Draft        bool
}

func (r CreateRequest) validate(op string) error {
	switch {
	case r.RepoPath == "":
		return validationError(op, "repository path is required")
	case r.TargetRepo.Owner == "" || r.TargetRepo.Repo == "":
		return validationError(op, "target repository is required")
	case r.SourceBranch == "":
		return validationError(op, "source branch is required")
	case r.TargetBranch == "":
		return validationError(op, "target branch is required")
	case strings.TrimSpace(r.Title) == "":
		return validationError(op, "title is required")
	}
	return nil
}

// CreatePullRequest pushes the source branch and opens a pull request for
// it. The usage counter is incremented only when the API call succeeds.
func (s *Service) CreatePullRequest(ctx context.Context, req CreateRequest) (*github.PRInfo, error) {
	const op = "create pull request"

	if err := req.validate(op); err != nil {
		return nil, err
	}
	if s.api == nil {
		return nil, validationError(op, "no pull request API configured")
	}

	repo, err := s.open(ctx, op, req.RepoPath)
	if err != nil {
		return nil, err
	}

	remote, err := repo.HTTPRemote(ctx, s.remote)
	if err != nil {
		return nil, newError(op, ErrRemoteNotFound, err)
	}

	holonlog.Progress("pushing branch", "branch", req.SourceBranch, "remote", remote.Name)
	if err := repo.Push(ctx, git.PushOptions{Remote: remote.Name, Branch: req.SourceBranch}); err != nil {
		return nil, newError(op, ErrPush, err)
	}

	s.ensureTracking(ctx, repo, req.SourceBranch, remote.Name)

	if !s.testMode && s.createDelay > 0 {
		holonlog.Debug("waiting before creating pull request", "delay", s.createDelay)
		if err := s.sleep(ctx, s.createDelay); err != nil {
			return nil, newError(op, ErrRemoteAPI, err)
		}
	}

	pr, err := s.api.CreatePullRequestFrom(ctx, req.SourceRepo, req.TargetRepo, &github.NewPullRequest{
		Title:               req.Title,
		Head:                req.SourceBranch,
		Base:                req.TargetBranch,
		Body:                req.Body,
		Draft:               req.Draft,
		MaintainerCanModify: true,
	})
	if err != nil {
		return nil, newError(op, ErrRemoteAPI, err)
	}
	if pr == nil {
		return nil, newError(op, ErrRemoteAPI, errors.New("empty pull request response"))
	}

	s.tracker.IncrementUpstreamPullRequestCount()

	holonlog.Info("created pull request", "number", pr.Number, "url", pr.URL)
	return pr, nil
}

func (s *Service) ensureTracking(ctx context.Context, repo Repository, branch, remote string) {
	tracked, err := repo.HasUpstream(ctx, branch)
	if err != nil {
		holonlog.Warn("failed to inspect branch upstream", "branch", branch, "error", err)
		return
	}
	if tracked {
		return
	}
	if err := repo.SetUpstream(ctx, branch, remote); err != nil {
		holonlog.Warn("failed to set branch upstream", "branch", branch, "remote", remote, "error", err)
	}
}
