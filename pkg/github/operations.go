package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v68/github"
)

// FetchPRInfo fetches basic pull request information using go-github SDK
func (c *Client) FetchPRInfo(ctx context.Context, owner, repo string, prNumber int) (*PRInfo, error) {
	pr, _, err := c.GitHubClient().PullRequests.Get(ctx, owner, repo, prNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch PR #%d: %w", prNumber, wrapError(err))
	}

	return convertFromGitHubPR(pr), nil
}

// convertFromGitHubPR converts a github.PullRequest to our PRInfo type
func convertFromGitHubPR(pr *github.PullRequest) *PRInfo {
	var baseRef, headRef, baseSHA, headSHA, headRepo string

	if base := pr.GetBase(); base != nil {
		baseRef = base.GetRef()
		baseSHA = base.GetSHA()
	}

	if head := pr.GetHead(); head != nil {
		headRef = head.GetRef()
		headSHA = head.GetSHA()
		if head.GetRepo() != nil {
			headRepo = head.GetRepo().GetFullName()
		}
	}

	author := ""
	if user := pr.GetUser(); user != nil {
		author = user.GetLogin()
	}

	info := &PRInfo{
		Number:      pr.GetNumber(),
		Title:       pr.GetTitle(),
		Body:        pr.GetBody(),
		State:       pr.GetState(),
		URL:         pr.GetHTMLURL(),
		BaseRef:     baseRef,
		HeadRef:     headRef,
		BaseSHA:     baseSHA,
		HeadSHA:     headSHA,
		HeadRepo:    headRepo,
		Author:      author,
		Draft:       pr.GetDraft(),
		CreatedAt:   pr.GetCreatedAt().Time,
		UpdatedAt:   pr.GetUpdatedAt().Time,
		MergeCommit: pr.GetMergeCommitSHA(),
	}

	if pr.GetBase() != nil && pr.GetBase().GetRepo() != nil {
		info.Repository = pr.GetBase().GetRepo().GetFullName()
	}

	return info
}

// CreatePullRequest creates a new pull request
func (c *Client) CreatePullRequest(ctx context.Context, owner, repo string, newPR *NewPullRequest) (*PRInfo, error) {
	pr, _, err := c.GitHubClient().PullRequests.Create(ctx, owner, repo, &github.NewPullRequest{
		Title:               github.Ptr(newPR.Title),
		Head:                github.Ptr(newPR.Head),
		Base:                github.Ptr(newPR.Base),
		Body:                github.Ptr(newPR.Body),
		Draft:               github.Ptr(newPR.Draft),
		MaintainerCanModify: github.Ptr(newPR.MaintainerCanModify),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", wrapError(err))
	}
	return convertFromGitHubPR(pr), nil
}

// CreatePullRequestFrom opens a pull request on target whose head branch
// lives in source. newPR.Head is the bare branch name; it is qualified with
// the source owner when the two repositories differ (fork workflow).
func (c *Client) CreatePullRequestFrom(ctx context.Context, source, target RepoRef, newPR *NewPullRequest) (*PRInfo, error) {
	req := *newPR
	req.Head = HeadSpec(source, target, newPR.Head)
	return c.CreatePullRequest(ctx, target.Owner, target.Repo, &req)
}

// HeadSpec returns the head value the pulls API expects for branch.
func HeadSpec(source, target RepoRef, branch string) string {
	if source.IsZero() || source.Owner == target.Owner {
		return branch
	}
	return source.Owner + ":" + branch
}
