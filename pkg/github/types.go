package github

import "time"

// PRInfo contains basic pull request information
type PRInfo struct {
	Number      int       `json:"number"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	State       string    `json:"state"`
	URL         string    `json:"url"`
	BaseRef     string    `json:"base_ref"`
	HeadRef     string    `json:"head_ref"`
	BaseSHA     string    `json:"base_sha"`
	HeadSHA     string    `json:"head_sha"`
	HeadRepo    string    `json:"head_repo,omitempty"`
	Author      string    `json:"author"`
	Draft       bool      `json:"draft,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Repository  string    `json:"repository"`
	MergeCommit string    `json:"merge_commit_sha,omitempty"`
}

// NewPullRequest contains information for creating a new pull request
type NewPullRequest struct {
	Title               string `json:"title"`
	Head                string `json:"head"`
	Base                string `json:"base"`
	Body                string `json:"body"`
	Draft               bool   `json:"draft,omitempty"`
	MaintainerCanModify bool   `json:"maintainer_can_modify"`
}
