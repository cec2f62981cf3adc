package github

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// RepoRef identifies a GitHub repository.
type RepoRef struct {
	Owner string
	Repo  string
}

// PullRequestRef identifies a pull request in a repository.
type PullRequestRef struct {
	RepoRef
	Number int
}

var (
	repoRefRegex = regexp.MustCompile(`^([\w.-]+)/([\w.-]+)$`)

	// scp-like ssh remotes: git@github.com:owner/repo.git
	scpRemoteRegex = regexp.MustCompile(`^(?:[\w.-]+@)?([\w.-]+):([\w.-]+)/([\w.-]+?)(?:\.git)?/?$`)

	prURLPattern     = regexp.MustCompile(`^https?://[^/]+/([^/]+)/([^/]+)/pull/(\d+)/?$`)
	shortPRPattern   = regexp.MustCompile(`^([\w.-]+)/([\w.-]+)#(\d+)$`)
	numericPRPattern = regexp.MustCompile(`^#?(\d+)$`)
)

// ParseRepoRef parses "owner/repo".
func ParseRepoRef(s string) (RepoRef, error) {
	m := repoRefRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return RepoRef{}, fmt.Errorf("invalid repository %q (expected owner/repo)", s)
	}
	return RepoRef{Owner: m[1], Repo: m[2]}, nil
}

// ParseRemoteURL extracts owner and repository from a remote URL. HTTP(S),
// ssh:// and scp-like forms are accepted; a trailing ".git" is dropped.
func ParseRemoteURL(raw string) (RepoRef, error) {
	raw = strings.TrimSpace(raw)

	if m := scpRemoteRegex.FindStringSubmatch(raw); m != nil && !strings.Contains(raw, "://") {
		return RepoRef{Owner: m[2], Repo: m[3]}, nil
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return RepoRef{}, fmt.Errorf("unsupported remote URL %q", raw)
	}

	path := strings.Trim(u.Path, "/")
	path = strings.TrimSuffix(path, ".git")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return RepoRef{}, fmt.Errorf("remote URL %q does not name an owner/repo", raw)
	}

	return RepoRef{Owner: parts[len(parts)-2], Repo: parts[len(parts)-1]}, nil
}

// IsZero reports whether the reference is unset.
func (r RepoRef) IsZero() bool {
	return r.Owner == "" && r.Repo == ""
}

// Equal reports whether r and o name the same repository. GitHub owner and
// repository names are case-insensitive.
func (r RepoRef) Equal(o RepoRef) bool {
	return strings.EqualFold(r.Owner, o.Owner) && strings.EqualFold(r.Repo, o.Repo)
}

// FullName returns the full repository name (owner/repo).
func (r RepoRef) FullName() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Repo)
}

// String returns the string representation of the repository reference.
func (r RepoRef) String() string {
	return r.FullName()
}

// ParsePullRequestRef parses a pull request reference.
// Supported formats:
//   - https://github.com/<owner>/<repo>/pull/<n>
//   - <owner>/<repo>#<n>
//   - #<n> or <n> (requires defaultRepo)
func ParsePullRequestRef(ref string, defaultRepo RepoRef) (*PullRequestRef, error) {
	ref = strings.TrimSpace(ref)

	if m := prURLPattern.FindStringSubmatch(ref); m != nil {
		return newPullRequestRef(m[1], m[2], m[3])
	}

	if m := shortPRPattern.FindStringSubmatch(ref); m != nil {
		return newPullRequestRef(m[1], m[2], m[3])
	}

	if m := numericPRPattern.FindStringSubmatch(ref); m != nil {
		if defaultRepo.IsZero() {
			return nil, fmt.Errorf("pull request %q needs a repository; pass owner/repo#%s", ref, m[1])
		}
		return newPullRequestRef(defaultRepo.Owner, defaultRepo.Repo, m[1])
	}

	return nil, fmt.Errorf("invalid pull request reference %q", ref)
}

func newPullRequestRef(owner, repo, number string) (*PullRequestRef, error) {
	n, err := strconv.Atoi(number)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("invalid pull request number %q", number)
	}
	return &PullRequestRef{RepoRef: RepoRef{Owner: owner, Repo: repo}, Number: n}, nil
}
