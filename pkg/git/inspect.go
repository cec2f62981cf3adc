package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	holonlog "github.com/holon-run/prflow/pkg/log"
)

// ErrRemoteNotFound is returned when no usable remote is configured.
var ErrRemoteNotFound = errors.New("remote not found")

// ConfigEntry is a single key/value pair from the repository configuration.
// Section and variable names are lower-cased the way `git config --list`
// prints them; subsection names keep their case.
type ConfigEntry struct {
	Key   string
	Value string
}

// Remote describes a configured remote.
type Remote struct {
	Name string
	URL  string
}

// openRepository opens the repository containing c.Dir with go-git.
func (c *Client) openRepository() (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(c.Dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%s is not a git repository", c.Dir)
		}
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	return repo, nil
}

// ConfigEntries returns every entry of the repository-local configuration in
// file order. go-git is used when it can parse the file; otherwise the git
// binary is asked to list the local scope.
func (c *Client) ConfigEntries(ctx context.Context) ([]ConfigEntry, error) {
	repo, err := c.openRepository()
	if err != nil {
		return nil, err
	}

	cfg, err := repo.Config()
	if err != nil {
		holonlog.Debug("go-git could not parse repository config, falling back to git config --list", "dir", c.Dir, "error", err)
		return c.listConfig(ctx)
	}
	if cfg.Raw == nil {
		return nil, nil
	}

	var entries []ConfigEntry
	for _, s := range cfg.Raw.Sections {
		section := strings.ToLower(s.Name)
		for _, o := range s.Options {
			entries = append(entries, ConfigEntry{Key: section + "." + strings.ToLower(o.Key), Value: o.Value})
		}
		for _, ss := range s.Subsections {
			for _, o := range ss.Options {
				entries = append(entries, ConfigEntry{
					Key:   section + "." + ss.Name + "." + strings.ToLower(o.Key),
					Value: o.Value,
				})
			}
		}
	}
	return entries, nil
}

// listConfig reads the local scope through `git config --list -z`.
func (c *Client) listConfig(ctx context.Context) ([]ConfigEntry, error) {
	output, err := c.execCommand(ctx, "config", "--local", "--list", "-z")
	if err != nil {
		return nil, fmt.Errorf("failed to list repository config: %w", err)
	}
	return parseConfigList(output), nil
}

// parseConfigList parses NUL separated `key\nvalue` records.
func parseConfigList(output []byte) []ConfigEntry {
	var entries []ConfigEntry
	for _, record := range bytes.Split(output, []byte{0}) {
		if len(record) == 0 {
			continue
		}
		key, value, _ := strings.Cut(string(record), "\n")
		entries = append(entries, ConfigEntry{Key: key, Value: value})
	}
	return entries
}

// HTTPRemote returns the remote called name when one of its URLs is
// HTTP(S). Other remotes are never considered: ErrRemoteNotFound is returned
// when the named remote is missing or only has non-HTTP URLs.
func (c *Client) HTTPRemote(ctx context.Context, name string) (*Remote, error) {
	repo, err := c.openRepository()
	if err != nil {
		return nil, err
	}

	remote, err := repo.Remote(name)
	if err != nil {
		if errors.Is(err, gogit.ErrRemoteNotFound) {
			return nil, fmt.Errorf("%w: no remote named %q in %s", ErrRemoteNotFound, name, c.Dir)
		}
		return nil, fmt.Errorf("failed to read remote %q: %w", name, err)
	}

	for _, u := range remote.Config().URLs {
		if isHTTPURL(u) {
			return &Remote{Name: name, URL: u}, nil
		}
	}
	return nil, fmt.Errorf("%w: remote %q in %s has no HTTP(S) URL", ErrRemoteNotFound, name, c.Dir)
}

// RemoteURL returns the first URL of the named remote, whatever its transport.
func (c *Client) RemoteURL(ctx context.Context, name string) (string, error) {
	repo, err := c.openRepository()
	if err != nil {
		return "", err
	}

	remote, err := repo.Remote(name)
	if err != nil {
		if errors.Is(err, gogit.ErrRemoteNotFound) {
			return "", fmt.Errorf("%w: %q", ErrRemoteNotFound, name)
		}
		return "", fmt.Errorf("failed to read remote %q: %w", name, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("%w: remote %q has no URL", ErrRemoteNotFound, name)
	}
	return urls[0], nil
}

// HasUpstream reports whether branch is configured to track a remote branch.
func (c *Client) HasUpstream(ctx context.Context, branch string) (bool, error) {
	repo, err := c.openRepository()
	if err != nil {
		return false, err
	}

	cfg, err := repo.Config()
	if err != nil {
		// go-git refuses some valid configs; ask git directly.
		if _, gerr := c.ConfigGet(ctx, "branch."+branch+".merge"); gerr != nil {
			return false, nil
		}
		return true, nil
	}

	b, ok := cfg.Branches[branch]
	if !ok {
		return false, nil
	}
	return b.Remote != "" && b.Merge != "", nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
