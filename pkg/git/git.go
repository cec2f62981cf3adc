// Package git provides the git engine used by prflow.
// Mutating operations (fetch, checkout, push, config writes) shell out to the
// system git binary so that credential helpers and hooks behave exactly as
// they do for the user. Read-only inspection of config, remotes and branch
// tracking goes through go-git.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultRemote is the remote prflow fetches from and pushes to.
const DefaultRemote = "origin"

// Client represents a git client for operations on a repository.
type Client struct {
	// Dir is the working directory of the git repository.
	Dir string

	// Options provides optional git configuration.
	Options *ClientOptions
}

// ClientOptions holds configuration for git operations.
type ClientOptions struct {
	// Quiet suppresses progress output from git commands.
	Quiet bool
}

// DefaultClientOptions returns the default client options.
func DefaultClientOptions() *ClientOptions {
	return &ClientOptions{
		Quiet: true,
	}
}

// NewClient creates a new git client for the given directory.
func NewClient(dir string) *Client {
	return &Client{
		Dir:     dir,
		Options: DefaultClientOptions(),
	}
}

// Path returns the repository working directory.
func (c *Client) Path() string {
	return c.Dir
}

// execCommand executes a git command with proper error handling.
func (c *Client) execCommand(ctx context.Context, args ...string) ([]byte, error) {
	cmdArgs := []string{"-C", c.Dir}
	cmdArgs = append(cmdArgs, args...)

	cmd := exec.CommandContext(ctx, "git", cmdArgs...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("git %s failed: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(output)))
	}

	return output, nil
}

// quietFlag returns the --quiet flag if enabled.
func (c *Client) quietFlag() string {
	if c.Options != nil && c.Options.Quiet {
		return "--quiet"
	}
	return ""
}

// IsRepo checks if the directory is a git repository.
func (c *Client) IsRepo(ctx context.Context) bool {
	_, err := c.execCommand(ctx, "rev-parse", "--git-dir")
	return err == nil
}

// CurrentBranch returns the checked out branch name.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	output, err := c.execCommand(ctx, "symbolic-ref", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("HEAD is not on a branch: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// Checkout checks out a reference (branch, tag, or commit).
func (c *Client) Checkout(ctx context.Context, ref string) error {
	if ref == "" {
		return fmt.Errorf("ref is required for checkout")
	}
	args := []string{"checkout"}
	if q := c.quietFlag(); q != "" {
		args = append(args, q)
	}
	args = append(args, ref)
	_, err := c.execCommand(ctx, args...)
	return err
}

// Fetch fetches the given refspecs from a remote. A refspec may name the
// branch that is checked out; git then moves the branch without touching the
// work tree.
func (c *Client) Fetch(ctx context.Context, remote string, refspecs ...string) error {
	if remote == "" {
		remote = DefaultRemote
	}
	args := []string{"fetch", "--update-head-ok"}
	if q := c.quietFlag(); q != "" {
		args = append(args, q)
	}
	args = append(args, remote)
	args = append(args, refspecs...)

	if _, err := c.execCommand(ctx, args...); err != nil {
		return fmt.Errorf("fetch from %s failed: %w", remote, err)
	}
	return nil
}

// PushOptions specifies options for pushing to a remote.
type PushOptions struct {
	// Remote is the remote name (default: "origin").
	Remote string

	// Branch is the branch to push.
	Branch string
}

// Push pushes a branch to a remote repository.
// Authentication is whatever the user's git credential setup provides.
func (c *Client) Push(ctx context.Context, opts PushOptions) error {
	if opts.Remote == "" {
		opts.Remote = DefaultRemote
	}
	if opts.Branch == "" {
		return fmt.Errorf("branch name is required for push")
	}

	args := []string{"push"}
	if q := c.quietFlag(); q != "" {
		args = append(args, q)
	}

	args = append(args, opts.Remote, opts.Branch)

	if _, err := c.execCommand(ctx, args...); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}

	return nil
}

// SetUpstream configures branch to track <remote>/<branch>.
func (c *Client) SetUpstream(ctx context.Context, branch, remote string) error {
	if remote == "" {
		remote = DefaultRemote
	}
	upstream := remote + "/" + branch
	if _, err := c.execCommand(ctx, "branch", "--set-upstream-to="+upstream, branch); err != nil {
		return fmt.Errorf("failed to set upstream of %s to %s: %w", branch, upstream, err)
	}
	return nil
}

// SetConfig writes a value to the repository-local git configuration.
func (c *Client) SetConfig(ctx context.Context, key, value string) error {
	_, err := c.execCommand(ctx, "config", "--local", key, value)
	return err
}

// SetConfigValue is SetConfig under the name the workflow layer expects.
func (c *Client) SetConfigValue(ctx context.Context, key, value string) error {
	return c.SetConfig(ctx, key, value)
}

// ConfigGet gets a git configuration value.
func (c *Client) ConfigGet(ctx context.Context, key string) (string, error) {
	output, err := c.execCommand(ctx, "config", "--get", key)
	if err != nil {
		return "", fmt.Errorf("git config --get %s failed: %w", key, err)
	}
	return strings.TrimSpace(string(output)), nil
}
