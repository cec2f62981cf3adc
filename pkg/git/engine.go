package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// ErrNotRepository is returned by Open for a path outside any git work tree.
var ErrNotRepository = errors.New("not a git repository")

// Engine opens repositories and hands out clients bound to their work tree.
type Engine struct {
	// Options is copied into every client the engine opens.
	Options *ClientOptions
}

// NewEngine creates an engine with default client options.
func NewEngine() *Engine {
	return &Engine{Options: DefaultClientOptions()}
}

// Open resolves the work tree containing path and returns a client for it.
// Bare repositories are rejected because checkout needs a work tree.
func (e *Engine) Open(ctx context.Context, path string) (*Client, error) {
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository path: %w", err)
	}

	candidate := &Client{Dir: abs, Options: e.Options}
	if !candidate.IsRepo(ctx) {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, abs)
	}
	repo, err := candidate.openRepository()
	if err != nil {
		return nil, err
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("repository at %s has no work tree: %w", abs, err)
	}

	opts := e.Options
	if opts == nil {
		opts = DefaultClientOptions()
	}
	return &Client{Dir: wt.Filesystem.Root(), Options: opts}, nil
}
