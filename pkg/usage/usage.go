// Package usage keeps local usage counters for prflow.
package usage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	holonlog "github.com/holon-run/prflow/pkg/log"
)

const (
	// HomeEnv overrides the directory usage data is stored in.
	HomeEnv = "PRFLOW_HOME"

	fileName = "usage.yaml"
)

// Counts is the persisted usage document.
type Counts struct {
	UpstreamPullRequests int       `yaml:"upstream_pull_requests"`
	UpdatedAt            time.Time `yaml:"updated_at,omitempty"`
}

// Tracker increments counters stored in a yaml file. Increments run in the
// background and never report errors to the caller; call Wait before the
// process exits to flush them.
type Tracker struct {
	mu   sync.Mutex
	wg   sync.WaitGroup
	path string
	now  func() time.Time
}

// DefaultDir returns $PRFLOW_HOME, or ~/.prflow when it is unset.
func DefaultDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".prflow")
	}
	return filepath.Join(homeDir, ".prflow")
}

// New creates a tracker storing its data in dir. An empty dir means
// DefaultDir().
func New(dir string) *Tracker {
	if dir == "" {
		dir = DefaultDir()
	}
	return &Tracker{
		path: filepath.Join(dir, fileName),
		now:  time.Now,
	}
}

// Path returns the usage file location.
func (t *Tracker) Path() string {
	return t.path
}

// IncrementUpstreamPullRequestCount records one created pull request.
func (t *Tracker) IncrementUpstreamPullRequestCount() {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		if err := t.update(func(c *Counts) { c.UpstreamPullRequests++ }); err != nil {
			holonlog.Debug("failed to record usage", "path", t.path, "error", err)
		}
	}()
}

// Wait blocks until pending increments are written.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

// Counts returns the persisted counters. A missing file yields zero counts.
func (t *Tracker) Counts() (Counts, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load()
}

func (t *Tracker) update(fn func(*Counts)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	counts, err := t.load()
	if err != nil {
		holonlog.Debug("resetting unreadable usage file", "path", t.path, "error", err)
		counts = Counts{}
	}

	fn(&counts)
	counts.UpdatedAt = t.now().UTC()

	return t.write(counts)
}

func (t *Tracker) load() (Counts, error) {
	var counts Counts

	data, err := os.ReadFile(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return counts, nil
		}
		return counts, fmt.Errorf("failed to read usage file: %w", err)
	}

	if err := yaml.Unmarshal(data, &counts); err != nil {
		return Counts{}, fmt.Errorf("failed to parse usage file: %w", err)
	}
	return counts, nil
}

func (t *Tracker) write(counts Counts) error {
	if err := os.MkdirAll(filepath.Dir(t.path), 0755); err != nil {
		return fmt.Errorf("failed to create usage directory: %w", err)
	}

	data, err := yaml.Marshal(counts)
	if err != nil {
		return fmt.Errorf("failed to marshal usage: %w", err)
	}

	tmp := t.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write usage file: %w", err)
	}
	if err := os.Rename(tmp, t.path); err != nil {
		return fmt.Errorf("failed to replace usage file: %w", err)
	}
	return nil
}

// Noop discards all counters.
type Noop struct{}

// IncrementUpstreamPullRequestCount does nothing.
func (Noop) IncrementUpstreamPullRequestCount() {}
