// Package config provides project-level configuration for prflow.
// It loads .prflow/config.yaml with the precedence
// CLI flags > project config > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigDir is the directory name for prflow configuration
	ConfigDir = ".prflow"
	// ConfigFile is the name of the configuration file
	ConfigFile = "config.yaml"
	// ConfigPath is the full path to the config file relative to project root
	ConfigPath = ConfigDir + "/" + ConfigFile

	// DefaultBaseBranch is used when neither flag nor config names a base
	DefaultBaseBranch = "main"
)

// ProjectConfig represents the project-level configuration.
type ProjectConfig struct {
	// LogLevel is the default log level (debug, info, progress, minimal, warn, error)
	LogLevel string `yaml:"log_level,omitempty"`

	// Remote is the git remote pull requests are fetched from and pushed to
	Remote string `yaml:"remote,omitempty"`

	// BaseBranch is the default target branch for new pull requests
	BaseBranch string `yaml:"base_branch,omitempty"`

	// Target is the default target repository as owner/repo
	Target string `yaml:"target,omitempty"`

	// CreateDelay is the pause between push and pull request creation,
	// as a Go duration ("5s", "500ms")
	CreateDelay string `yaml:"create_delay,omitempty"`

	GitHub GitHubConfig `yaml:"github,omitempty"`

	Usage UsageConfig `yaml:"usage,omitempty"`

	// path is the file this config was read from, empty when none was found
	path string
}

// GitHubConfig holds API settings.
type GitHubConfig struct {
	// BaseURL points at a GitHub Enterprise API, e.g. https://ghe.example.com/api/v3
	BaseURL string `yaml:"base_url,omitempty"`
}

// UsageConfig controls local usage counters.
type UsageConfig struct {
	Disabled bool `yaml:"disabled,omitempty"`
}

// Load loads the project configuration from the given directory.
// It searches for .prflow/config.yaml in the directory and its parents.
//
// If no config file is found, it returns a zero config and nil error.
// If a config file is found but cannot be parsed, it returns an error.
func Load(dir string) (*ProjectConfig, error) {
	configPath, err := findConfigPath(dir)
	if err != nil {
		return nil, err
	}
	if configPath == "" {
		return &ProjectConfig{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}
	if _, err := cfg.createDelay(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}
	cfg.path = configPath

	return &cfg, nil
}

// Path returns the file the configuration was loaded from, or "".
func (c *ProjectConfig) Path() string {
	return c.path
}

// findConfigPath searches for .prflow/config.yaml in dir and its parent directories.
// It returns the full path to the config file, or empty string if not found.
func findConfigPath(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	for {
		configPath := filepath.Join(absDir, ConfigPath)
		if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
			return configPath, nil
		}

		parentDir := filepath.Dir(absDir)
		if parentDir == absDir {
			return "", nil
		}
		absDir = parentDir
	}
}

// ResolveString returns the effective value for a string configuration field.
// Precedence: cliValue > configValue > defaultValue.
// Returns the effective value and its source ("cli", "config", or "default").
func (c *ProjectConfig) ResolveString(cliValue, configValue, defaultValue string) (string, string) {
	if cliValue != "" {
		return cliValue, "cli"
	}
	if configValue != "" {
		return configValue, "config"
	}
	return defaultValue, "default"
}

// ResolveLogLevel returns the effective log level and its source.
func (c *ProjectConfig) ResolveLogLevel(cliValue, defaultValue string) (string, string) {
	return c.ResolveString(cliValue, c.LogLevel, defaultValue)
}

// ResolveRemote returns the effective remote name and its source.
func (c *ProjectConfig) ResolveRemote(cliValue, defaultValue string) (string, string) {
	return c.ResolveString(cliValue, c.Remote, defaultValue)
}

// ResolveBaseBranch returns the effective base branch. Default is "main".
func (c *ProjectConfig) ResolveBaseBranch(cliValue string) (string, string) {
	return c.ResolveString(cliValue, c.BaseBranch, DefaultBaseBranch)
}

// ResolveTarget returns the effective target repository (owner/repo).
func (c *ProjectConfig) ResolveTarget(cliValue string) (string, string) {
	return c.ResolveString(cliValue, c.Target, "")
}

// ResolveGitHubBaseURL returns the effective API base URL.
func (c *ProjectConfig) ResolveGitHubBaseURL(cliValue, defaultValue string) (string, string) {
	return c.ResolveString(cliValue, c.GitHub.BaseURL, defaultValue)
}

// ResolveCreateDelay returns the effective create delay and its source.
// A negative cliValue means "not set on the command line".
func (c *ProjectConfig) ResolveCreateDelay(cliValue, defaultValue time.Duration) (time.Duration, string) {
	if cliValue >= 0 {
		return cliValue, "cli"
	}
	if d, err := c.createDelay(); err == nil && c.CreateDelay != "" {
		return d, "config"
	}
	return defaultValue, "default"
}

func (c *ProjectConfig) createDelay() (time.Duration, error) {
	if c.CreateDelay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.CreateDelay)
	if err != nil {
		return 0, fmt.Errorf("create_delay: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("create_delay must not be negative, got %s", c.CreateDelay)
	}
	return d, nil
}

// UsageEnabled reports whether usage counters should be recorded.
func (c *ProjectConfig) UsageEnabled() bool {
	return !c.Usage.Disabled
}
