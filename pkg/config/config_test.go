package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	configDir := filepath.Join(dir, ConfigDir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(configDir, ConfigFile)
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return configPath
}

func TestLoad_NoConfigFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Remote != "" || cfg.LogLevel != "" || cfg.Target != "" {
		t.Errorf("expected zero config, got %+v", cfg)
	}
	if cfg.Path() != "" {
		t.Errorf("Path() = %q, want empty", cfg.Path())
	}
	if !cfg.UsageEnabled() {
		t.Error("usage should be enabled by default")
	}
}

func TestLoad_ValidConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := writeConfig(t, tmpDir, `
log_level: "debug"
remote: upstream
base_branch: develop
target: holon-run/prflow
create_delay: 2s
github:
  base_url: https://ghe.example.com/api/v3
usage:
  disabled: true
`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.Remote != "upstream" {
		t.Errorf("Remote = %q, want %q", cfg.Remote, "upstream")
	}
	if cfg.BaseBranch != "develop" {
		t.Errorf("BaseBranch = %q, want %q", cfg.BaseBranch, "develop")
	}
	if cfg.Target != "holon-run/prflow" {
		t.Errorf("Target = %q", cfg.Target)
	}
	if cfg.GitHub.BaseURL != "https://ghe.example.com/api/v3" {
		t.Errorf("GitHub.BaseURL = %q", cfg.GitHub.BaseURL)
	}
	if cfg.UsageEnabled() {
		t.Error("usage should be disabled")
	}
	if cfg.Path() != configPath {
		t.Errorf("Path() = %q, want %q", cfg.Path(), configPath)
	}
	if d, src := cfg.ResolveCreateDelay(-1, 5*time.Second); d != 2*time.Second || src != "config" {
		t.Errorf("ResolveCreateDelay() = %v, %q", d, src)
	}
}

func TestLoad_SearchParentDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `remote: fork`)

	subdir := filepath.Join(tmpDir, "subdir", "nested")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(subdir)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Remote != "fork" {
		t.Errorf("Remote = %q, want %q", cfg.Remote, "fork")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "invalid: yaml: content:[")

	if _, err := Load(tmpDir); err == nil {
		t.Error("Load() should return error for invalid YAML")
	}
}

func TestLoad_InvalidCreateDelay(t *testing.T) {
	for _, value := range []string{"soon", "-1s"} {
		tmpDir := t.TempDir()
		writeConfig(t, tmpDir, "create_delay: "+value)

		if _, err := Load(tmpDir); err == nil {
			t.Errorf("Load() should reject create_delay %q", value)
		}
	}
}

func TestResolveString(t *testing.T) {
	cfg := &ProjectConfig{}

	tests := []struct {
		name         string
		cliValue     string
		configValue  string
		defaultValue string
		wantValue    string
		wantSource   string
	}{
		{
			name:         "CLI takes precedence",
			cliValue:     "cli-value",
			configValue:  "config-value",
			defaultValue: "default-value",
			wantValue:    "cli-value",
			wantSource:   "cli",
		},
		{
			name:         "Config takes precedence over default",
			configValue:  "config-value",
			defaultValue: "default-value",
			wantValue:    "config-value",
			wantSource:   "config",
		},
		{
			name:         "Default when no CLI or config",
			defaultValue: "default-value",
			wantValue:    "default-value",
			wantSource:   "default",
		},
		{
			name:       "Empty default when CLI and config empty",
			wantValue:  "",
			wantSource: "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotValue, gotSource := cfg.ResolveString(tt.cliValue, tt.configValue, tt.defaultValue)
			if gotValue != tt.wantValue {
				t.Errorf("value = %q, want %q", gotValue, tt.wantValue)
			}
			if gotSource != tt.wantSource {
				t.Errorf("source = %q, want %q", gotSource, tt.wantSource)
			}
		})
	}
}

func TestResolveHelpers(t *testing.T) {
	cfg := &ProjectConfig{
		LogLevel:   "debug",
		Remote:     "upstream",
		BaseBranch: "develop",
		Target:     "acme/app",
		GitHub:     GitHubConfig{BaseURL: "https://ghe.example.com/api/v3"},
	}
	empty := &ProjectConfig{}

	tests := []struct {
		name       string
		resolve    func(*ProjectConfig) (string, string)
		cfg        *ProjectConfig
		wantValue  string
		wantSource string
	}{
		{"log level cli", func(c *ProjectConfig) (string, string) { return c.ResolveLogLevel("info", "progress") }, cfg, "info", "cli"},
		{"log level config", func(c *ProjectConfig) (string, string) { return c.ResolveLogLevel("", "progress") }, cfg, "debug", "config"},
		{"log level default", func(c *ProjectConfig) (string, string) { return c.ResolveLogLevel("", "progress") }, empty, "progress", "default"},
		{"remote config", func(c *ProjectConfig) (string, string) { return c.ResolveRemote("", "origin") }, cfg, "upstream", "config"},
		{"remote default", func(c *ProjectConfig) (string, string) { return c.ResolveRemote("", "origin") }, empty, "origin", "default"},
		{"base branch config", func(c *ProjectConfig) (string, string) { return c.ResolveBaseBranch("") }, cfg, "develop", "config"},
		{"base branch default", func(c *ProjectConfig) (string, string) { return c.ResolveBaseBranch("") }, empty, DefaultBaseBranch, "default"},
		{"target cli", func(c *ProjectConfig) (string, string) { return c.ResolveTarget("other/repo") }, cfg, "other/repo", "cli"},
		{"target default", func(c *ProjectConfig) (string, string) { return c.ResolveTarget("") }, empty, "", "default"},
		{"github config", func(c *ProjectConfig) (string, string) { return c.ResolveGitHubBaseURL("", "https://api.github.com") }, cfg, "https://ghe.example.com/api/v3", "config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotValue, gotSource := tt.resolve(tt.cfg)
			if gotValue != tt.wantValue || gotSource != tt.wantSource {
				t.Errorf("got (%q, %q), want (%q, %q)", gotValue, gotSource, tt.wantValue, tt.wantSource)
			}
		})
	}
}

func TestResolveCreateDelay(t *testing.T) {
	cfg := &ProjectConfig{CreateDelay: "1500ms"}

	if d, src := cfg.ResolveCreateDelay(0, 5*time.Second); d != 0 || src != "cli" {
		t.Errorf("explicit zero should win, got %v %q", d, src)
	}
	if d, src := cfg.ResolveCreateDelay(-1, 5*time.Second); d != 1500*time.Millisecond || src != "config" {
		t.Errorf("got %v %q, want 1.5s config", d, src)
	}
	if d, src := (&ProjectConfig{}).ResolveCreateDelay(-1, 5*time.Second); d != 5*time.Second || src != "default" {
		t.Errorf("got %v %q, want 5s default", d, src)
	}
}
