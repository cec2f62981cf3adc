package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/holon-run/prflow/pkg/config"
	holonlog "github.com/holon-run/prflow/pkg/log"
	"github.com/spf13/cobra"
)

var (
	repoPath   string
	remoteFlag string
	logLevel   string
	logFormat  string

	projectConfig *config.ProjectConfig
)

var rootCmd = &cobra.Command{
	Use:   "prflow",
	Short: "Keep local git branches in step with GitHub pull requests.",
	Long: `prflow creates pull requests from local branches, checks pull requests
out into local branches, and remembers which branch belongs to which pull
request in the repository's local git config.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(repoPath)
		if err != nil {
			return err
		}
		projectConfig = cfg

		levelName, _ := cfg.ResolveLogLevel(logLevel, string(holonlog.LevelProgress))
		level, err := holonlog.ParseLevel(levelName)
		if err != nil {
			return err
		}
		if err := holonlog.Init(holonlog.Config{Level: level, Format: logFormat}); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if cfg.Path() != "" {
			holonlog.Debug("loaded project config", "path", cfg.Path())
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&repoPath, "repo", ".", "Path inside the git repository to operate on")
	rootCmd.PersistentFlags().StringVar(&remoteFlag, "remote", "", "Git remote pull requests are fetched from and pushed to (default origin)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, progress, minimal, warn, error (default progress)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", holonlog.FormatConsole, "Log format: console or json")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	flushUsage()
	_ = holonlog.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
