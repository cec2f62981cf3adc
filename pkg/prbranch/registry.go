package prbranch

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// FindLocalBranchesForPullRequest returns every local branch whose
// branch.<name>.prflow-pr-number entry equals prNumber, in config order.
// Duplicates are kept.
func FindLocalBranchesForPullRequest(ctx context.Context, repo ConfigReader, prNumber int) ([]string, error) {
	entries, err := repo.ConfigEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read repository config: %w", err)
	}

	want := strconv.Itoa(prNumber)
	prefix := configSection + "."
	suffix := "." + PullRequestKey

	var branches []string
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Key, prefix) || !strings.HasSuffix(entry.Key, suffix) {
			continue
		}
		if len(entry.Key) <= len(prefix)+len(suffix) {
			continue
		}
		segment := entry.Key[len(prefix) : len(entry.Key)-len(suffix)]
		if strings.TrimSpace(entry.Value) != want {
			continue
		}
		branches = append(branches, DecodeFromConfigKey(segment))
	}
	return branches, nil
}
