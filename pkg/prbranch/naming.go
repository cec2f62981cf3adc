package prbranch

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// PullRequestKey is the config option that marks a branch as tracking a
	// pull request. The value is the decimal pull request number.
	PullRequestKey = "prflow-pr-number"

	// LocalBranchPrefix is prepended to branch names derived from a PR.
	LocalBranchPrefix = "pr/"

	configSection = "branch"
)

var unsafeChars = regexp.MustCompile(`[^0-9A-Za-z-]`)

// DefaultLocalBranchName returns the branch a pull request is checked out to
// when the caller does not choose one, e.g. "pr/42-fix-bug".
func DefaultLocalBranchName(prNumber int, prTitle string) string {
	name := LocalBranchPrefix + strconv.Itoa(prNumber)
	if safe := SafeName(prTitle); safe != "" {
		name += "-" + safe
	}
	return name
}

// SafeName reduces title to lower-case alphanumerics separated by single
// dashes. SafeName(SafeName(s)) == SafeName(s) for every s.
func SafeName(title string) string {
	name := unsafeChars.ReplaceAllString(title, "-")
	for strings.Contains(name, "--") {
		name = strings.ReplaceAll(name, "--", "-")
	}
	name = strings.Trim(name, "-")
	return strings.ToLower(name)
}

// EncodeForConfigKey turns a branch name into a dotted config subsection.
func EncodeForConfigKey(branch string) string {
	return strings.ReplaceAll(branch, "/", ".")
}

// DecodeFromConfigKey reverses EncodeForConfigKey. Branch names that already
// contain "." do not survive the round trip.
func DecodeFromConfigKey(segment string) string {
	return strings.ReplaceAll(segment, ".", "/")
}

// ConfigKey returns the git config key holding the pull request number for
// branch.
func ConfigKey(branch string) string {
	return configSection + "." + EncodeForConfigKey(branch) + "." + PullRequestKey
}
