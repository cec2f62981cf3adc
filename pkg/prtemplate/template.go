// Package prtemplate finds a repository's pull request description template.
package prtemplate

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	holonlog "github.com/holon-run/prflow/pkg/log"
)

// Candidates lists template paths relative to the repository root, highest
// priority first.
var Candidates = []string{
	"PULL_REQUEST_TEMPLATE.md",
	"PULL_REQUEST_TEMPLATE",
	filepath.Join(".github", "PULL_REQUEST_TEMPLATE.md"),
	filepath.Join(".github", "PULL_REQUEST_TEMPLATE"),
}

// Finder looks templates up on a file system.
type Finder struct {
	fs afero.Fs
}

// NewFinder returns a Finder over fs. A nil fs means the OS file system.
func NewFinder(fs afero.Fs) *Finder {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Finder{fs: fs}
}

// Lookup returns the first template under repoPath that exists and can be
// read. File system errors are never returned; a candidate that cannot be
// read is skipped. Bytes that are not valid UTF-8 are replaced with U+FFFD.
func (f *Finder) Lookup(repoPath string) (string, bool) {
	for _, candidate := range Candidates {
		path := filepath.Join(repoPath, candidate)

		exists, err := afero.Exists(f.fs, path)
		if err != nil || !exists {
			continue
		}

		data, err := afero.ReadFile(f.fs, path)
		if err != nil {
			holonlog.Debug("skipping unreadable pull request template", "path", path, "error", err)
			continue
		}
		return strings.ToValidUTF8(string(data), "\uFFFD"), true
	}
	return "", false
}

// Lookup is a shorthand for NewFinder(fs).Lookup(repoPath).
func Lookup(fs afero.Fs, repoPath string) (string, bool) {
	return NewFinder(fs).Lookup(repoPath)
}
