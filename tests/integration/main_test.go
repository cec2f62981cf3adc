package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

var (
	repoRoot  string
	prflowBin string
)

func TestMain(m *testing.M) {
	var err error
	repoRoot, err = findRepoRoot()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	binDir, err := os.MkdirTemp("", "prflow-bin-*")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	prflowBin = filepath.Join(binDir, "prflow")
	if runtime.GOOS == "windows" {
		prflowBin += ".exe"
	}

	cmd := exec.Command("go", "build", "-o", prflowBin, "./cmd/prflow")
	cmd.Dir = repoRoot
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	if out, err := cmd.CombinedOutput(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to build prflow: %v\n%s\n", err, string(out))
		_ = os.RemoveAll(binDir)
		os.Exit(2)
	}

	exitCode := m.Run()
	_ = os.RemoveAll(binDir)
	os.Exit(exitCode)
}

func TestIntegration(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: filepath.Join(repoRoot, "tests", "integration", "testdata"),
		Setup: func(env *testscript.Env) error {
			home := filepath.Join(env.WorkDir, "home")
			tmp := filepath.Join(env.WorkDir, "tmp")
			if err := os.MkdirAll(home, 0o755); err != nil {
				return err
			}
			if err := os.MkdirAll(tmp, 0o755); err != nil {
				return err
			}

			env.Setenv("HOME", home)
			env.Setenv("TMPDIR", tmp)
			env.Setenv("TEMP", tmp)
			env.Setenv("TMP", tmp)

			pathVar := os.Getenv("PATH")
			env.Setenv("PATH", filepath.Dir(prflowBin)+string(os.PathListSeparator)+pathVar)
			env.Setenv("PRFLOW_BIN", prflowBin)
			env.Setenv("PRFLOW_TEST_MODE", "1")
			env.Setenv("PRFLOW_HOME", filepath.Join(home, ".prflow"))

			// Keep scripts independent of the developer's git setup and tokens.
			env.Setenv("GIT_CONFIG_NOSYSTEM", "1")
			env.Setenv("GIT_AUTHOR_NAME", "Test User")
			env.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
			env.Setenv("GIT_COMMITTER_NAME", "Test User")
			env.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")
			env.Setenv("GITHUB_TOKEN", "")
			env.Setenv("PRFLOW_GITHUB_TOKEN", "")
			env.Setenv("GH_TOKEN", "")
			return nil
		},
	})
}

func findRepoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("unable to locate repo root (go.mod not found)")
}
