package prtemplate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestLookup(t *testing.T) {
	repo := "/work/app"

	tests := []struct {
		name   string
		files  map[string]string
		want   string
		wantOK bool
	}{
		{
			name:   "no template",
			files:  map[string]string{"README.md": "readme"},
			wantOK: false,
		},
		{
			name:   "root markdown wins",
			files:  map[string]string{"PULL_REQUEST_TEMPLATE.md": "root md", ".github/PULL_REQUEST_TEMPLATE.md": "github md"},
			want:   "root md",
			wantOK: true,
		},
		{
			name:   "root plain before .github",
			files:  map[string]string{"PULL_REQUEST_TEMPLATE": "root plain", ".github/PULL_REQUEST_TEMPLATE.md": "github md"},
			want:   "root plain",
			wantOK: true,
		},
		{
			name:   ".github markdown",
			files:  map[string]string{".github/PULL_REQUEST_TEMPLATE.md": "## Summary\n", ".github/PULL_REQUEST_TEMPLATE": "plain"},
			want:   "## Summary\n",
			wantOK: true,
		},
		{
			name:   ".github plain",
			files:  map[string]string{".github/PULL_REQUEST_TEMPLATE": "plain"},
			want:   "plain",
			wantOK: true,
		},
		{
			name:   "empty template still counts",
			files:  map[string]string{"PULL_REQUEST_TEMPLATE.md": ""},
			want:   "",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			for name, content := range tt.files {
				writeFile(t, fs, filepath.Join(repo, name), content)
			}

			got, ok := Lookup(fs, repo)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Lookup() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// failingFs refuses to open one path.
type failingFs struct {
	afero.Fs
	path string
}

func (f failingFs) Open(name string) (afero.File, error) {
	if name == f.path {
		return nil, &os.PathError{Op: "open", Path: name, Err: errors.New("permission denied")}
	}
	return f.Fs.Open(name)
}

func TestLookup_SkipsUnreadable(t *testing.T) {
	repo := "/work/app"
	mem := afero.NewMemMapFs()
	broken := filepath.Join(repo, "PULL_REQUEST_TEMPLATE.md")
	writeFile(t, mem, broken, "unreadable")
	writeFile(t, mem, filepath.Join(repo, ".github", "PULL_REQUEST_TEMPLATE"), "fallback")

	got, ok := NewFinder(failingFs{Fs: mem, path: broken}).Lookup(repo)
	if !ok || got != "fallback" {
		t.Errorf("Lookup() = (%q, %v), want (%q, true)", got, ok, "fallback")
	}
}

func TestLookup_AllUnreadable(t *testing.T) {
	repo := "/work/app"
	mem := afero.NewMemMapFs()
	broken := filepath.Join(repo, "PULL_REQUEST_TEMPLATE")
	writeFile(t, mem, broken, "unreadable")

	got, ok := NewFinder(failingFs{Fs: mem, path: broken}).Lookup(repo)
	if ok || got != "" {
		t.Errorf("Lookup() = (%q, %v), want no template", got, ok)
	}
}

func TestLookup_OsFs(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".github"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".github", "PULL_REQUEST_TEMPLATE.md"), []byte("from disk"), 0644); err != nil {
		t.Fatal(err)
	}

	got, ok := NewFinder(nil).Lookup(dir)
	if !ok || got != "from disk" {
		t.Errorf("Lookup() = (%q, %v)", got, ok)
	}
}

func TestLookup_InvalidUTF8(t *testing.T) {
	repo := "/work/app"
	mem := afero.NewMemMapFs()
	writeFile(t, mem, filepath.Join(repo, "PULL_REQUEST_TEMPLATE.md"), "caf\xe9 \xff\xfe notes")

	got, ok := NewFinder(mem).Lookup(repo)
	if !ok {
		t.Fatal("expected a template")
	}
	if got != "caf\uFFFD \uFFFD notes" {
		t.Errorf("Lookup() = %q", got)
	}
}
