package gitcli_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// testRepo is a throwaway repository built with the real git executable.
type testRepo struct {
	t   *testing.T
	dir string
}

func requireGit(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git executable not available")
	}
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	requireGit(t)

	repo := &testRepo{t: t, dir: t.TempDir()}
	repo.git("", "init", "-q")

	return repo
}

func (r *testRepo) git(author string, args ...string) {
	r.t.Helper()

	if author == "" {
		author = "Nobody"
	}

	cmd := exec.Command("git", args...)
	cmd.Dir = r.dir
	cmd.Env = append(os.Environ(),
		"HOME="+r.dir,
		"GIT_CONFIG_NOSYSTEM=true",
		"GIT_AUTHOR_NAME="+author,
		"GIT_AUTHOR_EMAIL="+author+"@example.com",
		"GIT_AUTHOR_DATE=2024-03-01T10:00:00Z",
		"GIT_COMMITTER_NAME="+author,
		"GIT_COMMITTER_EMAIL="+author+"@example.com",
		"GIT_COMMITTER_DATE=2024-03-01T10:00:00Z",
	)

	out, err := cmd.CombinedOutput()
	require.NoError(r.t, err, string(out))
}

func (r *testRepo) write(path string, content []byte) {
	r.t.Helper()

	full := filepath.Join(r.dir, path)
	require.NoError(r.t, os.MkdirAll(filepath.Dir(full), 0o750))
	require.NoError(r.t, os.WriteFile(full, content, 0o600))
}

func (r *testRepo) remove(path string) {
	r.t.Helper()

	require.NoError(r.t, os.Remove(filepath.Join(r.dir, path)))
}

func (r *testRepo) commit(author, message string) {
	r.t.Helper()

	r.git(author, "add", "-A")
	r.git(author, "commit", "-q", "-m", message)
}
