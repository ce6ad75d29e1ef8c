//go:build integration

package gitstore

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRepoPath creates a temporary git repository using the git CLI.
func testRepoPath(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	run(t, dir, "git", "init")
	run(t, dir, "git", "config", "user.email", "test@example.com")
	run(t, dir, "git", "config", "user.name", "Test User")

	readme := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(readme, []byte("# Test\n"), 0o644))
	run(t, dir, "git", "add", ".")
	run(t, dir, "git", "commit", "-m", "Initial commit")

	return dir
}

// run executes a command and fails the test if it errors.
func run(t *testing.T, dir string, name string, args ...string) string {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "command failed: %s %v\noutput: %s", name, args, out)
	return string(out)
}

func TestIntegration_RefsVisibleToGit(t *testing.T) {
	dir := testRepoPath(t)
	store, err := New(dir, "fq-test")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Initialize(ctx))
	require.NoError(t, store.Update(ctx, "progression", []byte(`{"level":3}`)))

	refs := run(t, dir, "git", "for-each-ref", "--format=%(refname)", "refs/fq-test/")
	assert.Contains(t, refs, "refs/fq-test/initialized")
	assert.Contains(t, refs, "refs/fq-test/kv/progression")

	blob := run(t, dir, "git", "cat-file", "-p", "refs/fq-test/kv/progression")
	assert.Contains(t, blob, "key: progression")
	assert.Contains(t, blob, `{"level":3}`)

	// Working tree stays clean
	status := run(t, dir, "git", "status", "--porcelain")
	assert.Empty(t, strings.TrimSpace(status))
}

func TestIntegration_ReopenReadsValues(t *testing.T) {
	dir := testRepoPath(t)
	ctx := context.Background()

	first, err := New(dir, "fq-test")
	require.NoError(t, err)
	require.NoError(t, first.Update(ctx, "tasks", []byte(`[{"id":"a"}]`)))

	second, err := New(dir, "fq-test")
	require.NoError(t, err)
	got, found, err := second.Get(ctx, "tasks")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `[{"id":"a"}]`, string(got))
}
