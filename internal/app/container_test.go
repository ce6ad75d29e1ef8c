package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusquest/focusquest/internal/domain"
	"github.com/focusquest/focusquest/internal/infra/jsonstore"
	"github.com/focusquest/focusquest/internal/infra/sqlstore"
	"github.com/focusquest/focusquest/internal/testutil"
	"github.com/focusquest/focusquest/internal/usecase"
)

func writeProjectConfig(t *testing.T, root, content string) {
	t.Helper()
	dataDir := domain.ProjectDataDir(root)
	require.NoError(t, os.MkdirAll(dataDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, domain.ConfigFileName), []byte(content), 0o600))
}

func TestNew_DefaultJSONBackend(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()

	c, err := New(dir)
	require.NoError(t, err)
	defer func() { _ = c.Close(context.Background()) }()

	assert.Equal(t, dir, c.Config.ProjectRoot)
	assert.Equal(t, filepath.Join(dir, domain.DataDirName), c.Config.DataDir)

	store, ok := c.Store.(*jsonstore.Store)
	require.True(t, ok, "expected json store, got %T", c.Store)
	assert.Equal(t, filepath.Join(c.Config.DataDir, domain.JSONStoreName), store.Path())
	assert.NotNil(t, c.Tracker)
	assert.NotNil(t, c.History)
	assert.NotNil(t, c.Telemetry)
}

func TestNew_FindsProjectRootFromSubdirectory(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(domain.ProjectDataDir(root), 0o750))
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o750))

	c, err := New(sub)
	require.NoError(t, err)
	defer func() { _ = c.Close(context.Background()) }()

	assert.Equal(t, root, c.Config.ProjectRoot)
}

func TestNew_UnknownBackend(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	writeProjectConfig(t, dir, "[store]\nbackend = \"mongo\"\n")

	_, err := New(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownBackend)
}

func TestNew_PostgresRequiresDSN(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	writeProjectConfig(t, dir, "[store]\nbackend = \"postgres\"\n")

	_, err := New(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dsn")
}

func TestNew_InvalidTimezone(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	writeProjectConfig(t, dir, "[progression]\ntimezone = \"Mars/Olympus\"\n")

	_, err := New(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Mars/Olympus")
}

func TestNew_SQLiteBackendCompletesTask(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	writeProjectConfig(t, dir, "[store]\nbackend = \"sqlite\"\n")

	c, err := New(dir)
	require.NoError(t, err)
	defer func() { _ = c.Close(context.Background()) }()

	_, ok := c.Store.(*sqlstore.Store)
	require.True(t, ok, "expected sql store, got %T", c.Store)

	ctx := context.Background()
	created, err := c.NewTaskUseCase().Execute(ctx, usecase.NewTaskInput{
		Draft: domain.TaskDraft{Title: "Write report", Complexity: 2, Impact: 2, EstimatedTimeMinutes: 30},
	})
	require.NoError(t, err)

	done, err := c.CompleteTaskUseCase().Execute(ctx, usecase.CompleteTaskInput{TaskID: created.Task.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, done.Progression.Progression.TotalTasks)

	_, err = os.Stat(filepath.Join(c.Config.DataDir, domain.SQLiteStoreName))
	assert.NoError(t, err)

	snapshot, err := c.Telemetry.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), snapshot["fq.tasks.completed"])
}

func TestNewWithDeps(t *testing.T) {
	store := testutil.NewMockKVStore()
	tasks := testutil.NewMockTaskRepository()

	c, err := NewWithDeps(Config{ProjectRoot: "/p", DataDir: "/p/.focusquest"}, store, &testutil.MockStoreInitializer{}, tasks, &testutil.MockClock{}, nil)
	require.NoError(t, err)

	assert.Same(t, tasks, c.Tasks)
	assert.NotNil(t, c.Tracker)
	assert.Nil(t, c.Telemetry)
	assert.NoError(t, c.Close(context.Background()))
}

func TestNewWithDeps_NilStore(t *testing.T) {
	_, err := NewWithDeps(Config{}, nil, nil, nil, &testutil.MockClock{}, nil)
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name     string
		p        string
		fallback string
		want     string
	}{
		{"empty uses fallback", "", "/fb", "/fb"},
		{"absolute", "/abs/store.db", "/fb", "/abs/store.db"},
		{"relative to root", "data/store.db", "/fb", "/root/data/store.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolvePath("/root", tt.p, tt.fallback))
		})
	}
}
