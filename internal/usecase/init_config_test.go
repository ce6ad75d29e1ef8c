package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusquest/focusquest/internal/domain"
	"github.com/focusquest/focusquest/internal/testutil"
)

func newConfigManager() *testutil.MockConfigManager {
	return &testutil.MockConfigManager{
		ProjectConfigInfo: domain.ConfigInfo{Path: "/p/.focusquest/config.toml"},
		GlobalConfigInfo:  domain.ConfigInfo{Path: "/g/focusquest/config.toml"},
	}
}

func TestInitConfig_Execute(t *testing.T) {
	tests := []struct {
		name        string
		wantPath    string
		global      bool
		wantProject bool
		wantGlobal  bool
	}{
		{"project", "/p/.focusquest/config.toml", false, true, false},
		{"global", "/g/focusquest/config.toml", true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := newConfigManager()
			uc := NewInitConfig(manager)

			out, err := uc.Execute(context.Background(), InitConfigInput{Global: tt.global})

			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, out.Path)
			assert.Equal(t, domain.BackendJSON, out.Backend)
			assert.Equal(t, tt.wantProject, manager.InitProjectCalled)
			assert.Equal(t, tt.wantGlobal, manager.InitGlobalCalled)
			assert.Equal(t, domain.ConfigTemplate, manager.Written)
		})
	}
}

func TestInitConfig_Execute_WithBackend(t *testing.T) {
	manager := newConfigManager()
	uc := NewInitConfig(manager)

	out, err := uc.Execute(context.Background(), InitConfigInput{Backend: domain.BackendSQLite})

	require.NoError(t, err)
	assert.Equal(t, domain.BackendSQLite, out.Backend)
	assert.Contains(t, manager.Written, `backend = "sqlite"`)
	assert.NotContains(t, manager.Written, `backend = "json"`)
}

func TestInitConfig_Execute_UnknownBackend(t *testing.T) {
	manager := newConfigManager()
	uc := NewInitConfig(manager)

	_, err := uc.Execute(context.Background(), InitConfigInput{Backend: "mongo"})

	require.ErrorIs(t, err, domain.ErrUnknownBackend)
	assert.False(t, manager.InitProjectCalled)
}

func TestInitConfig_Execute_AlreadyExists(t *testing.T) {
	manager := newConfigManager()
	manager.InitProjectErr = domain.ErrConfigExists
	uc := NewInitConfig(manager)

	_, err := uc.Execute(context.Background(), InitConfigInput{})

	assert.ErrorIs(t, err, domain.ErrConfigExists)
}
