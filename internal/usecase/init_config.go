package usecase

import (
	"context"
	"fmt"

	"github.com/focusquest/focusquest/internal/domain"
)

// InitConfigInput contains the input for the InitConfig use case.
type InitConfigInput struct {
	Backend string // Store backend written to [store].backend (empty = json)
	Global  bool   // Write the global file instead of the project file
}

// InitConfigOutput contains the output of the InitConfig use case.
type InitConfigOutput struct {
	Path    string // Path to the created config file
	Backend string // Backend the file selects
}

// InitConfig writes a configuration file from the template.
type InitConfig struct {
	configManager domain.ConfigManager
}

// NewInitConfig creates a new InitConfig use case.
func NewInitConfig(configManager domain.ConfigManager) *InitConfig {
	return &InitConfig{
		configManager: configManager,
	}
}

// Execute renders the template for the requested backend and writes it.
// Unknown backends are rejected before anything is written.
func (uc *InitConfig) Execute(_ context.Context, in InitConfigInput) (*InitConfigOutput, error) {
	content, err := domain.RenderConfigTemplate(in.Backend)
	if err != nil {
		return nil, err
	}

	backend := in.Backend
	if backend == "" {
		backend = domain.DefaultBackend
	}

	info := uc.configManager.GetProjectConfigInfo()
	write := uc.configManager.InitProjectConfig
	if in.Global {
		info = uc.configManager.GetGlobalConfigInfo()
		write = uc.configManager.InitGlobalConfig
	}

	if err := write(content); err != nil {
		return nil, fmt.Errorf("write config: %w", err)
	}

	return &InitConfigOutput{Path: info.Path, Backend: backend}, nil
}
