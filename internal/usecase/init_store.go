package usecase

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/focusquest/focusquest/internal/domain"
)

// InitStoreInput contains the input parameters for InitStore.
type InitStoreInput struct {
	DataDir     string // Path to the .focusquest directory
	ProjectRoot string // Path to the project root (for the .gitignore check)
}

// InitStoreOutput contains the output from InitStore.
type InitStoreOutput struct {
	DataDir            string // Path to the data directory
	AlreadyInitialized bool   // True if the store already existed
	GitignoreNeedsAdd  bool   // True if .focusquest/ is not in .gitignore
}

// InitStore initializes the data directory and the configured store.
type InitStore struct {
	storeInit domain.StoreInitializer
}

// NewInitStore creates a new InitStore use case.
func NewInitStore(storeInit domain.StoreInitializer) *InitStore {
	return &InitStore{storeInit: storeInit}
}

// Execute creates the data and log directories, then initializes the store.
// Initializing an existing store is a no-op.
func (uc *InitStore) Execute(ctx context.Context, in InitStoreInput) (*InitStoreOutput, error) {
	if err := os.MkdirAll(filepath.Join(in.DataDir, "logs"), 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	alreadyInitialized := uc.storeInit.IsInitialized(ctx)
	if !alreadyInitialized {
		if err := uc.storeInit.Initialize(ctx); err != nil {
			return nil, fmt.Errorf("initialize store: %w", err)
		}
	}

	gitignoreNeedsAdd := false
	if !alreadyInitialized && in.ProjectRoot != "" {
		gitignoreNeedsAdd = !isDataDirInGitignore(in.ProjectRoot)
	}

	return &InitStoreOutput{
		DataDir:            in.DataDir,
		AlreadyInitialized: alreadyInitialized,
		GitignoreNeedsAdd:  gitignoreNeedsAdd,
	}, nil
}

// isDataDirInGitignore checks if .focusquest/ is in .gitignore.
func isDataDirInGitignore(projectRoot string) bool {
	f, err := os.Open(filepath.Join(projectRoot, ".gitignore"))
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == domain.DataDirName || line == domain.DataDirName+"/" {
			return true
		}
	}
	return false
}
