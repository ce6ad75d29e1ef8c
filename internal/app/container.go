// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/focusquest/focusquest/internal/domain"
	"github.com/focusquest/focusquest/internal/infra/config"
	"github.com/focusquest/focusquest/internal/infra/gitstore"
	"github.com/focusquest/focusquest/internal/infra/jsonstore"
	"github.com/focusquest/focusquest/internal/infra/logging"
	"github.com/focusquest/focusquest/internal/infra/redisstore"
	"github.com/focusquest/focusquest/internal/infra/sqlstore"
	"github.com/focusquest/focusquest/internal/infra/taskstore"
	"github.com/focusquest/focusquest/internal/infra/telemetry"
	"github.com/focusquest/focusquest/internal/usecase"
)

// Config holds the application paths.
type Config struct {
	ProjectRoot string // Directory containing .focusquest
	DataDir     string // Path to the .focusquest directory
}

// newConfig creates a Config rooted at projectRoot.
func newConfig(projectRoot string) Config {
	return Config{
		ProjectRoot: projectRoot,
		DataDir:     domain.ProjectDataDir(projectRoot),
	}
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Store            domain.KVStore
	StoreInitializer domain.StoreInitializer
	Tasks            domain.TaskRepository
	Clock            domain.Clock
	ConfigLoader     domain.ConfigLoader
	ConfigManager    domain.ConfigManager
	Events           domain.EventSink
	AppLogger        domain.Logger

	// Pointer fields
	Tracker   *usecase.ProgressionTracker
	History   *usecase.TaskHistoryStore
	Telemetry *telemetry.Metrics // nil when built with NewWithDeps
	AppConfig *domain.Config
	Logger    *slog.Logger

	closers []io.Closer

	// Configuration
	Config Config
}

// New creates a new Container for the project containing dir.
// The project root is the nearest ancestor holding a .focusquest directory,
// or dir itself when there is none yet.
func New(dir string) (*Container, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve directory: %w", err)
	}
	cfg := newConfig(findProjectRoot(abs))

	// Load app config; errors fall back to defaults
	configLoader := config.NewLoader(cfg.DataDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		appConfig = domain.NewDefaultConfig()
	}

	loc, err := appConfig.Progression.Location()
	if err != nil {
		return nil, err
	}

	// Create stderr logger
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	// Create file logger
	fileLogger := logging.New(cfg.DataDir, logging.ParseLevel(appConfig.Log.Level))

	// Create key-value store based on config
	kv, storeInit, closer, err := openStore(context.Background(), cfg, appConfig.Store)
	if err != nil {
		_ = fileLogger.Close()
		return nil, err
	}

	metrics, err := telemetry.New()
	if err != nil {
		_ = fileLogger.Close()
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}

	c := &Container{
		Store:            kv,
		StoreInitializer: storeInit,
		Tasks:            taskstore.New(kv),
		Clock:            domain.RealClock{},
		ConfigLoader:     configLoader,
		ConfigManager:    config.NewManager(cfg.DataDir),
		Events:           domain.NopEventSink{},
		AppLogger:        fileLogger,
		Telemetry:        metrics,
		AppConfig:        appConfig,
		Logger:           logger,
		Config:           cfg,
	}
	if closer != nil {
		c.closers = append(c.closers, closer)
	}
	c.closers = append(c.closers, fileLogger)

	if err := c.wireProgression(metrics, loc); err != nil {
		_ = c.Close(context.Background())
		return nil, err
	}

	logger.Debug("container ready", "backend", appConfig.Store.Backend, "dataDir", cfg.DataDir)
	return c, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, store domain.KVStore, storeInit domain.StoreInitializer, tasks domain.TaskRepository, clock domain.Clock, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Store:            store,
		StoreInitializer: storeInit,
		Tasks:            tasks,
		Clock:            clock,
		Events:           domain.NopEventSink{},
		AppLogger:        domain.NopLogger{},
		AppConfig:        domain.NewDefaultConfig(),
		Logger:           logger,
		Config:           cfg,
	}
	if err := c.wireProgression(domain.NopMetrics{}, time.UTC); err != nil {
		return nil, err
	}
	return c, nil
}

// wireProgression builds the tracker and the history store over c.Store.
func (c *Container) wireProgression(metrics domain.Metrics, loc *time.Location) error {
	tracker, err := usecase.NewProgressionTracker(c.Store, usecase.ProgressionTrackerOptions{
		Events:       c.Events,
		Metrics:      metrics,
		Logger:       c.AppLogger,
		Clock:        c.Clock,
		Location:     loc,
		WriteTimeout: c.AppConfig.Store.WriteTimeout,
	})
	if err != nil {
		return fmt.Errorf("create progression tracker: %w", err)
	}
	history, err := usecase.NewTaskHistoryStore(c.Store, c.AppLogger)
	if err != nil {
		return fmt.Errorf("create task history: %w", err)
	}
	c.Tracker = tracker
	c.History = history
	return nil
}

// Close flushes unsaved progression and releases the store, metrics and log file.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if c.Tracker != nil {
		if err := c.Tracker.Flush(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Telemetry != nil {
		if err := c.Telemetry.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// findProjectRoot walks up from dir looking for a .focusquest directory.
func findProjectRoot(dir string) string {
	for cur := dir; ; {
		if info, err := os.Stat(domain.ProjectDataDir(cur)); err == nil && info.IsDir() {
			return cur
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return dir
		}
		cur = parent
	}
}

// openStore creates the configured backend.
// The returned closer is nil for backends without resources to release.
func openStore(ctx context.Context, cfg Config, sc domain.StoreConfig) (domain.KVStore, domain.StoreInitializer, io.Closer, error) {
	switch sc.Backend {
	case "", domain.BackendJSON:
		path := resolvePath(cfg.ProjectRoot, sc.Path, filepath.Join(cfg.DataDir, domain.JSONStoreName))
		s := jsonstore.New(path)
		return s, s, nil, nil

	case domain.BackendSQLite:
		path := resolvePath(cfg.ProjectRoot, sc.Path, filepath.Join(cfg.DataDir, domain.SQLiteStoreName))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, nil, nil, fmt.Errorf("create store directory: %w", err)
		}
		s, err := sqlstore.Open(ctx, sqlstore.SQLite, sqlstore.SQLiteDSN(path), sc.Namespace)
		if err != nil {
			return nil, nil, nil, err
		}
		return s, s, s, nil

	case domain.BackendPostgres:
		if sc.DSN == "" {
			return nil, nil, nil, errors.New("postgres backend requires [store].dsn")
		}
		s, err := sqlstore.Open(ctx, sqlstore.Postgres, sc.DSN, sc.Namespace)
		if err != nil {
			return nil, nil, nil, err
		}
		return s, s, s, nil

	case domain.BackendRedis:
		s := redisstore.Open(sc.RedisAddr, sc.RedisDB, sc.Namespace)
		return s, s, s, nil

	case domain.BackendGit:
		repo := resolvePath(cfg.ProjectRoot, sc.GitRepo, cfg.ProjectRoot)
		s, err := gitstore.New(repo, sc.Namespace)
		if err != nil {
			return nil, nil, nil, err
		}
		return s, s, nil, nil

	default:
		return nil, nil, nil, fmt.Errorf("%w: %q", domain.ErrUnknownBackend, sc.Backend)
	}
}

// resolvePath returns p relative to root, or fallback when p is empty.
func resolvePath(root, p, fallback string) string {
	if p == "" {
		return fallback
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// UseCase factory methods

// InitStoreUseCase returns a new InitStore use case.
func (c *Container) InitStoreUseCase() *usecase.InitStore {
	return usecase.NewInitStore(c.StoreInitializer)
}

// NewTaskUseCase returns a new NewTask use case.
func (c *Container) NewTaskUseCase() *usecase.NewTask {
	return usecase.NewNewTask(c.Tasks, c.Clock, c.AppLogger)
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.Tasks, c.Clock, c.AppLogger)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Tasks, c.Clock, c.AppLogger)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Tasks, c.Clock)
}

// CompleteTaskUseCase returns a new CompleteTask use case.
func (c *Container) CompleteTaskUseCase() *usecase.CompleteTask {
	return usecase.NewCompleteTask(c.Tasks, c.Tracker, c.History, c.Clock, c.AppLogger)
}

// ImportTasksUseCase returns a new ImportTasks use case.
func (c *Container) ImportTasksUseCase() *usecase.ImportTasks {
	return usecase.NewImportTasks(c.Tasks, c.Clock, c.AppLogger)
}

// SuggestPriorityUseCase returns a new SuggestPriority use case.
func (c *Container) SuggestPriorityUseCase() *usecase.SuggestPriority {
	return usecase.NewSuggestPriority(c.History, c.Clock, c.AppLogger)
}

// RecordFocusUseCase returns a new RecordFocus use case.
func (c *Container) RecordFocusUseCase() *usecase.RecordFocus {
	return usecase.NewRecordFocus(c.Store, c.Tracker, c.AppLogger)
}

// ShowProgressionUseCase returns a new ShowProgression use case.
func (c *Container) ShowProgressionUseCase() *usecase.ShowProgression {
	return usecase.NewShowProgression(c.Tracker)
}

// ListAchievementsUseCase returns a new ListAchievements use case.
func (c *Container) ListAchievementsUseCase() *usecase.ListAchievements {
	return usecase.NewListAchievements(c.Tracker)
}

// AchievementRechecker returns a rechecker ticking every interval.
// A non-positive interval uses [progression].recheck_interval.
func (c *Container) AchievementRechecker(interval time.Duration) *usecase.AchievementRechecker {
	if interval <= 0 {
		interval = c.AppConfig.Progression.RecheckInterval
	}
	return usecase.NewAchievementRechecker(c.Tracker, c.AppLogger, interval)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}
