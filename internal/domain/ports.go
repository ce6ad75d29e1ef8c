package domain

import (
	"context"
	"time"
)

// Store keys owned by the engine and its shell.
const (
	KeyProgression = "progression"
	KeyTaskHistory = "taskHistory"
	KeyTasks       = "tasks"
	KeyFocusStats  = "focusStats"
)

// KVStore is the abstract persistence collaborator.
// Values are opaque JSON documents.
type KVStore interface {
	// Get returns the value for key. found is false if the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Update stores value under key, replacing any previous value.
	Update(ctx context.Context, key string, value []byte) error
}

// StoreInitializer initializes the data store.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist.
	Initialize(ctx context.Context) error

	// IsInitialized returns true if the store has been initialized.
	IsInitialized(ctx context.Context) bool
}

// TaskRepository manages task persistence for the shell.
type TaskRepository interface {
	// Get retrieves a task by ID. Returns nil if not found.
	Get(ctx context.Context, id string) (*Task, error)

	// List retrieves all tasks in creation order.
	List(ctx context.Context) ([]*Task, error)

	// Save creates or updates a task.
	Save(ctx context.Context, task *Task) error

	// NextID returns a new unique task ID.
	NextID(ctx context.Context) (string, error)
}

// FocusStats are the hyperfocus counters owned by the external session manager.
type FocusStats struct {
	TotalFocusTimeMinutes int `json:"totalFocusTimeMinutes"`
	TotalFocusSessions    int `json:"totalFocusSessions"`
}

// Logger writes categorized log lines.
type Logger interface {
	Debug(category, msg string)
	Info(category, msg string)
	Warn(category, msg string)
	Error(category, msg string)
}

// NopLogger discards all log lines.
type NopLogger struct{}

func (NopLogger) Debug(string, string) {}
func (NopLogger) Info(string, string)  {}
func (NopLogger) Warn(string, string)  {}
func (NopLogger) Error(string, string) {}

// Metrics records progression activity.
type Metrics interface {
	TaskCompleted(ctx context.Context, priority Priority)
	XPGranted(ctx context.Context, amount int, source string)
	AchievementUnlocked(ctx context.Context, id string)
	LevelUp(ctx context.Context, level int)
	StoreError(ctx context.Context, op string)
}

// NopMetrics discards all measurements.
type NopMetrics struct{}

func (NopMetrics) TaskCompleted(context.Context, Priority)     {}
func (NopMetrics) XPGranted(context.Context, int, string)      {}
func (NopMetrics) AchievementUnlocked(context.Context, string) {}
func (NopMetrics) LevelUp(context.Context, int)                {}
func (NopMetrics) StoreError(context.Context, string)          {}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (project + global).
	Load() (*Config, error)
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	// GetProjectConfigInfo returns information about the project config file.
	GetProjectConfigInfo() ConfigInfo

	// GetGlobalConfigInfo returns information about the global config file.
	GetGlobalConfigInfo() ConfigInfo

	// InitProjectConfig writes content to a new project config file.
	// Returns ErrConfigExists if the file is already there.
	InitProjectConfig(content string) error

	// InitGlobalConfig writes content to a new global config file.
	InitGlobalConfig(content string) error
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
