// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/focusquest/focusquest/internal/domain"
)

// Ensure mocks implement their interfaces.
var (
	_ domain.Clock            = (*MockClock)(nil)
	_ domain.KVStore          = (*MockKVStore)(nil)
	_ domain.TaskRepository   = (*MockTaskRepository)(nil)
	_ domain.EventSink        = (*MockEventSink)(nil)
	_ domain.Logger           = (*MockLogger)(nil)
	_ domain.Metrics          = (*MockMetrics)(nil)
	_ domain.ConfigManager    = (*MockConfigManager)(nil)
	_ domain.ConfigLoader     = (*MockConfigLoader)(nil)
	_ domain.StoreInitializer = (*MockStoreInitializer)(nil)
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Advance moves the clock forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.NowTime = m.NowTime.Add(d)
}

// MockKVStore is an in-memory domain.KVStore with error injection.
// Fields are ordered to minimize memory padding.
type MockKVStore struct {
	Data        map[string][]byte
	GetErr      error
	UpdateErr   error
	mu          sync.Mutex
	GetCalls    int
	UpdateCalls int
}

// NewMockKVStore creates a new empty MockKVStore.
func NewMockKVStore() *MockKVStore {
	return &MockKVStore{Data: make(map[string][]byte)}
}

// Get returns a copy of the stored value.
func (m *MockKVStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	v, ok := m.Data[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

// Update stores a copy of value.
func (m *MockKVStore) Update(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.Data[key] = slices.Clone(value)
	return nil
}

// SetGetErr changes the injected read error.
func (m *MockKVStore) SetGetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetErr = err
}

// SetUpdateErr changes the injected write error.
func (m *MockKVStore) SetUpdateErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateErr = err
}

// Value returns the raw stored value for key.
func (m *MockKVStore) Value(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.Data[key]
	return v, ok
}

// Updates returns the number of Update calls so far.
func (m *MockKVStore) Updates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.UpdateCalls
}

// MockTaskRepository is a test double for domain.TaskRepository.
// Fields are ordered to minimize memory padding.
type MockTaskRepository struct {
	Tasks     map[string]*domain.Task
	GetErr    error
	ListErr   error
	SaveErr   error
	NextIDErr error
	Order     []string
	NextIDN   int
	// SaveErrAfter lets this many tasks be stored before SaveErr applies.
	SaveErrAfter int
}

// NewMockTaskRepository creates a new MockTaskRepository with initialized maps.
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{
		Tasks: make(map[string]*domain.Task),
	}
}

// Add stores a task directly, bypassing SaveErr.
func (m *MockTaskRepository) Add(task *domain.Task) {
	if _, ok := m.Tasks[task.ID]; !ok {
		m.Order = append(m.Order, task.ID)
	}
	m.Tasks[task.ID] = task
}

// Get retrieves a task by ID.
func (m *MockTaskRepository) Get(_ context.Context, id string) (*domain.Task, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	task, ok := m.Tasks[id]
	if !ok {
		return nil, nil
	}
	return task, nil
}

// List returns all tasks in insertion order.
func (m *MockTaskRepository) List(_ context.Context) ([]*domain.Task, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	tasks := make([]*domain.Task, 0, len(m.Order))
	for _, id := range m.Order {
		tasks = append(tasks, m.Tasks[id])
	}
	return tasks, nil
}

// Save saves a task.
func (m *MockTaskRepository) Save(_ context.Context, task *domain.Task) error {
	if m.SaveErr != nil && len(m.Tasks) >= m.SaveErrAfter {
		return m.SaveErr
	}
	m.Add(task)
	return nil
}

// NextID returns sequential IDs: task-1, task-2, ...
func (m *MockTaskRepository) NextID(_ context.Context) (string, error) {
	if m.NextIDErr != nil {
		return "", m.NextIDErr
	}
	m.NextIDN++
	return fmt.Sprintf("task-%d", m.NextIDN), nil
}

// MockStoreInitializer is a test double for domain.StoreInitializer.
type MockStoreInitializer struct {
	InitErr     error
	Initialized bool
	InitCalled  bool
}

// Initialize records the call.
func (m *MockStoreInitializer) Initialize(_ context.Context) error {
	m.InitCalled = true
	if m.InitErr != nil {
		return m.InitErr
	}
	m.Initialized = true
	return nil
}

// IsInitialized returns the configured state.
func (m *MockStoreInitializer) IsInitialized(_ context.Context) bool {
	return m.Initialized
}

// MockEventSink records published events.
type MockEventSink struct {
	Events []domain.ProgressionEvent
	mu     sync.Mutex
}

// Publish records the event.
func (m *MockEventSink) Publish(_ context.Context, event domain.ProgressionEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// Kinds returns the kinds of the recorded events in order.
func (m *MockEventSink) Kinds() []domain.EventKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	kinds := make([]domain.EventKind, 0, len(m.Events))
	for _, e := range m.Events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

// LogEntry is a line captured by MockLogger.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
}

// MockLogger captures log lines.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

func (m *MockLogger) record(level, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, Category: category, Msg: msg})
}

// Debug records a debug line.
func (m *MockLogger) Debug(category, msg string) { m.record("DEBUG", category, msg) }

// Info records an info line.
func (m *MockLogger) Info(category, msg string) { m.record("INFO", category, msg) }

// Warn records a warning line.
func (m *MockLogger) Warn(category, msg string) { m.record("WARN", category, msg) }

// Error records an error line.
func (m *MockLogger) Error(category, msg string) { m.record("ERROR", category, msg) }

// Count returns the number of lines logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics counts recorded measurements.
// Fields are ordered to minimize memory padding.
type MockMetrics struct {
	XPBySource   map[string]int
	Completed    map[domain.Priority]int
	Achievements []string
	LevelUps     []int
	StoreErrors  []string
	mu           sync.Mutex
}

// NewMockMetrics creates a new MockMetrics.
func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		XPBySource: make(map[string]int),
		Completed:  make(map[domain.Priority]int),
	}
}

// TaskCompleted counts a completion.
func (m *MockMetrics) TaskCompleted(_ context.Context, priority domain.Priority) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Completed[priority]++
}

// XPGranted accumulates XP by source.
func (m *MockMetrics) XPGranted(_ context.Context, amount int, source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.XPBySource[source] += amount
}

// AchievementUnlocked records an unlock.
func (m *MockMetrics) AchievementUnlocked(_ context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Achievements = append(m.Achievements, id)
}

// LevelUp records a level-up.
func (m *MockMetrics) LevelUp(_ context.Context, level int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LevelUps = append(m.LevelUps, level)
}

// StoreError records a store failure.
func (m *MockMetrics) StoreError(_ context.Context, op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoreErrors = append(m.StoreErrors, op)
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitProjectErr    error
	InitGlobalErr     error
	Written           string
	ProjectConfigInfo domain.ConfigInfo
	GlobalConfigInfo  domain.ConfigInfo
	InitProjectCalled bool
	InitGlobalCalled  bool
}

// GetProjectConfigInfo returns the configured project config info.
func (m *MockConfigManager) GetProjectConfigInfo() domain.ConfigInfo {
	return m.ProjectConfigInfo
}

// GetGlobalConfigInfo returns the configured global config info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// InitProjectConfig records the call.
func (m *MockConfigManager) InitProjectConfig(content string) error {
	m.InitProjectCalled = true
	m.Written = content
	return m.InitProjectErr
}

// InitGlobalConfig records the call.
func (m *MockConfigManager) InitGlobalConfig(content string) error {
	m.InitGlobalCalled = true
	m.Written = content
	return m.InitGlobalErr
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config  *domain.Config
	LoadErr error
}

// Load returns the configured config.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Config == nil {
		return domain.NewDefaultConfig(), nil
	}
	return m.Config, nil
}

// CompletedTask builds a completed task for tests.
func CompletedTask(id string, complexity, impact int, priority domain.Priority, completedAt time.Time) *domain.Task {
	at := completedAt
	return &domain.Task{
		ID:          id,
		Title:       fmt.Sprintf("Task %s", id),
		Status:      domain.StatusCompleted,
		Priority:    priority,
		Criteria:    domain.NewPriorityCriteria(complexity, impact, 60, nil, nil),
		CreatedAt:   completedAt.Add(-time.Hour),
		UpdatedAt:   completedAt.Add(-time.Hour),
		CompletedAt: &at,
	}
}
