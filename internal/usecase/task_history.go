package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/focusquest/focusquest/internal/domain"
)

const logCategoryHistory = "history"

// TaskHistoryStore persists the bounded completed-task history under
// domain.KeyTaskHistory.
type TaskHistoryStore struct {
	store  domain.KVStore
	logger domain.Logger
	mu     sync.Mutex
}

// NewTaskHistoryStore creates a history store backed by store.
// It returns domain.ErrNotConfigured if store is nil.
func NewTaskHistoryStore(store domain.KVStore, logger domain.Logger) (*TaskHistoryStore, error) {
	if store == nil {
		return nil, domain.ErrNotConfigured
	}
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &TaskHistoryStore{store: store, logger: logger}, nil
}

// Load returns the persisted history. An absent or undecodable record is an
// empty history; read failures are returned wrapped in domain.ErrStoreRead.
func (s *TaskHistoryStore) Load(ctx context.Context) (*domain.TaskHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Add records a completed task. Tasks that are not completed are rejected
// with domain.ErrTaskNotCompleted.
func (s *TaskHistoryStore) Add(ctx context.Context, task *domain.Task, actualTimeSpentMinutes int) error {
	entry, err := domain.NewHistoryEntry(task, actualTimeSpentMinutes)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.load(ctx)
	if err != nil {
		return err
	}
	history.Add(entry)

	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode task history: %w", err)
	}
	if err := s.store.Update(ctx, domain.KeyTaskHistory, data); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrStoreWrite, domain.KeyTaskHistory, err)
	}
	s.logger.Debug(logCategoryHistory, fmt.Sprintf("recorded %s (%d entries)", task.ID, history.Len()))
	return nil
}

func (s *TaskHistoryStore) load(ctx context.Context) (*domain.TaskHistory, error) {
	data, found, err := s.store.Get(ctx, domain.KeyTaskHistory)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrStoreRead, domain.KeyTaskHistory, err)
	}
	history := &domain.TaskHistory{Entries: []domain.TaskHistoryEntry{}}
	if !found {
		return history, nil
	}
	if err := json.Unmarshal(data, history); err != nil {
		s.logger.Warn(logCategoryHistory, fmt.Sprintf("%v: decode: %v; starting empty", domain.ErrInvalidRecord, err))
		return &domain.TaskHistory{Entries: []domain.TaskHistoryEntry{}}, nil
	}
	if len(history.Entries) > domain.TaskHistoryCapacity {
		history.Entries = history.Entries[:domain.TaskHistoryCapacity]
	}
	return history, nil
}
