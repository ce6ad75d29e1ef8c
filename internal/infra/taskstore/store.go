// Package taskstore implements TaskRepository on top of any KVStore.
package taskstore

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/focusquest/focusquest/internal/domain"
)

// document is the JSON value stored under domain.KeyTasks.
type document struct {
	Tasks []*domain.Task `json:"tasks"`
}

// Store keeps every task in one document, in creation order.
// Save is a read-modify-write of the whole document, serialized in-process.
type Store struct {
	kv    domain.KVStore
	newID func() (uuid.UUID, error)
	mu    sync.Mutex
}

// New creates a Store backed by kv.
func New(kv domain.KVStore) *Store {
	return &Store{
		kv:    kv,
		newID: uuid.NewV7,
	}
}

// Get retrieves a task by ID. Returns nil if not found.
func (s *Store) Get(ctx context.Context, id string) (*domain.Task, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range doc.Tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

// List retrieves all tasks in creation order.
func (s *Store) List(ctx context.Context) ([]*domain.Task, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Tasks, nil
}

// Save creates or updates a task.
func (s *Store) Save(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}

	i := slices.IndexFunc(doc.Tasks, func(t *domain.Task) bool { return t.ID == task.ID })
	if i >= 0 {
		doc.Tasks[i] = task
	} else {
		doc.Tasks = append(doc.Tasks, task)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := s.kv.Update(ctx, domain.KeyTasks, data); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrStoreWrite, domain.KeyTasks, err)
	}
	return nil
}

// NextID returns a new time-ordered UUID.
func (s *Store) NextID(_ context.Context) (string, error) {
	id, err := s.newID()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return id.String(), nil
}

func (s *Store) load(ctx context.Context) (*document, error) {
	data, found, err := s.kv.Get(ctx, domain.KeyTasks)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrStoreRead, domain.KeyTasks, err)
	}
	doc := &document{}
	if !found {
		return doc, nil
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidRecord, domain.KeyTasks, err)
	}
	// Records written by older versions may lack defaults.
	for _, t := range doc.Tasks {
		t.Criteria = t.Criteria.Normalized()
	}
	return doc, nil
}

// Ensure Store implements TaskRepository.
var _ domain.TaskRepository = (*Store)(nil)
