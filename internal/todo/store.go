// Package todo holds the signed-in user's todo collection.
//
// The collection is only ever a verbatim copy of the last successful list
// fetch. Writes never touch it locally: every successful create or delete is
// followed by a full resync from the server, so the list can be stale between
// a write and the fetch that follows it.
package todo

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/idilsaglam/todo/internal/model"
)

// Client is the slice of the API the store needs.
type Client interface {
	ListTodos(ctx context.Context) ([]model.Item, error)
	CreateTodo(ctx context.Context, title, description string) (*model.Item, error)
	DeleteTodo(ctx context.Context, id string) error
}

// Store is owned by one session and handed to whatever screen or command needs it.
// Operations are not serialized; concurrent resyncs race and the last
// response to land wins.
type Store struct {
	client Client
	logger *zap.Logger

	mu    sync.RWMutex // guards the snapshot swap only
	items []model.Item
}

// NewStore returns an empty store backed by client. A nil logger discards logs.
func NewStore(client Client, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		client: client,
		logger: logger,
		items:  []model.Item{},
	}
}

// Items returns a copy of the current snapshot.
func (s *Store) Items() []model.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Item(nil), s.items...)
}

// Reset drops the snapshot when the session ends.
func (s *Store) Reset() {
	s.mu.Lock()
	s.items = []model.Item{}
	s.mu.Unlock()
}

// FetchAll replaces the collection with the server's list, in server order.
// On failure the collection is left as it was.
func (s *Store) FetchAll(ctx context.Context) ([]model.Item, error) {
	items, err := s.client.ListTodos(ctx)
	if err != nil {
		s.logger.Warn("fetch todos", zap.Error(err))
		return nil, fmt.Errorf("fetch todos: %w", err)
	}
	snapshot := append([]model.Item(nil), items...)

	s.mu.Lock()
	s.items = snapshot
	s.mu.Unlock()

	s.logger.Debug("todos fetched", zap.Int("count", len(snapshot)))
	return append([]model.Item(nil), snapshot...), nil
}

// Add creates an item and resyncs. Both fields must be non-empty; they are
// sent exactly as typed.
func (s *Store) Add(ctx context.Context, title, description string) error {
	if title == "" || description == "" {
		return model.NewValidationError("Both title and description are required.")
	}
	created, err := s.client.CreateTodo(ctx, title, description)
	if err != nil {
		s.logger.Warn("create todo", zap.Error(err))
		return fmt.Errorf("add todo: %w", err)
	}
	if created != nil {
		s.logger.Info("todo created", zap.String("id", created.ID))
	}
	s.resync(ctx, "add")
	return nil
}

// Remove deletes an item by id and resyncs. The server decides whether the id exists.
func (s *Store) Remove(ctx context.Context, id string) error {
	if err := s.client.DeleteTodo(ctx, id); err != nil {
		s.logger.Warn("delete todo", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("delete todo: %w", err)
	}
	s.logger.Info("todo deleted", zap.String("id", id))
	s.resync(ctx, "remove")
	return nil
}

// resync failures are not the write's failure: the write already landed.
func (s *Store) resync(ctx context.Context, after string) {
	if _, err := s.FetchAll(ctx); err != nil {
		s.logger.Warn("resync failed, keeping previous snapshot", zap.String("after", after), zap.Error(err))
	}
}
