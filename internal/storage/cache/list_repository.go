package cache

import (
	"context"

	"github.com/google/uuid"
	"github.com/tasklet/task-server/internal/hashmap"
	"github.com/tasklet/task-server/internal/pagination"
	"github.com/tasklet/task-server/internal/todolist"
)

// ListRepository implements the todolist.Repository interface in order to implement caching
type ListRepository struct {
	repo  todolist.Repository
	cache *hashmap.ExpiringMap[uuid.UUID, *todolist.List]
}

var _ todolist.Repository = (*ListRepository)(nil)

// Get retrieves a page of todo lists matching the given filter,
// ordered by their creation date and ID (ascending)
func (repo *ListRepository) Get(ctx context.Context, filter *todolist.Filter, page pagination.Request) (*pagination.Page[*todolist.List], error) {
	result, err := repo.repo.Get(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	for _, obj := range result.Items {
		repo.cache.Set(obj.ID, obj)
	}
	return result, nil
}

// GetByID retrieves a todo list by its ID
func (repo *ListRepository) GetByID(ctx context.Context, id uuid.UUID) (*todolist.List, error) {
	cached, ok := repo.cache.Lookup(id)
	if ok {
		return cached, nil
	}
	obj, err := repo.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if obj != nil {
		repo.cache.Set(obj.ID, obj)
	}
	return obj, nil
}

// Create creates a new todo list
func (repo *ListRepository) Create(ctx context.Context, create *todolist.Create) (*todolist.List, error) {
	obj, err := repo.repo.Create(ctx, create)
	if err != nil {
		return nil, err
	}
	repo.cache.Set(obj.ID, obj)
	return obj, nil
}

// Update updates an existing todo list
func (repo *ListRepository) Update(ctx context.Context, id uuid.UUID, update *todolist.Update) (*todolist.List, error) {
	obj, err := repo.repo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if obj != nil {
		repo.cache.Set(obj.ID, obj)
	}
	return obj, nil
}

// Delete deletes a todo list by its ID, together with all todos assigned to it.
// Todos of the deleted list that are still cached by ID expire through their lifetime.
func (repo *ListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := repo.repo.Delete(ctx, id); err != nil {
		return err
	}
	repo.cache.Unset(id)
	return nil
}
