package cache

import (
	"context"

	"github.com/google/uuid"
	"github.com/tasklet/task-server/internal/hashmap"
	"github.com/tasklet/task-server/internal/pagination"
	"github.com/tasklet/task-server/internal/todo"
)

// TodoRepository implements the todo.Repository interface in order to implement caching
type TodoRepository struct {
	repo  todo.Repository
	cache *hashmap.ExpiringMap[uuid.UUID, *todo.Todo]
}

var _ todo.Repository = (*TodoRepository)(nil)

// Get retrieves a page of todos matching the given filter,
// ordered by their creation date and ID (ascending)
func (repo *TodoRepository) Get(ctx context.Context, filter *todo.Filter, page pagination.Request) (*pagination.Page[*todo.Todo], error) {
	result, err := repo.repo.Get(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	for _, obj := range result.Items {
		repo.cache.Set(obj.ID, obj)
	}
	return result, nil
}

// GetByID retrieves a todo by its ID
func (repo *TodoRepository) GetByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
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

// Create creates a new todo
func (repo *TodoRepository) Create(ctx context.Context, create *todo.Create) (*todo.Todo, error) {
	obj, err := repo.repo.Create(ctx, create)
	if err != nil {
		return nil, err
	}
	repo.cache.Set(obj.ID, obj)
	return obj, nil
}

// Update updates an existing todo.
// Setting Done transitions the todo's completion timestamp accordingly.
func (repo *TodoRepository) Update(ctx context.Context, id uuid.UUID, update *todo.Update) (*todo.Todo, error) {
	obj, err := repo.repo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if obj != nil {
		repo.cache.Set(obj.ID, obj)
	}
	return obj, nil
}

// Delete deletes a todo by its ID
func (repo *TodoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := repo.repo.Delete(ctx, id); err != nil {
		return err
	}
	repo.cache.Unset(id)
	return nil
}

// DeleteByList deletes all todos assigned to the given todo list.
// Affected todos that are still cached by ID expire through their lifetime.
func (repo *TodoRepository) DeleteByList(ctx context.Context, listID uuid.UUID) error {
	return repo.repo.DeleteByList(ctx, listID)
}

// DeleteDoneBefore deletes all todos that were completed before the given
// UNIX timestamp and returns the amount of deleted records.
// Affected todos that are still cached by ID expire through their lifetime.
func (repo *TodoRepository) DeleteDoneBefore(ctx context.Context, before int64) (uint64, error) {
	return repo.repo.DeleteDoneBefore(ctx, before)
}
