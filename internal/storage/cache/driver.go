package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tasklet/task-server/internal/hashmap"
	"github.com/tasklet/task-server/internal/storage"
	"github.com/tasklet/task-server/internal/todo"
	"github.com/tasklet/task-server/internal/todolist"
)

// Driver represents a storage driver implementation that wraps another one in order to implement in-memory caching
type Driver struct {
	underlying storage.Driver
	lists      *ListRepository
	todos      *TodoRepository
}

var _ storage.Driver = (*Driver)(nil)

// New returns a new caching storage driver
func New(underlying storage.Driver) *Driver {
	return &Driver{
		underlying: underlying,
	}
}

// Initialize initializes the caching repositories
func (driver *Driver) Initialize(_ context.Context) error {
	listCache := hashmap.NewExpiring[uuid.UUID, *todolist.List](5 * time.Minute)
	listCache.ScheduleCleanupTask(10 * time.Second)
	driver.lists = &ListRepository{
		repo:  driver.underlying.Lists(),
		cache: listCache,
	}

	todoCache := hashmap.NewExpiring[uuid.UUID, *todo.Todo](5 * time.Minute)
	todoCache.ScheduleCleanupTask(10 * time.Second)
	driver.todos = &TodoRepository{
		repo:  driver.underlying.Todos(),
		cache: todoCache,
	}

	return nil
}

// Lists provides the caching todo list repository implementation
func (driver *Driver) Lists() todolist.Repository {
	return driver.lists
}

// Todos provides the caching todo repository implementation
func (driver *Driver) Todos() todo.Repository {
	return driver.todos
}

// Close closes the caching repositories and disposes their instances
func (driver *Driver) Close() {
	driver.lists.cache.StopCleanupTask()
	driver.lists = nil
	driver.todos.cache.StopCleanupTask()
	driver.todos = nil
}
