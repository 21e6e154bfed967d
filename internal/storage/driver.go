package storage

import (
	"context"

	"github.com/tasklet/task-server/internal/todo"
	"github.com/tasklet/task-server/internal/todolist"
)

// Driver represents a storage driver
type Driver interface {
	// Initialize initializes the storage driver (i.e. opens a database connection)
	Initialize(ctx context.Context) error

	// Lists provides a todo list repository implementation
	Lists() todolist.Repository

	// Todos provides a todo repository implementation
	Todos() todo.Repository

	// Close closes the storage driver (i.e. closes a database connection)
	Close()
}
