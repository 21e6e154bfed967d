package todolist

import (
	"context"

	"github.com/google/uuid"
	"github.com/tasklet/task-server/internal/pagination"
)

// Repository defines the todo list repository API
type Repository interface {
	// Get retrieves a page of todo lists matching the given filter,
	// ordered by their creation date and ID (ascending)
	Get(ctx context.Context, filter *Filter, page pagination.Request) (*pagination.Page[*List], error)

	// GetByID retrieves a todo list by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*List, error)

	// Create creates a new todo list
	Create(ctx context.Context, create *Create) (*List, error)

	// Update updates an existing todo list
	Update(ctx context.Context, id uuid.UUID, update *Update) (*List, error)

	// Delete deletes a todo list by its ID, together with all todos assigned to it
	Delete(ctx context.Context, id uuid.UUID) error
}

// Filter is used to narrow down which todo lists are counted and fetched.
// All set conditions have to apply at once; an empty filter matches every list.
type Filter struct {
	// Name matches lists whose name contains the given string (case-insensitive)
	Name *string
}

// Create is used to create a new todo list
type Create struct {
	Name string
}

// Update is used to update an existing todo list
type Update struct {
	Name *string
}
