package todo

import (
	"context"

	"github.com/google/uuid"
	"github.com/tasklet/task-server/internal/pagination"
)

// Repository defines the todo repository API
type Repository interface {
	// Get retrieves a page of todos matching the given filter,
	// ordered by their creation date and ID (ascending)
	Get(ctx context.Context, filter *Filter, page pagination.Request) (*pagination.Page[*Todo], error)

	// GetByID retrieves a todo by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Todo, error)

	// Create creates a new todo
	Create(ctx context.Context, create *Create) (*Todo, error)

	// Update updates an existing todo.
	// Setting Done transitions the todo's completion timestamp accordingly.
	Update(ctx context.Context, id uuid.UUID, update *Update) (*Todo, error)

	// Delete deletes a todo by its ID
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByList deletes all todos assigned to the given todo list
	DeleteByList(ctx context.Context, listID uuid.UUID) error

	// DeleteDoneBefore deletes all todos that were completed before the given
	// UNIX timestamp and returns the amount of deleted records
	DeleteDoneBefore(ctx context.Context, before int64) (uint64, error)
}

// Filter is used to narrow down which todos are counted and fetched.
// All set conditions have to apply at once; an empty filter matches every todo.
type Filter struct {
	// ListID matches todos assigned to the given todo list
	ListID *uuid.UUID

	// Done matches todos by their completion state
	Done *bool

	// Title matches todos whose title contains the given string (case-insensitive)
	Title *string
}

// Create is used to create a new todo
type Create struct {
	ListID uuid.UUID
	Title  string
}

// Update is used to update an existing todo
type Update struct {
	Title *string
	Done  *bool
}
