package todo

import (
	"github.com/google/uuid"
)

// Todo represents a single todo item assigned to a todo list
type Todo struct {
	ID        uuid.UUID `json:"id"`
	ListID    uuid.UUID `json:"list_id"`
	Title     string    `json:"title"`
	Done      bool      `json:"done"`
	CreatedAt int64     `json:"created_at"`
	DoneAt    *int64    `json:"done_at,omitempty"`
}
