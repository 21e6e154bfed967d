package todolist

import (
	"github.com/google/uuid"
)

// List represents a named todo list that groups todo items
type List struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt int64     `json:"created_at"`
}
