package memdb

import (
	"context"

	"github.com/hashicorp/go-memdb"
	"github.com/tasklet/task-server/internal/storage"
	"github.com/tasklet/task-server/internal/todo"
	"github.com/tasklet/task-server/internal/todolist"
)

var dbSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		"todo_lists": {
			Name: "todo_lists",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:         "id",
					Unique:       true,
					AllowMissing: false,
					Indexer:      &memdb.StringFieldIndex{Field: "ID"},
				},
			},
		},
		"todos": {
			Name: "todos",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:         "id",
					Unique:       true,
					AllowMissing: false,
					Indexer:      &memdb.StringFieldIndex{Field: "ID"},
				},
				"listID": {
					Name:         "listID",
					Unique:       false,
					AllowMissing: false,
					Indexer:      &memdb.StringFieldIndex{Field: "ListID"},
				},
			},
		},
	},
}

// Driver represents the in-memory storage driver built using hashicorp/go-memdb.
// It is used as the backing store of the server's in-memory mode and as the
// storage fake in tests.
type Driver struct {
	db    *memdb.MemDB
	lists *ListRepository
	todos *TodoRepository
}

var _ storage.Driver = (*Driver)(nil)

// New creates a new empty in-memory storage driver.
// Use Initialize to set up the underlying tables and repository implementations.
func New() *Driver {
	return &Driver{}
}

// Initialize sets up the in-memory tables and initializes the repository implementations
func (driver *Driver) Initialize(_ context.Context) error {
	db, err := memdb.NewMemDB(dbSchema)
	if err != nil {
		return err
	}
	driver.db = db

	driver.lists = &ListRepository{db: db}
	driver.todos = &TodoRepository{db: db}

	return nil
}

// Lists provides the in-memory todo list repository implementation
func (driver *Driver) Lists() todolist.Repository {
	return driver.lists
}

// Todos provides the in-memory todo repository implementation
func (driver *Driver) Todos() todo.Repository {
	return driver.todos
}

// Close discards the repository implementations and the underlying tables
func (driver *Driver) Close() {
	driver.lists = nil
	driver.todos = nil
	driver.db = nil
}
