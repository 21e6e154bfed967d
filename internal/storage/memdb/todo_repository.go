package memdb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
	"github.com/tasklet/task-server/internal/pagination"
	"github.com/tasklet/task-server/internal/todo"
)

// todoRecord is the representation of a todo inside the memdb tables
type todoRecord struct {
	ID        string
	ListID    string
	Title     string
	Done      bool
	CreatedAt int64
	DoneAt    *int64
}

func recordOfTodo(obj *todo.Todo) *todoRecord {
	return &todoRecord{
		ID:        obj.ID.String(),
		ListID:    obj.ListID.String(),
		Title:     obj.Title,
		Done:      obj.Done,
		CreatedAt: obj.CreatedAt,
		DoneAt:    obj.DoneAt,
	}
}

func (rec *todoRecord) toTodo() *todo.Todo {
	return &todo.Todo{
		ID:        uuid.MustParse(rec.ID),
		ListID:    uuid.MustParse(rec.ListID),
		Title:     rec.Title,
		Done:      rec.Done,
		CreatedAt: rec.CreatedAt,
		DoneAt:    rec.DoneAt,
	}
}

// TodoRepository implements the todo.Repository interface using hashicorp/go-memdb
type TodoRepository struct {
	db *memdb.MemDB
}

var _ todo.Repository = (*TodoRepository)(nil)

// Get retrieves a page of todos matching the given filter,
// ordered by their creation date and ID (ascending)
func (repo *TodoRepository) Get(ctx context.Context, filter *todo.Filter, page pagination.Request) (*pagination.Page[*todo.Todo], error) {
	if filter == nil {
		filter = &todo.Filter{}
	}
	return pagination.Paginate[*todo.Todo](ctx, &todoSource{db: repo.db, filter: filter}, page)
}

// GetByID retrieves a todo by its ID
func (repo *TodoRepository) GetByID(_ context.Context, id uuid.UUID) (*todo.Todo, error) {
	txn := repo.db.Txn(false)
	raw, err := txn.First("todos", "id", id.String())
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return raw.(*todoRecord).toTodo(), nil
}

// Create creates a new todo
func (repo *TodoRepository) Create(_ context.Context, create *todo.Create) (*todo.Todo, error) {
	obj := &todo.Todo{
		ID:        uuid.New(),
		ListID:    create.ListID,
		Title:     create.Title,
		Done:      false,
		CreatedAt: time.Now().Unix(),
	}

	txn := repo.db.Txn(true)
	if err := txn.Insert("todos", recordOfTodo(obj)); err != nil {
		txn.Abort()
		return nil, err
	}
	txn.Commit()

	return obj, nil
}

// Update updates an existing todo.
// Setting Done transitions the todo's completion timestamp accordingly.
func (repo *TodoRepository) Update(_ context.Context, id uuid.UUID, update *todo.Update) (*todo.Todo, error) {
	txn := repo.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First("todos", "id", id.String())
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	obj := raw.(*todoRecord).toTodo()
	if update.Title != nil {
		obj.Title = *update.Title
	}
	if update.Done != nil && *update.Done != obj.Done {
		obj.Done = *update.Done
		if *update.Done {
			now := time.Now().Unix()
			obj.DoneAt = &now
		} else {
			obj.DoneAt = nil
		}
	}
	if err := txn.Insert("todos", recordOfTodo(obj)); err != nil {
		return nil, err
	}
	txn.Commit()

	return obj, nil
}

// Delete deletes a todo by its ID
func (repo *TodoRepository) Delete(_ context.Context, id uuid.UUID) error {
	txn := repo.db.Txn(true)
	defer txn.Abort()

	if _, err := txn.DeleteAll("todos", "id", id.String()); err != nil {
		return err
	}
	txn.Commit()

	return nil
}

// DeleteByList deletes all todos assigned to the given todo list
func (repo *TodoRepository) DeleteByList(_ context.Context, listID uuid.UUID) error {
	txn := repo.db.Txn(true)
	defer txn.Abort()

	if _, err := txn.DeleteAll("todos", "listID", listID.String()); err != nil {
		return err
	}
	txn.Commit()

	return nil
}

// DeleteDoneBefore deletes all todos that were completed before the given
// UNIX timestamp and returns the amount of deleted records
func (repo *TodoRepository) DeleteDoneBefore(_ context.Context, before int64) (uint64, error) {
	txn := repo.db.Txn(true)
	defer txn.Abort()

	iter, err := txn.Get("todos", "id")
	if err != nil {
		return 0, err
	}

	// Collect first; deleting while iterating would invalidate the iterator
	stale := []*todoRecord{}
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		rec := raw.(*todoRecord)
		if rec.Done && rec.DoneAt != nil && *rec.DoneAt < before {
			stale = append(stale, rec)
		}
	}

	for _, rec := range stale {
		if err := txn.Delete("todos", rec); err != nil {
			return 0, err
		}
	}
	txn.Commit()

	return uint64(len(stale)), nil
}

// todoSource provides the count & fetch queries of the pagination contract for todos.
// A single read transaction is a consistent snapshot of the whole database, so the
// source also implements the snapshot extension.
type todoSource struct {
	db     *memdb.MemDB
	txn    *memdb.Txn
	filter *todo.Filter
}

var _ pagination.Snapshotter[*todo.Todo] = (*todoSource)(nil)

// Count returns the total amount of todos matching the source's filter
func (src *todoSource) Count(_ context.Context) (uint64, error) {
	objs, err := src.matching()
	if err != nil {
		return 0, err
	}
	return uint64(len(objs)), nil
}

// Fetch returns the requested window of todos matching the source's filter
func (src *todoSource) Fetch(_ context.Context, offset, limit uint64) ([]*todo.Todo, error) {
	objs, err := src.matching()
	if err != nil {
		return nil, err
	}
	return window(objs, offset, limit), nil
}

// Snapshot runs fn against a source view bound to a single read transaction
func (src *todoSource) Snapshot(_ context.Context, fn func(pagination.Source[*todo.Todo]) error) error {
	txn := src.db.Txn(false)
	defer txn.Abort()
	return fn(&todoSource{txn: txn, filter: src.filter})
}

func (src *todoSource) matching() ([]*todo.Todo, error) {
	txn := src.txn
	if txn == nil {
		txn = src.db.Txn(false)
	}

	iter, err := txn.Get("todos", "id")
	if err != nil {
		return nil, err
	}

	objs := []*todo.Todo{}
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		rec := raw.(*todoRecord)
		if src.filter.ListID != nil && rec.ListID != src.filter.ListID.String() {
			continue
		}
		if src.filter.Done != nil && rec.Done != *src.filter.Done {
			continue
		}
		if src.filter.Title != nil && !strings.Contains(strings.ToLower(rec.Title), strings.ToLower(*src.filter.Title)) {
			continue
		}
		objs = append(objs, rec.toTodo())
	}

	sort.Slice(objs, func(i, j int) bool {
		if objs[i].CreatedAt != objs[j].CreatedAt {
			return objs[i].CreatedAt < objs[j].CreatedAt
		}
		return objs[i].ID.String() < objs[j].ID.String()
	})
	return objs, nil
}
