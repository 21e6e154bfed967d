package memdb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
	"github.com/tasklet/task-server/internal/pagination"
	"github.com/tasklet/task-server/internal/todolist"
)

// listRecord is the representation of a todo list inside the memdb tables.
// IDs are stored as strings as the memdb indexers operate on string fields.
type listRecord struct {
	ID        string
	Name      string
	CreatedAt int64
}

func recordOfList(obj *todolist.List) *listRecord {
	return &listRecord{
		ID:        obj.ID.String(),
		Name:      obj.Name,
		CreatedAt: obj.CreatedAt,
	}
}

func (rec *listRecord) toList() *todolist.List {
	return &todolist.List{
		ID:        uuid.MustParse(rec.ID),
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
	}
}

// ListRepository implements the todolist.Repository interface using hashicorp/go-memdb
type ListRepository struct {
	db *memdb.MemDB
}

var _ todolist.Repository = (*ListRepository)(nil)

// Get retrieves a page of todo lists matching the given filter,
// ordered by their creation date and ID (ascending)
func (repo *ListRepository) Get(ctx context.Context, filter *todolist.Filter, page pagination.Request) (*pagination.Page[*todolist.List], error) {
	if filter == nil {
		filter = &todolist.Filter{}
	}
	return pagination.Paginate[*todolist.List](ctx, &listSource{db: repo.db, filter: filter}, page)
}

// GetByID retrieves a todo list by its ID
func (repo *ListRepository) GetByID(_ context.Context, id uuid.UUID) (*todolist.List, error) {
	txn := repo.db.Txn(false)
	raw, err := txn.First("todo_lists", "id", id.String())
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return raw.(*listRecord).toList(), nil
}

// Create creates a new todo list
func (repo *ListRepository) Create(_ context.Context, create *todolist.Create) (*todolist.List, error) {
	obj := &todolist.List{
		ID:        uuid.New(),
		Name:      create.Name,
		CreatedAt: time.Now().Unix(),
	}

	txn := repo.db.Txn(true)
	if err := txn.Insert("todo_lists", recordOfList(obj)); err != nil {
		txn.Abort()
		return nil, err
	}
	txn.Commit()

	return obj, nil
}

// Update updates an existing todo list
func (repo *ListRepository) Update(ctx context.Context, id uuid.UUID, update *todolist.Update) (*todolist.List, error) {
	txn := repo.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First("todo_lists", "id", id.String())
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	obj := raw.(*listRecord).toList()
	if update.Name != nil {
		obj.Name = *update.Name
	}
	if err := txn.Insert("todo_lists", recordOfList(obj)); err != nil {
		return nil, err
	}
	txn.Commit()

	return obj, nil
}

// Delete deletes a todo list by its ID, together with all todos assigned to it
func (repo *ListRepository) Delete(_ context.Context, id uuid.UUID) error {
	txn := repo.db.Txn(true)
	defer txn.Abort()

	// There is no foreign key constraint doing this for us here,
	// so the assigned todos have to be removed explicitly
	if _, err := txn.DeleteAll("todos", "listID", id.String()); err != nil {
		return err
	}
	if _, err := txn.DeleteAll("todo_lists", "id", id.String()); err != nil {
		return err
	}
	txn.Commit()

	return nil
}

// listSource provides the count & fetch queries of the pagination contract for todo lists.
// A single read transaction is a consistent snapshot of the whole database, so the
// source also implements the snapshot extension.
type listSource struct {
	db     *memdb.MemDB
	txn    *memdb.Txn
	filter *todolist.Filter
}

var _ pagination.Snapshotter[*todolist.List] = (*listSource)(nil)

// Count returns the total amount of todo lists matching the source's filter
func (src *listSource) Count(_ context.Context) (uint64, error) {
	objs, err := src.matching()
	if err != nil {
		return 0, err
	}
	return uint64(len(objs)), nil
}

// Fetch returns the requested window of todo lists matching the source's filter
func (src *listSource) Fetch(_ context.Context, offset, limit uint64) ([]*todolist.List, error) {
	objs, err := src.matching()
	if err != nil {
		return nil, err
	}
	return window(objs, offset, limit), nil
}

// Snapshot runs fn against a source view bound to a single read transaction
func (src *listSource) Snapshot(_ context.Context, fn func(pagination.Source[*todolist.List]) error) error {
	txn := src.db.Txn(false)
	defer txn.Abort()
	return fn(&listSource{txn: txn, filter: src.filter})
}

func (src *listSource) matching() ([]*todolist.List, error) {
	txn := src.txn
	if txn == nil {
		txn = src.db.Txn(false)
	}

	iter, err := txn.Get("todo_lists", "id")
	if err != nil {
		return nil, err
	}

	objs := []*todolist.List{}
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		rec := raw.(*listRecord)
		if src.filter.Name != nil && !strings.Contains(strings.ToLower(rec.Name), strings.ToLower(*src.filter.Name)) {
			continue
		}
		objs = append(objs, rec.toList())
	}

	sort.Slice(objs, func(i, j int) bool {
		if objs[i].CreatedAt != objs[j].CreatedAt {
			return objs[i].CreatedAt < objs[j].CreatedAt
		}
		return objs[i].ID.String() < objs[j].ID.String()
	})
	return objs, nil
}

// window cuts the requested page out of the full ordered result set
func window[T any](objs []T, offset, limit uint64) []T {
	if offset >= uint64(len(objs)) {
		return []T{}
	}
	end := offset + limit
	if end > uint64(len(objs)) {
		end = uint64(len(objs))
	}
	return objs[offset:end]
}
