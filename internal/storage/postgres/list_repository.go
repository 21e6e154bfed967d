package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/tasklet/task-server/internal/pagination"
	"github.com/tasklet/task-server/internal/todolist"
)

// ListRepository implements the todolist.Repository interface using PostgreSQL
type ListRepository struct {
	db *pgxpool.Pool
}

var _ todolist.Repository = (*ListRepository)(nil)

// Get retrieves a page of todo lists matching the given filter,
// ordered by their creation date and ID (ascending)
func (repo *ListRepository) Get(ctx context.Context, filter *todolist.Filter, page pagination.Request) (*pagination.Page[*todolist.List], error) {
	if filter == nil {
		filter = &todolist.Filter{}
	}
	return pagination.Paginate[*todolist.List](ctx, &listSource{db: repo.db, pool: repo.db, filter: filter}, page)
}

// GetByID retrieves a todo list by its ID
func (repo *ListRepository) GetByID(ctx context.Context, id uuid.UUID) (*todolist.List, error) {
	row := repo.db.QueryRow(ctx, "SELECT list_id, name, created_at FROM todo_lists WHERE list_id = $1", id)
	obj, err := rowToList(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return obj, nil
}

// Create creates a new todo list
func (repo *ListRepository) Create(ctx context.Context, create *todolist.Create) (*todolist.List, error) {
	obj := &todolist.List{
		ID:        uuid.New(),
		Name:      create.Name,
		CreatedAt: time.Now().Unix(),
	}
	_, err := repo.db.Exec(ctx, "INSERT INTO todo_lists VALUES ($1, $2, $3)", obj.ID, obj.Name, obj.CreatedAt)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// Update updates an existing todo list
func (repo *ListRepository) Update(ctx context.Context, id uuid.UUID, update *todolist.Update) (*todolist.List, error) {
	if update.Name != nil {
		query := squirrel.Update("todo_lists").Set("name", *update.Name).Where(squirrel.Eq{"list_id": id})
		sql, values, err := query.PlaceholderFormat(squirrel.Dollar).ToSql()
		if err != nil {
			return nil, err
		}
		if _, err := repo.db.Exec(ctx, sql, values...); err != nil {
			return nil, err
		}
	}

	// Re-fetch the todo list
	return repo.GetByID(ctx, id)
}

// Delete deletes a todo list by its ID.
// The assigned todos are removed by the 'ON DELETE CASCADE' constraint on the todos table.
func (repo *ListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repo.db.Exec(ctx, "DELETE FROM todo_lists WHERE list_id = $1", id)
	return err
}

// listSource provides the count & fetch queries of the pagination contract for todo lists.
// When created from the pool it also supports running both queries inside a single
// repeatable read transaction.
type listSource struct {
	db     querier
	pool   *pgxpool.Pool
	filter *todolist.Filter
}

var _ pagination.Snapshotter[*todolist.List] = (*listSource)(nil)

// Count returns the total amount of todo lists matching the source's filter
func (src *listSource) Count(ctx context.Context) (uint64, error) {
	query := applyListFilter(squirrel.Select("COUNT(*)").From("todo_lists"), src.filter)
	sql, vals, err := query.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return 0, err
	}

	var n uint64
	if err := src.db.QueryRow(ctx, sql, vals...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Fetch returns the requested window of todo lists matching the source's filter
func (src *listSource) Fetch(ctx context.Context, offset, limit uint64) ([]*todolist.List, error) {
	query := applyListFilter(squirrel.Select("list_id", "name", "created_at").From("todo_lists"), src.filter).
		OrderBy("created_at ASC", "list_id ASC").
		Offset(offset).
		Limit(limit)
	sql, vals, err := query.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := src.db.Query(ctx, sql, vals...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []*todolist.List{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	objs := []*todolist.List{}
	for rows.Next() {
		obj, err := rowToList(rows)
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
	return objs, rows.Err()
}

// Snapshot runs fn against a source view bound to a single repeatable read transaction
func (src *listSource) Snapshot(ctx context.Context, fn func(pagination.Source[*todolist.List]) error) error {
	tx, err := src.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(&listSource{db: tx, filter: src.filter}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func applyListFilter(query squirrel.SelectBuilder, filter *todolist.Filter) squirrel.SelectBuilder {
	if filter.Name != nil {
		query = query.Where(squirrel.ILike{"name": "%" + *filter.Name + "%"})
	}
	return query
}

func rowToList(row pgx.Row) (*todolist.List, error) {
	obj := new(todolist.List)
	if err := row.Scan(&obj.ID, &obj.Name, &obj.CreatedAt); err != nil {
		return nil, err
	}
	return obj, nil
}
