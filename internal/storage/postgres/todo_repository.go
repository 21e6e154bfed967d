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
	"github.com/tasklet/task-server/internal/todo"
)

// TodoRepository implements the todo.Repository interface using PostgreSQL
type TodoRepository struct {
	db *pgxpool.Pool
}

var _ todo.Repository = (*TodoRepository)(nil)

// Get retrieves a page of todos matching the given filter,
// ordered by their creation date and ID (ascending)
func (repo *TodoRepository) Get(ctx context.Context, filter *todo.Filter, page pagination.Request) (*pagination.Page[*todo.Todo], error) {
	if filter == nil {
		filter = &todo.Filter{}
	}
	return pagination.Paginate[*todo.Todo](ctx, &todoSource{db: repo.db, pool: repo.db, filter: filter}, page)
}

// GetByID retrieves a todo by its ID
func (repo *TodoRepository) GetByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	row := repo.db.QueryRow(ctx, "SELECT todo_id, list_id, title, done, created_at, done_at FROM todos WHERE todo_id = $1", id)
	obj, err := rowToTodo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return obj, nil
}

// Create creates a new todo
func (repo *TodoRepository) Create(ctx context.Context, create *todo.Create) (*todo.Todo, error) {
	obj := &todo.Todo{
		ID:        uuid.New(),
		ListID:    create.ListID,
		Title:     create.Title,
		Done:      false,
		CreatedAt: time.Now().Unix(),
	}
	_, err := repo.db.Exec(ctx, "INSERT INTO todos VALUES ($1, $2, $3, $4, $5, $6)", obj.ID, obj.ListID, obj.Title, obj.Done, obj.CreatedAt, obj.DoneAt)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// Update updates an existing todo.
// Setting Done transitions the todo's completion timestamp accordingly.
func (repo *TodoRepository) Update(ctx context.Context, id uuid.UUID, update *todo.Update) (*todo.Todo, error) {
	// Retrieve the current state as the completion timestamp depends on it
	current, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, nil
	}

	if update.Title != nil || update.Done != nil {
		query := squirrel.Update("todos").Where(squirrel.Eq{"todo_id": id})
		if update.Title != nil {
			query = query.Set("title", *update.Title)
		}
		if update.Done != nil && *update.Done != current.Done {
			query = query.Set("done", *update.Done)
			if *update.Done {
				query = query.Set("done_at", time.Now().Unix())
			} else {
				query = query.Set("done_at", nil)
			}
		}

		sql, values, err := query.PlaceholderFormat(squirrel.Dollar).ToSql()
		if err != nil {
			return nil, err
		}
		if _, err := repo.db.Exec(ctx, sql, values...); err != nil {
			return nil, err
		}
	}

	// Re-fetch the todo
	return repo.GetByID(ctx, id)
}

// Delete deletes a todo by its ID
func (repo *TodoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repo.db.Exec(ctx, "DELETE FROM todos WHERE todo_id = $1", id)
	return err
}

// DeleteByList deletes all todos assigned to the given todo list
func (repo *TodoRepository) DeleteByList(ctx context.Context, listID uuid.UUID) error {
	_, err := repo.db.Exec(ctx, "DELETE FROM todos WHERE list_id = $1", listID)
	return err
}

// DeleteDoneBefore deletes all todos that were completed before the given
// UNIX timestamp and returns the amount of deleted records
func (repo *TodoRepository) DeleteDoneBefore(ctx context.Context, before int64) (uint64, error) {
	tag, err := repo.db.Exec(ctx, "DELETE FROM todos WHERE done AND done_at < $1", before)
	if err != nil {
		return 0, err
	}
	return uint64(tag.RowsAffected()), nil
}

// todoSource provides the count & fetch queries of the pagination contract for todos.
// When created from the pool it also supports running both queries inside a single
// repeatable read transaction.
type todoSource struct {
	db     querier
	pool   *pgxpool.Pool
	filter *todo.Filter
}

var _ pagination.Snapshotter[*todo.Todo] = (*todoSource)(nil)

// Count returns the total amount of todos matching the source's filter
func (src *todoSource) Count(ctx context.Context) (uint64, error) {
	query := applyTodoFilter(squirrel.Select("COUNT(*)").From("todos"), src.filter)
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

// Fetch returns the requested window of todos matching the source's filter
func (src *todoSource) Fetch(ctx context.Context, offset, limit uint64) ([]*todo.Todo, error) {
	query := applyTodoFilter(squirrel.Select("todo_id", "list_id", "title", "done", "created_at", "done_at").From("todos"), src.filter).
		OrderBy("created_at ASC", "todo_id ASC").
		Offset(offset).
		Limit(limit)
	sql, vals, err := query.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := src.db.Query(ctx, sql, vals...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []*todo.Todo{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	objs := []*todo.Todo{}
	for rows.Next() {
		obj, err := rowToTodo(rows)
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
	return objs, rows.Err()
}

// Snapshot runs fn against a source view bound to a single repeatable read transaction
func (src *todoSource) Snapshot(ctx context.Context, fn func(pagination.Source[*todo.Todo]) error) error {
	tx, err := src.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(&todoSource{db: tx, filter: src.filter}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func applyTodoFilter(query squirrel.SelectBuilder, filter *todo.Filter) squirrel.SelectBuilder {
	if filter.ListID != nil {
		query = query.Where(squirrel.Eq{"list_id": *filter.ListID})
	}
	if filter.Done != nil {
		query = query.Where(squirrel.Eq{"done": *filter.Done})
	}
	if filter.Title != nil {
		query = query.Where(squirrel.ILike{"title": "%" + *filter.Title + "%"})
	}
	return query
}

func rowToTodo(row pgx.Row) (*todo.Todo, error) {
	obj := new(todo.Todo)
	if err := row.Scan(&obj.ID, &obj.ListID, &obj.Title, &obj.Done, &obj.CreatedAt, &obj.DoneAt); err != nil {
		return nil, err
	}
	return obj, nil
}
