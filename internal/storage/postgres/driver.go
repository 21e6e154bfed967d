package postgres

import (
	"context"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/tasklet/task-server/internal/storage"
	"github.com/tasklet/task-server/internal/todo"
	"github.com/tasklet/task-server/internal/todolist"
)

//go:embed migrations/*.sql
var migrations embed.FS

// querier unifies the query methods of a connection pool and a transaction
// so that repository sources can run on either one
type querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Driver represents the PostgreSQL storage driver implementation
type Driver struct {
	dsn   string
	db    *pgxpool.Pool
	lists *ListRepository
	todos *TodoRepository
}

var _ storage.Driver = (*Driver)(nil)

// New creates a new empty PostgreSQL storage driver.
// Use Initialize to open the database connection and initialize the repository implementations.
func New(dsn string) *Driver {
	return &Driver{
		dsn: dsn,
	}
}

// Initialize opens the database connection, migrates the database and initializes the repository implementations
func (driver *Driver) Initialize(ctx context.Context) error {
	// Perform SQL migrations
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	migrator, err := migrate.NewWithSourceInstance("iofs", source, driver.dsn)
	if err != nil {
		return err
	}
	defer migrator.Close()
	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	// Initialize the database connection pool
	pool, err := pgxpool.Connect(ctx, driver.dsn)
	if err != nil {
		return err
	}
	driver.db = pool

	// Initialize the repository implementations
	driver.lists = &ListRepository{db: pool}
	driver.todos = &TodoRepository{db: pool}

	return nil
}

// Lists provides the PostgreSQL todo list repository implementation
func (driver *Driver) Lists() todolist.Repository {
	return driver.lists
}

// Todos provides the PostgreSQL todo repository implementation
func (driver *Driver) Todos() todo.Repository {
	return driver.todos
}

// Close discards the repository implementations and closes the database connection
func (driver *Driver) Close() {
	driver.lists = nil
	driver.todos = nil

	driver.db.Close()
	driver.db = nil
}
