package retention

import (
	"context"
	"time"

	"github.com/tasklet/task-server/internal/todo"
)

// Sweeper deletes todos that have been completed for longer than a configured retention period
type Sweeper struct {
	todos  todo.Repository
	maxAge time.Duration
}

// NewSweeper creates a new retention sweeper operating on the given todo repository
func NewSweeper(todos todo.Repository, maxAge time.Duration) *Sweeper {
	return &Sweeper{
		todos:  todos,
		maxAge: maxAge,
	}
}

// Sweep deletes all todos whose completion lies further in the past than the retention
// period and returns the amount of deleted records
func (sweeper *Sweeper) Sweep(ctx context.Context) (uint64, error) {
	cutoff := time.Now().Add(-sweeper.maxAge).Unix()
	return sweeper.todos.DeleteDoneBefore(ctx, cutoff)
}
