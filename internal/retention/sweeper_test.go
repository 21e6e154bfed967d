package retention

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasklet/task-server/internal/pagination"
	"github.com/tasklet/task-server/internal/todo"
)

// stubTodoRepository records the cutoff passed to DeleteDoneBefore
type stubTodoRepository struct {
	todo.Repository

	before  int64
	deleted uint64
}

func (repo *stubTodoRepository) DeleteDoneBefore(_ context.Context, before int64) (uint64, error) {
	repo.before = before
	return repo.deleted, nil
}

func (repo *stubTodoRepository) Get(_ context.Context, _ *todo.Filter, _ pagination.Request) (*pagination.Page[*todo.Todo], error) {
	return nil, nil
}

func (repo *stubTodoRepository) GetByID(_ context.Context, _ uuid.UUID) (*todo.Todo, error) {
	return nil, nil
}

func TestSweeper_Sweep(t *testing.T) {
	repo := &stubTodoRepository{deleted: 3}
	sweeper := NewSweeper(repo, time.Hour)

	n, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)

	// The cutoff has to lie one retention period in the past
	expected := time.Now().Add(-time.Hour).Unix()
	assert.InDelta(t, expected, repo.before, 2)
}
