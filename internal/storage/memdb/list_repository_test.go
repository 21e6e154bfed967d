package memdb

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasklet/task-server/internal/pagination"
	"github.com/tasklet/task-server/internal/todolist"
)

func TestListRepository_CreateAndGetByID(t *testing.T) {
	driver := newTestDriver(t)

	created := createList(t, driver, "groceries")
	got, err := driver.Lists().GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created, got)
}

func TestListRepository_GetByIDNotFound(t *testing.T) {
	driver := newTestDriver(t)

	got, err := driver.Lists().GetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListRepository_Update(t *testing.T) {
	driver := newTestDriver(t)
	created := createList(t, driver, "groceries")

	name := "weekend groceries"
	updated, err := driver.Lists().Update(context.Background(), created.ID, &todolist.Update{Name: &name})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, name, updated.Name)

	got, err := driver.Lists().GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)
}

func TestListRepository_UpdateNotFound(t *testing.T) {
	driver := newTestDriver(t)

	name := "whatever"
	updated, err := driver.Lists().Update(context.Background(), uuid.New(), &todolist.Update{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestListRepository_DeleteCascades(t *testing.T) {
	driver := newTestDriver(t)
	list := createList(t, driver, "groceries")
	item := createTodo(t, driver, list.ID, "buy milk")

	require.NoError(t, driver.Lists().Delete(context.Background(), list.ID))

	got, err := driver.Lists().GetByID(context.Background(), list.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// The assigned todos have to be deleted as well
	gotTodo, err := driver.Todos().GetByID(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Nil(t, gotTodo)
}

func TestListRepository_GetPagination(t *testing.T) {
	driver := newTestDriver(t)

	for i := 0; i < 7; i++ {
		createList(t, driver, fmt.Sprintf("list %d", i))
	}

	page1, err := driver.Lists().Get(context.Background(), nil, pagination.Request{Page: 1, Size: 3})
	require.NoError(t, err)
	assert.Len(t, page1.Items, 3)
	assert.Equal(t, uint64(7), page1.TotalCount)
	assert.Equal(t, uint64(3), page1.TotalPages)

	page3, err := driver.Lists().Get(context.Background(), nil, pagination.Request{Page: 3, Size: 3})
	require.NoError(t, err)
	assert.Len(t, page3.Items, 1)
}

func TestListRepository_GetNameFilter(t *testing.T) {
	driver := newTestDriver(t)
	groceries := createList(t, driver, "Weekend Groceries")
	createList(t, driver, "chores")

	name := "groceries"
	result, err := driver.Lists().Get(context.Background(), &todolist.Filter{Name: &name}, pagination.Request{Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, groceries.ID, result.Items[0].ID)
	assert.Equal(t, uint64(1), result.TotalCount)
}
