package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasklet/task-server/internal/config"
	"github.com/tasklet/task-server/internal/storage/memdb"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	driver := memdb.New()
	require.NoError(t, driver.Initialize(context.Background()))
	t.Cleanup(driver.Close)

	service := &Service{
		Config: &config.Config{
			AllowedOrigin: "*",
		},
		Storage: driver,
	}
	server := httptest.NewServer(service.Router())
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, server *httptest.Server, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	request, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)

	response, err := server.Client().Do(request)
	require.NoError(t, err)
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	if len(raw) == 0 {
		return response.StatusCode, nil
	}

	decoded := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return response.StatusCode, decoded
}

func createListViaAPI(t *testing.T, server *httptest.Server, name string) string {
	t.Helper()
	status, body := doJSON(t, server, http.MethodPost, "/v1/lists", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, status)
	return body["id"].(string)
}

func TestEndpointHello(t *testing.T) {
	server := newTestServer(t)

	status, body := doJSON(t, server, http.MethodGet, "/v1/hello", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Hello, world!", body["message"])
}

func TestListEndpoints_CRUD(t *testing.T) {
	server := newTestServer(t)

	// Create
	status, created := doJSON(t, server, http.MethodPost, "/v1/lists", map[string]string{"name": "groceries"})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "groceries", created["name"])
	id := created["id"].(string)

	// Read
	status, got := doJSON(t, server, http.MethodGet, "/v1/lists/"+id, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "groceries", got["name"])

	// Update
	status, updated := doJSON(t, server, http.MethodPatch, "/v1/lists/"+id, map[string]string{"name": "weekend groceries"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "weekend groceries", updated["name"])

	// Delete
	status, _ = doJSON(t, server, http.MethodDelete, "/v1/lists/"+id, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = doJSON(t, server, http.MethodGet, "/v1/lists/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestListEndpoints_CreateValidation(t *testing.T) {
	server := newTestServer(t)

	status, body := doJSON(t, server, http.MethodPost, "/v1/lists", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)

	errs := body["errors"].([]interface{})
	require.NotEmpty(t, errs)
	first := errs[0].(map[string]interface{})
	assert.Equal(t, "validation.requestBody.parameter.missing", first["type"])
}

func TestListEndpoints_PaginatedEnvelope(t *testing.T) {
	server := newTestServer(t)

	for i := 0; i < 25; i++ {
		createListViaAPI(t, server, fmt.Sprintf("list %02d", i))
	}

	status, body := doJSON(t, server, http.MethodGet, "/v1/lists?page=1&size=10", nil)
	require.Equal(t, http.StatusOK, status)

	assert.Len(t, body["items"].([]interface{}), 10)
	assert.Equal(t, float64(25), body["totalCount"])
	assert.Equal(t, float64(1), body["pageNumber"])
	assert.Equal(t, float64(10), body["pageSize"])
	assert.Equal(t, float64(3), body["totalPages"])

	// A page beyond the last one is empty, not an error
	status, body = doJSON(t, server, http.MethodGet, "/v1/lists?page=4&size=10", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["items"])
	assert.Equal(t, float64(25), body["totalCount"])
	assert.Equal(t, float64(3), body["totalPages"])
}

func TestListEndpoints_PaginationValidation(t *testing.T) {
	server := newTestServer(t)

	for _, query := range []string{"?page=0", "?size=0", "?size=1000", "?page=-1", "?page=abc"} {
		status, body := doJSON(t, server, http.MethodGet, "/v1/lists"+query, nil)
		assert.Equal(t, http.StatusBadRequest, status, "query %s", query)
		assert.NotEmpty(t, body["errors"], "query %s", query)
	}
}

func TestListEndpoints_NameFilter(t *testing.T) {
	server := newTestServer(t)
	createListViaAPI(t, server, "Weekend Groceries")
	createListViaAPI(t, server, "chores")

	status, body := doJSON(t, server, http.MethodGet, "/v1/lists?name=groceries", nil)
	require.Equal(t, http.StatusOK, status)
	items := body["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "Weekend Groceries", items[0].(map[string]interface{})["name"])
	assert.Equal(t, float64(1), body["totalCount"])
}

func TestTodoEndpoints_CRUD(t *testing.T) {
	server := newTestServer(t)
	listID := createListViaAPI(t, server, "groceries")

	// Create
	status, created := doJSON(t, server, http.MethodPost, "/v1/todos", map[string]string{
		"list_id": listID,
		"title":   "buy milk",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "buy milk", created["title"])
	assert.Equal(t, false, created["done"])
	id := created["id"].(string)

	// Complete it
	status, updated := doJSON(t, server, http.MethodPatch, "/v1/todos/"+id, map[string]interface{}{"done": true})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, updated["done"])
	assert.NotNil(t, updated["done_at"])

	// Delete
	status, _ = doJSON(t, server, http.MethodDelete, "/v1/todos/"+id, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = doJSON(t, server, http.MethodGet, "/v1/todos/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTodoEndpoints_CreateUnknownList(t *testing.T) {
	server := newTestServer(t)

	status, body := doJSON(t, server, http.MethodPost, "/v1/todos", map[string]string{
		"list_id": "c1a6d0c8-4b2e-4b6e-9c37-57cbd2558ba6",
		"title":   "buy milk",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	errs := body["errors"].([]interface{})
	require.NotEmpty(t, errs)
	first := errs[0].(map[string]interface{})
	assert.Equal(t, "validation.requestBody.parameter.unknownReference", first["type"])
}

func TestTodoEndpoints_DoneFilter(t *testing.T) {
	server := newTestServer(t)
	listID := createListViaAPI(t, server, "groceries")

	_, first := doJSON(t, server, http.MethodPost, "/v1/todos", map[string]string{"list_id": listID, "title": "buy milk"})
	doJSON(t, server, http.MethodPost, "/v1/todos", map[string]string{"list_id": listID, "title": "buy bread"})
	doJSON(t, server, http.MethodPatch, "/v1/todos/"+first["id"].(string), map[string]interface{}{"done": true})

	status, body := doJSON(t, server, http.MethodGet, "/v1/todos?done=true", nil)
	require.Equal(t, http.StatusOK, status)
	items := body["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "buy milk", items[0].(map[string]interface{})["title"])

	status, body = doJSON(t, server, http.MethodGet, "/v1/todos?done=false", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["items"].([]interface{}), 1)
}

func TestEndpoints_MalformedID(t *testing.T) {
	server := newTestServer(t)

	status, body := doJSON(t, server, http.MethodGet, "/v1/lists/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, body["errors"])

	status, _ = doJSON(t, server, http.MethodGet, "/v1/todos/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestEndpoints_UnknownRoute(t *testing.T) {
	server := newTestServer(t)

	status, body := doJSON(t, server, http.MethodGet, "/v1/unknown", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
}
