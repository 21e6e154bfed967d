package rest

import (
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tasklet/task-server/internal/api/schema"
	"github.com/tasklet/task-server/internal/api/validation"
	"github.com/tasklet/task-server/internal/pagination"
	"github.com/tasklet/task-server/internal/todo"
)

var errUnknownList = func(id uuid.UUID) *schema.Error {
	return &schema.Error{
		Type:    "validation.requestBody.parameter.unknownReference",
		Message: fmt.Sprintf("The todo list '%s' does not exist.", id),
		Details: map[string]interface{}{
			"parameter": "list_id",
			"value":     id.String(),
		},
	}
}

// EndpointGetTodos handles the 'GET /v1/todos?list_id={uuid?}&done={bool?}&title={string?}&page={number?:1}&size={number?:10}' endpoint
func (service *Service) EndpointGetTodos(writer http.ResponseWriter, request *http.Request) {
	var validationErrs []*schema.Error

	listID, validationErr := validation.QueryUUID(request, "list_id")
	if validationErr != nil {
		validationErrs = append(validationErrs, validationErr)
	}

	done, validationErr := validation.QueryBool(request, "done")
	if validationErr != nil {
		validationErrs = append(validationErrs, validationErr)
	}

	title := strings.TrimSpace(request.URL.Query().Get("title"))

	page, validationErr := validation.QueryNumber(request, "page", false, 1, 1, math.MaxInt32)
	if validationErr != nil {
		validationErrs = append(validationErrs, validationErr)
	}

	size, validationErr := validation.QueryNumber(request, "size", false, int64(pagination.DefaultPageSize), 1, int64(pagination.MaxPageSize))
	if validationErr != nil {
		validationErrs = append(validationErrs, validationErr)
	}

	if len(validationErrs) > 0 {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErrs...)
		return
	}

	filter := &todo.Filter{
		ListID: listID,
		Done:   done,
	}
	if title != "" {
		filter.Title = &title
	}

	result, err := service.Storage.Todos().Get(request.Context(), filter, pagination.Request{Page: int(page), Size: int(size)})
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}

	service.writer.WriteJSON(writer, result)
}

type endpointCreateTodoRequestPayload struct {
	ListID string `json:"list_id" validate:"required,uuid"`
	Title  string `json:"title" validate:"required,max=255"`
}

// EndpointCreateTodo handles the 'POST /v1/todos' endpoint
func (service *Service) EndpointCreateTodo(writer http.ResponseWriter, request *http.Request) {
	payload, validationErrs, err := schema.UnmarshalBody[endpointCreateTodoRequestPayload](request)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if len(validationErrs) > 0 {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErrs...)
		return
	}
	listID := uuid.MustParse(payload.ListID)

	// Ensure the referenced todo list exists
	list, err := service.Storage.Lists().GetByID(request.Context(), listID)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if list == nil {
		service.writer.WriteErrors(writer, http.StatusBadRequest, errUnknownList(listID))
		return
	}

	obj, err := service.Storage.Todos().Create(request.Context(), &todo.Create{
		ListID: listID,
		Title:  payload.Title,
	})
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}

	service.writer.WriteJSONCode(writer, http.StatusCreated, obj)
}

// EndpointGetTodo handles the 'GET /v1/todos/{id}' endpoint
func (service *Service) EndpointGetTodo(writer http.ResponseWriter, request *http.Request) {
	id, validationErr := validation.PathUUID("id", chi.URLParam(request, "id"))
	if validationErr != nil {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErr)
		return
	}

	obj, err := service.Storage.Todos().GetByID(request.Context(), id)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if obj == nil {
		service.writer.WriteErrors(writer, http.StatusNotFound, schema.ErrNotFound)
		return
	}

	service.writer.WriteJSON(writer, obj)
}

type endpointEditTodoRequestPayload struct {
	Title *string `json:"title" validate:"omitempty,max=255"`
	Done  *bool   `json:"done"`
}

// EndpointEditTodo handles the 'PATCH /v1/todos/{id}' endpoint
func (service *Service) EndpointEditTodo(writer http.ResponseWriter, request *http.Request) {
	id, validationErr := validation.PathUUID("id", chi.URLParam(request, "id"))
	if validationErr != nil {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErr)
		return
	}

	// Retrieve the old todo
	obj, err := service.Storage.Todos().GetByID(request.Context(), id)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if obj == nil {
		service.writer.WriteErrors(writer, http.StatusNotFound, schema.ErrNotFound)
		return
	}

	// Unmarshal and validate the request body
	payload, validationErrs, err := schema.UnmarshalBody[endpointEditTodoRequestPayload](request)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if len(validationErrs) > 0 {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErrs...)
		return
	}

	// Update the todo and return the new one
	newObj, err := service.Storage.Todos().Update(request.Context(), obj.ID, &todo.Update{
		Title: payload.Title,
		Done:  payload.Done,
	})
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	service.writer.WriteJSON(writer, newObj)
}

// EndpointDeleteTodo handles the 'DELETE /v1/todos/{id}' endpoint
func (service *Service) EndpointDeleteTodo(writer http.ResponseWriter, request *http.Request) {
	id, validationErr := validation.PathUUID("id", chi.URLParam(request, "id"))
	if validationErr != nil {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErr)
		return
	}

	obj, err := service.Storage.Todos().GetByID(request.Context(), id)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if obj == nil {
		service.writer.WriteErrors(writer, http.StatusNotFound, schema.ErrNotFound)
		return
	}

	if err := service.Storage.Todos().Delete(request.Context(), obj.ID); err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}

	writer.WriteHeader(http.StatusNoContent)
}
