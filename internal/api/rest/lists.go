package rest

import (
	"math"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/tasklet/task-server/internal/api/schema"
	"github.com/tasklet/task-server/internal/api/validation"
	"github.com/tasklet/task-server/internal/pagination"
	"github.com/tasklet/task-server/internal/todolist"
)

// EndpointGetLists handles the 'GET /v1/lists?name={string?}&page={number?:1}&size={number?:10}' endpoint
func (service *Service) EndpointGetLists(writer http.ResponseWriter, request *http.Request) {
	var validationErrs []*schema.Error

	name := strings.TrimSpace(request.URL.Query().Get("name"))

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

	filter := &todolist.Filter{}
	if name != "" {
		filter.Name = &name
	}

	result, err := service.Storage.Lists().Get(request.Context(), filter, pagination.Request{Page: int(page), Size: int(size)})
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}

	service.writer.WriteJSON(writer, result)
}

type endpointCreateListRequestPayload struct {
	Name string `json:"name" validate:"required,max=255"`
}

// EndpointCreateList handles the 'POST /v1/lists' endpoint
func (service *Service) EndpointCreateList(writer http.ResponseWriter, request *http.Request) {
	payload, validationErrs, err := schema.UnmarshalBody[endpointCreateListRequestPayload](request)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if len(validationErrs) > 0 {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErrs...)
		return
	}

	obj, err := service.Storage.Lists().Create(request.Context(), &todolist.Create{
		Name: payload.Name,
	})
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}

	service.writer.WriteJSONCode(writer, http.StatusCreated, obj)
}

// EndpointGetList handles the 'GET /v1/lists/{id}' endpoint
func (service *Service) EndpointGetList(writer http.ResponseWriter, request *http.Request) {
	id, validationErr := validation.PathUUID("id", chi.URLParam(request, "id"))
	if validationErr != nil {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErr)
		return
	}

	obj, err := service.Storage.Lists().GetByID(request.Context(), id)
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

type endpointEditListRequestPayload struct {
	Name *string `json:"name" validate:"omitempty,max=255"`
}

// EndpointEditList handles the 'PATCH /v1/lists/{id}' endpoint
func (service *Service) EndpointEditList(writer http.ResponseWriter, request *http.Request) {
	id, validationErr := validation.PathUUID("id", chi.URLParam(request, "id"))
	if validationErr != nil {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErr)
		return
	}

	// Retrieve the old todo list
	obj, err := service.Storage.Lists().GetByID(request.Context(), id)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if obj == nil {
		service.writer.WriteErrors(writer, http.StatusNotFound, schema.ErrNotFound)
		return
	}

	// Unmarshal and validate the request body
	payload, validationErrs, err := schema.UnmarshalBody[endpointEditListRequestPayload](request)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if len(validationErrs) > 0 {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErrs...)
		return
	}

	// Update the todo list and return the new one
	newObj, err := service.Storage.Lists().Update(request.Context(), obj.ID, &todolist.Update{
		Name: payload.Name,
	})
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	service.writer.WriteJSON(writer, newObj)
}

// EndpointDeleteList handles the 'DELETE /v1/lists/{id}' endpoint
func (service *Service) EndpointDeleteList(writer http.ResponseWriter, request *http.Request) {
	id, validationErr := validation.PathUUID("id", chi.URLParam(request, "id"))
	if validationErr != nil {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErr)
		return
	}

	obj, err := service.Storage.Lists().GetByID(request.Context(), id)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if obj == nil {
		service.writer.WriteErrors(writer, http.StatusNotFound, schema.ErrNotFound)
		return
	}

	if err := service.Storage.Lists().Delete(request.Context(), obj.ID); err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}

	writer.WriteHeader(http.StatusNoContent)
}
