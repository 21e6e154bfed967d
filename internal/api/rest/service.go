package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	"github.com/tasklet/task-server/internal/api/schema"
	"github.com/tasklet/task-server/internal/config"
	"github.com/tasklet/task-server/internal/storage"
)

// Service represents the REST API service
type Service struct {
	server *http.Server

	Config *config.Config

	Storage storage.Driver

	writer *schema.Writer
}

// Startup starts up the REST API
func (service *Service) Startup() error {
	server := &http.Server{
		Addr:    service.Config.ListenAddress,
		Handler: service.Router(),
	}
	service.server = server
	return server.ListenAndServe()
}

// Shutdown shuts down the REST API
func (service *Service) Shutdown() {
	if service.server != nil {
		service.server.Close()
		service.server = nil
	}
}

// Router builds the HTTP handler of the REST API.
// It is called by Startup and is exposed separately so tests can serve the
// service through httptest without binding a listener.
func (service *Service) Router() http.Handler {
	// Create the HTTP schema writer
	service.writer = &schema.Writer{
		InternalErrorHook: func(err error) {
			log.Error().Err(err).Msg("the REST API experienced an unexpected error")
		},
	}

	// Create the HTTP router
	router := chi.NewRouter()
	router.Use(middleware.RedirectSlashes)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{service.Config.AllowedOrigin},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))
	router.Use(middlewareLogRequests)
	router.NotFound(func(writer http.ResponseWriter, _ *http.Request) {
		service.writer.WriteErrors(writer, http.StatusNotFound, schema.ErrNotFound)
	})
	router.MethodNotAllowed(func(writer http.ResponseWriter, _ *http.Request) {
		service.writer.WriteErrors(writer, http.StatusMethodNotAllowed, schema.ErrMethodNotAllowed)
	})

	// Register the hello-world endpoint
	router.Get("/v1/hello", service.EndpointHello)

	// Register the todo list controller endpoints
	router.Get("/v1/lists", service.EndpointGetLists)
	router.Post("/v1/lists", service.EndpointCreateList)
	router.Get("/v1/lists/{id}", service.EndpointGetList)
	router.Patch("/v1/lists/{id}", service.EndpointEditList)
	router.Delete("/v1/lists/{id}", service.EndpointDeleteList)

	// Register the todo controller endpoints
	router.Get("/v1/todos", service.EndpointGetTodos)
	router.Post("/v1/todos", service.EndpointCreateTodo)
	router.Get("/v1/todos/{id}", service.EndpointGetTodo)
	router.Patch("/v1/todos/{id}", service.EndpointEditTodo)
	router.Delete("/v1/todos/{id}", service.EndpointDeleteTodo)

	return router
}

func middlewareLogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		start := time.Now()
		next.ServeHTTP(writer, request)
		log.Debug().
			Str("method", request.Method).
			Str("path", request.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("handled request")
	})
}
