package api

import (
	"errors"
	"net/http"

	"github.com/tasklet/task-server/internal/api/rest"
	"github.com/tasklet/task-server/internal/config"
	"github.com/tasklet/task-server/internal/storage"
)

// Service represents the REST API service
type Service struct {
	Config  *config.Config
	Storage storage.Driver
	rest    *rest.Service
}

// Startup starts up the REST API
func (service *Service) Startup(errs chan<- error) {
	restService := &rest.Service{
		Config:  service.Config,
		Storage: service.Storage,
	}
	service.rest = restService
	go func() {
		if err := restService.Startup(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()
}

// Shutdown shuts down the REST API
func (service *Service) Shutdown() {
	if service.rest != nil {
		service.rest.Shutdown()
		service.rest = nil
	}
}
