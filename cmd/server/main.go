package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tasklet/task-server/internal/api"
	"github.com/tasklet/task-server/internal/config"
	"github.com/tasklet/task-server/internal/pagination"
	"github.com/tasklet/task-server/internal/retention"
	"github.com/tasklet/task-server/internal/storage"
	"github.com/tasklet/task-server/internal/storage/cache"
	"github.com/tasklet/task-server/internal/storage/memdb"
	"github.com/tasklet/task-server/internal/storage/postgres"
	"github.com/tasklet/task-server/internal/task"
)

func main() {
	// Set up zerolog to use pretty printing
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out: os.Stderr,
	})
	log.Info().Msg("starting up...")

	// Load the application configuration
	log.Info().Msg("loading configuration...")
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load the configuration")
	}
	if cfg.IsEnvProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Debug().Str("config", fmt.Sprintf("%+v", cfg)).Msg("")
	if cfg.MaxPageSize > 0 {
		pagination.MaxPageSize = cfg.MaxPageSize
	}

	// Initialize the configured storage driver
	var driver storage.Driver
	switch cfg.StorageDriver {
	case config.StorageDriverPostgres:
		log.Info().Msg("initializing database connection...")
		driver = postgres.New(cfg.PostgresDSN)
	case config.StorageDriverMemory:
		log.Warn().Msg("using the in-memory storage driver; data will not survive a restart")
		driver = memdb.New()
	default:
		log.Fatal().Str("driver", cfg.StorageDriver).Msg("unknown storage driver")
	}
	if err := driver.Initialize(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("could not initialize the storage driver")
	}
	defer driver.Close()

	// Wrap the storage driver inside the caching driver if caching is enabled
	if cfg.EnableCache {
		cachingDriver := cache.New(driver)
		if err := cachingDriver.Initialize(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("could not initialize the caching storage driver")
		}
		defer cachingDriver.Close()
		driver = cachingDriver
	}

	// Create the retention sweeper and schedule a task that runs it
	if cfg.CompletedRetention > 0 {
		sweeper := retention.NewSweeper(driver.Todos(), cfg.CompletedRetention)
		sweepingTask := task.NewRepeating(func() {
			n, err := sweeper.Sweep(context.Background())
			if err != nil {
				log.Error().Err(err).Msg("could not sweep completed todos")
			} else if n > 0 {
				log.Info().Uint64("amount", n).Msg("swept completed todos")
			}
		}, cfg.SweepInterval)
		sweepingTask.Start()
		defer sweepingTask.Stop(false)
	}

	// Start up the REST API
	log.Info().Str("rest_api", cfg.ListenAddress).Msg("starting up the REST API...")
	apis := &api.Service{
		Config:  cfg,
		Storage: driver,
	}
	apiErrs := make(chan error, 1)
	apis.Startup(apiErrs)
	go func() {
		err := <-apiErrs
		log.Fatal().Err(err).Msg("the API service raised an unexpected error")
	}()
	defer func() {
		log.Info().Msg("shutting down the REST API...")
		apis.Shutdown()
	}()

	log.Info().Msg("done!")
	defer log.Info().Msg("shutting down...")

	// Wait for the application to be terminated
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt)
	<-shutdown
}
