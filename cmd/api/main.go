package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"

	"github.com/Tomlord1122/todo-list/internal/config"
	"github.com/Tomlord1122/todo-list/internal/database"
	"github.com/Tomlord1122/todo-list/internal/logging"
	"github.com/Tomlord1122/todo-list/internal/repository"
	"github.com/Tomlord1122/todo-list/internal/server"
	"github.com/Tomlord1122/todo-list/internal/service"
)

func gracefulShutdown(apiServer *http.Server, dbService database.Service, logger *log.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The server has 5 seconds to finish the requests it is handling.
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		logger.Error("server forced to shutdown", "err", err)
	}

	if err := dbService.Close(); err != nil {
		logger.Error("closing store connection", "err", err)
	}

	logger.Info("server exiting")
	done <- true
}

// openStore connects to the configured store and returns the repository
// that sits on top of it.
func openStore(ctx context.Context, cfg config.Config, logger *log.Logger) (database.Service, repository.TodoRepository, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgres(cfg.Postgres, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("running database auto-migration")
		if err := repository.AutoMigrate(db.GetDB()); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("auto-migrate: %w", err)
		}
		return db, repository.NewGormTodoRepository(db.GetDB()), nil

	case config.DriverMongo:
		db, err := database.NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, nil, err
		}
		return db, repository.NewMongoTodoRepository(db.Collection()), nil

	case config.DriverMemory:
		logger.Warn("using in-memory store, todos are lost on restart")
		return database.NewMemory(), repository.NewMemoryTodoRepository(), nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func main() {
	configPath := flag.String("config", os.Getenv("TODO_CONFIG"), "path to a TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("loading configuration", "err", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	dbService, todoRepo, err := openStore(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("opening store", "driver", cfg.Store.Driver, "err", err)
	}
	logger.Info("store ready", "driver", cfg.Store.Driver)

	todoService := service.NewTodoService(todoRepo, logger)
	apiServer := server.NewServer(cfg, todoService, dbService, logger)

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, dbService, logger, done)

	logger.Info("starting server", "addr", apiServer.Addr)
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("http server", "err", err)
	}

	<-done
	logger.Info("graceful shutdown complete")
}
