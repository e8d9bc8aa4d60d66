package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Tomlord1122/todo-list/internal/config"
	"github.com/Tomlord1122/todo-list/internal/database"
	"github.com/Tomlord1122/todo-list/internal/service"
)

type Server struct {
	todoService    service.TodoService
	db             database.Service
	logger         *log.Logger
	allowedOrigins []string
}

// NewServer wires the todo API onto an *http.Server listening on cfg.Port.
func NewServer(cfg config.Config, todoService service.TodoService, dbService database.Service, logger *log.Logger) *http.Server {
	appServer := &Server{
		todoService:    todoService,
		db:             dbService,
		logger:         logger,
		allowedOrigins: cfg.CORS.AllowedOrigins,
	}

	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
