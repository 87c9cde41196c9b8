// Package server exposes the task store over the JSON API the client consumes.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tgienger/todo/internal/models"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Store is the persistence the API needs
type Store interface {
	CreateTask(description string) (*models.Task, error)
	ListTasks() ([]models.Task, error)
	SetCompleted(id int64, completed bool) (string, error)
	UpdateDescription(id int64, description string) (string, error)
	DeleteTask(id int64) error
	TaskCount(completed bool) (int, error)
}

// Server serves the task API
type Server struct {
	store  Store
	log    *slog.Logger
	router *gin.Engine
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger used for access and error logs
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// New builds the router on top of store
func New(store Store, opts ...Option) *Server {
	s := &Server{store: store, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(s.log))

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/get_tasks", s.getTasks)
	api.POST("/add_task", s.addTask)
	api.PUT("/update_task/:id", s.updateTask)
	api.PUT("/edit_task/:id", s.editTask)
	api.DELETE("/delete_task/:id", s.deleteTask)

	s.router = r
	s.refreshGauge()
	return s
}

// Handler returns the HTTP handler for the API
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("Task API listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.log.Info("Shutting down task API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// refreshGauge publishes the current task counts by state
func (s *Server) refreshGauge() {
	for _, completed := range []bool{false, true} {
		n, err := s.store.TaskCount(completed)
		if err != nil {
			s.log.Warn("Failed to count tasks", "completed", completed, "error", err)
			continue
		}
		tasksGauge.WithLabelValues(stateLabel(completed)).Set(float64(n))
	}
}

func stateLabel(completed bool) string {
	if completed {
		return "completed"
	}
	return "pending"
}
