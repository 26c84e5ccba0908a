// Package server exposes the task collection over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/existflow/tasktrack/internal/clock"
	"github.com/existflow/tasktrack/internal/logger"
	"github.com/existflow/tasktrack/internal/store"
	"github.com/existflow/tasktrack/internal/timer"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/text/language"
)

// ShutdownTimeout bounds how long Run waits for in-flight requests
const ShutdownTimeout = 5 * time.Second

// Option configures a Server
type Option func(*Server)

// WithClock sets the clock used for validation and the default calendar month
func WithClock(c clock.Clock) Option {
	return func(s *Server) { s.clock = c }
}

// WithLanguage sets the collation used for title sorting
func WithLanguage(tag language.Tag) Option {
	return func(s *Server) { s.lang = tag }
}

// WithTimers sets the registry backing the timer endpoints
func WithTimers(r *timer.Registry) Option {
	return func(s *Server) { s.timers = r }
}

// Server is the task API server
type Server struct {
	store      *store.Store
	timers     *timer.Registry
	ownsTimers bool
	clock      clock.Clock
	lang       language.Tag
	echo       *echo.Echo
	unbind     func()
}

// New creates a server over st
func New(st *store.Store, opts ...Option) *Server {
	s := &Server{
		store: st,
		clock: clock.Real{},
		lang:  language.English,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.timers == nil {
		s.timers = timer.NewRegistry(st)
		s.ownsTimers = true
		s.unbind = s.timers.Bind(st)
	}

	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(requestLogger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	// Health check
	e.GET("/health", s.handleHealth)

	// API v1
	api := e.Group("/api/v1")

	api.GET("/tasks", s.handleListTasks)
	api.POST("/tasks", s.handleCreateTask)
	api.DELETE("/tasks", s.handleClearTasks)
	api.GET("/tasks/:id", s.handleGetTask)
	api.PATCH("/tasks/:id", s.handleUpdateTask)
	api.DELETE("/tasks/:id", s.handleDeleteTask)
	api.POST("/tasks/:id/toggle", s.handleToggleTask)

	api.PUT("/tasks/:id/timer", s.handleSetTimer)
	api.DELETE("/tasks/:id/timer", s.handleResetTimer)
	api.POST("/tasks/:id/timer/:action", s.handleTimerAction)

	api.GET("/calendar", s.handleCalendar)
	api.GET("/counts", s.handleCounts)
	api.POST("/recompute", s.handleRecompute)

	s.echo = e
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server and blocks until it stops
func (s *Server) Start(addr string) error {
	logger.Info("API server listening", logger.F("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Run serves on addr until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("API server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return <-errCh
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Close releases the timers the server created itself
func (s *Server) Close() error {
	if s.ownsTimers {
		s.unbind()
		s.timers.Close()
	}
	return nil
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
