// Package server is the read-only dashboard over the status record: an
// HTML page with auto-refresh plus small JSON APIs. It never writes the
// record; the atomic replace on the writer side keeps reads torn-free.
package server

import (
	"context"
	"errors"
	"mirrorsync/internal/config"
	"mirrorsync/internal/logger"
	"mirrorsync/internal/repository"
	"mirrorsync/internal/store"
	"net/http"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Server struct {
	echo     *echo.Echo
	histRepo *repository.HistoryRepository

	mu      sync.RWMutex
	cfg     *config.Config
	cfgPath string

	watcher *fsnotify.Watcher
}

func New(cfg *config.Config, cfgPath string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:     e,
		histRepo: repository.NewHistoryRepository(),
		cfg:      cfg,
		cfgPath:  cfgPath,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/", s.handleDashboard)
	s.echo.GET("/api/status", s.handleStatus)
	s.echo.GET("/api/jobs", s.handleJobs)
	s.echo.GET("/api/history", s.handleHistory)
	s.echo.GET("/healthz", s.handleHealth)
}

func (s *Server) Start() error {
	if s.cfgPath != "" {
		if err := s.watchConfig(); err != nil {
			logger.Log.Warn("config reload disabled",
				zap.Error(err))
		}
	}

	go func() {
		addr := ":" + strconv.Itoa(s.config().Settings.Web.Port)
		logger.Log.Info("dashboard server started",
			zap.String("addr", addr))

		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("dashboard server error", zap.Error(err))
		}
	}()

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}

	return s.echo.Shutdown(ctx)
}

func (s *Server) config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// watchConfig reloads the job list when the config file changes, so edits
// show up on the dashboard without a restart. Watches the directory rather
// than the file because most editors replace the file on save.
func (s *Server) watchConfig() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(filepath.Dir(s.cfgPath)); err != nil {
		_ = watcher.Close()
		return err
	}

	s.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if filepath.Clean(event.Name) != filepath.Clean(s.cfgPath) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}

				cfg, err := config.Load(s.cfgPath)
				if err != nil {
					logger.Log.Warn("ignoring config change",
						zap.Error(err))
					continue
				}

				s.mu.Lock()
				s.cfg = cfg
				s.mu.Unlock()

				logger.Log.Info("config reloaded",
					zap.Int("jobs", len(cfg.SyncJobs)))

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Log.Warn("config watcher error", zap.Error(err))
			}
		}
	}()

	return nil
}

type jobView struct {
	Name        string   `json:"name"`
	Source      string   `json:"source"`
	Destination string   `json:"destination"`
	Enabled     bool     `json:"enabled"`
	Exclude     []string `json:"exclude,omitempty"`
}

func (s *Server) jobViews() []jobView {
	cfg := s.config()

	views := make([]jobView, 0, len(cfg.SyncJobs))
	for _, job := range cfg.SyncJobs {
		views = append(views, jobView{
			Name:        job.Name,
			Source:      job.Source,
			Destination: job.Destination,
			Enabled:     job.IsEnabled(),
			Exclude:     job.Exclude,
		})
	}

	return views
}

func (s *Server) handleStatus(c echo.Context) error {
	record, err := store.Load(s.config().Settings.StatusPath)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status": record,
		"jobs":   s.jobViews(),
	})
}

func (s *Server) handleJobs(c echo.Context) error {
	return c.JSON(http.StatusOK, s.jobViews())
}

func (s *Server) handleHistory(c echo.Context) error {
	n := 20
	if nStr := c.QueryParam("n"); nStr != "" {
		if parsed, err := strconv.Atoi(nStr); err == nil && parsed > 0 {
			n = parsed
		}
	}

	var err error
	var histories any
	if job := c.QueryParam("job"); job != "" {
		histories, err = s.histRepo.GetByJob(job, n)
	} else {
		histories, err = s.histRepo.GetRecent(n)
	}

	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, histories)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
