package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/obreasy/obreasy/pkg/alerts"
	"github.com/obreasy/obreasy/pkg/model"
	"github.com/obreasy/obreasy/pkg/storage"
)

// Server exposes the alert engine and project summaries over HTTP.
type Server struct {
	engine *alerts.Engine
	store  storage.Store
	mux    *http.ServeMux
	logger *slog.Logger
}

// NewServer creates an API server.
func NewServer(engine *alerts.Engine, store storage.Store, logger *slog.Logger) *Server {
	s := &Server{
		engine: engine,
		store:  store,
		mux:    http.NewServeMux(),
		logger: logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/v1/notifications", s.handleNotifications)
	s.mux.HandleFunc("POST /api/v1/notifications/{id}/read", s.handleMarkRead)
	s.mux.HandleFunc("POST /api/v1/projects/{project}/notifications/read-all", s.handleMarkAllRead)
	s.mux.HandleFunc("GET /api/v1/summary", s.handleSummary)
	s.mux.HandleFunc("POST /api/v1/check", s.handleCheck)
}

// Handler returns the HTTP handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	projectID := r.URL.Query().Get("project")
	if projectID == "" {
		http.Error(w, "missing project parameter", http.StatusBadRequest)
		return
	}

	var (
		notifications []model.Notification
		err           error
	)
	if r.URL.Query().Get("unread") == "true" {
		notifications, err = s.engine.UnreadNotifications(ctx, projectID)
	} else {
		notifications, err = s.engine.Notifications(ctx, projectID)
	}
	if err != nil {
		s.logger.Error("list notifications", "project", projectID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(notifications)
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	changed, err := s.engine.MarkRead(ctx, r.PathValue("id"))
	if err != nil {
		s.logger.Error("mark notification read", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"changed": changed})
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	changed, err := s.engine.MarkAllRead(ctx, r.PathValue("project"))
	if err != nil {
		s.logger.Error("mark all notifications read", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"changed": changed})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	projectID := r.URL.Query().Get("project")
	if projectID == "" {
		http.Error(w, "missing project parameter", http.StatusBadRequest)
		return
	}

	project, err := s.store.GetProject(ctx, projectID)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("get project", "project", projectID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	total, err := s.store.SumExpenses(ctx, projectID)
	if err != nil {
		s.logger.Error("sum expenses", "project", projectID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.ComputeMetrics(project, total))
}

// handleCheck runs an on-demand evaluation pass for one project and returns
// the notifications it produced.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	projectID := r.URL.Query().Get("project")
	if projectID == "" {
		http.Error(w, "missing project parameter", http.StatusBadRequest)
		return
	}

	project, err := s.store.GetProject(ctx, projectID)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("get project", "project", projectID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	total, err := s.store.SumExpenses(ctx, projectID)
	if err != nil {
		s.logger.Error("sum expenses", "project", projectID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	created, err := s.engine.CheckAll(ctx, projectID, project.BudgetBRL, total)
	if err != nil {
		// Partial failures still produce notifications; report what fired.
		s.logger.Error("check all alerts", "project", projectID, "error", err)
	}
	if created == nil {
		created = []model.Notification{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(created)
}

// RunPeriodicChecks evaluates every project's alerts on a fixed interval
// until the context is cancelled. This replaces the web client's
// check-on-page-load polling with an explicit tick.
func RunPeriodicChecks(ctx context.Context, engine *alerts.Engine, store storage.Store, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkAllProjects(ctx, engine, store, logger)
		}
	}
}

func checkAllProjects(ctx context.Context, engine *alerts.Engine, store storage.Store, logger *slog.Logger) {
	projects, err := store.ListProjects(ctx)
	if err != nil {
		logger.Error("list projects for periodic check", "error", err)
		return
	}

	for _, p := range projects {
		total, err := store.SumExpenses(ctx, p.ID)
		if err != nil {
			logger.Error("sum expenses for periodic check", "project", p.ID, "error", err)
			continue
		}
		if _, err := engine.CheckAll(ctx, p.ID, p.BudgetBRL, total); err != nil {
			logger.Error("periodic check", "project", p.ID, "error", err)
		}
	}
}
