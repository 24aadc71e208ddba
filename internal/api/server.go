// Package api serves active projects, resources and to-do lists over HTTP.
//
// The server is read-only. Every request decodes fresh trees from the store,
// so no planner state is shared between requests.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/nibzard/capplan-go/internal/planner"
	"github.com/nibzard/capplan-go/internal/store"
)

// Server is the HTTP API.
type Server struct {
	store  store.Store
	logger *log.Logger
	router *mux.Router
}

// NewServer builds the routes under root, for example "/capplan/api/v1.0/".
func NewServer(s store.Store, logger *log.Logger, root string) *Server {
	srv := &Server{store: s, logger: logger, router: mux.NewRouter()}

	// Routes carry the full prefix so method mismatches reach
	// MethodNotAllowedHandler.
	prefix := ""
	if trimmed := strings.Trim(root, "/"); trimmed != "" {
		prefix = "/" + trimmed
	}
	srv.router.HandleFunc(prefix+"/projects", srv.handleProjects).Methods(http.MethodGet)
	srv.router.HandleFunc(prefix+"/projects/{id:[0-9]+}", srv.handleProject).Methods(http.MethodGet)
	srv.router.HandleFunc(prefix+"/resources", srv.handleResources).Methods(http.MethodGet)
	srv.router.HandleFunc(prefix+"/todo/{resource}", srv.handleTodo).Methods(http.MethodGet)

	srv.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	srv.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	srv.router.Use(srv.logRequests)
	return srv
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	recs, err := store.ActiveProjects(r.Context(), s.store)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	docs := make([]*planner.Document, 0, len(recs))
	for _, rec := range recs {
		docs = append(docs, rec.Document)
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": docs})
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	rec, err := store.ActiveProject(r.Context(), s.store, id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"project": rec.Document})
}

func (s *Server) handleResources(w http.ResponseWriter, r *http.Request) {
	projects, err := s.activeProjects(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"resources": planner.ResourceList(projects).Sorted()})
}

func (s *Server) handleTodo(w http.ResponseWriter, r *http.Request) {
	projects, err := s.activeProjects(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	resource := mux.Vars(r)["resource"]
	tasks := planner.TodoList(projects, planner.NewResourceSet(resource), true)
	writeJSON(w, http.StatusOK, map[string]any{"todo": planner.SerializeTasks(tasks)})
}

// activeProjects decodes every active project. Stored documents keep their
// planned dates, so the trees are not re-planned here.
func (s *Server) activeProjects(ctx context.Context) ([]*planner.Project, error) {
	recs, err := store.ActiveProjects(ctx, s.store)
	if err != nil {
		return nil, err
	}
	projects := make([]*planner.Project, 0, len(recs))
	for _, rec := range recs {
		p, err := planner.DeserializeProject(rec.Document)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
