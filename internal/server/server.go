// Package server exposes the library over a local HTTP API so editors and
// scripts can query and edit records without shelling out to the CLI.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ncukondo/reference-manager-sub005/internal/library"
	"github.com/ncukondo/reference-manager-sub005/internal/reference"
	"github.com/ncukondo/reference-manager-sub005/internal/search"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	lib      *library.Library
	fulltext search.FulltextLookup
	router   *chi.Mux
	logger   *slog.Logger
}

// NewServer creates an HTTP server over an open library. The fulltext lookup
// is optional; pass nil when no cache is available.
func NewServer(lib *library.Library, fulltext search.FulltextLookup, logger *slog.Logger) *Server {
	s := &Server{
		lib:      lib,
		fulltext: fulltext,
		router:   chi.NewRouter(),
		logger:   logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/references", func(r chi.Router) {
			r.Get("/", s.handleSearch)
			r.Post("/", s.handleAdd)
			r.Get("/{id}", s.handleGet)
			r.Patch("/{id}", s.handleUpdate)
			r.Delete("/{id}", s.handleDelete)
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleSearch runs the query from ?q= over the library; with no query it
// lists everything. Supports ?sort=, ?limit=, ?offset=.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := search.Options{
		Query:    q.Get("q"),
		Fulltext: s.fulltext,
	}
	if sort := q.Get("sort"); sort != "" {
		key, ok := search.ParseSortKey(sort)
		if !ok {
			s.respondError(w, http.StatusBadRequest, "invalid sort key: "+sort)
			return
		}
		opts.Sort = key
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		opts.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.respondError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		opts.Offset = n
	}

	s.respond(w, http.StatusOK, search.Run(s.lib.All(), opts))
}

// handleAdd accepts a single record or an array of records and runs them
// through the normal add pipeline, duplicate detection included.
// ?force=true bypasses duplicate detection.
func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	body, err := decodeCandidates(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(body) == 0 {
		s.respondError(w, http.StatusBadRequest, "no records in request body")
		return
	}

	force := r.URL.Query().Get("force") == "true"
	outcome, err := s.lib.Add(body, force)
	if err != nil {
		s.logger.Error("add failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to add records")
		return
	}

	status := http.StatusCreated
	if len(outcome.Added) == 0 {
		status = http.StatusOK
	}
	s.respond(w, status, outcome)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	ref, ok := s.lib.Get(chi.URLParam(r, "id"))
	if !ok {
		s.respondError(w, http.StatusNotFound, "reference not found")
		return
	}
	s.respond(w, http.StatusOK, ref)
}

// handleUpdate replaces the bibliographic fields of a record. Identity
// fields (id, uuid, creation time) are preserved by the library layer.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body reference.Reference
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid record body: "+err.Error())
		return
	}

	ref, err := s.lib.Update(id, func(ref *reference.Reference) error {
		*ref = body
		return nil
	})
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "reference not found")
			return
		}
		s.logger.Error("update failed", "error", err, "id", id)
		s.respondError(w, http.StatusInternalServerError, "failed to update reference")
		return
	}
	s.respond(w, http.StatusOK, ref)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ref, err := s.lib.Remove(id)
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "reference not found")
			return
		}
		s.logger.Error("delete failed", "error", err, "id", id)
		s.respondError(w, http.StatusInternalServerError, "failed to delete reference")
		return
	}
	s.respond(w, http.StatusOK, ref)
}

// decodeCandidates accepts either one record object or an array of them.
func decodeCandidates(r *http.Request) ([]reference.Reference, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, errors.New("invalid JSON body")
	}

	var many []reference.Reference
	if err := json.Unmarshal(raw, &many); err == nil {
		return many, nil
	}

	var one reference.Reference
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, errors.New("body must be a record or an array of records")
	}
	return []reference.Reference{one}, nil
}

func (s *Server) respond(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respond(w, status, map[string]string{"error": msg})
}
