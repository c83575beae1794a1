// Package server exposes a repository over a JSON REST API.
//
// The server starts without a repository unless one is configured. Clients
// select one with POST /api/repo; every other /api route answers 400
// "No repository selected" until then. Errors are written as
//
//	{"error": "<message>", "code": "<ERROR_CODE>"}
//
// with the HTTP status derived from the code (see [statusFor]).
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/bowmanhq/bowman/pkg/cache"
	"github.com/bowmanhq/bowman/pkg/errors"
	"github.com/bowmanhq/bowman/pkg/store"
)

// Options configures a Server.
type Options struct {
	Logger *log.Logger

	// Cache memoizes rendered maps. Nil disables caching.
	Cache    cache.Cache
	CacheTTL time.Duration

	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string

	// Store, when set, is selected at startup under the label RepoPath.
	// Otherwise a non-empty RepoPath is opened as a file store.
	Store    store.Store
	RepoPath string
}

// Server holds the selected repository and serves the API.
type Server struct {
	logger  *log.Logger
	cache   cache.Cache
	ttl     time.Duration
	origins []string

	upgrader websocket.Upgrader

	mu    sync.RWMutex
	repo  string
	store store.Store
	keyer cache.Keyer
}

// New creates a server. A configured RepoPath that cannot be opened is an
// error.
func New(opts Options) (*Server, error) {
	s := &Server{
		logger:  opts.Logger,
		cache:   opts.Cache,
		ttl:     opts.CacheTTL,
		origins: opts.AllowedOrigins,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}

	switch {
	case opts.Store != nil:
		s.selectStore(opts.RepoPath, opts.Store)
	case opts.RepoPath != "":
		fs, err := store.Open(opts.RepoPath, store.WithLogger(s.logger))
		if err != nil {
			return nil, err
		}
		s.selectStore(opts.RepoPath, fs)
	}
	return s, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.recoverer)
	r.Use(s.requestLogger)
	r.Use(s.cors)

	r.Route("/api", func(r chi.Router) {
		r.Post("/repo", s.handleSelectRepo)
		r.Get("/repo", s.handleGetRepo)
		r.Post("/repo/init", s.handleInitRepo)

		r.Group(func(r chi.Router) {
			r.Use(s.requireRepo)

			r.Get("/meta", s.handleMeta)
			r.Get("/tags", s.handleTags)

			r.Get("/aims", s.handleListAims)
			r.Post("/aims", s.handleCreateAim)
			r.Post("/aims/search", s.handleSearch)
			r.Get("/aims/{aimId}", s.handleGetAim)
			r.Put("/aims/{aimId}", s.handleUpdateAim)
			r.Get("/aims/{aimId}/contributions/{direction}", s.handleContributions)
			r.Post("/contributions", s.handleCreateContribution)

			r.Get("/map.svg", s.handleMapSVG)
			r.Get("/map.dot", s.handleMapDOT)
		})

		r.Get("/flows/path", s.handleFlowPath)
	})
	r.Get("/ws", s.handleWS)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return s.Close()
}

// Close releases the selected store.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	err := s.store.Close()
	s.repo, s.store, s.keyer = "", nil, nil
	return err
}

// Repo returns the selected repository path, or "".
func (s *Server) Repo() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repo
}

func (s *Server) selectStore(path string, st store.Store) {
	s.mu.Lock()
	prev := s.store
	s.repo, s.store = path, st
	s.keyer = cache.NewScopedKeyer(nil, cache.RepoPrefix(path))
	s.mu.Unlock()

	if prev != nil && prev != st {
		if err := prev.Close(); err != nil {
			s.logger.Warn("close previous store", "err", err)
		}
	}
	s.logger.Info("repository selected", "path", path)
}

// current returns the selected store and its cache keyer.
func (s *Server) current() (store.Store, cache.Keyer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil, nil, errors.New(errors.ErrCodeRepoNotSelected, "No repository selected")
	}
	return s.store, s.keyer, nil
}
