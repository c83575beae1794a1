package server

import (
	"context"
	"net/http"
	"runtime/debug"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bowmanhq/bowman/pkg/cache"
	"github.com/bowmanhq/bowman/pkg/errors"
	"github.com/bowmanhq/bowman/pkg/observability"
	"github.com/bowmanhq/bowman/pkg/store"
)

// requestLogger logs one line per request and reports it to the request
// hooks under its route pattern.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		d := time.Since(start)
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "duration", d)
		observability.Request().OnRequest(r.Context(), r.Method, route, status, d)
	})
}

// recoverer turns handler panics into 500 responses.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				s.logger.Error("panic", "path", r.URL.Path, "recovered", v, "stack", string(debug.Stack()))
				writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Internal server error", Code: errors.ErrCodeInternal})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// cors answers preflight requests and sets the allow headers. With no
// configured origins every origin is allowed.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case len(s.origins) == 0:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case slices.Contains(s.origins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET,HEAD,PUT,PATCH,POST,DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type repoScopeKey struct{}

// repoScope is the store and keyer a request was admitted with.
type repoScope struct {
	store store.Store
	keyer cache.Keyer
}

// requireRepo rejects requests until a repository is selected and pins
// the selected store to the request context.
func (s *Server) requireRepo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st, keyer, err := s.current()
		if err != nil {
			s.writeError(w, r, err, "")
			return
		}
		ctx := context.WithValue(r.Context(), repoScopeKey{}, repoScope{store: st, keyer: keyer})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// scope returns the store pinned by requireRepo, falling back to the
// currently selected one.
func (s *Server) scope(r *http.Request) (store.Store, cache.Keyer, error) {
	if sc, ok := r.Context().Value(repoScopeKey{}).(repoScope); ok {
		return sc.store, sc.keyer, nil
	}
	return s.current()
}
