package server

import (
	"net/http"
	"strings"

	"github.com/bowmanhq/bowman/pkg/aim"
	"github.com/bowmanhq/bowman/pkg/errors"
	"github.com/bowmanhq/bowman/pkg/store"
)

type selectRepoRequest struct {
	Path     string     `json:"path"`
	AutoInit bool       `json:"autoInit"`
	RootAim  *aim.Draft `json:"rootAim"`
}

type selectRepoResponse struct {
	Success     bool   `json:"success"`
	Path        string `json:"path"`
	Initialized bool   `json:"initialized,omitempty"`
}

// handleSelectRepo selects a repository, initializing it first when the
// client asks for it.
func (s *Server) handleSelectRepo(w http.ResponseWriter, r *http.Request) {
	var req selectRepoRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	if err := errors.ValidateRepoPath(req.Path); err != nil {
		s.writeError(w, r, err, "")
		return
	}

	if !store.Exists(req.Path) {
		if req.AutoInit && req.RootAim != nil {
			fs, _, err := store.Init(r.Context(), req.Path, *req.RootAim, store.WithLogger(s.logger))
			if err != nil {
				s.writeError(w, r, err, "Failed to initialize .quiver directory")
				return
			}
			s.selectStore(req.Path, fs)
			writeJSON(w, http.StatusOK, selectRepoResponse{Success: true, Path: req.Path, Initialized: true})
			return
		}
		writeJSON(w, http.StatusNotFound, errorBody{
			Error:                  "No .quiver directory found in the specified path",
			Code:                   errors.ErrCodeRepoNotInitialized,
			RequiresInitialization: true,
		})
		return
	}

	fs, err := store.Open(req.Path, store.WithLogger(s.logger))
	if err != nil {
		s.writeError(w, r, err, "Failed to access repository")
		return
	}
	s.selectStore(req.Path, fs)
	writeJSON(w, http.StatusOK, selectRepoResponse{Success: true, Path: req.Path})
}

// handleGetRepo returns the selected path, or null.
func (s *Server) handleGetRepo(w http.ResponseWriter, _ *http.Request) {
	var path *string
	if p := s.Repo(); p != "" {
		path = &p
	}
	writeJSON(w, http.StatusOK, map[string]*string{"path": path})
}

type initRepoRequest struct {
	Path    string     `json:"path"`
	RootAim *aim.Draft `json:"rootAim"`
}

type initRepoResponse struct {
	Success   bool   `json:"success"`
	Path      string `json:"path"`
	RootAimID aim.ID `json:"rootAimId"`
}

// handleInitRepo creates a .quiver directory without selecting it.
func (s *Server) handleInitRepo(w http.ResponseWriter, r *http.Request) {
	var req initRepoRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	if err := errors.ValidateRepoPath(req.Path); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	if req.RootAim == nil || strings.TrimSpace(req.RootAim.Title) == "" || strings.TrimSpace(req.RootAim.Description) == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "Root aim title and description are required"), "")
		return
	}

	fs, id, err := store.Init(r.Context(), req.Path, *req.RootAim, store.WithLogger(s.logger))
	if err != nil {
		s.writeError(w, r, err, "Failed to initialize .quiver directory")
		return
	}
	_ = fs.Close()
	writeJSON(w, http.StatusOK, initRepoResponse{Success: true, Path: req.Path, RootAimID: id})
}

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	st, _, err := s.scope(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	meta, err := st.Meta(r.Context())
	if err != nil {
		s.writeError(w, r, err, "Meta file not found")
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	st, _, err := s.scope(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	tags, err := st.Tags(r.Context())
	if err != nil {
		s.writeError(w, r, err, "Failed to get tags")
		return
	}
	writeJSON(w, http.StatusOK, tags)
}
