package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bowmanhq/bowman/pkg/aim"
	"github.com/bowmanhq/bowman/pkg/store"
)

type createAimResponse struct {
	Success bool   `json:"success"`
	AimID   aim.ID `json:"aimId"`
}

func (s *Server) handleListAims(w http.ResponseWriter, r *http.Request) {
	st, _, err := s.scope(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	aims, err := st.Aims(r.Context())
	if err != nil {
		s.writeError(w, r, err, "Failed to read aims")
		return
	}
	writeJSON(w, http.StatusOK, aims)
}

func (s *Server) handleGetAim(w http.ResponseWriter, r *http.Request) {
	st, _, err := s.scope(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	a, err := st.Aim(r.Context(), chi.URLParam(r, "aimId"))
	if err != nil {
		s.writeError(w, r, err, "Aim not found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleCreateAim(w http.ResponseWriter, r *http.Request) {
	var d aim.Draft
	if err := decodeBody(r, &d); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	st, _, err := s.scope(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	id, err := st.CreateAim(r.Context(), d)
	if err != nil {
		s.writeError(w, r, err, "Failed to create aim")
		return
	}
	writeJSON(w, http.StatusOK, createAimResponse{Success: true, AimID: id})
}

func (s *Server) handleUpdateAim(w http.ResponseWriter, r *http.Request) {
	var p aim.Patch
	if err := decodeBody(r, &p); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	st, _, err := s.scope(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	if _, err := st.UpdateAim(r.Context(), chi.URLParam(r, "aimId"), p); err != nil {
		s.writeError(w, r, err, "Failed to update aim")
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

type searchRequest struct {
	Text  string   `json:"text"`
	Tags  []string `json:"tags"`
	Limit *int     `json:"limit"`
}

// handleSearch filters aims. An omitted limit means the default; an
// explicit limit of zero or less matches nothing.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	st, _, err := s.scope(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	q := store.Query{Text: req.Text, Tags: req.Tags, Limit: store.DefaultSearchLimit}
	if req.Limit != nil {
		if *req.Limit <= 0 {
			writeJSON(w, http.StatusOK, []aim.Aim{})
			return
		}
		q.Limit = *req.Limit
	}
	aims, err := st.Search(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err, "Failed to search aims")
		return
	}
	writeJSON(w, http.StatusOK, aims)
}

// handleContributions lists incoming ("from") contributions or outgoing
// ("to") references.
func (s *Server) handleContributions(w http.ResponseWriter, r *http.Request) {
	dir, err := store.ParseDirection(chi.URLParam(r, "direction"))
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	st, _, err := s.scope(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	list, err := store.Contributions(r.Context(), st, chi.URLParam(r, "aimId"), dir)
	if err != nil {
		s.writeError(w, r, err, "Failed to read contributions")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateContribution(w http.ResponseWriter, r *http.Request) {
	var c aim.Contribution
	if err := decodeBody(r, &c); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	st, _, err := s.scope(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	if err := st.CreateContribution(r.Context(), c); err != nil {
		s.writeError(w, r, err, "Failed to create contribution")
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}
