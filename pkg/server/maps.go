package server

import (
	"net/http"
	"strconv"

	"github.com/bowmanhq/bowman/pkg/errors"
	"github.com/bowmanhq/bowman/pkg/geom/connector"
	"github.com/bowmanhq/bowman/pkg/geom/vec2"
	"github.com/bowmanhq/bowman/pkg/render/aimmap"
	"github.com/bowmanhq/bowman/pkg/render/nodelink"
	"github.com/bowmanhq/bowman/pkg/store"
)

// handleMapSVG renders the aim map. Query flags: labels=false,
// colors=false, padding=<n>.
func (s *Server) handleMapSVG(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := []aimmap.Option{
		aimmap.WithLabels(q.Get("labels") != "false"),
		aimmap.WithStatusColors(q.Get("colors") != "false"),
	}
	if p := q.Get("padding"); p != "" {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || v < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "padding must be a non-negative number"), "")
			return
		}
		opts = append(opts, aimmap.WithPadding(v))
	}

	st, keyer, err := s.scope(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	g, err := store.LoadGraph(r.Context(), st)
	if err != nil {
		s.writeError(w, r, err, "Failed to load aims")
		return
	}
	svg, err := aimmap.Cached(r.Context(), s.cache, keyer, s.ttl, g, opts...)
	if err != nil {
		s.writeError(w, r, err, "Failed to render map")
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

// handleMapDOT exports the graph as DOT, or as Graphviz SVG with
// format=svg. detailed=true adds status, effort and strengths.
func (s *Server) handleMapDOT(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := nodelink.Options{Detailed: q.Get("detailed") == "true"}

	st, keyer, err := s.scope(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	g, err := store.LoadGraph(r.Context(), st)
	if err != nil {
		s.writeError(w, r, err, "Failed to load aims")
		return
	}
	dot, err := nodelink.Cached(r.Context(), s.cache, keyer, s.ttl, g, opts)
	if err != nil {
		s.writeError(w, r, err, "Failed to export graph")
		return
	}

	if q.Get("format") == "svg" {
		svg, err := nodelink.RenderSVG(r.Context(), string(dot))
		if err != nil {
			s.writeError(w, r, err, "Failed to render graph")
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(svg)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.Write(dot)
}

type flowPathResponse struct {
	Path string `json:"path"`
}

// handleFlowPath computes a single connector band from query parameters
// fx, fy, fr (source circle), ix, iy, ir (receiving circle) and width. It
// needs no repository. Overlapping circles yield an empty path.
func (s *Server) handleFlowPath(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var vals [7]float64
	for i, name := range []string{"fx", "fy", "fr", "ix", "iy", "ir", "width"} {
		v, err := strconv.ParseFloat(q.Get(name), 64)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "query parameter %s must be a number", name), "")
			return
		}
		vals[i] = v
	}
	from := connector.Circle{Pos: vec2.FromValues(vals[0], vals[1]), R: vals[2]}
	into := connector.Circle{Pos: vec2.FromValues(vals[3], vals[4]), R: vals[5]}
	writeJSON(w, http.StatusOK, flowPathResponse{Path: connector.MakeCircularPath(from, vals[6], into)})
}
