package aimmap

import (
	"math"

	"github.com/bowmanhq/bowman/pkg/aim"
	"github.com/bowmanhq/bowman/pkg/geom/connector"
	"github.com/bowmanhq/bowman/pkg/store"
)

const (
	minFlowWidth   = 1.0
	flowWidthScale = 0.5
	defaultPadding = 40.0
)

// Node is an aim placed on the map.
type Node struct {
	ID     string
	Title  string
	Status string
	Circle connector.Circle
}

// Flow is a drawable contribution band.
type Flow struct {
	From, Into string
	Type       string
	Width      float64
	Path       string
}

// Layout is the geometry of a map before it is written as SVG.
type Layout struct {
	MinX, MinY, Width, Height float64

	Nodes   []Node
	Flows   []Flow
	Skipped int // contributions between overlapping circles
}

// FlowWidth returns the band width for a contribution of strength into a
// receiver of radius r whose inflows sum to total.
func FlowWidth(strength, total, r float64) float64 {
	share := 0.0
	if total > 0 {
		share = strength / total
	}
	return math.Max(minFlowWidth, share*r*flowWidthScale)
}

// ComputeLayout places every aim and builds a band for every contribution
// whose circles do not overlap.
func ComputeLayout(g store.Graph, padding float64) Layout {
	var l Layout
	idx := g.Index()
	inflow := g.Inflow()

	for i := range g.Aims {
		a := &g.Aims[i]
		l.Nodes = append(l.Nodes, Node{ID: a.ID.ID, Title: a.Title, Status: a.Status, Circle: a.Circle()})
	}

	for _, c := range g.Flows {
		fi, ok1 := idx[c.FromAim.ID]
		ii, ok2 := idx[c.ToAim.ID]
		if !ok1 || !ok2 {
			continue
		}
		from, into := l.Nodes[fi].Circle, l.Nodes[ii].Circle
		width := FlowWidth(c.Strength, inflow[c.ToAim.ID], into.R)

		band, ok := connector.Geometry(from, width, into)
		if !ok || !band.Finite() {
			l.Skipped++
			continue
		}
		l.Flows = append(l.Flows, Flow{
			From:  c.FromAim.ID,
			Into:  c.ToAim.ID,
			Type:  c.Type,
			Width: width,
			Path:  band.Path(),
		})
	}

	l.bounds(padding)
	return l
}

func (l *Layout) bounds(padding float64) {
	if len(l.Nodes) == 0 {
		l.MinX, l.MinY = -padding, -padding
		l.Width, l.Height = 2*padding, 2*padding
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range l.Nodes {
		c := n.Circle
		minX = math.Min(minX, c.Pos.X()-c.R)
		minY = math.Min(minY, c.Pos.Y()-c.R)
		maxX = math.Max(maxX, c.Pos.X()+c.R)
		maxY = math.Max(maxY, c.Pos.Y()+c.R)
	}
	l.MinX, l.MinY = minX-padding, minY-padding
	l.Width, l.Height = maxX-minX+2*padding, maxY-minY+2*padding
}

// statusFill maps aim status to a circle fill.
func statusFill(status string, colored bool) string {
	if !colored {
		return "#eceff1"
	}
	if status == aim.StatusReached {
		return "#a5d6a7"
	}
	return "#ffe082"
}
