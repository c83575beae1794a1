package store

import (
	"context"
	"fmt"

	"github.com/bowmanhq/bowman/pkg/aim"
)

// Graph is a snapshot of a repository for rendering.
type Graph struct {
	Aims  []aim.Aim          `json:"aims"`
	Flows []aim.Contribution `json:"flows"`
}

// LoadGraph reads every aim and its incoming contributions. Contributions
// whose source aim is missing are dropped.
func LoadGraph(ctx context.Context, s Store) (Graph, error) {
	aims, err := s.Aims(ctx)
	if err != nil {
		return Graph{}, err
	}
	known := make(map[string]bool, len(aims))
	for _, a := range aims {
		known[a.ID.ID] = true
	}

	g := Graph{Aims: aims, Flows: []aim.Contribution{}}
	for _, a := range aims {
		in, err := s.Incoming(ctx, a.ID.ID)
		if err != nil {
			return Graph{}, fmt.Errorf("load graph: %w", err)
		}
		for _, c := range in {
			if known[c.FromAim.ID] {
				g.Flows = append(g.Flows, c)
			}
		}
	}
	return g, nil
}

// Index maps aim ids to their position in g.Aims.
func (g *Graph) Index() map[string]int {
	idx := make(map[string]int, len(g.Aims))
	for i, a := range g.Aims {
		idx[a.ID.ID] = i
	}
	return idx
}

// Inflow sums the strengths of the contributions into each aim.
func (g *Graph) Inflow() map[string]float64 {
	sum := make(map[string]float64)
	for _, f := range g.Flows {
		sum[f.ToAim.ID] += f.Strength
	}
	return sum
}
