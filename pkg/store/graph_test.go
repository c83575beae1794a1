package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bowmanhq/bowman/pkg/aim"
)

func TestLoadGraph(t *testing.T) {
	s, rootID := initRepo(t)
	ctx := context.Background()

	a, _ := s.CreateAim(ctx, aim.Draft{Title: "A", Description: "d"})
	b, _ := s.CreateAim(ctx, aim.Draft{Title: "B", Description: "d"})
	for _, c := range []aim.Contribution{
		{FromAim: a, ToAim: rootID, Type: aim.TypeSupports, Strength: 1},
		{FromAim: b, ToAim: rootID, Type: aim.TypeSupports, Strength: 3},
		{FromAim: b, ToAim: a, Type: aim.TypePrerequisite, Strength: 0.5},
	} {
		if err := s.CreateContribution(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	g, err := LoadGraph(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Aims) != 3 || len(g.Flows) != 3 {
		t.Fatalf("graph = %d aims, %d flows", len(g.Aims), len(g.Flows))
	}
	if in := g.Inflow(); in[rootID.ID] != 4 || in[a.ID] != 0.5 {
		t.Errorf("Inflow() = %v", in)
	}
	if idx := g.Index(); g.Aims[idx[b.ID]].Title != "B" {
		t.Errorf("Index() = %v", idx)
	}

	// A contribution whose source aim vanished is dropped.
	if err := os.Remove(filepath.Join(s.root, "aims", b.ID+".json")); err != nil {
		t.Fatal(err)
	}
	g, err = LoadGraph(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Flows) != 1 || g.Flows[0].FromAim != a {
		t.Errorf("flows after removal = %v", g.Flows)
	}
}
