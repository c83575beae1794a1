package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/bowmanhq/bowman/pkg/aim"
	"github.com/bowmanhq/bowman/pkg/cache"
	"github.com/bowmanhq/bowman/pkg/observability"
	"github.com/bowmanhq/bowman/pkg/render/aimmap"
	"github.com/bowmanhq/bowman/pkg/store"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds status, effort and tags to node labels and strength to
	// edge labels. When false, nodes show only the title.
	Detailed bool
}

// edgeStyles maps contribution types to DOT edge attributes.
var edgeStyles = map[string]string{
	aim.TypePrerequisite: `color="#c62828", penwidth=2`,
	aim.TypeEnables:      `color="#2e7d32"`,
	aim.TypeSupports:     `color="#546e7a"`,
	aim.TypeRelated:      `color="#90a4ae", style=dashed, arrowhead=none`,
}

// ToDOT converts a graph snapshot to Graphviz DOT. Edges point from the
// contributing aim to the aim it flows into.
func ToDOT(g store.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=ellipse, style=filled, fillcolor=\"#eceff1\", fontsize=16, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for i := range g.Aims {
		a := &g.Aims[i]
		fmt.Fprintf(&buf, "  %q [%s];\n", a.ID.ID, strings.Join(nodeAttrs(a, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, c := range g.Flows {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", c.FromAim.ID, c.ToAim.ID, strings.Join(edgeAttrs(c, opts.Detailed), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(a *aim.Aim, detailed bool) []string {
	label := a.Title
	if detailed {
		parts := []string{"status: " + a.Status}
		if e := a.Effort(); e > 0 {
			parts = append(parts, "effort: "+strconv.FormatFloat(e, 'f', -1, 64))
		}
		if len(a.Tags) > 0 {
			parts = append(parts, "tags: "+strings.Join(a.Tags, ", "))
		}
		label += "\n" + strings.Join(parts, "\n")
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if a.Status == aim.StatusReached {
		attrs = append(attrs, `fillcolor="#a5d6a7"`)
	}
	return attrs
}

func edgeAttrs(c aim.Contribution, detailed bool) []string {
	label := c.Type
	if detailed {
		label += " " + strconv.FormatFloat(c.Strength, 'f', -1, 64)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if s, ok := edgeStyles[c.Type]; ok {
		attrs = append(attrs, s)
	}
	return attrs
}

// Cached returns the DOT source of g through c. keyer may be nil.
func Cached(ctx context.Context, c cache.Cache, keyer cache.Keyer, ttl time.Duration, g store.Graph, opts Options) ([]byte, error) {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	h, err := aimmap.GraphHash(g)
	if err != nil {
		return nil, err
	}
	return cache.GetOrCompute(ctx, c, keyer.DOTKey(h, opts.Detailed), "dot", ttl, func() ([]byte, error) {
		start := time.Now()
		observability.Render().OnRenderStart(ctx, "dot", len(g.Aims))
		dot := ToDOT(g, opts)
		observability.Render().OnRenderComplete(ctx, "dot", len(g.Flows), 0, time.Since(start))
		return []byte(dot), nil
	})
}

// RenderSVG lays out a DOT graph with Graphviz and returns SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// unitless one so the diagram scales like the aim map.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
