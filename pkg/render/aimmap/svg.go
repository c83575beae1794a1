package aimmap

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/bowmanhq/bowman/pkg/geom/vec2"
	"github.com/bowmanhq/bowman/pkg/observability"
	"github.com/bowmanhq/bowman/pkg/store"
)

const mapCSS = `
    .flow { fill: #546e7a; fill-opacity: 0.55; stroke: none; }
    .flow.prerequisite { fill: #c62828; }
    .flow.enables { fill: #2e7d32; }
    .flow.related { fill-opacity: 0.3; }
    .aim { stroke: #37474f; stroke-width: 2; }
    .aim-label { font-family: sans-serif; fill: #263238; text-anchor: middle; dominant-baseline: middle; }`

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	padding      float64
	labels       bool
	statusColors bool
}

// WithPadding sets the margin around the outermost circles.
func WithPadding(p float64) Option { return func(r *renderer) { r.padding = p } }

// WithLabels toggles aim titles inside circles. Labels are on by default.
func WithLabels(on bool) Option { return func(r *renderer) { r.labels = on } }

// WithStatusColors toggles filling circles by status.
func WithStatusColors(on bool) Option { return func(r *renderer) { r.statusColors = on } }

func newRenderer(opts []Option) renderer {
	r := renderer{padding: defaultPadding, labels: true, statusColors: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws g as an SVG document.
func RenderSVG(g store.Graph, opts ...Option) []byte {
	r := newRenderer(opts)
	return r.write(ComputeLayout(g, r.padding))
}

// Render is RenderSVG with render hooks.
func Render(ctx context.Context, g store.Graph, opts ...Option) []byte {
	hooks := observability.Render()
	start := time.Now()
	hooks.OnRenderStart(ctx, "svg", len(g.Aims))

	r := newRenderer(opts)
	l := ComputeLayout(g, r.padding)
	svg := r.write(l)

	hooks.OnRenderComplete(ctx, "svg", len(l.Flows), l.Skipped, time.Since(start))
	return svg
}

func (r renderer) write(l Layout) []byte {
	f := vec2.FormatFloat
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%.0f" height="%.0f">`+"\n",
		f(l.MinX), f(l.MinY), f(l.Width), f(l.Height), l.Width, l.Height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", mapCSS)

	buf.WriteString("  <g class=\"flows\">\n")
	for _, fl := range l.Flows {
		fmt.Fprintf(&buf, `    <path class="flow %s" data-from="%s" data-into="%s" d="%s"/>`+"\n",
			escapeXML(fl.Type), escapeXML(fl.From), escapeXML(fl.Into), fl.Path)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("  <g class=\"aims\">\n")
	for _, n := range l.Nodes {
		c := n.Circle
		fmt.Fprintf(&buf, `    <circle class="aim" id="aim-%s" cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n",
			escapeXML(n.ID), f(c.Pos.X()), f(c.Pos.Y()), f(c.R), statusFill(n.Status, r.statusColors))
	}
	if r.labels {
		for _, n := range l.Nodes {
			c := n.Circle
			label := truncateLabel(n.Title, c.R)
			fmt.Fprintf(&buf, `    <text class="aim-label" x="%s" y="%s" font-size="%.1f">%s</text>`+"\n",
				f(c.Pos.X()), f(c.Pos.Y()), fontSize(c.R, len([]rune(label))), escapeXML(label))
		}
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
