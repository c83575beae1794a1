// Package connector computes the curved, arrow-headed bands that draw
// contributions between two aims on the map.
//
// # Overview
//
// An aim is drawn as a circle. A contribution from one aim into another is
// drawn as a tapered band that follows a circular arc between the two
// centers and ends in an arrowhead touching the boundary of the receiving
// circle. Band width encodes the strength of the flow.
//
// [MakeCircularPath] returns the band as SVG path data, ready for a
// <path d="..."> attribute. [Geometry] exposes the same construction as
// points for callers that draw on other surfaces. [GetConnectionControlPoints]
// is a lighter connector variant: a single quadratic-style curve between the
// two circle boundaries.
//
// # Arc Construction
//
// The arc center M sits on the perpendicular bisector of the two centers, at
// sqrt(3/4) times the center distance from the midpoint. The centers and M
// then form an equilateral triangle, so every connector bends by the same
// angle regardless of distance.
//
// Points on the arc at a given distance from the receiving center are found
// with the circle-circle intersection construction. The arrow tip uses the
// receiving radius, the arrowhead base uses radius plus width.
//
// # Degenerate Input
//
// Overlapping circles (center distance less than the sum of the radii)
// produce an empty path. Callers must treat "" as "draw nothing". No other
// input is rejected; NaN and Inf propagate through the arithmetic.
//
// All functions are pure and safe for concurrent use.
package connector

import (
	"math"

	"github.com/bowmanhq/bowman/pkg/geom/svgpath"
	"github.com/bowmanhq/bowman/pkg/geom/vec2"
)

// Tuning constants found by visual iteration. Rendered output is pinned on
// these exact values.
const (
	// controlTension scales the endpoint distance into a Bezier handle length.
	// A single cubic with this tension approximates the circular arc.
	controlTension = 0.34

	// buttCapThreshold: when width*buttCapThreshold exceeds the source
	// radius, the band is capped with an arc behind the source center.
	buttCapThreshold = 1.1

	// buttCapRadius scales width into the cap arc radius.
	buttCapRadius = 1.001

	// DefaultCurvature is the perpendicular offset of the control point in
	// [GetConnectionControlPoints], as a fraction of the center distance.
	DefaultCurvature = 0.3
)

// arcCenterOffset places the arc center so that both circle centers and the
// arc center form an equilateral triangle.
var arcCenterOffset = math.Sqrt(3.0 / 4.0)

// Circle is the footprint of an aim on the map.
type Circle struct {
	Pos vec2.Vec2
	R   float64
}

// Band holds every point of a connector band.
type Band struct {
	ArcCenter vec2.Vec2 // center of the arc the band follows
	ArrowPeak vec2.Vec2 // arrow tip, on the receiving circle's boundary

	// ArrowWings is the arrowhead base on the arc, width beyond the tip.
	ArrowWings    vec2.Vec2
	WingOuterFar  vec2.Vec2
	WingOuterNear vec2.Vec2
	WingInnerFar  vec2.Vec2
	WingInnerNear vec2.Vec2

	StartOuter vec2.Vec2
	StartInner vec2.Vec2

	OuterStartControl vec2.Vec2
	OuterWingControl  vec2.Vec2
	InnerStartControl vec2.Vec2
	InnerWingControl  vec2.Vec2

	// ButtCap is set when the band is wide relative to the source circle.
	ButtCap       bool
	ButtCapRadius float64
}

// Finite reports whether every point of the band is a finite number.
// Touching circles with a stroke wider than the arc can reach yield NaN
// wing points.
func (b Band) Finite() bool {
	for _, p := range []vec2.Vec2{
		b.ArcCenter, b.ArrowPeak, b.ArrowWings,
		b.WingOuterFar, b.WingOuterNear, b.WingInnerFar, b.WingInnerNear,
		b.StartOuter, b.StartInner,
		b.OuterStartControl, b.OuterWingControl, b.InnerStartControl, b.InnerWingControl,
	} {
		if !finite(p[0]) || !finite(p[1]) {
			return false
		}
	}
	return true
}

// Path serializes the band as SVG path data.
func (b Band) Path() string {
	var s svgpath.Spec
	s.MoveTo(b.StartInner).
		CurveTo(b.InnerStartControl, b.InnerWingControl, b.WingInnerNear).
		LineTo(b.WingInnerFar).
		LineTo(b.ArrowPeak).
		LineTo(b.WingOuterFar).
		LineTo(b.WingOuterNear).
		CurveTo(b.OuterWingControl, b.OuterStartControl, b.StartOuter)
	if b.ButtCap {
		s.ArcTo(b.ButtCapRadius, b.ButtCapRadius, 0, false, true, b.StartInner)
	}
	s.Close()
	return s.String()
}

// MakeCircularPath returns SVG path data for a band of the given width from
// one circle into another, or "" when the circles overlap.
func MakeCircularPath(from Circle, width float64, into Circle) string {
	b, ok := Geometry(from, width, into)
	if !ok {
		return ""
	}
	return b.Path()
}

// Geometry computes the band points. ok is false when the circles overlap.
func Geometry(from Circle, width float64, into Circle) (b Band, ok bool) {
	a := newArc(from, into)
	if a.r < from.R+into.R {
		return Band{}, false
	}

	b.ArcCenter = a.m
	b.ArrowPeak = a.point(into.R)
	b.ArrowWings = a.point(into.R + width)

	normWings := a.norm(b.ArrowWings)
	toFar := vec2.CrScale(normWings, width)
	toNear := vec2.CrScale(normWings, width*0.5)
	b.WingOuterFar = vec2.CrAdd(b.ArrowWings, toFar)
	b.WingOuterNear = vec2.CrAdd(b.ArrowWings, toNear)
	b.WingInnerFar = vec2.CrSub(b.ArrowWings, toFar)
	b.WingInnerNear = vec2.CrSub(b.ArrowWings, toNear)

	normFrom := a.norm(from.Pos)
	toSide := vec2.CrScale(normFrom, width)
	b.StartOuter = vec2.CrAdd(from.Pos, toSide)
	b.StartInner = vec2.CrSub(from.Pos, toSide)

	tangent := vec2.RotCW(normFrom)

	outer := vec2.CrScale(tangent, vec2.Dist(b.WingOuterNear, b.StartOuter)*controlTension)
	b.OuterWingControl = vec2.CrSub(b.WingOuterNear, outer)
	b.OuterStartControl = vec2.CrAdd(b.StartOuter, outer)

	inner := vec2.CrScale(tangent, vec2.Dist(b.WingInnerNear, b.StartInner)*controlTension)
	b.InnerWingControl = vec2.CrSub(b.WingInnerNear, inner)
	b.InnerStartControl = vec2.CrAdd(b.StartInner, inner)

	if width*buttCapThreshold > from.R {
		b.ButtCap = true
		b.ButtCapRadius = width * buttCapRadius
	}
	return b, true
}

// ArcPoint returns the point on the connector arc from one circle into
// another that lies at the given distance from the receiving center.
// It does not check for overlap.
func ArcPoint(from, into Circle, radius float64) vec2.Vec2 {
	return newArc(from, into).point(radius)
}

// arc is the circle through both centers that a band follows.
type arc struct {
	into vec2.Vec2
	m    vec2.Vec2 // arc center
	r    float64   // center-to-center distance, also the arc radius
}

func newArc(from, into Circle) arc {
	delta := vec2.CrSub(into.Pos, from.Pos)

	offset := vec2.RotCW(delta)
	vec2.Scale(&offset, offset, arcCenterOffset)

	halfway := vec2.CrAdd(from.Pos, into.Pos)
	vec2.Scale(&halfway, halfway, 0.5)

	return arc{
		into: into.Pos,
		m:    vec2.CrAdd(halfway, offset),
		r:    vec2.Len(delta),
	}
}

// norm returns the unit direction from the arc center to p.
func (a arc) norm(p vec2.Vec2) vec2.Vec2 {
	n := vec2.CrSub(p, a.m)
	vec2.Normalize(&n, n)
	return n
}

// point intersects the arc with the circle of the given radius around the
// receiving center. Of the two intersections, the one matching the arc's
// bend direction is returned.
func (a arc) point(radius float64) vec2.Vec2 {
	along := radius * radius / (2 * a.r)
	across := math.Sqrt(radius*radius - along*along)

	axis := a.norm(a.into)
	perp := vec2.RotCW(axis)
	vec2.Scale(&axis, axis, along)
	vec2.Scale(&perp, perp, across)

	p := vec2.Clone(a.into)
	vec2.Sub(&p, p, axis)
	vec2.Sub(&p, p, perp)
	return p
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
