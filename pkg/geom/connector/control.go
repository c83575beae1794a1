package connector

import "github.com/bowmanhq/bowman/pkg/geom/vec2"

// ControlPoints describes a single-curve connector between two circles.
type ControlPoints struct {
	Start    vec2.Vec2 // on the source boundary, facing the target
	End      vec2.Vec2 // on the target boundary, facing the source
	Control1 vec2.Vec2
	Control2 vec2.Vec2
	Midpoint vec2.Vec2 // midpoint of Start and End
}

// GetConnectionControlPoints returns boundary endpoints and a shared control
// point for a light-weight curved connector. The control point is pushed
// perpendicular to the center line by distance*curvature, halved through the
// midpoint construction. Use [DefaultCurvature] for the standard bend.
//
// When both centers coincide every point collapses to from.Pos.
func GetConnectionControlPoints(from, into Circle, curvature float64) ControlPoints {
	delta := vec2.CrSub(into.Pos, from.Pos)
	distance := vec2.Len(delta)

	if distance == 0 {
		p := vec2.Clone(from.Pos)
		return ControlPoints{Start: p, End: p, Control1: p, Control2: p, Midpoint: p}
	}

	dir := vec2.Clone(delta)
	vec2.Normalize(&dir, dir)

	start := vec2.CrAdd(from.Pos, vec2.CrScale(dir, from.R))
	end := vec2.CrSub(into.Pos, vec2.CrScale(dir, into.R))

	mid := vec2.CrAdd(start, end)
	vec2.Scale(&mid, mid, 0.5)

	perp := vec2.FromValues(-dir[1], dir[0])
	c := vec2.CrAdd(vec2.CrAdd(start, end), vec2.CrScale(perp, distance*curvature))
	vec2.Scale(&c, c, 0.5)

	return ControlPoints{
		Start:    start,
		End:      end,
		Control1: c,
		Control2: vec2.Clone(c),
		Midpoint: mid,
	}
}
