// Package vec2 provides minimal 2D vector arithmetic for map geometry.
//
// Every binary operation comes in two flavours:
//
//   - Out-parameter functions ([Add], [Sub], [Scale], [Normalize]) write into a
//     caller-supplied vector and return nothing. Hot rendering loops use these
//     to reuse scratch vectors.
//   - Allocating functions ([CrAdd], [CrSub], [CrScale]) return a new value and
//     never touch their arguments.
//
// Aliasing is allowed for the out-parameter family: Add(&a, a, b) accumulates
// b into a in place.
//
// No function in this package fails. NaN and Inf propagate through ordinary
// floating-point arithmetic.
package vec2

import (
	"math"
	"strconv"
)

// Vec2 is an (x, y) pair. Index 0 is x, index 1 is y.
type Vec2 [2]float64

// Create returns the zero vector.
func Create() Vec2 {
	return Vec2{}
}

// FromValues returns the vector (x, y).
func FromValues(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Clone returns a copy of a.
func Clone(a Vec2) Vec2 {
	return Vec2{a[0], a[1]}
}

// X returns the x component.
func (v Vec2) X() float64 { return v[0] }

// Y returns the y component.
func (v Vec2) Y() float64 { return v[1] }

// String formats v as "x y", the form used in SVG path operands.
func (v Vec2) String() string {
	return FormatFloat(v[0]) + " " + FormatFloat(v[1])
}

// Add sets out to a + b.
func Add(out *Vec2, a, b Vec2) {
	out[0] = a[0] + b[0]
	out[1] = a[1] + b[1]
}

// Sub sets out to a - b.
func Sub(out *Vec2, a, b Vec2) {
	out[0] = a[0] - b[0]
	out[1] = a[1] - b[1]
}

// Scale sets out to a * s.
func Scale(out *Vec2, a Vec2, s float64) {
	out[0] = a[0] * s
	out[1] = a[1] * s
}

// Normalize sets out to the unit vector in the direction of a.
// When a has zero length, out is left unchanged.
func Normalize(out *Vec2, a Vec2) {
	l := Len(a)
	if l > 0 {
		out[0] = a[0] / l
		out[1] = a[1] / l
	}
}

// CrAdd returns a + b.
func CrAdd(a, b Vec2) Vec2 {
	return Vec2{a[0] + b[0], a[1] + b[1]}
}

// CrSub returns a - b.
func CrSub(a, b Vec2) Vec2 {
	return Vec2{a[0] - b[0], a[1] - b[1]}
}

// CrScale returns a * s.
func CrScale(a Vec2, s float64) Vec2 {
	return Vec2{a[0] * s, a[1] * s}
}

// Len returns the Euclidean norm of a.
func Len(a Vec2) float64 {
	return math.Sqrt(a[0]*a[0] + a[1]*a[1])
}

// Dist2 returns the squared distance between a and b.
func Dist2(a, b Vec2) float64 {
	dx, dy := a[0]-b[0], a[1]-b[1]
	return dx*dx + dy*dy
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Vec2) float64 {
	return math.Sqrt(Dist2(a, b))
}

// Dot returns the dot product of a and b.
func Dot(a, b Vec2) float64 {
	return a[0]*b[0] + a[1]*b[1]
}

// Eq reports whether a and b are exactly equal.
func Eq(a, b Vec2) bool {
	return a[0] == b[0] && a[1] == b[1]
}

// RotCW rotates v by 90 degrees clockwise in a y-down screen system,
// returning (v.y, -v.x).
func RotCW(v Vec2) Vec2 {
	return Vec2{v[1], -v[0]}
}

// FormatFloat renders f in the shortest decimal form that round-trips,
// without an exponent. Negative zero prints as "0".
func FormatFloat(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
