// Package svgpath builds SVG path data ("d" attribute) from drawing commands.
package svgpath

import (
	"strings"

	"github.com/bowmanhq/bowman/pkg/geom/vec2"
)

// Command letters emitted by [Spec].
const (
	CmdMove  = "M"
	CmdCurve = "C"
	CmdLine  = "L"
	CmdArc   = "A"
	CmdClose = "Z"
)

// Spec is an ordered sequence of path commands and their operands.
// The zero value is an empty path.
type Spec struct {
	parts []string
}

// MoveTo starts a new subpath at p.
func (s *Spec) MoveTo(p vec2.Vec2) *Spec {
	s.parts = append(s.parts, CmdMove, p.String())
	return s
}

// CurveTo appends a cubic Bezier segment with control points c1, c2 ending at p.
func (s *Spec) CurveTo(c1, c2, p vec2.Vec2) *Spec {
	s.parts = append(s.parts, CmdCurve, c1.String(), c2.String(), p.String())
	return s
}

// LineTo appends a straight segment to p.
func (s *Spec) LineTo(p vec2.Vec2) *Spec {
	s.parts = append(s.parts, CmdLine, p.String())
	return s
}

// ArcTo appends an elliptical arc segment ending at p.
func (s *Spec) ArcTo(rx, ry, rotation float64, largeArc, sweep bool, p vec2.Vec2) *Spec {
	s.parts = append(s.parts, CmdArc+" "+
		vec2.FormatFloat(rx)+" "+
		vec2.FormatFloat(ry)+" "+
		vec2.FormatFloat(rotation)+" "+
		flag(largeArc)+" "+
		flag(sweep)+" "+
		p.String())
	return s
}

// Close closes the current subpath.
func (s *Spec) Close() *Spec {
	s.parts = append(s.parts, CmdClose)
	return s
}

// Len returns the number of serialized tokens (commands and operand pairs).
func (s *Spec) Len() int { return len(s.parts) }

// String joins all commands with single spaces.
func (s *Spec) String() string {
	return strings.Join(s.parts, " ")
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
