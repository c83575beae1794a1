package connector

import (
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/bowmanhq/bowman/pkg/geom/vec2"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func circle(x, y, r float64) Circle {
	return Circle{Pos: vec2.FromValues(x, y), R: r}
}

func TestMakeCircularPath_Overlap(t *testing.T) {
	tests := []struct {
		name       string
		from, into Circle
	}{
		{"partial overlap", circle(0, 0, 10), circle(15, 0, 10)},
		{"contained", circle(0, 0, 50), circle(5, 5, 10)},
		{"coincident", circle(3, 3, 1), circle(3, 3, 1)},
		{"diagonal", circle(0, 0, 20), circle(10, 10, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MakeCircularPath(tt.from, 5, tt.into); got != "" {
				t.Errorf("MakeCircularPath() = %q, want empty", got)
			}
			if _, ok := Geometry(tt.from, 5, tt.into); ok {
				t.Error("Geometry() ok = true for overlapping circles")
			}
		})
	}
}

func TestMakeCircularPath_Shape(t *testing.T) {
	tests := []struct {
		name       string
		from, into Circle
		width      float64
	}{
		{"horizontal", circle(0, 0, 30), circle(200, 0, 30), 5},
		{"vertical", circle(0, 0, 20), circle(0, -300, 40), 8},
		{"diagonal", circle(-50, 40, 25), circle(250, 260, 60), 3},
		{"touching", circle(0, 0, 10), circle(20, 0, 10), 2},
		{"thin", circle(0, 0, 30), circle(400, 100, 30), 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := MakeCircularPath(tt.from, tt.width, tt.into)
			if path == "" {
				t.Fatal("MakeCircularPath() returned empty path")
			}
			if !strings.HasPrefix(path, "M ") {
				t.Errorf("path should start with \"M \", got: %s", path)
			}
			if !strings.HasSuffix(path, "Z") {
				t.Errorf("path should end with Z, got: %s", path)
			}
			if strings.Count(path, "C ") != 2 {
				t.Errorf("path should contain two cubic segments, got: %s", path)
			}
			if strings.Count(path, "L ") != 4 {
				t.Errorf("path should contain four line segments, got: %s", path)
			}
			if strings.Contains(path, "NaN") {
				t.Errorf("path contains NaN: %s", path)
			}
		})
	}
}

func TestMakeCircularPath_CommandOrder(t *testing.T) {
	path := MakeCircularPath(circle(0, 0, 30), 5, circle(200, 0, 30))

	var cmds []string
	for _, tok := range strings.Fields(path) {
		switch tok {
		case "M", "C", "L", "A", "Z":
			cmds = append(cmds, tok)
		}
	}
	want := "M C L L L L C Z"
	if got := strings.Join(cmds, " "); got != want {
		t.Errorf("commands = %q, want %q", got, want)
	}
}

func TestMakeCircularPath_Idempotent(t *testing.T) {
	from, into := circle(12.5, -7, 22), circle(310, 95, 41)
	a := MakeCircularPath(from, 6, into)
	b := MakeCircularPath(from, 6, into)
	if a != b {
		t.Errorf("MakeCircularPath() not deterministic:\n%s\n%s", a, b)
	}
	if !vec2.Eq(from.Pos, vec2.FromValues(12.5, -7)) || into.R != 41 {
		t.Error("inputs were mutated")
	}
}

func TestMakeCircularPath_Concurrent(t *testing.T) {
	from, into := circle(0, 0, 30), circle(200, 0, 30)
	want := MakeCircularPath(from, 5, into)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := MakeCircularPath(from, 5, into); got != want {
				t.Errorf("concurrent call returned different path")
			}
		}()
	}
	wg.Wait()
}

func TestMakeCircularPath_ButtCap(t *testing.T) {
	tests := []struct {
		name    string
		fromR   float64
		width   float64
		wantArc bool
	}{
		{"narrow stroke", 30, 5, false},
		{"below threshold", 12, 10, false},
		{"just above threshold", 10.9, 10, true},
		{"wide stroke", 5, 5, true},
		{"point source", 0, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := MakeCircularPath(circle(0, 0, tt.fromR), tt.width, circle(300, 0, 30))
			hasArc := strings.Contains(path, " A ")
			if hasArc != tt.wantArc {
				t.Errorf("arc present = %v, want %v: %s", hasArc, tt.wantArc, path)
			}
		})
	}

	width := 5.0
	path := MakeCircularPath(circle(0, 0, 5), width, circle(300, 0, 30))
	b, _ := Geometry(circle(0, 0, 5), width, circle(300, 0, 30))
	// float64 product, not an exact constant: 5.004999999999999.
	r := vec2.FormatFloat(width * buttCapRadius)
	wantArc := "A " + r + " " + r + " 0 0 1 " + b.StartInner.String() + " Z"
	if !strings.HasSuffix(path, wantArc) {
		t.Errorf("path should end with %q, got: %s", wantArc, path)
	}
}

func TestGeometry_ReferenceScenario(t *testing.T) {
	from, into := circle(0, 0, 30), circle(200, 0, 30)
	b, ok := Geometry(from, 5, into)
	if !ok {
		t.Fatal("Geometry() ok = false")
	}

	if !near(b.ArcCenter[0], 100) || !near(b.ArcCenter[1], -100*math.Sqrt(3)) {
		t.Errorf("ArcCenter = %v", b.ArcCenter)
	}

	// The peak sits near y=13.009, past 2*width, so bound it by the
	// receiving radius instead.
	peak := b.ArrowPeak
	if !(peak[0] > 0 && peak[0] < 200) {
		t.Errorf("ArrowPeak.x = %v, want strictly between centers", peak[0])
	}
	if math.Abs(peak[1]) >= into.R {
		t.Errorf("ArrowPeak.y = %v, want within receiving radius of the center line", peak[1])
	}
	if !near(peak[0], 172.96741182587618) || !near(peak[1], 13.00919584786936) {
		t.Errorf("ArrowPeak = %v", peak)
	}
	if !near(vec2.Dist(peak, into.Pos), into.R) {
		t.Errorf("ArrowPeak is %v from target center, want %v", vec2.Dist(peak, into.Pos), into.R)
	}
	if !near(vec2.Dist(peak, b.ArcCenter), 200) {
		t.Errorf("ArrowPeak is off the arc: %v", vec2.Dist(peak, b.ArcCenter))
	}

	if got := ArcPoint(from, into, into.R); !vec2.Eq(got, peak) {
		t.Errorf("ArcPoint(into.R) = %v, want ArrowPeak %v", got, peak)
	}
	if !near(vec2.Dist(b.ArrowWings, into.Pos), into.R+5) {
		t.Errorf("ArrowWings at %v from target, want %v", vec2.Dist(b.ArrowWings, into.Pos), into.R+5)
	}
	if b.ButtCap {
		t.Error("ButtCap set for narrow stroke")
	}
}

func TestGeometry_WingsAndStart(t *testing.T) {
	from := circle(0, 0, 30)
	const width = 6.0
	b, ok := Geometry(from, width, circle(250, 40, 35))
	if !ok {
		t.Fatal("Geometry() ok = false")
	}

	checks := []struct {
		name string
		a, b vec2.Vec2
		want float64
	}{
		{"outer far", b.WingOuterFar, b.ArrowWings, width},
		{"inner far", b.WingInnerFar, b.ArrowWings, width},
		{"outer near", b.WingOuterNear, b.ArrowWings, width / 2},
		{"inner near", b.WingInnerNear, b.ArrowWings, width / 2},
		{"start outer", b.StartOuter, from.Pos, width},
		{"start inner", b.StartInner, from.Pos, width},
	}
	for _, c := range checks {
		if got := vec2.Dist(c.a, c.b); !near(got, c.want) {
			t.Errorf("%s offset = %v, want %v", c.name, got, c.want)
		}
	}

	// Outer points sit farther from the arc center than inner points.
	if vec2.Dist(b.WingOuterFar, b.ArcCenter) <= vec2.Dist(b.WingInnerFar, b.ArcCenter) {
		t.Error("outer wing is not outside the inner wing")
	}
	if vec2.Dist(b.StartOuter, b.ArcCenter) <= vec2.Dist(b.StartInner, b.ArcCenter) {
		t.Error("outer start is not outside the inner start")
	}

	handle := vec2.Dist(b.OuterStartControl, b.StartOuter)
	if want := vec2.Dist(b.WingOuterNear, b.StartOuter) * controlTension; !near(handle, want) {
		t.Errorf("outer handle length = %v, want %v", handle, want)
	}
	if !near(vec2.Dist(b.OuterWingControl, b.WingOuterNear), handle) {
		t.Error("outer handles differ in length")
	}
}

func TestGeometry_Touching(t *testing.T) {
	b, ok := Geometry(circle(0, 0, 10), 2, circle(20, 0, 10))
	if !ok {
		t.Fatal("touching circles should proceed to full construction")
	}
	if !b.Finite() {
		t.Errorf("touching band has non-finite points: %+v", b)
	}
	if !near(b.ArrowPeak[0], 10.36474508437579) || !near(b.ArrowPeak[1], 2.6761656732981747) {
		t.Errorf("ArrowPeak = %v", b.ArrowPeak)
	}
}

func TestGeometry_UnreachableWings(t *testing.T) {
	// The wing circle (10+15) is wider than the arc reaches (2*10).
	b, ok := Geometry(circle(0, 0, 0), 15, circle(10, 0, 10))
	if !ok {
		t.Fatal("Geometry() ok = false for touching circles")
	}
	if b.Finite() {
		t.Error("Finite() = true, want false for unreachable wing radius")
	}
	if path := b.Path(); !strings.HasPrefix(path, "M ") || !strings.HasSuffix(path, "Z") {
		t.Errorf("path framing broken: %s", path)
	}
}

func TestGeometry_ZeroWidth(t *testing.T) {
	b, ok := Geometry(circle(0, 0, 30), 0, circle(200, 0, 30))
	if !ok {
		t.Fatal("Geometry() ok = false")
	}
	for _, p := range []vec2.Vec2{b.WingOuterFar, b.WingInnerFar, b.WingOuterNear, b.WingInnerNear} {
		if vec2.Dist(p, b.ArrowPeak) > eps {
			t.Errorf("zero-width wing %v should collapse onto peak %v", p, b.ArrowPeak)
		}
	}
	if !vec2.Eq(b.StartOuter, b.StartInner) {
		t.Error("zero-width start points should coincide")
	}
	if b.ButtCap {
		t.Error("zero width should not cap")
	}
}

func TestGetConnectionControlPoints(t *testing.T) {
	from, into := circle(0, 0, 10), circle(100, 0, 20)
	cp := GetConnectionControlPoints(from, into, DefaultCurvature)

	if !vec2.Eq(cp.Start, vec2.FromValues(10, 0)) {
		t.Errorf("Start = %v, want [10 0]", cp.Start)
	}
	if !vec2.Eq(cp.End, vec2.FromValues(80, 0)) {
		t.Errorf("End = %v, want [80 0]", cp.End)
	}
	if !vec2.Eq(cp.Midpoint, vec2.FromValues(45, 0)) {
		t.Errorf("Midpoint = %v, want [45 0]", cp.Midpoint)
	}
	// perpendicular (0,1) * 100*0.3, halved
	if !near(cp.Control1[0], 45) || !near(cp.Control1[1], 15) {
		t.Errorf("Control1 = %v, want [45 15]", cp.Control1)
	}
	if !vec2.Eq(cp.Control1, cp.Control2) {
		t.Errorf("Control2 = %v, want Control1 %v", cp.Control2, cp.Control1)
	}

	flat := GetConnectionControlPoints(from, into, 0)
	if !vec2.Eq(flat.Control1, flat.Midpoint) {
		t.Errorf("zero curvature control = %v, want midpoint %v", flat.Control1, flat.Midpoint)
	}
}

func TestGetConnectionControlPoints_Coincident(t *testing.T) {
	from := circle(4, -2, 10)
	into := circle(4, -2, 30)
	cp := GetConnectionControlPoints(from, into, DefaultCurvature)

	for name, p := range map[string]vec2.Vec2{
		"start": cp.Start, "end": cp.End,
		"control1": cp.Control1, "control2": cp.Control2, "midpoint": cp.Midpoint,
	} {
		if !vec2.Eq(p, from.Pos) {
			t.Errorf("%s = %v, want %v", name, p, from.Pos)
		}
	}
}
