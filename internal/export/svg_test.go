package export

import (
	"strings"
	"testing"

	"github.com/golang/geo/r3"

	"github.com/eli-will-2656/quadsim/internal/quad"
)

func TestPathToSVG(t *testing.T) {
	points := []Point{{0, 0}, {1, 1}, {2, 0}}
	svg := PathToSVG(points, 400, 300, "#00ff00")

	if !strings.HasPrefix(svg, `<?xml`) {
		t.Error("missing XML declaration")
	}
	if !strings.Contains(svg, `width="400" height="300"`) {
		t.Error("missing dimensions")
	}
	if !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Error("missing stroke color")
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("missing closing tag")
	}
	// One M plus two L segments.
	if got := strings.Count(svg, " L"); got != 2 {
		t.Errorf("line segments = %d, want 2", got)
	}
}

func TestPathToSVGTooFewPoints(t *testing.T) {
	if svg := PathToSVG([]Point{{1, 2}}, 100, 100, "#fff"); svg != "" {
		t.Error("expected empty output for single point")
	}
}

func TestTrajectorySVGPlanes(t *testing.T) {
	states := []quad.State{
		{Position: r3.Vector{X: 0, Y: 1, Z: 2}},
		{Position: r3.Vector{X: 3, Y: 4, Z: 5}},
	}
	for _, plane := range Planes {
		svg, err := TrajectorySVG(states, plane, 200, 200, "#fff")
		if err != nil {
			t.Fatalf("plane %s: %v", plane, err)
		}
		if !strings.Contains(svg, "<path") {
			t.Errorf("plane %s: no path element", plane)
		}
	}
}

func TestTrajectorySVGBadPlane(t *testing.T) {
	if _, err := TrajectorySVG(nil, "ab", 100, 100, "#fff"); err == nil {
		t.Error("expected error for unknown plane")
	}
}
