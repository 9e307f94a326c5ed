package export

import (
	"strings"
	"testing"

	"github.com/san-kum/springsim/internal/trace"
)

func TestTrajectorySVG(t *testing.T) {
	series := []Series{
		{Name: "a", Samples: []trace.Sample{{TimeMs: 0, Position: 0}, {TimeMs: 10, Position: 1}}},
		{Name: "b", Samples: []trace.Sample{{TimeMs: 0, Position: 1}, {TimeMs: 10, Position: 0}}},
	}

	svg := TrajectorySVG(series, 200, 100)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document:\n%s", svg)
	}
	if strings.Count(svg, "<path") != 2 {
		t.Errorf("expected 2 paths, got:\n%s", svg)
	}
	if !strings.Contains(svg, `stroke="#00ffff"`) || !strings.Contains(svg, `stroke="#ff00ff"`) {
		t.Errorf("expected end colours on first and last series:\n%s", svg)
	}
	if !strings.Contains(svg, "M0.0,") || !strings.Contains(svg, "L200.0,") {
		t.Errorf("expected paths spanning the width:\n%s", svg)
	}
}

func TestTrajectorySVGEmpty(t *testing.T) {
	if got := TrajectorySVG(nil, 100, 100); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}
