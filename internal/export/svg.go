// Package export renders recorded spring trajectories to SVG.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/springsim/internal/interp"
	"github.com/san-kum/springsim/internal/trace"
)

const (
	firstStroke = "#00ffff"
	lastStroke  = "#ff00ff"
)

type Series struct {
	Name    string
	Samples []trace.Sample
}

// TrajectorySVG plots position over time for every series on one chart.
// Strokes are blended from cyan to magenta across the series.
func TrajectorySVG(series []Series, width, height int) string {
	minX, maxX, minY, maxY, ok := bounds(series)
	if !ok {
		return ""
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i, s := range series {
		if len(s.Samples) < 2 {
			continue
		}
		stroke, err := interp.InterpolateColor(float64(i), firstStroke, lastStroke,
			interp.ColorOptions{FromLow: 0, FromHigh: float64(max(1, len(series)-1))})
		if err != nil {
			stroke = firstStroke
		}

		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" data-name="%s" d="M`, stroke, s.Name))
		for j, p := range s.Samples {
			x := (p.TimeMs - minX) / rangeX * float64(width)
			y := float64(height) - (p.Position-minY)/rangeY*float64(height)
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func bounds(series []Series) (minX, maxX, minY, maxY float64, ok bool) {
	for _, s := range series {
		for _, p := range s.Samples {
			if !ok {
				minX, maxX, minY, maxY, ok = p.TimeMs, p.TimeMs, p.Position, p.Position, true
				continue
			}
			minX, maxX = min(minX, p.TimeMs), max(maxX, p.TimeMs)
			minY, maxY = min(minY, p.Position), max(maxY, p.Position)
		}
	}
	return
}
