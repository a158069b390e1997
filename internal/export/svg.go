// Package export renders recorded flights as standalone SVG images.
package export

import (
	"fmt"
	"strings"

	"github.com/eli-will-2656/quadsim/internal/quad"
)

type Point struct {
	X, Y float64
}

// Planes lists the projection planes accepted by TrajectorySVG.
var Planes = []string{"xy", "xz", "yz"}

// TrajectorySVG projects the flight path onto the named plane and renders
// it as an SVG polyline.
func TrajectorySVG(states []quad.State, plane string, width, height int, stroke string) (string, error) {
	var project func(s quad.State) Point
	switch plane {
	case "xy":
		project = func(s quad.State) Point { return Point{X: s.Position.X, Y: s.Position.Y} }
	case "xz":
		project = func(s quad.State) Point { return Point{X: s.Position.X, Y: s.Position.Z} }
	case "yz":
		project = func(s quad.State) Point { return Point{X: s.Position.Y, Y: s.Position.Z} }
	default:
		return "", fmt.Errorf("unknown plane: %s (want xy, xz or yz)", plane)
	}

	points := make([]Point, len(states))
	for i, s := range states {
		points[i] = project(s)
	}
	return PathToSVG(points, width, height, stroke), nil
}

// PathToSVG renders a sequence of points as a single SVG path, auto-scaled
// to the bounding box with 10% padding.
func PathToSVG(points []Point, width, height int, stroke string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, stroke))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
