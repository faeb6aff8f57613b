package geom

import "math"

// Rect is an axis-aligned envelope stored by its edges.
// Top is the smaller y value (y-down).
type Rect struct {
	Left, Top, Right, Bottom float64
}

// RectAt returns a degenerate envelope containing only (x, y).
// It is the seed used before unioning part envelopes.
func RectAt(x, y float64) Rect {
	return Rect{Left: x, Top: y, Right: x, Bottom: y}
}

// Width returns Right - Left.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns Bottom - Top.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Center returns the middle of the envelope.
func (r Rect) Center() Vector2 {
	return Vector2{X: (r.Left + r.Right) / 2, Y: (r.Top + r.Bottom) / 2}
}

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

// Union returns the smallest envelope containing r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Left:   math.Min(r.Left, o.Left),
		Top:    math.Min(r.Top, o.Top),
		Right:  math.Max(r.Right, o.Right),
		Bottom: math.Max(r.Bottom, o.Bottom),
	}
}
