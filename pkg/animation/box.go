package animation

import (
	"math"

	"github.com/decker502/spriter/pkg/geom"
)

// Box is the oriented footprint of a part: four corners in the order
// top-left, top-right, bottom-left, bottom-right (before rotation).
// Parts without a drawable have a zero-size box at their position.
type Box struct {
	Points [4]geom.Vector2
}

// footprint returns the scaled size and pivot offset of part.
func footprint(part Part) (w, h, pivotX, pivotY float64) {
	s, ok := part.(*Sprite)
	if !ok || s.Drawable == nil {
		return 0, 0, 0, 0
	}
	width, height := s.Drawable.Size()
	pivot := s.Drawable.Pivot()
	w = width * s.Scale.X
	h = height * s.Scale.Y
	return w, h, w * pivot.X, h * pivot.Y
}

// CalcFor computes the four corners of part under its current transform.
func (b *Box) CalcFor(part Part) {
	w, h, px, py := footprint(part)
	n := part.Node()

	b.Points[0] = geom.Vec(-px, -py)
	b.Points[1] = geom.Vec(w-px, -py)
	b.Points[2] = geom.Vec(-px, h-py)
	b.Points[3] = geom.Vec(w-px, h-py)

	for i := range b.Points {
		b.Points[i] = b.Points[i].Rotate(n.Angle).Add(n.Position)
	}
}

// BoundingRect returns the axis-aligned envelope of the corners.
func (b *Box) BoundingRect() geom.Rect {
	r := geom.RectAt(b.Points[0].X, b.Points[0].Y)
	for _, p := range b.Points[1:] {
		r.Left = math.Min(r.Left, p.X)
		r.Right = math.Max(r.Right, p.X)
		r.Top = math.Min(r.Top, p.Y)
		r.Bottom = math.Max(r.Bottom, p.Y)
	}
	return r
}

// Collides reports whether (x, y) lies inside the footprint of part. The point is
// rotated back into the part's local space and tested against the unrotated
// rectangle, so the result is exact unless the part is skewed.
func (b *Box) Collides(part Part, x, y float64) bool {
	w, h, px, py := footprint(part)
	n := part.Node()

	local := geom.Vec(x, y).Sub(n.Position).Rotate(-n.Angle)

	minX, maxX := math.Min(-px, w-px), math.Max(-px, w-px)
	minY, maxY := math.Min(-py, h-py), math.Max(-py, h-py)
	return local.X >= minX && local.X <= maxX && local.Y >= minY && local.Y <= maxY
}

// IsInside reports whether at least one corner lies inside rect.
func (b *Box) IsInside(rect geom.Rect) bool {
	for _, p := range b.Points {
		if rect.Contains(p.X, p.Y) {
			return true
		}
	}
	return false
}

// MergeEnvelopes returns the union of two envelopes.
func MergeEnvelopes(a, b geom.Rect) geom.Rect {
	return a.Union(b)
}
