// Package geom provides the small 2D math types shared by the animation runtime.
//
// All angles are in degrees. The coordinate system is y-down (screen space), so a
// positive rotation turns clockwise on screen, matching ebiten's GeoM.Rotate.
package geom

import "math"

// Vector2 is a 2D point or direction.
type Vector2 struct {
	X, Y float64
}

// Vec returns a Vector2.
func Vec(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// Add returns v + o.
func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Mul multiplies component-wise.
func (v Vector2) Mul(o Vector2) Vector2 {
	return Vector2{X: v.X * o.X, Y: v.Y * o.Y}
}

// Scale multiplies both components by s.
func (v Vector2) Scale(s float64) Vector2 {
	return Vector2{X: v.X * s, Y: v.Y * s}
}

// Rotate rotates v around the origin by deg degrees.
func (v Vector2) Rotate(deg float64) Vector2 {
	if deg == 0 {
		return v
	}
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return Vector2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Len returns the euclidean length of v.
func (v Vector2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// ApproxEqual reports whether both components differ by at most eps.
func (v Vector2) ApproxEqual(o Vector2, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps
}
