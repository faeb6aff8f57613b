// Package animation is the playback core of the Spriter runtime.
//
// An Animation owns a Mainline (which timelines are live at each sample point and
// how they are parented) and a list of Timelines (the keyframes of one part each).
// Every Update tweens the timelines referenced by the active mainline key into a
// reused array of resolved parts, composes the hierarchy, and keeps the sprites in
// z-order for Draw.
//
// The package is single-threaded: an Animation mutates its resolved state in place
// and must not be updated or read concurrently. Clones are fully independent.
package animation

import "github.com/decker502/spriter/pkg/geom"

// Part is anything a timeline key can carry: a bare transform (*AnimatedPart,
// used for bones) or a visual part (*Sprite).
type Part interface {
	// Node returns the transform of the part.
	Node() *AnimatedPart
	// Set copies the values of other into the part.
	Set(other Part)
	// ClonePart returns a deep copy.
	ClonePart() Part
}

// AnimatedPart is a local transform: position, scale and angle in degrees.
// The angle is kept unnormalized so tweens keep their spin direction.
type AnimatedPart struct {
	Position geom.Vector2
	Scale    geom.Vector2
	Angle    float64
}

// NewAnimatedPart returns an identity transform.
func NewAnimatedPart() *AnimatedPart {
	return &AnimatedPart{Scale: geom.Vec(1, 1)}
}

// Node implements Part.
func (p *AnimatedPart) Node() *AnimatedPart {
	return p
}

// Set copies the transform of other.
func (p *AnimatedPart) Set(other Part) {
	n := other.Node()
	p.Position = n.Position
	p.Scale = n.Scale
	p.Angle = n.Angle
}

// ClonePart implements Part.
func (p *AnimatedPart) ClonePart() Part {
	c := *p
	return &c
}

// SetPosition sets the position.
func (p *AnimatedPart) SetPosition(x, y float64) {
	p.Position = geom.Vec(x, y)
}

// SetScale sets the scale.
func (p *AnimatedPart) SetScale(x, y float64) {
	p.Scale = geom.Vec(x, y)
}

// Unmap re-expresses p, given in parent's local space, in the space parent
// itself lives in. Mirrored parents (one negative scale axis) flip the angle.
func (p *AnimatedPart) Unmap(parent *AnimatedPart) {
	p.Angle *= sign(parent.Scale.X) * sign(parent.Scale.Y)
	p.Angle += parent.Angle
	p.Scale = p.Scale.Mul(parent.Scale)
	p.Position = p.Position.Mul(parent.Scale).Rotate(parent.Angle).Add(parent.Position)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
