package animation

import (
	"image/color"

	"github.com/decker502/spriter/pkg/geom"
	"github.com/hajimehoshi/ebiten/v2"
)

// Drawable is the image behind a sprite. Implementations are owned by the asset
// layer and must outlive every Animation that references them; the core never
// mutates them.
type Drawable interface {
	// Image is the handle passed to the batch. May be nil for headless use.
	Image() *ebiten.Image
	// Size is the unscaled size in pixels.
	Size() (w, h float64)
	// Pivot is the normalized anchor, (0,0) top-left and (1,1) bottom-right.
	Pivot() geom.Vector2
}

// DrawCall is one positioned sprite handed to a Batch.
type DrawCall struct {
	Image    *ebiten.Image
	Width    float64
	Height   float64
	Pivot    geom.Vector2
	Position geom.Vector2
	Scale    geom.Vector2
	Angle    float64
	Alpha    float64
	// Tint is nil when the sprite is not tinted.
	Tint color.Color
}

// Batch receives draw calls. Alpha is the global alpha every call is
// multiplied by; Animation.Draw scales it and restores it afterwards.
type Batch interface {
	Alpha() float64
	SetAlpha(alpha float64)
	Draw(call DrawCall)
}

// Sprite is an AnimatedPart with an image, alpha and draw order.
type Sprite struct {
	AnimatedPart

	Folder     int
	FolderName string
	File       int

	Drawable Drawable
	Alpha    float64
	ZIndex   int
	Visible  bool

	// Tint is applied at resolve time from the animation's tint overrides.
	Tint color.Color
}

// NewSprite returns an untextured, fully opaque, visible sprite.
func NewSprite() *Sprite {
	return &Sprite{
		AnimatedPart: AnimatedPart{Scale: geom.Vec(1, 1)},
		Folder:       -1,
		File:         -1,
		Alpha:        1,
		Visible:      true,
	}
}

// Set copies the transform of other and, when other is a sprite, its alpha and
// drawable. The z-index belongs to the mainline ref and is left alone.
func (s *Sprite) Set(other Part) {
	s.AnimatedPart.Set(other)
	if o, ok := other.(*Sprite); ok {
		s.Alpha = o.Alpha
		s.Drawable = o.Drawable
	}
}

// ClonePart implements Part. The drawable is shared, not copied.
func (s *Sprite) ClonePart() Part {
	c := *s
	return &c
}

// Draw hands the sprite to batch when it is visible and has an image.
func (s *Sprite) Draw(batch Batch) {
	if s.Drawable == nil || !s.Visible {
		return
	}
	w, h := s.Drawable.Size()
	batch.Draw(DrawCall{
		Image:    s.Drawable.Image(),
		Width:    w,
		Height:   h,
		Pivot:    s.Drawable.Pivot(),
		Position: s.Position,
		Scale:    s.Scale,
		Angle:    s.Angle,
		Alpha:    s.Alpha,
		Tint:     s.Tint,
	})
}
