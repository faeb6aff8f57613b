// Package render draws resolved animations with ebiten.
//
// Texture is the Drawable the runtime sees; Batch turns the DrawCalls produced by
// Animation.Draw into textured quads on a target image.
package render

import (
	"github.com/decker502/spriter/pkg/geom"
	"github.com/hajimehoshi/ebiten/v2"
)

// Texture is an ebiten image with a normalized pivot.
type Texture struct {
	img   *ebiten.Image
	w, h  float64
	pivot geom.Vector2
}

// NewTexture wraps img. The pivot is normalized y-down: (0,0) is the top-left
// corner and (1,1) the bottom-right one.
func NewTexture(img *ebiten.Image, pivot geom.Vector2) *Texture {
	b := img.Bounds()
	return &Texture{img: img, w: float64(b.Dx()), h: float64(b.Dy()), pivot: pivot}
}

func (t *Texture) Image() *ebiten.Image {
	return t.img
}

func (t *Texture) Size() (float64, float64) {
	return t.w, t.h
}

func (t *Texture) Pivot() geom.Vector2 {
	return t.pivot
}
