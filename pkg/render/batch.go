package render

import (
	"image/color"
	"math"

	"github.com/decker502/spriter/pkg/animation"
	"github.com/hajimehoshi/ebiten/v2"
)

// quadIndices splits a quad (top-left, top-right, bottom-left, bottom-right)
// into two triangles.
var quadIndices = []uint16{0, 1, 2, 1, 3, 2}

// Batch draws sprites onto Target through the Camera transform.
// It implements animation.Batch.
type Batch struct {
	Target *ebiten.Image
	// Camera maps animation space to target pixels.
	Camera ebiten.GeoM

	alpha    float64
	vertices [4]ebiten.Vertex
	drawn    int
}

// NewBatch returns a batch drawing onto target with an identity camera and
// full alpha.
func NewBatch(target *ebiten.Image) *Batch {
	return &Batch{Target: target, alpha: 1}
}

func (b *Batch) Alpha() float64 {
	return b.alpha
}

func (b *Batch) SetAlpha(alpha float64) {
	b.alpha = alpha
}

// Drawn returns the number of quads drawn since the last Reset.
func (b *Batch) Drawn() int {
	return b.drawn
}

// Reset clears the draw counter.
func (b *Batch) Reset() {
	b.drawn = 0
}

// Draw renders one sprite. Calls without an image are skipped.
func (b *Batch) Draw(call animation.DrawCall) {
	if call.Image == nil || b.Target == nil {
		return
	}

	m := SpriteGeoM(call)
	m.Concat(b.Camera)
	corners := QuadCorners(m, call.Width, call.Height)
	r, g, bl, a := VertexColor(call.Tint, call.Alpha*b.alpha)

	src := [4][2]float32{{0, 0}, {float32(call.Width), 0}, {0, float32(call.Height)}, {float32(call.Width), float32(call.Height)}}
	for i := range b.vertices {
		b.vertices[i] = ebiten.Vertex{
			DstX:   float32(corners[i][0]),
			DstY:   float32(corners[i][1]),
			SrcX:   src[i][0],
			SrcY:   src[i][1],
			ColorR: r,
			ColorG: g,
			ColorB: bl,
			ColorA: a,
		}
	}
	b.Target.DrawTriangles(b.vertices[:], quadIndices, call.Image, &ebiten.DrawTrianglesOptions{Filter: ebiten.FilterLinear})
	b.drawn++
}

// SpriteGeoM maps image pixels to animation space: the pivot is moved to the
// origin, then the image is scaled, rotated and translated to the sprite pose.
func SpriteGeoM(call animation.DrawCall) ebiten.GeoM {
	var m ebiten.GeoM
	m.Translate(-call.Width*call.Pivot.X, -call.Height*call.Pivot.Y)
	m.Scale(call.Scale.X, call.Scale.Y)
	m.Rotate(call.Angle * deg2rad)
	m.Translate(call.Position.X, call.Position.Y)
	return m
}

// QuadCorners applies m to the corners of a w×h image in the order
// top-left, top-right, bottom-left, bottom-right.
func QuadCorners(m ebiten.GeoM, w, h float64) [4][2]float64 {
	var out [4][2]float64
	for i, p := range [4][2]float64{{0, 0}, {w, 0}, {0, h}, {w, h}} {
		out[i][0], out[i][1] = m.Apply(p[0], p[1])
	}
	return out
}

// VertexColor returns the straight-alpha vertex color for tint and alpha.
// A nil tint is white.
func VertexColor(tint color.Color, alpha float64) (r, g, b, a float32) {
	r, g, b, a = 1, 1, 1, 1
	if tint != nil {
		c := color.NRGBAModel.Convert(tint).(color.NRGBA)
		r = float32(c.R) / 0xff
		g = float32(c.G) / 0xff
		b = float32(c.B) / 0xff
		a = float32(c.A) / 0xff
	}
	return r, g, b, a * float32(clamp01(alpha))
}

const deg2rad = math.Pi / 180

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

var _ animation.Batch = (*Batch)(nil)
