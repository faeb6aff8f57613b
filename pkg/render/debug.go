package render

import (
	"image/color"

	"github.com/decker502/spriter/pkg/animation"
	"github.com/decker502/spriter/pkg/geom"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	boxColor    = color.RGBA{R: 0, G: 200, B: 255, A: 255}
	boundsColor = color.RGBA{R: 255, G: 80, B: 80, A: 255}
)

// DrawBoxes outlines the oriented box of every visible sprite and the
// envelope of the whole pose.
func DrawBoxes(dst *ebiten.Image, camera ebiten.GeoM, anim *animation.Animation) {
	var box animation.Box
	for _, s := range anim.Sprites() {
		if !s.Visible || s.Drawable == nil {
			continue
		}
		box.CalcFor(s)
		p := box.Points
		// top-left, top-right, bottom-right, bottom-left
		outline(dst, camera, boxColor, p[0], p[1], p[3], p[2])
	}

	r := anim.BoundingRectangle(nil)
	outline(dst, camera, boundsColor,
		geom.Vec(r.Left, r.Top), geom.Vec(r.Right, r.Top),
		geom.Vec(r.Right, r.Bottom), geom.Vec(r.Left, r.Bottom))
}

func outline(dst *ebiten.Image, camera ebiten.GeoM, clr color.Color, pts ...geom.Vector2) {
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		x0, y0 := camera.Apply(a.X, a.Y)
		x1, y1 := camera.Apply(b.X, b.Y)
		vector.StrokeLine(dst, float32(x0), float32(y0), float32(x1), float32(y1), 1, clr, true)
	}
}
