package animation

import (
	"image/color"

	"github.com/decker502/spriter/pkg/curve"
	"github.com/decker502/spriter/pkg/geom"
	"github.com/hajimehoshi/ebiten/v2"
)

// testDrawable is a headless Drawable with a fixed size and pivot.
type testDrawable struct {
	w, h  float64
	pivot geom.Vector2
}

func (d *testDrawable) Image() *ebiten.Image    { return nil }
func (d *testDrawable) Size() (float64, float64) { return d.w, d.h }
func (d *testDrawable) Pivot() geom.Vector2      { return d.pivot }

// recordingBatch collects draw calls and the alpha active for each.
type recordingBatch struct {
	alpha  float64
	calls  []DrawCall
	alphas []float64
}

func newRecordingBatch(alpha float64) *recordingBatch {
	return &recordingBatch{alpha: alpha}
}

func (b *recordingBatch) Alpha() float64         { return b.alpha }
func (b *recordingBatch) SetAlpha(alpha float64) { b.alpha = alpha }
func (b *recordingBatch) Draw(call DrawCall) {
	b.calls = append(b.calls, call)
	b.alphas = append(b.alphas, b.alpha)
}

func bone(x, y, angle float64) *AnimatedPart {
	return &AnimatedPart{Position: geom.Vec(x, y), Scale: geom.Vec(1, 1), Angle: angle}
}

func sprite(x, y, angle float64, d Drawable) *Sprite {
	s := NewSprite()
	s.Position = geom.Vec(x, y)
	s.Angle = angle
	s.Drawable = d
	return s
}

func key(time int, obj Part) TimelineKey {
	return TimelineKey{Time: time, Object: obj, Curve: curve.Linear, Spin: curve.SpinClockwise}
}

func root(id, timeline, k int) ObjectRef {
	return ObjectRef{ID: id, Timeline: timeline, Key: k, Parent: NoParent}
}

func child(id, timeline, k, parent int) ObjectRef {
	return ObjectRef{ID: id, Timeline: timeline, Key: k, Parent: parent}
}

// layered is a parentless ref drawn at z.
func layered(id, timeline, k, z int) ObjectRef {
	return ObjectRef{ID: id, Timeline: timeline, Key: k, Parent: NoParent, ZIndex: z}
}

// movingAnimation is one sprite timeline "body" moving from (0,0) at 0ms to
// (100,50) at 500ms, with mainline keys at 0 and 500.
func movingAnimation(looping bool) *Animation {
	d := &testDrawable{w: 10, h: 10}
	body := NewTimeline(0, "body", []TimelineKey{
		key(0, sprite(0, 0, 0, d)),
		key(500, sprite(100, 50, 30, d)),
	})
	ml := NewMainline([]MainlineKey{
		{Time: 0, Refs: []ObjectRef{root(0, 0, 0)}},
		{Time: 500, Refs: []ObjectRef{root(0, 0, 1)}},
	})
	return NewAnimation("move", 1000, looping, ml, []*Timeline{body})
}

var red = color.RGBA{R: 255, A: 255}
