package animation

import (
	"cmp"
	"fmt"
	"image/color"
	"log"
	"math"
	"slices"

	"github.com/decker502/spriter/pkg/geom"
)

// Transformation is a per-timeline pose override. It runs after interpolation
// and before the part is composed into its parent's space, and may mutate the
// resolved part in place.
type Transformation func(part Part)

// Animation plays one Spriter animation.
//
// Playback is driven by two flags instead of a strict state enum: canPlay makes
// Update advance time, canAutoAdvance makes Update pick the mainline key from the
// current time. Key stepping (First/Last/NextKey/PrevKey) turns auto-advance off
// so it can coexist with timed playback.
type Animation struct {
	name    string
	length  int // ms
	looping bool

	mainline  *Mainline
	timelines []*Timeline

	// parts holds the resolved state, one per timeline, reused every frame.
	parts []Part
	// sprites is the subset of parts that draw, kept in z-order.
	sprites []*Sprite

	transformations map[string]Transformation
	// tints is the drawable override layer keyed by timeline index.
	tints map[int]color.Color

	time  float64 // ms
	speed float64
	alpha float64

	root AnimatedPart

	zIndexChanged bool
	sortCount     int

	canPlay        bool
	canAutoAdvance bool
	current        *MainlineKey
	currentIndex   int

	// stamps marks parts already resolved during the frame numbered frame,
	// so parents are composed before their children.
	stamps []uint64
	frame  uint64

	listener Listener
}

// NewAnimation builds a player over mainline and timelines. Timeline i is the
// target of ObjectRef.Timeline == i. The animation starts paused at time 0 with
// auto-advance enabled; nothing is resolved until the first Update.
func NewAnimation(name string, length int, looping bool, mainline *Mainline, timelines []*Timeline) *Animation {
	a := &Animation{
		name:            name,
		length:          length,
		looping:         looping,
		mainline:        mainline,
		timelines:       timelines,
		parts:           make([]Part, len(timelines)),
		transformations: make(map[string]Transformation),
		tints:           make(map[int]color.Color),
		speed:           1,
		alpha:           1,
		root:            AnimatedPart{Scale: geom.Vec(1, 1)},
		canAutoAdvance:  true,
		currentIndex:    -1,
		stamps:          make([]uint64, len(timelines)),
	}

	for i, tl := range timelines {
		if tl.IsSprite() {
			s := NewSprite()
			a.parts[i] = s
			a.sprites = append(a.sprites, s)
		} else {
			a.parts[i] = NewAnimatedPart()
		}
	}
	return a
}

// Clone returns an independent animation over deep copies of the mainline and
// timelines. Playback state, overrides and listeners are not copied.
func (a *Animation) Clone() *Animation {
	return NewAnimation(a.name, a.length, a.looping, a.mainline.Clone(), CloneTimelines(a.timelines))
}

// ==================================================================
// Playback
// ==================================================================

// Update advances time by speed*delta (ms) when playing, picks the active
// mainline key when auto-advance is on, and re-tweens every ref of that key.
func (a *Animation) Update(delta float64) {
	if a.canPlay {
		a.SetTime(a.time + a.speed*delta)
	}
	if !a.looping && a.current != nil && a.currentIndex == a.mainline.Len()-1 && a.canPlay {
		a.canPlay = false
		if a.listener != nil {
			a.listener.OnEnd(a, a.currentIndex)
		}
	}

	if a.canAutoAdvance {
		key, index := a.mainline.KeyBeforeTime(a.time, a.looping)
		a.setCurrent(key, index)
	}
	if a.current == nil {
		return
	}
	a.apply(a.current, a.time)
}

// Seek moves to time (wrapped or clamped like SetTime), resolves the key at that
// time and re-tweens. The play/pause state is left alone.
func (a *Animation) Seek(time float64) {
	a.SetTime(time)
	key, index := a.mainline.KeyBeforeTime(a.time, a.looping)
	a.setCurrent(key, index)
	a.apply(key, a.time)
}

// Reset rewinds to 0 and resolves the pose there.
func (a *Animation) Reset() {
	a.time = 0
	a.Update(0)
}

// First re-enables auto-advance and rewinds.
func (a *Animation) First() {
	a.canAutoAdvance = true
	a.Reset()
}

// Last jumps to the last mainline key.
func (a *Animation) Last() {
	a.ensureCursor()
	a.gotoKey(a.mainline.Len() - 1)
}

// NextKey steps to the next mainline key, wrapping to the first.
func (a *Animation) NextKey() {
	a.ensureCursor()
	_, index := a.mainline.Next(a.currentIndex, true)
	a.gotoKey(index)
}

// PrevKey steps to the previous mainline key, wrapping to the last.
func (a *Animation) PrevKey() {
	a.ensureCursor()
	_, index := a.mainline.Prev(a.currentIndex, true)
	a.gotoKey(index)
}

// ensureCursor resolves time 0 when no key has been selected yet.
func (a *Animation) ensureCursor() {
	if a.current == nil {
		log.Printf("[Animation] %s: stepping before first update, resolving at t=0", a.name)
		a.Update(0)
	}
}

// gotoKey disables auto-advance and shows key index at its own time, so the
// cursor, the clock and the pose always name the same snapshot.
func (a *Animation) gotoKey(index int) {
	a.canAutoAdvance = false

	key := a.mainline.Key(index)
	if key == nil {
		return
	}
	a.setCurrent(key, index)
	a.ApplyKey(key, float64(key.Time))
}

// ApplyKey shows key at time without touching the cursor.
func (a *Animation) ApplyKey(key *MainlineKey, time float64) {
	if key == nil {
		return
	}
	a.SetTime(time)
	a.apply(key, a.time)
}

func (a *Animation) setCurrent(key *MainlineKey, index int) {
	changed := index != a.currentIndex
	a.current = key
	a.currentIndex = index
	if changed && a.listener != nil {
		a.listener.OnProgress(a, index, a.mainline.Len())
	}
}

// StartPlay starts timed playback with auto-advance.
func (a *Animation) StartPlay() {
	a.SetPlay(true)
}

// PausePlay stops time from advancing.
func (a *Animation) PausePlay() {
	a.canPlay = false
}

// SetPlay starts or pauses playback. Starting re-enables auto-advance.
func (a *Animation) SetPlay(play bool) {
	wasPlaying := a.canPlay
	a.canPlay = play
	if !play {
		return
	}
	a.canAutoAdvance = true
	if !wasPlaying && a.listener != nil {
		a.listener.OnStart(a, max(a.currentIndex, 0))
	}
}

// IsPlaying reports whether Update advances time.
func (a *Animation) IsPlaying() bool {
	return a.canPlay
}

// IsDone reports whether time sits exactly at the end. A looping animation
// never gets there.
func (a *Animation) IsDone() bool {
	return a.time == float64(a.length)
}

// ==================================================================
// Tweening
// ==================================================================

// apply hides every sprite, then resolves each ref of key at time. Sprites the
// key does not reach stay hidden.
func (a *Animation) apply(key *MainlineKey, time float64) {
	for _, s := range a.sprites {
		s.Visible = false
	}
	a.frame++
	for i := range key.Refs {
		a.resolve(key, i, time)
	}
}

// resolve tweens the ref at position i after making sure its parent in the same
// snapshot is resolved, so a re-parented part never composes against a stale
// parent.
func (a *Animation) resolve(key *MainlineKey, i int, time float64) {
	ref := &key.Refs[i]
	if a.stamps[ref.Timeline] == a.frame {
		return
	}
	a.stamps[ref.Timeline] = a.frame

	parent := &a.root
	if ref.Parent != NoParent {
		if pi := key.refIndex(ref.Parent); pi >= 0 {
			a.resolve(key, pi, time)
			parent = a.parts[key.Refs[pi].Timeline].Node()
		}
	}
	a.tween(key, ref, time, parent)
}

func (a *Animation) tween(mainKey *MainlineKey, ref *ObjectRef, time float64, parent *AnimatedPart) {
	timeline := a.timelines[ref.Timeline]
	if !timeline.IsVisible() {
		return
	}

	tweened := a.parts[ref.Timeline]
	key := &timeline.Keys[ref.Key]
	transform := a.transformations[timeline.Name]

	var next *TimelineKey
	var timeOfNext int

	if ref.Key+1 == len(timeline.Keys) {
		if !a.looping {
			// Last key of a non-looping timeline: freeze on it.
			tweened.Set(key.Object)
			a.finishSprite(tweened, ref)
			if transform != nil {
				transform(tweened)
			}
			tweened.Node().Unmap(parent)
			return
		}
		next = &timeline.Keys[0]
		timeOfNext = next.Time + a.length
	} else {
		next = &timeline.Keys[ref.Key+1]
		timeOfNext = next.Time
	}

	ratio := 0.0
	if diff := float64(timeOfNext - key.Time); diff != 0 {
		ratio = mainKey.Curve.Apply((time - float64(key.Time)) / diff)
	}

	from := key.Object.Node()
	to := next.Object.Node()
	c := key.Curve

	n := tweened.Node()
	n.Angle = c.InterpolateAngle(from.Angle, to.Angle, ratio, key.Spin)
	n.Position = c.InterpolateVector(from.Position, to.Position, ratio)
	n.Scale = c.InterpolateVector(from.Scale, to.Scale, ratio)

	if s, ok := tweened.(*Sprite); ok {
		s1, ok1 := key.Object.(*Sprite)
		s2, ok2 := next.Object.(*Sprite)
		if ok1 && ok2 {
			s.Alpha = c.Interpolate(s1.Alpha, s2.Alpha, ratio)
			s.Drawable = s1.Drawable
			s.Folder, s.FolderName, s.File = s1.Folder, s1.FolderName, s1.File
		}
		a.finishSprite(s, ref)
	}

	if transform != nil {
		transform(tweened)
	}
	n.Unmap(parent)
}

// finishSprite marks a resolved sprite visible, takes its z-index from the
// snapshot's ref and applies its tint override.
func (a *Animation) finishSprite(part Part, ref *ObjectRef) {
	s, ok := part.(*Sprite)
	if !ok {
		return
	}
	s.Visible = true
	if s.ZIndex != ref.ZIndex {
		s.ZIndex = ref.ZIndex
		a.zIndexChanged = true
	}
	s.Tint = a.tints[ref.Timeline]
}

// ==================================================================
// Drawing and hit-testing
// ==================================================================

// sortSprites re-sorts sprites by z-index when a z-index changed since the
// last sort. The sort is stable, so equal z-indices keep timeline order.
func (a *Animation) sortSprites() {
	if !a.zIndexChanged {
		return
	}
	slices.SortStableFunc(a.sprites, func(x, y *Sprite) int {
		return cmp.Compare(x.ZIndex, y.ZIndex)
	})
	a.zIndexChanged = false
	a.sortCount++
}

// Draw hands every visible sprite to batch in z-order, with the batch alpha
// multiplied by the animation alpha for the duration of the call.
func (a *Animation) Draw(batch Batch) {
	a.sortSprites()

	prev := batch.Alpha()
	batch.SetAlpha(prev * a.alpha)
	for _, s := range a.sprites {
		s.Draw(batch)
	}
	batch.SetAlpha(prev)
}

// SpriteAt returns the top-most visible sprite whose footprint contains (x, y).
func (a *Animation) SpriteAt(x, y float64) (*Sprite, bool) {
	a.sortSprites()

	var box Box
	for i := len(a.sprites) - 1; i >= 0; i-- {
		s := a.sprites[i]
		if s.Visible && s.Drawable != nil && box.Collides(s, x, y) {
			return s, true
		}
	}
	return nil, false
}

// BoundingRectangle returns the envelope of the active key's parts. With a nil
// root every ref of the key is merged; otherwise only the refs whose parent is
// root. The walk is one level deep: grandchildren of root are not included.
// When no ref contributes, the result is the empty rectangle at the position
// of root, or of the animation when root is nil.
func (a *Animation) BoundingRectangle(root *ObjectRef) geom.Rect {
	key, _ := a.mainline.KeyBeforeTime(a.time, a.looping)

	var rect geom.Rect
	merged := false
	var box Box
	for _, ref := range key.Refs {
		if root != nil && ref.Parent != root.ID {
			continue
		}
		if !a.timelines[ref.Timeline].IsVisible() {
			continue
		}
		box.CalcFor(a.parts[ref.Timeline])
		if !merged {
			rect, merged = box.BoundingRect(), true
			continue
		}
		rect = MergeEnvelopes(rect, box.BoundingRect())
	}
	if merged {
		return rect
	}

	origin := a.root.Position
	if root != nil {
		origin = a.parts[root.Timeline].Node().Position
	}
	return geom.RectAt(origin.X, origin.Y)
}

// ==================================================================
// Overrides
// ==================================================================

// SetTransformation registers fn for the timeline called name. A nil fn
// removes the override.
func (a *Animation) SetTransformation(name string, fn Transformation) {
	if fn == nil {
		delete(a.transformations, name)
		return
	}
	a.transformations[name] = fn
}

// Transformations returns the registered overrides by timeline name.
func (a *Animation) Transformations() map[string]Transformation {
	return a.transformations
}

// MakeTimelineVisible sets the visibility of every timeline named in values.
// Names that match no timeline are ignored.
func (a *Animation) MakeTimelineVisible(values map[string]bool) {
	for _, tl := range a.timelines {
		if v, ok := values[tl.Name]; ok {
			tl.SetVisible(v)
		}
	}
}

// TintSprite tints every sprite timeline called name. A nil color clears the tint.
func (a *Animation) TintSprite(name string, c color.Color) error {
	found := false
	for _, tl := range a.timelines {
		if tl.Name == name {
			a.TintTimeline(tl, c)
			found = true
		}
	}
	if !found {
		return fmt.Errorf("tint %q in animation %q: %w", name, a.name, ErrTimelineNotFound)
	}
	return nil
}

// TintAll tints every sprite timeline. A nil color clears all tints.
func (a *Animation) TintAll(c color.Color) {
	for _, tl := range a.timelines {
		a.TintTimeline(tl, c)
	}
}

// TintTimeline tints one timeline of this animation. Bone timelines and
// timelines of other animations are ignored.
func (a *Animation) TintTimeline(tl *Timeline, c color.Color) {
	if tl == nil || !tl.IsSprite() {
		return
	}
	for i, own := range a.timelines {
		if own != tl {
			continue
		}
		if c == nil {
			delete(a.tints, i)
		} else {
			a.tints[i] = c
		}
	}
}

// ==================================================================
// Accessors
// ==================================================================

// Name returns the animation name.
func (a *Animation) Name() string {
	return a.name
}

// Length returns the duration in ms.
func (a *Animation) Length() int {
	return a.length
}

// IsLooping reports whether time wraps at the end.
func (a *Animation) IsLooping() bool {
	return a.looping
}

// SetLooping changes the looping mode.
func (a *Animation) SetLooping(looping bool) {
	a.looping = looping
}

// Time returns the current time in ms.
func (a *Animation) Time() float64 {
	return a.time
}

// SetTime sets the time without re-tweening. Looping animations wrap into
// [0, length); others are clamped to [0, length].
func (a *Animation) SetTime(time float64) {
	length := float64(a.length)
	if a.looping {
		if length <= 0 {
			a.time = 0
			return
		}
		time = math.Mod(time, length)
		if time < 0 {
			time += length
		}
		if time >= length {
			time = 0
		}
	} else {
		time = math.Max(0, math.Min(time, length))
	}
	a.time = time
}

// Speed returns the time scale.
func (a *Animation) Speed() float64 {
	return a.speed
}

// SetSpeed sets the time scale. Negative values play backwards.
func (a *Animation) SetSpeed(speed float64) {
	a.speed = speed
}

// Alpha returns the animation alpha.
func (a *Animation) Alpha() float64 {
	return a.alpha
}

// SetAlpha sets the alpha multiplied into the batch on Draw.
func (a *Animation) SetAlpha(alpha float64) {
	a.alpha = alpha
}

// Root returns the implicit root every parentless ref composes against.
func (a *Animation) Root() *AnimatedPart {
	return &a.root
}

// SetPosition moves the root.
func (a *Animation) SetPosition(x, y float64) {
	a.root.Position = geom.Vec(x, y)
}

// Position returns the root position.
func (a *Animation) Position() geom.Vector2 {
	return a.root.Position
}

// SetAngle rotates the root.
func (a *Animation) SetAngle(angle float64) {
	a.root.Angle = angle
}

// Angle returns the root angle.
func (a *Animation) Angle() float64 {
	return a.root.Angle
}

// SetScale scales the root.
func (a *Animation) SetScale(x, y float64) {
	a.root.Scale = geom.Vec(x, y)
}

// Scale returns the root scale.
func (a *Animation) Scale() geom.Vector2 {
	return a.root.Scale
}

// Mainline returns the mainline.
func (a *Animation) Mainline() *Mainline {
	return a.mainline
}

// Timelines returns the timelines. Index i is resolved into Parts()[i].
func (a *Animation) Timelines() []*Timeline {
	return a.timelines
}

// Timeline returns the first timeline called name.
func (a *Animation) Timeline(name string) (*Timeline, error) {
	for _, tl := range a.timelines {
		if tl.Name == name {
			return tl, nil
		}
	}
	return nil, fmt.Errorf("timeline %q in animation %q: %w", name, a.name, ErrTimelineNotFound)
}

// Parts returns the resolved state, indexed like Timelines().
func (a *Animation) Parts() []Part {
	return a.parts
}

// Sprites returns the resolved sprites in their last sorted draw order.
func (a *Animation) Sprites() []*Sprite {
	return a.sprites
}

// CurrentKey returns the active mainline key and its index, or (nil, -1)
// before the first update.
func (a *Animation) CurrentKey() (*MainlineKey, int) {
	return a.current, a.currentIndex
}

// SetListener installs l, replacing any previous listener. Nil removes it.
func (a *Animation) SetListener(l Listener) {
	a.listener = l
}
