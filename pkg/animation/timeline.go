package animation

import (
	"fmt"

	"github.com/decker502/spriter/pkg/curve"
)

// TimelineKey is one keyframe of a timeline. Keys are immutable once loaded.
type TimelineKey struct {
	// Time in milliseconds from the start of the animation.
	Time   int
	Object Part
	Curve  curve.Curve
	Spin   curve.Spin
}

// Clone deep-copies the key and its payload.
func (k TimelineKey) Clone() TimelineKey {
	if k.Object != nil {
		k.Object = k.Object.ClonePart()
	}
	return k
}

// Timeline is the ordered keyframes of one animated part.
type Timeline struct {
	ID   int
	Name string
	Keys []TimelineKey

	sprite  bool
	visible bool
}

// NewTimeline creates a visible timeline. Its element kind (sprite or bare
// part) is fixed from the first key.
func NewTimeline(id int, name string, keys []TimelineKey) *Timeline {
	t := &Timeline{
		ID:      id,
		Name:    name,
		Keys:    keys,
		visible: true,
	}
	if len(keys) > 0 {
		_, t.sprite = keys[0].Object.(*Sprite)
	}
	return t
}

// IsSprite reports whether the keys of this timeline carry sprites.
func (t *Timeline) IsSprite() bool {
	return t.sprite
}

// IsVisible reports whether the timeline takes part in tweening.
func (t *Timeline) IsVisible() bool {
	return t.visible
}

// SetVisible shows or hides the timeline.
func (t *Timeline) SetVisible(visible bool) {
	t.visible = visible
}

// Validate checks that keys are time-ordered and all of the same kind.
// An empty timeline is valid as long as nothing references it.
func (t *Timeline) Validate() error {
	for i, key := range t.Keys {
		if key.Object == nil {
			return fmt.Errorf("timeline %q key %d has no object", t.Name, i)
		}
		if _, isSprite := key.Object.(*Sprite); isSprite != t.sprite {
			return fmt.Errorf("timeline %q key %d changes element kind", t.Name, i)
		}
		if i > 0 && key.Time < t.Keys[i-1].Time {
			return fmt.Errorf("timeline %q key %d at %dms is before key %d at %dms",
				t.Name, i, key.Time, i-1, t.Keys[i-1].Time)
		}
	}
	return nil
}

// Clone deep-copies the timeline, keys included.
func (t *Timeline) Clone() *Timeline {
	keys := make([]TimelineKey, len(t.Keys))
	for i, key := range t.Keys {
		keys[i] = key.Clone()
	}
	return &Timeline{
		ID:      t.ID,
		Name:    t.Name,
		Keys:    keys,
		sprite:  t.sprite,
		visible: t.visible,
	}
}

// CloneTimelines deep-copies a list of timelines.
func CloneTimelines(timelines []*Timeline) []*Timeline {
	out := make([]*Timeline, len(timelines))
	for i, t := range timelines {
		out[i] = t.Clone()
	}
	return out
}
