package animation

import (
	"fmt"

	"github.com/decker502/spriter/pkg/curve"
)

// NoParent marks an ObjectRef composed against the animation root.
const NoParent = -1

// ObjectRef points a mainline key at one key of one timeline.
type ObjectRef struct {
	// ID identifies the ref inside its mainline key.
	ID int
	// Timeline is the index of the referenced timeline in the animation.
	Timeline int
	// Key is the index into that timeline's keys.
	Key int
	// Parent is the ID of another ref of the same mainline key, or NoParent.
	Parent int
	// ZIndex is the draw order of a sprite ref within this snapshot.
	ZIndex int
}

// MainlineKey is a snapshot: which timelines are live from Time on and how they
// are parented. Ref order is the base draw precedence.
type MainlineKey struct {
	Time  int
	Curve curve.Curve
	Refs  []ObjectRef
}

// refIndex returns the position of the ref with the given ID, or -1.
func (k *MainlineKey) refIndex(id int) int {
	if id >= 0 && id < len(k.Refs) && k.Refs[id].ID == id {
		return id
	}
	for i := range k.Refs {
		if k.Refs[i].ID == id {
			return i
		}
	}
	return -1
}

// Ref returns the ref with the given ID.
func (k *MainlineKey) Ref(id int) (*ObjectRef, bool) {
	i := k.refIndex(id)
	if i < 0 {
		return nil, false
	}
	return &k.Refs[i], true
}

// Children returns the refs whose parent is id. Use NoParent for the roots.
func (k *MainlineKey) Children(id int) []ObjectRef {
	var out []ObjectRef
	for _, ref := range k.Refs {
		if ref.Parent == id {
			out = append(out, ref)
		}
	}
	return out
}

func (k MainlineKey) clone() MainlineKey {
	refs := make([]ObjectRef, len(k.Refs))
	copy(refs, k.Refs)
	k.Refs = refs
	return k
}

// Mainline is the ordered list of snapshots of an animation.
// It must hold at least one key; keys are strictly increasing in time.
type Mainline struct {
	keys []MainlineKey
}

// NewMainline wraps keys. See Validate for the expected invariants.
func NewMainline(keys []MainlineKey) *Mainline {
	return &Mainline{keys: keys}
}

// Clone deep-copies the mainline.
func (m *Mainline) Clone() *Mainline {
	keys := make([]MainlineKey, len(m.keys))
	for i, k := range m.keys {
		keys[i] = k.clone()
	}
	return &Mainline{keys: keys}
}

// Len returns the number of keys.
func (m *Mainline) Len() int {
	return len(m.keys)
}

// Keys returns the keys. Callers must not modify them.
func (m *Mainline) Keys() []MainlineKey {
	return m.keys
}

// Key returns the key at index, or nil when index is out of range.
func (m *Mainline) Key(index int) *MainlineKey {
	if index < 0 || index >= len(m.keys) {
		return nil
	}
	return &m.keys[index]
}

// KeyBeforeTime returns the last key whose time is <= time, with its index.
// When no key qualifies it returns the last key if wrapAround is set (playback
// that wrapped past the end keeps showing the last snapshot) and the first one
// otherwise (playback before 0 is clamped to the first snapshot).
func (m *Mainline) KeyBeforeTime(time float64, wrapAround bool) (*MainlineKey, int) {
	index := 0
	if wrapAround {
		index = len(m.keys) - 1
	}
	for i := range m.keys {
		if float64(m.keys[i].Time) > time {
			break
		}
		index = i
	}
	return &m.keys[index], index
}

// Next returns the key after index. Past the end it returns the first key when
// wrapAround is set and the last key otherwise.
func (m *Mainline) Next(index int, wrapAround bool) (*MainlineKey, int) {
	index++
	if index >= len(m.keys) {
		if wrapAround {
			index = 0
		} else {
			index = len(m.keys) - 1
		}
	}
	return &m.keys[index], index
}

// Prev returns the key before index. Before the start it returns the last key
// when wrapAround is set and the first key otherwise.
func (m *Mainline) Prev(index int, wrapAround bool) (*MainlineKey, int) {
	index--
	if index < 0 {
		if wrapAround {
			index = len(m.keys) - 1
		} else {
			index = 0
		}
	}
	return &m.keys[index], index
}

// Validate checks the mainline against its timelines: at least one key, strictly
// increasing times, refs pointing at existing non-empty timelines and keys, and
// parents present in the same snapshot.
func (m *Mainline) Validate(timelines []*Timeline) error {
	if len(m.keys) == 0 {
		return fmt.Errorf("mainline has no keys")
	}
	for i := range m.keys {
		key := &m.keys[i]
		if i > 0 && key.Time <= m.keys[i-1].Time {
			return fmt.Errorf("mainline key %d at %dms does not follow key %d at %dms",
				i, key.Time, i-1, m.keys[i-1].Time)
		}
		for _, ref := range key.Refs {
			if ref.Timeline < 0 || ref.Timeline >= len(timelines) {
				return fmt.Errorf("mainline key %d ref %d: timeline %d does not exist", i, ref.ID, ref.Timeline)
			}
			tl := timelines[ref.Timeline]
			if ref.Key < 0 || ref.Key >= len(tl.Keys) {
				return fmt.Errorf("mainline key %d ref %d: timeline %q has no key %d", i, ref.ID, tl.Name, ref.Key)
			}
			if ref.Parent != NoParent && key.refIndex(ref.Parent) < 0 {
				return fmt.Errorf("mainline key %d ref %d: parent %d not in snapshot", i, ref.ID, ref.Parent)
			}
		}
	}
	return nil
}
