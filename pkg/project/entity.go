package project

import (
	"fmt"

	"github.com/decker502/spriter/pkg/animation"
)

// Entity is a named character: a set of animations sharing the same parts.
type Entity struct {
	ID   int
	Name string

	animations []*animation.Animation
}

// NewEntity creates an entity with the given animations, in order.
func NewEntity(id int, name string, animations ...*animation.Animation) *Entity {
	return &Entity{ID: id, Name: name, animations: animations}
}

// AddAnimation appends anim.
func (e *Entity) AddAnimation(anim *animation.Animation) {
	e.animations = append(e.animations, anim)
}

// Animation returns the animation called name.
func (e *Entity) Animation(name string) (*animation.Animation, error) {
	for _, a := range e.animations {
		if a.Name() == name {
			return a, nil
		}
	}
	return nil, fmt.Errorf("animation %q of entity %q: %w", name, e.Name, ErrAnimationNotFound)
}

// AnimationAt returns the animation at index.
func (e *Entity) AnimationAt(index int) (*animation.Animation, error) {
	if index < 0 || index >= len(e.animations) {
		return nil, fmt.Errorf("animation #%d of entity %q: %w", index, e.Name, ErrAnimationNotFound)
	}
	return e.animations[index], nil
}

// Animations returns the animations in declaration order.
func (e *Entity) Animations() []*animation.Animation {
	return e.animations
}

// Clone returns an entity whose animations are independent clones.
func (e *Entity) Clone() *Entity {
	anims := make([]*animation.Animation, len(e.animations))
	for i, a := range e.animations {
		anims[i] = a.Clone()
	}
	return &Entity{ID: e.ID, Name: e.Name, animations: anims}
}
