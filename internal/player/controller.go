// Package player holds the playback controls shared by the viewer and the
// inspector: animation selection, key stepping, speed and presets.
package player

import (
	"fmt"
	"log"
	"strings"

	"github.com/decker502/spriter/pkg/animation"
	"github.com/decker502/spriter/pkg/config"
	"github.com/decker502/spriter/pkg/curve"
	"github.com/decker502/spriter/pkg/project"
	"github.com/decker502/spriter/pkg/settings"
)

// Command is one user action, bound to a key by each tool.
type Command int

const (
	TogglePlay Command = iota
	First
	Last
	NextKey
	PrevKey
	Reset
	Faster
	Slower
	NextAnimation
	PrevAnimation
	ToggleBounds
)

// SpeedStep is added or removed by Faster and Slower.
const SpeedStep = 0.25

// Controller drives the selected animation of one entity.
type Controller struct {
	entity   *project.Entity
	presets  *config.PlaybackFile
	settings *settings.Manager

	index int
	anim  *animation.Animation
	ended bool
}

// NewController selects the animation remembered in store when it belongs to
// entity, and the first one otherwise. presets and store may be nil.
func NewController(entity *project.Entity, presets *config.PlaybackFile, store *settings.Manager) (*Controller, error) {
	if len(entity.Animations()) == 0 {
		return nil, fmt.Errorf("entity %q has no animations: %w", entity.Name, project.ErrAnimationNotFound)
	}
	if store == nil {
		store = settings.NewManager(nil)
	}

	c := &Controller{entity: entity, presets: presets, settings: store}
	index := 0
	if s := store.Settings(); s.Entity == entity.Name {
		for i, a := range entity.Animations() {
			if a.Name() == s.Animation {
				index = i
				break
			}
		}
	}
	c.Select(index)
	return c, nil
}

// Select switches to the animation at index (wrapping), rewinds it, applies
// its preset and starts playback.
func (c *Controller) Select(index int) {
	anims := c.entity.Animations()
	index = ((index % len(anims)) + len(anims)) % len(anims)

	if c.anim != nil {
		c.anim.PausePlay()
		c.anim.SetListener(nil)
	}

	c.index = index
	c.anim = anims[index]
	c.ended = false
	c.anim.SetListener(animation.ListenerFuncs{
		End: func(a *animation.Animation, key int) {
			c.ended = true
			log.Printf("[Animation] %s finished on key %d", a.Name(), key)
		},
	})

	c.anim.SetSpeed(c.settings.Settings().Speed)
	c.anim.First()

	found, err := c.presets.ApplyTo(c.anim)
	if err != nil {
		log.Printf("[PlaybackConfig] Warning: preset for %q: %v", c.anim.Name(), err)
	}
	if !found {
		c.anim.StartPlay()
	}

	c.settings.SetSelection(c.settings.Settings().Project, c.entity.Name, c.anim.Name())
}

// SelectName switches to the animation called name.
func (c *Controller) SelectName(name string) error {
	for i, a := range c.entity.Animations() {
		if a.Name() == name {
			c.Select(i)
			return nil
		}
	}
	return fmt.Errorf("animation %q of entity %q: %w", name, c.entity.Name, project.ErrAnimationNotFound)
}

// Do runs cmd.
func (c *Controller) Do(cmd Command) {
	a := c.anim
	switch cmd {
	case TogglePlay:
		if a.IsPlaying() {
			a.PausePlay()
		} else {
			if c.ended {
				a.First()
				c.ended = false
			}
			a.StartPlay()
		}
	case First:
		a.First()
	case Last:
		a.Last()
	case NextKey:
		a.NextKey()
	case PrevKey:
		a.PrevKey()
	case Reset:
		a.Reset()
	case Faster:
		a.SetSpeed(c.settings.SetSpeed(a.Speed() + SpeedStep))
	case Slower:
		a.SetSpeed(c.settings.SetSpeed(a.Speed() - SpeedStep))
	case NextAnimation:
		c.Select(c.index + 1)
	case PrevAnimation:
		c.Select(c.index - 1)
	case ToggleBounds:
		c.settings.ToggleBounds()
	}
}

// Update advances the animation by deltaMs.
func (c *Controller) Update(deltaMs float64) {
	c.anim.Update(deltaMs)
}

// Animation returns the selected animation.
func (c *Controller) Animation() *animation.Animation {
	return c.anim
}

// Index returns the index of the selected animation.
func (c *Controller) Index() int {
	return c.index
}

// Entity returns the controlled entity.
func (c *Controller) Entity() *project.Entity {
	return c.entity
}

// Settings returns the settings manager.
func (c *Controller) Settings() *settings.Manager {
	return c.settings
}

// Ended reports whether a non-looping animation stopped on its last key.
func (c *Controller) Ended() bool {
	return c.ended
}

// Status is a one-line summary of the playback state.
func (c *Controller) Status() string {
	a := c.anim
	_, key := a.CurrentKey()
	state := "paused"
	switch {
	case a.IsPlaying():
		state = "playing"
	case c.ended:
		state = "ended"
	}
	loop := ""
	if a.IsLooping() {
		loop = " loop"
	}
	return fmt.Sprintf("%s/%s  t=%.0f/%dms  key %d/%d  speed %.2fx  %s%s",
		c.entity.Name, a.Name(), a.Time(), a.Length(), key+1, a.Mainline().Len(), a.Speed(), state, loop)
}

// PartRow is the resolved state of one timeline, for display.
type PartRow struct {
	Timeline string
	Sprite   bool
	Visible  bool
	X, Y     float64
	Angle    float64
	ScaleX   float64
	ScaleY   float64
	Z        int
	Alpha    float64
}

// Rows lists the resolved parts in timeline order.
func (c *Controller) Rows() []PartRow {
	timelines := c.anim.Timelines()
	rows := make([]PartRow, len(timelines))
	for i, part := range c.anim.Parts() {
		n := part.Node()
		row := PartRow{
			Timeline: timelines[i].Name,
			Visible:  timelines[i].IsVisible(),
			X:        n.Position.X,
			Y:        n.Position.Y,
			Angle:    curve.NormalizeAngle(n.Angle),
			ScaleX:   n.Scale.X,
			ScaleY:   n.Scale.Y,
			Alpha:    1,
		}
		if s, ok := part.(*animation.Sprite); ok {
			row.Sprite = true
			row.Visible = s.Visible
			row.Z = s.ZIndex
			row.Alpha = s.Alpha
		}
		rows[i] = row
	}
	return rows
}

// String formats the row as a fixed-width table line.
func (r PartRow) String() string {
	kind := "bone"
	if r.Sprite {
		kind = "sprite"
	}
	vis := " "
	if r.Visible {
		vis = "*"
	}
	name := r.Timeline
	if runes := []rune(name); len(runes) > 16 {
		name = string(runes[:15]) + "~"
	}
	return fmt.Sprintf("%s %-16s %-6s %8.1f %8.1f %7.1f %5.2f %5.2f %3d %4.2f",
		vis, name, kind, r.X, r.Y, r.Angle, r.ScaleX, r.ScaleY, r.Z, r.Alpha)
}

// RowHeader is the column header matching PartRow.String.
var RowHeader = strings.Join([]string{
	"  timeline        ", "kind  ", "       x", "        y", "  angle", "   sx", "   sy", "  z", " alpha",
}, "")
