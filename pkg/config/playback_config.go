// Package config loads the YAML playback presets applied to animations when
// the tools open them.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/decker502/spriter/pkg/animation"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a playback file parses but holds values
// that cannot be applied.
var ErrInvalidConfig = errors.New("invalid playback config")

// PlaybackFile is the root of a playback preset file.
//
//	version: "1"
//	animations:
//	  walk:
//	    speed: 1.5
//	    looping: true
//	    hidden_timelines: [shadow]
//	    tints:
//	      head: "#ff8080"
//	    autoplay: true
type PlaybackFile struct {
	Version    string                    `yaml:"version"`
	Animations map[string]PlaybackPreset `yaml:"animations"`
}

// Point is an x/y pair in the YAML file.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// PlaybackPreset overrides the playback of one animation. Nil fields leave the
// animation untouched.
type PlaybackPreset struct {
	Speed    *float64 `yaml:"speed"`
	Looping  *bool    `yaml:"looping"`
	Alpha    *float64 `yaml:"alpha"`
	Scale    *Point   `yaml:"scale"`
	Position *Point   `yaml:"position"`
	Angle    *float64 `yaml:"angle"`
	// StartTime seeks to this time (ms) after the other fields are applied.
	StartTime *float64 `yaml:"start_time"`

	HiddenTimelines []string          `yaml:"hidden_timelines"`
	Tints           map[string]string `yaml:"tints"` // timeline name -> #rrggbb or #rrggbbaa
	Autoplay        bool              `yaml:"autoplay"`
}

// LoadPlaybackFile reads and validates the preset file at path.
func LoadPlaybackFile(path string) (*PlaybackFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read playback config '%s': %w", path, err)
	}

	file := &PlaybackFile{}
	if err := yaml.Unmarshal(data, file); err != nil {
		return nil, fmt.Errorf("failed to parse playback config '%s': %w", path, err)
	}

	if err := file.Validate(); err != nil {
		return nil, fmt.Errorf("playback config '%s': %w", path, err)
	}

	if file.Version == "" {
		log.Printf("[PlaybackConfig] Warning: %s has no version field", path)
	}
	log.Printf("[PlaybackConfig] Loaded %s (version=%s, animations=%d)", path, file.Version, len(file.Animations))
	return file, nil
}

// Validate checks every preset.
func (f *PlaybackFile) Validate() error {
	for name, p := range f.Animations {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("animation %q: %w", name, err)
		}
	}
	return nil
}

// Preset returns the preset for the animation called name.
func (f *PlaybackFile) Preset(name string) (PlaybackPreset, bool) {
	if f == nil {
		return PlaybackPreset{}, false
	}
	p, ok := f.Animations[name]
	return p, ok
}

// ApplyTo applies the preset named after anim, if there is one.
func (f *PlaybackFile) ApplyTo(anim *animation.Animation) (bool, error) {
	p, ok := f.Preset(anim.Name())
	if !ok {
		return false, nil
	}
	return true, p.Apply(anim)
}

// Validate checks value ranges and tint colors.
func (p PlaybackPreset) Validate() error {
	if p.Speed != nil && (math.IsNaN(*p.Speed) || math.IsInf(*p.Speed, 0)) {
		return fmt.Errorf("%w: speed must be finite", ErrInvalidConfig)
	}
	if p.Alpha != nil && (*p.Alpha < 0 || *p.Alpha > 1) {
		return fmt.Errorf("%w: alpha %v outside [0, 1]", ErrInvalidConfig, *p.Alpha)
	}
	if p.StartTime != nil && *p.StartTime < 0 {
		return fmt.Errorf("%w: start_time must not be negative", ErrInvalidConfig)
	}
	for name, hex := range p.Tints {
		if _, err := ParseColor(hex); err != nil {
			return fmt.Errorf("tint %q: %w", name, err)
		}
	}
	return nil
}

// Apply pushes the preset into anim through its public setters. Tints naming
// unknown timelines fail with animation.ErrTimelineNotFound after the rest of
// the preset has been applied.
func (p PlaybackPreset) Apply(anim *animation.Animation) error {
	if p.Speed != nil {
		anim.SetSpeed(*p.Speed)
	}
	if p.Looping != nil {
		anim.SetLooping(*p.Looping)
	}
	if p.Alpha != nil {
		anim.SetAlpha(*p.Alpha)
	}
	if p.Scale != nil {
		anim.SetScale(p.Scale.X, p.Scale.Y)
	}
	if p.Position != nil {
		anim.SetPosition(p.Position.X, p.Position.Y)
	}
	if p.Angle != nil {
		anim.SetAngle(*p.Angle)
	}

	if len(p.HiddenTimelines) > 0 {
		hidden := make(map[string]bool, len(p.HiddenTimelines))
		for _, name := range p.HiddenTimelines {
			hidden[name] = false
		}
		anim.MakeTimelineVisible(hidden)
	}

	var errs []error
	for name, hex := range p.Tints {
		c, err := ParseColor(hex)
		if err != nil {
			errs = append(errs, fmt.Errorf("tint %q: %w", name, err))
			continue
		}
		if err := anim.TintSprite(name, c); err != nil {
			errs = append(errs, err)
		}
	}

	if p.StartTime != nil {
		anim.Seek(*p.StartTime)
	}
	if p.Autoplay {
		anim.StartPlay()
	}
	return errors.Join(errs...)
}

// ParseColor parses "#rrggbb" or "#rrggbbaa". The leading '#' is optional.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("%w: color %q is not #rrggbb or #rrggbbaa", ErrInvalidConfig, s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: color %q: %w", ErrInvalidConfig, s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
