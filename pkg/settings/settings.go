// Package settings persists the viewer state between runs: the last opened
// project and animation, playback speed, zoom and overlay toggles.
//
// Storage goes through gdata so that the same code works on desktop and mobile.
// A nil gdata manager gives a memory-only Manager.
package settings

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Viewer is the persisted state of the viewer tools.
type Viewer struct {
	Project    string  `yaml:"project"`
	Entity     string  `yaml:"entity"`
	Animation  string  `yaml:"animation"`
	Speed      float64 `yaml:"speed"`
	Zoom       float64 `yaml:"zoom"`
	ShowBounds bool    `yaml:"showBounds"`
}

const (
	MinSpeed = -4.0
	MaxSpeed = 4.0
	MinZoom  = 0.1
	MaxZoom  = 8.0
)

// Defaults returns the settings used on first run.
func Defaults() *Viewer {
	return &Viewer{Speed: 1, Zoom: 1}
}

const (
	settingsObject   = "viewer"
	settingsProperty = "state"
)

// Manager loads and saves Viewer settings.
type Manager struct {
	store    *gdata.Manager // nil in memory-only mode
	settings *Viewer
}

// NewManager creates a manager over store and loads the saved settings.
// A load failure is logged and leaves the defaults in place.
func NewManager(store *gdata.Manager) *Manager {
	m := &Manager{store: store, settings: Defaults()}
	if err := m.Load(); err != nil {
		log.Printf("[Settings] Warning: Failed to load settings: %v (using defaults)", err)
	}
	return m
}

// Open opens the gdata storage of appName and returns a manager over it.
// If the storage cannot be opened the manager runs memory-only.
func Open(appName string) *Manager {
	store, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[Settings] Warning: storage unavailable: %v (settings will not persist)", err)
		store = nil
	}
	return NewManager(store)
}

// Load replaces the current settings with the saved ones. Missing or broken
// data resets to the defaults.
func (m *Manager) Load() error {
	if m.store == nil || !m.store.ObjectPropExists(settingsObject, settingsProperty) {
		m.settings = Defaults()
		return nil
	}

	data, err := m.store.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		m.settings = Defaults()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := Defaults()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		m.settings = Defaults()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.Speed = clamp(loaded.Speed, MinSpeed, MaxSpeed)
	loaded.Zoom = clamp(loaded.Zoom, MinZoom, MaxZoom)

	m.settings = loaded
	log.Printf("[Settings] Loaded viewer settings (project=%q)", loaded.Project)
	return nil
}

// Save writes the current settings. It is a no-op in memory-only mode.
func (m *Manager) Save() error {
	if m.store == nil {
		return nil
	}

	data, err := yaml.Marshal(m.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := m.store.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// Persistent reports whether Save writes anywhere.
func (m *Manager) Persistent() bool {
	return m.store != nil
}

// Settings returns the live settings.
func (m *Manager) Settings() *Viewer {
	return m.settings
}

// SetSelection records the opened project, entity and animation.
func (m *Manager) SetSelection(project, entity, animation string) {
	m.settings.Project = project
	m.settings.Entity = entity
	m.settings.Animation = animation
}

// SetSpeed stores speed clamped to [MinSpeed, MaxSpeed] and returns it.
func (m *Manager) SetSpeed(speed float64) float64 {
	m.settings.Speed = clamp(speed, MinSpeed, MaxSpeed)
	return m.settings.Speed
}

// SetZoom stores zoom clamped to [MinZoom, MaxZoom] and returns it.
func (m *Manager) SetZoom(zoom float64) float64 {
	m.settings.Zoom = clamp(zoom, MinZoom, MaxZoom)
	return m.settings.Zoom
}

// ToggleBounds flips the bounds overlay and returns the new state.
func (m *Manager) ToggleBounds() bool {
	m.settings.ShowBounds = !m.settings.ShowBounds
	return m.settings.ShowBounds
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
