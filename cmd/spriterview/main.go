// cmd/spriterview/main.go
// Interactive viewer for Spriter SCML projects.
//
// Usage:
//   go run ./cmd/spriterview -scml assets/hero/hero.scml -entity hero -anim walk
//   go run ./cmd/spriterview -scml embedded:demo/stick.scml
//
// Keys:
//   Space        play / pause
//   Home / End   first / last mainline key
//   Left / Right previous / next mainline key
//   Up / Down    previous / next animation
//   PgUp / PgDn  previous / next entity
//   + / -        faster / slower
//   R            rewind
//   B            bounding boxes
//   H            help
//   Wheel        zoom
//   Click        report the sprite under the cursor

package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log"

	"github.com/decker502/spriter/internal/player"
	"github.com/decker502/spriter/pkg/config"
	"github.com/decker502/spriter/pkg/embedded"
	"github.com/decker502/spriter/pkg/project"
	"github.com/decker502/spriter/pkg/render"
	"github.com/decker502/spriter/pkg/settings"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

var (
	scmlPath   = flag.String("scml", "", "SCML project file (defaults to the last opened one, then the bundled demo)")
	entityName = flag.String("entity", "", "entity to show (defaults to the first)")
	animName   = flag.String("anim", "", "animation to start with")
	configPath = flag.String("config", "", "playback preset YAML file")
	width      = flag.Int("width", 1024, "window width")
	height     = flag.Int("height", 768, "window height")
	verbose    = flag.Bool("verbose", false, "verbose logging")
)

const (
	zoomStep   = 1.1
	lineHeight = 16
)

var keyCommands = map[ebiten.Key]player.Command{
	ebiten.KeySpace:          player.TogglePlay,
	ebiten.KeyHome:           player.First,
	ebiten.KeyEnd:            player.Last,
	ebiten.KeyRight:          player.NextKey,
	ebiten.KeyLeft:           player.PrevKey,
	ebiten.KeyR:              player.Reset,
	ebiten.KeyEqual:          player.Faster,
	ebiten.KeyNumpadAdd:      player.Faster,
	ebiten.KeyMinus:          player.Slower,
	ebiten.KeyNumpadSubtract: player.Slower,
	ebiten.KeyDown:           player.NextAnimation,
	ebiten.KeyUp:             player.PrevAnimation,
	ebiten.KeyB:              player.ToggleBounds,
}

// Game hosts one controller over the selected entity.
type Game struct {
	project  *project.Project
	presets  *config.PlaybackFile
	settings *settings.Manager

	entityIndex int
	controller  *player.Controller

	batch    *render.Batch
	camera   ebiten.GeoM
	showHelp bool
	lastHit  string

	face         text.Face
	textDrawOpts text.DrawOptions
}

// NewGame loads the project and selects the starting entity and animation.
func NewGame(path string, presets *config.PlaybackFile, store *settings.Manager) (*Game, error) {
	proj, err := render.LoadProject(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if len(proj.Entities()) == 0 {
		return nil, fmt.Errorf("%s: %w", path, project.ErrEntityNotFound)
	}

	s := store.Settings()
	if s.Project != path {
		store.SetSelection(path, "", "")
	}

	g := &Game{
		project:  proj,
		presets:  presets,
		settings: store,
		batch:    render.NewBatch(nil),
		showHelp: true,
		face:     text.NewGoXFace(basicfont.Face7x13),
	}

	name := *entityName
	if name == "" {
		name = s.Entity
	}
	index := 0
	for i, e := range proj.Entities() {
		if e.Name == name {
			index = i
			break
		}
	}
	if err := g.selectEntity(index); err != nil {
		return nil, err
	}

	if *animName != "" {
		if err := g.controller.SelectName(*animName); err != nil {
			log.Printf("[Viewer] Warning: %v (keeping %s)", err, g.controller.Animation().Name())
		}
	}
	return g, nil
}

func (g *Game) selectEntity(index int) error {
	entities := g.project.Entities()
	index = ((index % len(entities)) + len(entities)) % len(entities)

	c, err := player.NewController(entities[index], g.presets, g.settings)
	if err != nil {
		return err
	}
	g.entityIndex = index
	g.controller = c
	g.lastHit = ""
	log.Printf("[Viewer] Entity %s (%d animations)", entities[index].Name, len(entities[index].Animations()))
	return nil
}

// Update handles input and advances the animation by one tick.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHelp = !g.showHelp
	}

	for key, cmd := range keyCommands {
		if inpututil.IsKeyJustPressed(key) {
			g.controller.Do(cmd)
			if *verbose {
				log.Printf("[Viewer] %s", g.controller.Status())
			}
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) {
		if err := g.selectEntity(g.entityIndex + 1); err != nil {
			log.Printf("[Viewer] Warning: %v", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		if err := g.selectEntity(g.entityIndex - 1); err != nil {
			log.Printf("[Viewer] Warning: %v", err)
		}
	}

	if _, dy := ebiten.Wheel(); dy != 0 {
		zoom := g.settings.Settings().Zoom
		if dy > 0 {
			zoom *= zoomStep
		} else {
			zoom /= zoomStep
		}
		g.settings.SetZoom(zoom)
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.pick(ebiten.CursorPosition())
	}

	g.controller.Update(1000 / float64(ebiten.TPS()))
	return nil
}

// pick reports the top-most sprite under the screen point (x, y).
func (g *Game) pick(x, y int) {
	inv := g.camera
	if !inv.IsInvertible() {
		return
	}
	inv.Invert()
	ax, ay := inv.Apply(float64(x), float64(y))

	s, ok := g.controller.Animation().SpriteAt(ax, ay)
	if !ok {
		g.lastHit = ""
		return
	}
	g.lastHit = fmt.Sprintf("%s #%d/%d z=%d", s.FolderName, s.Folder, s.File, s.ZIndex)
	log.Printf("[Viewer] Hit %s at (%.1f, %.1f)", g.lastHit, ax, ay)
}

// Draw renders the animation around the screen center.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{50, 50, 50, 255})

	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	zoom := g.settings.Settings().Zoom
	g.camera.Reset()
	g.camera.Scale(zoom, zoom)
	g.camera.Translate(float64(w)/2, float64(h)/2)

	g.batch.Target = screen
	g.batch.Camera = g.camera
	g.batch.Reset()
	g.controller.Animation().Draw(g.batch)

	if g.settings.Settings().ShowBounds {
		render.DrawBoxes(screen, g.camera, g.controller.Animation())
	}

	info := fmt.Sprintf("FPS: %.1f | %s | zoom %.2f | sprites %d",
		ebiten.ActualTPS(), g.controller.Status(), zoom, g.batch.Drawn())
	if g.lastHit != "" {
		info += " | hit " + g.lastHit
	}
	g.drawText(screen, info, 10, 10)

	if g.showHelp {
		g.drawHelp(screen)
	}
}

func (g *Game) drawHelp(screen *ebiten.Image) {
	lines := []string{
		"Space        play / pause",
		"Home / End   first / last key",
		"Left / Right step keys",
		"Up / Down    switch animation",
		"PgUp / PgDn  switch entity",
		"+ / -        speed",
		"R            rewind",
		"B            bounding boxes",
		"Wheel        zoom",
		"H            hide help",
		"Esc          quit",
	}
	y := screen.Bounds().Dy() - lineHeight*len(lines) - 10
	for i, line := range lines {
		g.drawText(screen, line, 10, y+i*lineHeight)
	}
}

// drawText draws s in white with its top-left corner at (x, y).
func (g *Game) drawText(screen *ebiten.Image, s string, x, y int) {
	g.textDrawOpts.GeoM.Reset()
	g.textDrawOpts.GeoM.Translate(float64(x), float64(y))
	g.textDrawOpts.ColorScale.Reset()
	g.textDrawOpts.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, s, g.face, &g.textDrawOpts)
}

// Layout uses the window size as the logical screen.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

func main() {
	flag.Parse()

	if *verbose {
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	}

	store := settings.Open("spriterview")

	path := *scmlPath
	if path == "" {
		path = store.Settings().Project
	}
	if path == "" {
		path = embedded.DemoProject
		log.Printf("[Viewer] No project given, opening the bundled demo")
	}

	var presets *config.PlaybackFile
	if *configPath != "" {
		var err error
		presets, err = config.LoadPlaybackFile(*configPath)
		if err != nil {
			log.Fatalf("[Viewer] %v", err)
		}
	}

	game, err := NewGame(path, presets, store)
	if err != nil {
		log.Fatalf("[Viewer] %v", err)
	}

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("Spriter Viewer - " + path)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	runErr := ebiten.RunGame(game)
	if err := store.Save(); err != nil {
		log.Printf("[Settings] Warning: %v", err)
	}
	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		log.Fatalf("[Viewer] %v", runErr)
	}
}
