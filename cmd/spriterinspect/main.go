// cmd/spriterinspect/main.go
// Terminal inspector for Spriter SCML projects. Loads a project without
// images and shows the resolved pose of every timeline.
//
// Usage:
//   go run ./cmd/spriterinspect -scml assets/hero/hero.scml -entity hero -anim walk
//   go run ./cmd/spriterinspect -scml assets/hero/hero.scml -dump -time 250

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/decker502/spriter/internal/player"
	"github.com/decker502/spriter/internal/scml"
	"github.com/decker502/spriter/pkg/config"
	"github.com/decker502/spriter/pkg/embedded"
	"github.com/decker502/spriter/pkg/project"
	"github.com/gdamore/tcell/v2"
)

var (
	scmlPath   = flag.String("scml", embedded.DemoProject, "SCML project file")
	entityName = flag.String("entity", "", "entity to inspect (defaults to the first)")
	animName   = flag.String("anim", "", "animation to start with")
	configPath = flag.String("config", "", "playback preset YAML file")
	dump       = flag.Bool("dump", false, "print the pose at -time and exit")
	at         = flag.Float64("time", 0, "time in ms for -dump")
	logPath    = flag.String("log", "", "log file while the screen is active")
)

const tickMs = 16

var runeCommands = map[rune]player.Command{
	' ': player.TogglePlay,
	'r': player.Reset,
	'+': player.Faster,
	'=': player.Faster,
	'-': player.Slower,
}

var keyCommands = map[tcell.Key]player.Command{
	tcell.KeyHome:  player.First,
	tcell.KeyEnd:   player.Last,
	tcell.KeyRight: player.NextKey,
	tcell.KeyLeft:  player.PrevKey,
	tcell.KeyDown:  player.NextAnimation,
	tcell.KeyUp:    player.PrevAnimation,
}

var (
	styleHeader = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleBone   = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleSprite = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleHidden = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHelp   = tcell.StyleDefault.Foreground(tcell.ColorSilver)
)

// Inspector is the terminal UI over one project.
type Inspector struct {
	screen  tcell.Screen
	project *project.Project
	presets *config.PlaybackFile

	entityIndex int
	controller  *player.Controller
}

// loadProject builds the project with size-only drawables.
func loadProject(path string) (*project.Project, error) {
	var doc *scml.Document
	var err error
	if embedded.IsEmbedded(path) {
		doc, err = scml.ParseFS(embedded.FS(), embedded.Clean(path))
	} else {
		doc, err = scml.ParseFile(path)
	}
	if err != nil {
		return nil, err
	}
	proj := project.New()
	if err := doc.Build(proj, scml.Headless); err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", path, err)
	}
	if len(proj.Entities()) == 0 {
		return nil, fmt.Errorf("%s: %w", path, project.ErrEntityNotFound)
	}
	return proj, nil
}

func newController(proj *project.Project, presets *config.PlaybackFile, index int) (*player.Controller, int, error) {
	entities := proj.Entities()
	index = ((index % len(entities)) + len(entities)) % len(entities)
	c, err := player.NewController(entities[index], presets, nil)
	return c, index, err
}

func entityIndex(proj *project.Project, name string) int {
	for i, e := range proj.Entities() {
		if e.Name == name {
			return i
		}
	}
	return 0
}

// dumpPose prints the pose of the selected animation at ms to w.
func dumpPose(w io.Writer, c *player.Controller, ms float64) {
	a := c.Animation()
	a.PausePlay()
	a.Seek(ms)
	fmt.Fprintln(w, c.Status())
	fmt.Fprintln(w, player.RowHeader)
	for _, row := range c.Rows() {
		fmt.Fprintln(w, row)
	}
	bounds := a.BoundingRectangle(nil)
	fmt.Fprintf(w, "bounds (%.1f, %.1f)-(%.1f, %.1f)\n", bounds.Left, bounds.Top, bounds.Right, bounds.Bottom)
}

func NewInspector(proj *project.Project, presets *config.PlaybackFile, c *player.Controller, index int) (*Inspector, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return &Inspector{
		screen:      screen,
		project:     proj,
		presets:     presets,
		entityIndex: index,
		controller:  c,
	}, nil
}

func (in *Inspector) print(x, y int, s string, style tcell.Style) {
	w, _ := in.screen.Size()
	for _, r := range s {
		if x >= w {
			return
		}
		in.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (in *Inspector) draw() {
	in.screen.Clear()
	_, h := in.screen.Size()

	in.print(0, 0, in.controller.Status(), styleHeader)
	in.print(0, 2, player.RowHeader, styleHeader)

	y := 3
	for _, row := range in.controller.Rows() {
		if y >= h-2 {
			break
		}
		style := styleBone
		switch {
		case !row.Visible:
			style = styleHidden
		case row.Sprite:
			style = styleSprite
		}
		in.print(0, y, row.String(), style)
		y++
	}

	b := in.controller.Animation().BoundingRectangle(nil)
	in.print(0, h-2, fmt.Sprintf("bounds (%.1f, %.1f)-(%.1f, %.1f)", b.Left, b.Top, b.Right, b.Bottom), styleHelp)
	in.print(0, h-1, "space play  home/end  ←/→ keys  ↑/↓ anim  tab entity  +/- speed  r rewind  q quit", styleHelp)
	in.screen.Show()
}

func (in *Inspector) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyTab:
			c, index, err := newController(in.project, in.presets, in.entityIndex+1)
			if err != nil {
				log.Printf("[Inspect] Warning: %v", err)
				return true
			}
			in.controller, in.entityIndex = c, index
			return true
		case tcell.KeyRune:
			if ev.Rune() == 'q' {
				return false
			}
			if cmd, ok := runeCommands[ev.Rune()]; ok {
				in.controller.Do(cmd)
			}
			return true
		}
		if cmd, ok := keyCommands[ev.Key()]; ok {
			in.controller.Do(cmd)
		}

	case *tcell.EventResize:
		in.screen.Sync()
	}
	return true
}

func (in *Inspector) run() {
	ticker := time.NewTicker(tickMs * time.Millisecond)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			events <- in.screen.PollEvent()
		}
	}()

	last := time.Now()
	for {
		select {
		case ev := <-events:
			if !in.handleInput(ev) {
				return
			}
		case now := <-ticker.C:
			in.controller.Update(float64(now.Sub(last).Milliseconds()))
			last = now
			in.draw()
		}
	}
}

func main() {
	flag.Parse()

	proj, err := loadProject(*scmlPath)
	if err != nil {
		log.Fatalf("[Inspect] %v", err)
	}

	var presets *config.PlaybackFile
	if *configPath != "" {
		if presets, err = config.LoadPlaybackFile(*configPath); err != nil {
			log.Fatalf("[Inspect] %v", err)
		}
	}

	c, index, err := newController(proj, presets, entityIndex(proj, *entityName))
	if err != nil {
		log.Fatalf("[Inspect] %v", err)
	}
	if *animName != "" {
		if err := c.SelectName(*animName); err != nil {
			log.Fatalf("[Inspect] %v", err)
		}
	}

	if *dump {
		dumpPose(os.Stdout, c, *at)
		return
	}

	// The screen owns the terminal; keep log output off it.
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			log.Fatalf("[Inspect] %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	in, err := NewInspector(proj, presets, c, index)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer in.screen.Fini()

	in.run()
}
