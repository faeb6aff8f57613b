package scml

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/decker502/spriter/pkg/animation"
	"github.com/decker502/spriter/pkg/curve"
	"github.com/decker502/spriter/pkg/embedded"
	"github.com/decker502/spriter/pkg/geom"
	"github.com/decker502/spriter/pkg/project"
)

const heroSCML = `<?xml version="1.0" encoding="UTF-8"?>
<spriter_data scml_version="1.0" generator="BrashMonkey Spriter">
  <folder id="0" name="hero">
    <file id="0" name="hero/torso.png" width="40" height="20" pivot_x="0" pivot_y="1"/>
    <file id="1" name="hero/head.png" width="16" height="16" pivot_x="0.5" pivot_y="0.5"/>
  </folder>
  <entity id="0" name="hero">
    <animation id="0" name="idle" length="1000" interval="100">
      <mainline>
        <key id="0">
          <bone_ref id="0" timeline="2" key="0"/>
          <object_ref id="0" parent="0" timeline="0" key="0" z_index="1"/>
          <object_ref id="1" parent="0" timeline="1" key="0" z_index="0"/>
        </key>
        <key id="1" time="500" curve_type="instant">
          <bone_ref id="0" timeline="2" key="1"/>
          <object_ref id="0" parent="0" timeline="0" key="1" z_index="0"/>
          <object_ref id="1" parent="0" timeline="1" key="0" z_index="1"/>
        </key>
      </mainline>
      <timeline id="0" name="torso">
        <key id="0" spin="0">
          <object folder="0" file="0" x="10" y="20" angle="0"/>
        </key>
        <key id="1" time="500">
          <object folder="0" file="0" x="10" y="40" angle="90" a="0.5"/>
        </key>
      </timeline>
      <timeline id="1" name="head">
        <key id="0" curve_type="cubic" c1="0.2" c2="0.8">
          <object folder="0" file="1" x="0" y="30" pivot_y="0"/>
        </key>
      </timeline>
      <timeline id="2" name="root" object_type="bone">
        <key id="0"><bone x="0" y="0" angle="0"/></key>
        <key id="1" time="500"><bone x="0" y="0" angle="0" scale_x="2"/></key>
      </timeline>
    </animation>
    <animation id="1" name="wave" length="300" looping="false">
      <mainline>
        <key id="0"><object_ref id="0" timeline="0" key="0" z_index="0"/></key>
      </mainline>
      <timeline id="0" name="hand">
        <key id="0"><object folder="0" file="1" x="1" y="2"/></key>
      </timeline>
    </animation>
  </entity>
</spriter_data>`

func buildHero(t *testing.T) *project.Project {
	t.Helper()
	doc, err := Parse(strings.NewReader(heroSCML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	proj := project.New()
	if err := doc.Build(proj, nil); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return proj
}

func TestParse(t *testing.T) {
	doc, err := Parse(strings.NewReader(heroSCML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if doc.Version != "1.0" {
		t.Errorf("Version = %q", doc.Version)
	}
	if len(doc.Folders) != 1 || len(doc.Folders[0].Files) != 2 {
		t.Fatalf("folders = %+v", doc.Folders)
	}
	if len(doc.Entities) != 1 || len(doc.Entities[0].Animations) != 2 {
		t.Fatalf("entities = %+v", doc.Entities)
	}

	idle := &doc.Entities[0].Animations[0]
	wave := &doc.Entities[0].Animations[1]
	if !idle.IsLooping() || wave.IsLooping() {
		t.Errorf("looping: idle=%v wave=%v, want true/false", idle.IsLooping(), wave.IsLooping())
	}
	if got := len(idle.Mainline.Keys[0].BoneRefs); got != 1 {
		t.Errorf("bone refs = %d, want 1", got)
	}
	if idle.Timelines[2].IsSprite() || !idle.Timelines[0].IsSprite() {
		t.Error("timeline kinds not detected from object_type")
	}
	if idle.Mainline.Keys[1].CurveType != "instant" {
		t.Errorf("curve_type = %q", idle.Mainline.Keys[1].CurveType)
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse(strings.NewReader(`<spriter_data><folder id="x"></spriter_data>`))
	if !errors.Is(err, ErrInvalidDocument) {
		t.Errorf("error = %v, want ErrInvalidDocument", err)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hero.scml")
	if err := os.WriteFile(path, []byte(heroSCML), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if doc.Entities[0].Name != "hero" {
		t.Errorf("entity = %q", doc.Entities[0].Name)
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.scml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestParseFS(t *testing.T) {
	fsys := fstest.MapFS{"rigs/hero.scml": {Data: []byte(heroSCML)}}

	doc, err := ParseFS(fsys, "rigs/hero.scml")
	if err != nil {
		t.Fatalf("ParseFS: %v", err)
	}
	if len(doc.Entities[0].Animations) != 2 {
		t.Errorf("animations = %d, want 2", len(doc.Entities[0].Animations))
	}

	if _, err := ParseFS(fsys, "rigs/missing.scml"); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestBuild_DemoProject(t *testing.T) {
	doc, err := ParseFS(embedded.FS(), embedded.Clean(embedded.DemoProject))
	if err != nil {
		t.Fatal(err)
	}
	proj := project.New()
	if err := doc.Build(proj, Headless); err != nil {
		t.Fatalf("Build: %v", err)
	}

	stick, err := proj.Entity("stick")
	if err != nil {
		t.Fatal(err)
	}
	idle, _ := stick.Animation("idle")
	wave, _ := stick.Animation("wave")
	if !idle.IsLooping() || wave.IsLooping() {
		t.Errorf("looping idle=%v wave=%v", idle.IsLooping(), wave.IsLooping())
	}

	idle.Seek(250)
	if head := idle.Parts()[3].Node(); !head.Position.ApproxEqual(geom.Vec(0, -50), 1e-9) {
		t.Errorf("head at 250ms = %v, want (0, -50)", head.Position)
	}
	if arm := idle.Parts()[4].Node(); !arm.Position.ApproxEqual(geom.Vec(0, -34), 1e-9) {
		t.Errorf("arm at 250ms = %v, want (0, -34)", arm.Position)
	}

	wave.Seek(600)
	if got := wave.Parts()[1].Node().Angle; math.Abs(got+90) > 1e-9 {
		t.Errorf("arm bone at the end of wave = %v, want -90", got)
	}
}

func TestBuild_Structure(t *testing.T) {
	proj := buildHero(t)

	hero, err := proj.Entity("hero")
	if err != nil {
		t.Fatalf("Entity: %v", err)
	}
	idle, err := hero.Animation("idle")
	if err != nil {
		t.Fatalf("Animation: %v", err)
	}
	if idle.Length() != 1000 || !idle.IsLooping() {
		t.Errorf("idle length/looping = %d/%v", idle.Length(), idle.IsLooping())
	}

	keys := idle.Mainline().Keys()
	if len(keys) != 2 || keys[1].Time != 500 || keys[1].Curve.Type != curve.TypeInstant {
		t.Fatalf("mainline keys = %+v", keys)
	}

	want := []animation.ObjectRef{
		{ID: 0, Timeline: 2, Key: 0, Parent: animation.NoParent},
		{ID: 1, Timeline: 0, Key: 0, Parent: 0, ZIndex: 1},
		{ID: 2, Timeline: 1, Key: 0, Parent: 0},
	}
	if len(keys[0].Refs) != len(want) {
		t.Fatalf("refs = %+v", keys[0].Refs)
	}
	for i, ref := range keys[0].Refs {
		if ref != want[i] {
			t.Errorf("ref %d = %+v, want %+v", i, ref, want[i])
		}
	}

	if idle.Timelines()[2].IsSprite() {
		t.Error("bone timeline built as sprites")
	}

	if _, err := hero.Animation("wave"); err != nil {
		t.Errorf("wave: %v", err)
	}
}

func TestBuild_FlipsToScreenSpace(t *testing.T) {
	proj := buildHero(t)
	hero, _ := proj.Entity("hero")
	idle, _ := hero.Animation("idle")
	torso := idle.Timelines()[0]

	k0 := torso.Keys[0]
	s0 := k0.Object.(*animation.Sprite)
	if s0.Position != geom.Vec(10, -20) {
		t.Errorf("position = %v, want (10, -20)", s0.Position)
	}
	if k0.Spin != curve.SpinNone {
		t.Errorf("spin 0 -> %v", k0.Spin)
	}

	k1 := torso.Keys[1]
	s1 := k1.Object.(*animation.Sprite)
	if s1.Angle != -90 {
		t.Errorf("angle = %v, want -90", s1.Angle)
	}
	if k1.Spin != curve.SpinCounterClockwise {
		t.Errorf("default spin -> %v, want counter-clockwise", k1.Spin)
	}
	if s1.Alpha != 0.5 || s0.Alpha != 1 {
		t.Errorf("alpha = %v/%v, want 1/0.5", s0.Alpha, s1.Alpha)
	}
	if s0.Drawable.Pivot() != geom.Vec(0, 0) {
		t.Errorf("torso pivot = %v, want top-left", s0.Drawable.Pivot())
	}
}

func TestBuild_KeyPivotAndCurve(t *testing.T) {
	proj := buildHero(t)
	hero, _ := proj.Entity("hero")
	idle, _ := hero.Animation("idle")

	head := idle.Timelines()[1].Keys[0]
	s := head.Object.(*animation.Sprite)
	if got := s.Drawable.Pivot(); got != geom.Vec(0.5, 1) {
		t.Errorf("head pivot = %v, want (0.5, 1)", got)
	}
	if w, h := s.Drawable.Size(); w != 16 || h != 16 {
		t.Errorf("head size = %vx%v", w, h)
	}
	if s.FolderName != "hero" || s.Folder != 0 || s.File != 1 {
		t.Errorf("asset = %q %d/%d", s.FolderName, s.Folder, s.File)
	}

	shared, err := proj.Asset(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if shared.Pivot() != geom.Vec(0.5, 0.5) {
		t.Errorf("key pivot leaked into the shared asset: %v", shared.Pivot())
	}

	c := head.Curve
	if c.Type != curve.TypeCubic || c.C1 != 0.2 || c.C2 != 0.8 {
		t.Errorf("curve = %+v", c)
	}
}

func TestBuild_Plays(t *testing.T) {
	proj := buildHero(t)
	hero, _ := proj.Entity("hero")
	idle, _ := hero.Animation("idle")

	idle.Seek(0)
	torso := idle.Parts()[0].(*animation.Sprite)
	if !torso.Visible || !torso.Position.ApproxEqual(geom.Vec(10, -20), 1e-9) {
		t.Errorf("torso = %+v", torso)
	}

	// Instant mainline curve holds the second snapshot until the wrap.
	idle.Seek(900)
	root := idle.Parts()[2].Node()
	if math.Abs(root.Scale.X-2) > 1e-9 {
		t.Errorf("root scale = %v, want 2", root.Scale.X)
	}
}

func TestBuild_ZIndexPerSnapshot(t *testing.T) {
	proj := buildHero(t)
	hero, _ := proj.Entity("hero")
	idle, _ := hero.Animation("idle")

	// Both snapshots reference head key 0 with different z_index values.
	tests := []struct {
		time        float64
		torso, head int
	}{
		{0, 1, 0},
		{600, 0, 1},
		{100, 1, 0},
	}
	for _, tt := range tests {
		idle.Seek(tt.time)
		torso := idle.Parts()[0].(*animation.Sprite)
		head := idle.Parts()[1].(*animation.Sprite)
		if torso.ZIndex != tt.torso || head.ZIndex != tt.head {
			t.Errorf("at %vms z = torso %d head %d, want %d/%d", tt.time, torso.ZIndex, head.ZIndex, tt.torso, tt.head)
		}
	}
}

func TestBuild_EasedCurve(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<spriter_data>
		<entity id="0" name="e"><animation id="0" name="slide" length="1000" looping="false">
		<mainline><key id="0"><bone_ref id="0" timeline="0" key="0"/></key></mainline>
		<timeline id="0" name="b" object_type="bone">
			<key id="0" curve_type="ease" easing="InQuad"><bone x="0" y="0"/></key>
			<key id="1" time="800"><bone x="100" y="0"/></key>
		</timeline>
		</animation></entity></spriter_data>`))
	if err != nil {
		t.Fatal(err)
	}
	proj := project.New()
	if err := doc.Build(proj, nil); err != nil {
		t.Fatalf("Build: %v", err)
	}
	e, _ := proj.Entity("e")
	slide, _ := e.Animation("slide")

	c := slide.Timelines()[0].Keys[0].Curve
	if c.Type != curve.TypeEase || c.Easing != "InQuad" {
		t.Fatalf("curve = %+v", c)
	}

	slide.Seek(400)
	if x := slide.Parts()[0].Node().Position.X; math.Abs(x-25) > 1e-4 {
		t.Errorf("eased x at the midpoint = %v, want 25", x)
	}
}

func TestBuild_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "empty mainline",
			doc: `<spriter_data><entity id="0" name="e"><animation id="0" name="a" length="10">
				<mainline></mainline></animation></entity></spriter_data>`,
		},
		{
			name: "ref to missing key",
			doc: `<spriter_data><entity id="0" name="e"><animation id="0" name="a" length="10">
				<mainline><key id="0"><bone_ref id="0" timeline="0" key="3"/></key></mainline>
				<timeline id="0" name="b" object_type="bone"><key id="0"><bone x="0" y="0"/></key></timeline>
				</animation></entity></spriter_data>`,
		},
		{
			name: "ref to empty timeline",
			doc: `<spriter_data><entity id="0" name="e"><animation id="0" name="a" length="10">
				<mainline><key id="0"><bone_ref id="0" timeline="0" key="0"/></key></mainline>
				<timeline id="0" name="b" object_type="bone"></timeline>
				</animation></entity></spriter_data>`,
		},
		{
			name: "unknown curve",
			doc: `<spriter_data><entity id="0" name="e"><animation id="0" name="a" length="10">
				<mainline><key id="0" curve_type="wobbly"></key></mainline>
				</animation></entity></spriter_data>`,
		},
		{
			name: "unknown easing",
			doc: `<spriter_data><entity id="0" name="e"><animation id="0" name="a" length="10">
				<mainline><key id="0" curve_type="ease" easing="Wobble"></key></mainline>
				</animation></entity></spriter_data>`,
		},
		{
			name: "ease without easing",
			doc: `<spriter_data><entity id="0" name="e"><animation id="0" name="a" length="10">
				<mainline><key id="0"><bone_ref id="0" timeline="0" key="0"/></key></mainline>
				<timeline id="0" name="b" object_type="bone"><key id="0" curve_type="ease"><bone x="0" y="0"/></key></timeline>
				</animation></entity></spriter_data>`,
		},
		{
			name: "missing file",
			doc: `<spriter_data><folder id="0" name="f"></folder>
				<entity id="0" name="e"><animation id="0" name="a" length="10">
				<mainline><key id="0"><object_ref id="0" timeline="0" key="0"/></key></mainline>
				<timeline id="0" name="s"><key id="0"><object folder="0" file="4"/></key></timeline>
				</animation></entity></spriter_data>`,
		},
		{
			name: "parent outside snapshot",
			doc: `<spriter_data><entity id="0" name="e"><animation id="0" name="a" length="10">
				<mainline><key id="0"><bone_ref id="0" parent="7" timeline="0" key="0"/></key></mainline>
				<timeline id="0" name="b" object_type="bone"><key id="0"><bone x="0" y="0"/></key></timeline>
				</animation></entity></spriter_data>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(strings.NewReader(tt.doc))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			err = doc.Build(project.New(), nil)
			if !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("Build error = %v, want ErrInvalidDocument", err)
			}
		})
	}
}

func TestBuild_ResolverError(t *testing.T) {
	doc, err := Parse(strings.NewReader(heroSCML))
	if err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	err = doc.Build(project.New(), func(*Folder, *File) (animation.Drawable, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("Build error = %v, want the resolver error", err)
	}
}
