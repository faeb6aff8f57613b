package scml

import (
	"fmt"
	"log"

	"github.com/decker502/spriter/pkg/animation"
	"github.com/decker502/spriter/pkg/curve"
	"github.com/decker502/spriter/pkg/geom"
	"github.com/decker502/spriter/pkg/project"
	"github.com/hajimehoshi/ebiten/v2"
)

// AssetResolver turns one file of a folder into a drawable. Headless is used
// when no resolver is given.
type AssetResolver func(folder *Folder, file *File) (animation.Drawable, error)

// Headless resolves files to image-less drawables that only carry the size and
// pivot, for tools and tests that never render.
func Headless(_ *Folder, file *File) (animation.Drawable, error) {
	return &fileDrawable{
		w:     file.Width,
		h:     file.Height,
		pivot: FilePivot(file),
	}, nil
}

// FilePivot converts the default pivot of file to y-down.
func FilePivot(file *File) geom.Vector2 {
	return geom.Vec(file.PivotX, 1-orDefault(file.PivotY, 1))
}

type fileDrawable struct {
	w, h  float64
	pivot geom.Vector2
}

func (d *fileDrawable) Image() *ebiten.Image    { return nil }
func (d *fileDrawable) Size() (float64, float64) { return d.w, d.h }
func (d *fileDrawable) Pivot() geom.Vector2      { return d.pivot }

// pivoted overrides the pivot of a shared drawable for keys that set their own.
type pivoted struct {
	animation.Drawable
	pivot geom.Vector2
}

func (p *pivoted) Pivot() geom.Vector2 { return p.pivot }

// Build registers every file of the document in proj and converts every
// entity into runtime animations added to proj. Spriter's y-up space is flipped to
// y-down: y, angles and spins are negated and pivot_y becomes 1-pivot_y.
func (d *Document) Build(proj *project.Project, resolve AssetResolver) error {
	if resolve == nil {
		resolve = Headless
	}

	files := 0
	for fi := range d.Folders {
		folder := &d.Folders[fi]
		for i := range folder.Files {
			file := &folder.Files[i]
			drawable, err := resolve(folder, file)
			if err != nil {
				return fmt.Errorf("folder %d file %d (%s): %w", folder.ID, file.ID, file.Name, err)
			}
			proj.PutAsset(folder.ID, folder.Name, file.ID, drawable)
			files++
		}
	}

	for ei := range d.Entities {
		ent := &d.Entities[ei]
		anims := make([]*animation.Animation, 0, len(ent.Animations))
		for ai := range ent.Animations {
			anim, err := d.buildAnimation(proj, &ent.Animations[ai])
			if err != nil {
				return fmt.Errorf("entity %q animation %q: %w", ent.Name, ent.Animations[ai].Name, err)
			}
			anims = append(anims, anim)
		}
		proj.AddEntity(project.NewEntity(ent.ID, ent.Name, anims...))
	}

	log.Printf("[SCML] Built %d entities from %d folders (%d files)", len(d.Entities), len(d.Folders), files)
	return nil
}

func (d *Document) buildAnimation(proj *project.Project, src *Animation) (*animation.Animation, error) {
	if len(src.Mainline.Keys) == 0 {
		return nil, fmt.Errorf("%w: mainline has no keys", ErrInvalidDocument)
	}

	timelines := make([]*animation.Timeline, len(src.Timelines))
	timelineIndex := make(map[int]int, len(src.Timelines))
	// keyIndex maps timeline index -> key id -> position in Keys.
	keyIndex := make([]map[int]int, len(src.Timelines))

	for ti := range src.Timelines {
		tl := &src.Timelines[ti]
		keys := make([]animation.TimelineKey, 0, len(tl.Keys))
		keyIndex[ti] = make(map[int]int, len(tl.Keys))
		for ki := range tl.Keys {
			key, err := d.buildKey(proj, tl, &tl.Keys[ki])
			if err != nil {
				return nil, fmt.Errorf("timeline %q key %d: %w", tl.Name, tl.Keys[ki].ID, err)
			}
			keyIndex[ti][tl.Keys[ki].ID] = len(keys)
			keys = append(keys, key)
		}
		timelines[ti] = animation.NewTimeline(tl.ID, tl.Name, keys)
		timelineIndex[tl.ID] = ti
	}

	mainKeys := make([]animation.MainlineKey, len(src.Mainline.Keys))
	for mi := range src.Mainline.Keys {
		mk := &src.Mainline.Keys[mi]
		c, err := parseCurve(mk.CurveAttrs)
		if err != nil {
			return nil, fmt.Errorf("mainline key %d: %w", mk.ID, err)
		}

		// Bone refs keep their ids; object refs are shifted past them so both
		// share one id space. Parents always name bone refs.
		offset := len(mk.BoneRefs)
		refs := make([]animation.ObjectRef, 0, len(mk.BoneRefs)+len(mk.ObjectRefs))
		convert := func(r *Ref, id int) (animation.ObjectRef, error) {
			ti, ok := timelineIndex[r.Timeline]
			if !ok {
				return animation.ObjectRef{}, fmt.Errorf("%w: mainline key %d refers to missing timeline %d",
					ErrInvalidDocument, mk.ID, r.Timeline)
			}
			ki, ok := keyIndex[ti][r.Key]
			if !ok {
				return animation.ObjectRef{}, fmt.Errorf("%w: mainline key %d refers to missing key %d of timeline %d",
					ErrInvalidDocument, mk.ID, r.Key, r.Timeline)
			}
			parent := animation.NoParent
			if r.Parent != nil && *r.Parent >= 0 {
				parent = *r.Parent
			}
			return animation.ObjectRef{ID: id, Timeline: ti, Key: ki, Parent: parent}, nil
		}

		for i := range mk.BoneRefs {
			ref, err := convert(&mk.BoneRefs[i], mk.BoneRefs[i].ID)
			if err != nil {
				return nil, err
			}
			refs = append(refs, ref)
		}
		for i := range mk.ObjectRefs {
			r := &mk.ObjectRefs[i]
			ref, err := convert(r, offset+r.ID)
			if err != nil {
				return nil, err
			}
			ref.ZIndex = r.ZIndex
			refs = append(refs, ref)
		}

		mainKeys[mi] = animation.MainlineKey{Time: mk.Time, Curve: c, Refs: refs}
	}

	mainline := animation.NewMainline(mainKeys)
	for _, tl := range timelines {
		if err := tl.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
	}
	if err := mainline.Validate(timelines); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return animation.NewAnimation(src.Name, src.Length, src.IsLooping(), mainline, timelines), nil
}

func (d *Document) buildKey(proj *project.Project, tl *Timeline, src *TimelineKey) (animation.TimelineKey, error) {
	c, err := parseCurve(src.CurveAttrs)
	if err != nil {
		return animation.TimelineKey{}, err
	}

	spin := curve.SpinCounterClockwise
	if src.Spin != nil {
		// Negated with the angle when flipping to y-down.
		spin = curve.Spin(*src.Spin).Reverse()
	}

	payload := src.Payload()
	if payload == nil {
		return animation.TimelineKey{}, fmt.Errorf("%w: key has neither bone nor object", ErrInvalidDocument)
	}

	node := animation.AnimatedPart{
		Position: geom.Vec(payload.X, -payload.Y),
		Scale:    geom.Vec(orDefault(payload.ScaleX, 1), orDefault(payload.ScaleY, 1)),
		Angle:    -payload.Angle,
	}

	key := animation.TimelineKey{Time: src.Time, Curve: c, Spin: spin}
	if src.Object == nil || !tl.IsSprite() || payload.Folder == nil || payload.File == nil {
		part := node
		key.Object = &part
		return key, nil
	}

	s := animation.NewSprite()
	s.AnimatedPart = node
	s.Folder, s.File = *payload.Folder, *payload.File
	s.Alpha = orDefault(payload.Alpha, 1)

	folder, ok := d.Folder(s.Folder)
	if !ok {
		return animation.TimelineKey{}, fmt.Errorf("%w: missing folder %d", ErrInvalidDocument, s.Folder)
	}
	s.FolderName = folder.Name
	file, ok := folder.File(s.File)
	if !ok {
		return animation.TimelineKey{}, fmt.Errorf("%w: missing file %d in folder %q", ErrInvalidDocument, s.File, folder.Name)
	}

	drawable, err := proj.Asset(s.Folder, s.File)
	if err != nil {
		return animation.TimelineKey{}, err
	}
	if payload.PivotX != nil || payload.PivotY != nil {
		def := FilePivot(file)
		pivot := geom.Vec(orDefault(payload.PivotX, def.X), def.Y)
		if payload.PivotY != nil {
			pivot.Y = 1 - *payload.PivotY
		}
		if pivot != drawable.Pivot() {
			drawable = &pivoted{Drawable: drawable, pivot: pivot}
		}
	}
	s.Drawable = drawable

	key.Object = s
	return key, nil
}

func parseCurve(attrs CurveAttrs) (curve.Curve, error) {
	t, err := curve.ParseType(attrs.CurveType)
	if err != nil {
		return curve.Curve{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	c := curve.Curve{Type: t, C1: attrs.C1, C2: attrs.C2, C3: attrs.C3, C4: attrs.C4}
	if t == curve.TypeEase {
		if !curve.HasEasing(attrs.Easing) {
			return curve.Curve{}, fmt.Errorf("%w: unknown easing %q", ErrInvalidDocument, attrs.Easing)
		}
		c.Easing = attrs.Easing
	}
	return c, nil
}
