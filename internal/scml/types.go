// Package scml reads Spriter SCML project files.
//
// SCML is the XML format saved by the Spriter editor. The document is parsed into
// the structs of this file as-is (y-up coordinates, ids as written) and converted
// into the runtime model by Document.Build.
package scml

// Document is the <spriter_data> root element.
type Document struct {
	Version   string `xml:"scml_version,attr"`
	Generator string `xml:"generator,attr"`

	Folders  []Folder `xml:"folder"`
	Entities []Entity `xml:"entity"`
}

// Folder groups image files. Folder ids are unique within the document.
type Folder struct {
	ID    int    `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Files []File `xml:"file"`
}

// File is one image. Name is relative to the .scml file.
type File struct {
	ID     int     `xml:"id,attr"`
	Name   string  `xml:"name,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
	// PivotX and PivotY are the default anchor of the image, y-up
	// (0,0 is the bottom-left corner).
	PivotX float64  `xml:"pivot_x,attr"`
	PivotY *float64 `xml:"pivot_y,attr"`
}

// Entity is a character with its animations.
type Entity struct {
	ID         int         `xml:"id,attr"`
	Name       string      `xml:"name,attr"`
	Animations []Animation `xml:"animation"`
}

// Animation is one <animation> element.
type Animation struct {
	ID     int    `xml:"id,attr"`
	Name   string `xml:"name,attr"`
	Length int    `xml:"length,attr"`
	// Looping defaults to true when the attribute is absent.
	Looping *bool `xml:"looping,attr"`

	Mainline  Mainline   `xml:"mainline"`
	Timelines []Timeline `xml:"timeline"`
}

// Mainline holds the snapshots of an animation.
type Mainline struct {
	Keys []MainlineKey `xml:"key"`
}

// CurveAttrs are the curve attributes shared by mainline and timeline keys.
type CurveAttrs struct {
	CurveType string  `xml:"curve_type,attr"`
	C1        float64 `xml:"c1,attr"`
	C2        float64 `xml:"c2,attr"`
	C3        float64 `xml:"c3,attr"`
	C4        float64 `xml:"c4,attr"`
	// Easing names the tween function of curve_type="ease", e.g. "OutBack".
	Easing string `xml:"easing,attr"`
}

// MainlineKey is one snapshot. Bone refs and object refs have separate id spaces;
// both parent attributes point at bone refs.
type MainlineKey struct {
	ID   int `xml:"id,attr"`
	Time int `xml:"time,attr"`
	CurveAttrs

	BoneRefs   []Ref `xml:"bone_ref"`
	ObjectRefs []Ref `xml:"object_ref"`
}

// Ref is a <bone_ref> or <object_ref>.
type Ref struct {
	ID       int  `xml:"id,attr"`
	Parent   *int `xml:"parent,attr"`
	Timeline int  `xml:"timeline,attr"`
	Key      int  `xml:"key,attr"`
	ZIndex   int  `xml:"z_index,attr"`
}

// Timeline is the keyframes of one bone or object.
type Timeline struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
	// ObjectType is "sprite" when empty. Anything but "sprite" is loaded as a
	// bare transform.
	ObjectType string        `xml:"object_type,attr"`
	Keys       []TimelineKey `xml:"key"`
}

// TimelineKey is one keyframe. Exactly one of Bone and Object is set.
type TimelineKey struct {
	ID   int `xml:"id,attr"`
	Time int `xml:"time,attr"`
	// Spin defaults to 1 (counter-clockwise in the y-up editor space).
	Spin *int `xml:"spin,attr"`
	CurveAttrs

	Bone   *Spatial `xml:"bone"`
	Object *Spatial `xml:"object"`
}

// Spatial is the payload of a <bone> or <object>. Optional attributes are
// pointers so that absent values can take their Spriter defaults.
type Spatial struct {
	Folder *int     `xml:"folder,attr"`
	File   *int     `xml:"file,attr"`
	X      float64  `xml:"x,attr"`
	Y      float64  `xml:"y,attr"`
	Angle  float64  `xml:"angle,attr"`
	ScaleX *float64 `xml:"scale_x,attr"`
	ScaleY *float64 `xml:"scale_y,attr"`
	PivotX *float64 `xml:"pivot_x,attr"`
	PivotY *float64 `xml:"pivot_y,attr"`
	Alpha  *float64 `xml:"a,attr"`
}

// Payload returns the bone or object of the key, whichever is present.
func (k *TimelineKey) Payload() *Spatial {
	if k.Object != nil {
		return k.Object
	}
	return k.Bone
}

// IsSprite reports whether the timeline carries image objects.
func (t *Timeline) IsSprite() bool {
	return t.ObjectType == "" || t.ObjectType == "sprite"
}

// IsLooping applies the default of the looping attribute.
func (a *Animation) IsLooping() bool {
	return a.Looping == nil || *a.Looping
}

// Folder returns the folder with the given id.
func (d *Document) Folder(id int) (*Folder, bool) {
	for i := range d.Folders {
		if d.Folders[i].ID == id {
			return &d.Folders[i], true
		}
	}
	return nil, false
}

// File returns the file with the given id.
func (f *Folder) File(id int) (*File, bool) {
	for i := range f.Files {
		if f.Files[i].ID == id {
			return &f.Files[i], true
		}
	}
	return nil, false
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
