// Package project holds a loaded Spriter project: the folder/file asset table
// and the entities built from it.
//
// Lookups by name fail immediately with a sentinel error; callers can test
// them with errors.Is:
//
//	ent, err := proj.Entity("hero")
//	if errors.Is(err, project.ErrEntityNotFound) {
//	    // ...
//	}
package project

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/decker502/spriter/pkg/animation"
)

var (
	ErrEntityNotFound    = errors.New("entity not found")
	ErrAnimationNotFound = errors.New("animation not found")
	ErrAssetNotFound     = errors.New("asset not found")
)

// folder is one entry of the asset table.
type folder struct {
	folderID int
	fileID   int
	name     string
	drawable animation.Drawable
}

// Project is the asset table plus the source entities.
// Not safe for concurrent mutation; fill it once, then read.
type Project struct {
	// assets is keyed by AssetKey(folder, file) for id lookups and by
	// folderName+fileID for name lookups.
	assets     map[int]folder
	namedAsset map[string]folder
	folders    map[int]string

	entities []*Entity
}

// New creates an empty project.
func New() *Project {
	return &Project{
		assets:     make(map[int]folder),
		namedAsset: make(map[string]folder),
		folders:    make(map[int]string),
	}
}

// AssetKey packs a folder and file id into one key.
func AssetKey(folderID, fileID int) int {
	return (folderID << 16) + fileID
}

func nameKey(folderName string, fileID int) string {
	return folderName + strconv.Itoa(fileID)
}

// PutAsset registers d under (folderID, fileID) and (folderName, fileID).
func (p *Project) PutAsset(folderID int, folderName string, fileID int, d animation.Drawable) {
	f := folder{folderID: folderID, fileID: fileID, name: folderName, drawable: d}
	p.assets[AssetKey(folderID, fileID)] = f
	p.namedAsset[nameKey(folderName, fileID)] = f
	p.folders[folderID] = folderName
}

// PutAssetByName registers d under (folderName, fileID) only.
func (p *Project) PutAssetByName(folderName string, fileID int, d animation.Drawable) {
	p.namedAsset[nameKey(folderName, fileID)] = folder{fileID: fileID, name: folderName, drawable: d}
}

// PutFolder names a folder id.
func (p *Project) PutFolder(folderID int, folderName string) {
	p.folders[folderID] = folderName
}

// FolderName returns the name of a folder id, or "" when unknown.
func (p *Project) FolderName(folderID int) string {
	return p.folders[folderID]
}

// Asset returns the drawable registered under (folderID, fileID).
func (p *Project) Asset(folderID, fileID int) (animation.Drawable, error) {
	f, ok := p.assets[AssetKey(folderID, fileID)]
	if !ok {
		return nil, fmt.Errorf("folder %d file %d: %w", folderID, fileID, ErrAssetNotFound)
	}
	return f.drawable, nil
}

// AssetByName returns the drawable registered under (folderName, fileID).
func (p *Project) AssetByName(folderName string, fileID int) (animation.Drawable, error) {
	f, ok := p.namedAsset[nameKey(folderName, fileID)]
	if !ok {
		return nil, fmt.Errorf("folder %q file %d: %w", folderName, fileID, ErrAssetNotFound)
	}
	return f.drawable, nil
}

// AddEntity appends a source entity.
func (p *Project) AddEntity(e *Entity) {
	p.entities = append(p.entities, e)
}

// Entity returns an independent copy of the entity called name, so every
// caller gets its own playback state.
func (p *Project) Entity(name string) (*Entity, error) {
	for _, e := range p.entities {
		if e.Name == name {
			return e.Clone(), nil
		}
	}
	return nil, fmt.Errorf("entity %q: %w", name, ErrEntityNotFound)
}

// EntityAt returns the source entity at index, not a copy.
func (p *Project) EntityAt(index int) (*Entity, error) {
	if index < 0 || index >= len(p.entities) {
		return nil, fmt.Errorf("entity #%d: %w", index, ErrEntityNotFound)
	}
	return p.entities[index], nil
}

// Entities returns the source entities.
func (p *Project) Entities() []*Entity {
	return p.entities
}
