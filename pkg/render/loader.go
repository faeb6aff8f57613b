package render

import (
	"fmt"
	"io/fs"
	"log"
	"path"
	"path/filepath"

	"github.com/decker502/spriter/internal/scml"
	"github.com/decker502/spriter/pkg/animation"
	"github.com/decker502/spriter/pkg/embedded"
	"github.com/decker502/spriter/pkg/project"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Resolver returns an asset resolver loading every file from dir with
// ebitenutil. File names in SCML are relative to the .scml file.
func Resolver(dir string) scml.AssetResolver {
	return func(folder *scml.Folder, file *scml.File) (animation.Drawable, error) {
		fullPath := filepath.Join(dir, filepath.FromSlash(file.Name))
		img, _, err := ebitenutil.NewImageFromFile(fullPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load image '%s' (folder %q): %w", fullPath, folder.Name, err)
		}
		return NewTexture(img, scml.FilePivot(file)), nil
	}
}

// ResolverFS is Resolver over fsys, with dir a slash-separated directory.
func ResolverFS(fsys fs.FS, dir string) scml.AssetResolver {
	return func(folder *scml.Folder, file *scml.File) (animation.Drawable, error) {
		fullPath := path.Join(dir, file.Name)
		img, _, err := ebitenutil.NewImageFromFileSystem(fsys, fullPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load image '%s' (folder %q): %w", fullPath, folder.Name, err)
		}
		return NewTexture(img, scml.FilePivot(file)), nil
	}
}

// LoadProject parses the SCML file at path and loads its images from the same
// directory. Paths starting with embedded.Scheme are read from the embedded FS.
//
// Example:
//
//	proj, err := render.LoadProject("assets/hero/hero.scml")
//	if err != nil {
//	    log.Fatalf("Failed to load project: %v", err)
//	}
//	hero, _ := proj.Entity("hero")
func LoadProject(path string) (*project.Project, error) {
	if embedded.IsEmbedded(path) {
		return LoadProjectFS(embedded.FS(), embedded.Clean(path))
	}

	doc, err := scml.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return build(doc, Resolver(filepath.Dir(path)), path)
}

// LoadProjectFS is LoadProject over fsys.
func LoadProjectFS(fsys fs.FS, name string) (*project.Project, error) {
	doc, err := scml.ParseFS(fsys, name)
	if err != nil {
		return nil, err
	}
	return build(doc, ResolverFS(fsys, path.Dir(name)), name)
}

func build(doc *scml.Document, resolve scml.AssetResolver, name string) (*project.Project, error) {
	proj := project.New()
	if err := doc.Build(proj, resolve); err != nil {
		return nil, fmt.Errorf("failed to build project '%s': %w", name, err)
	}
	log.Printf("[Render] Loaded project %s (%d entities)", name, len(proj.Entities()))
	return proj, nil
}
