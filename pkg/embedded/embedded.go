// Package embedded gives access to the demo project compiled into the binary.
//
// Paths are slash-separated and relative to the package directory, for example
// "demo/stick.scml". A leading "./" or the Scheme prefix is accepted.
package embedded

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

//go:embed all:demo
var demoFS embed.FS

// Scheme marks a project path that lives in the embedded FS instead of on disk.
const Scheme = "embedded:"

// DemoProject is the path of the bundled stick figure rig.
const DemoProject = Scheme + "demo/stick.scml"

// IsEmbedded reports whether path carries the Scheme prefix.
func IsEmbedded(path string) bool {
	return strings.HasPrefix(path, Scheme)
}

// Clean strips the Scheme prefix and normalizes path for fs.FS lookups.
func Clean(path string) string {
	path = strings.TrimPrefix(path, Scheme)
	path = filepath.ToSlash(path)
	return strings.TrimPrefix(path, "./")
}

// FS returns the embedded file system.
func FS() fs.FS {
	return demoFS
}

// Open opens the embedded file at path.
func Open(path string) (fs.File, error) {
	f, err := demoFS.Open(Clean(path))
	if err != nil {
		return nil, fmt.Errorf("embedded file %q: %w", path, err)
	}
	return f, nil
}

// ReadFile returns the content of the embedded file at path.
func ReadFile(path string) ([]byte, error) {
	data, err := fs.ReadFile(demoFS, Clean(path))
	if err != nil {
		return nil, fmt.Errorf("embedded file %q: %w", path, err)
	}
	return data, nil
}

// Exists reports whether path names an embedded file.
func Exists(path string) bool {
	_, err := fs.Stat(demoFS, Clean(path))
	return err == nil
}

// Glob matches pattern against the embedded files.
func Glob(pattern string) ([]string, error) {
	return fs.Glob(demoFS, Clean(pattern))
}
