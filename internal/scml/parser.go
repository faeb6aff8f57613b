package scml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// ErrInvalidDocument is returned when an SCML document cannot be played:
// malformed XML, an animation without mainline keys, or refs pointing at
// missing timelines, keys or files.
var ErrInvalidDocument = errors.New("invalid scml document")

// Parse decodes an SCML document from r.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse SCML: %w: %w", ErrInvalidDocument, err)
	}
	return &doc, nil
}

// ParseFile reads and decodes the SCML file at path.
//
// Example:
//
//	doc, err := scml.ParseFile("assets/hero/hero.scml")
//	if err != nil {
//	    log.Fatalf("Failed to load project: %v", err)
//	}
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SCML file '%s': %w", path, err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", path, err)
	}
	return doc, nil
}

// ParseFS reads and decodes the SCML file at path inside fsys.
func ParseFS(fsys fs.FS, path string) (*Document, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SCML file '%s': %w", path, err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", path, err)
	}
	return doc, nil
}
