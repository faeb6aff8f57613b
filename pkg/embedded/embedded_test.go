package embedded

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"demo/stick.scml", "demo/stick.scml"},
		{"./demo/stick.scml", "demo/stick.scml"},
		{DemoProject, "demo/stick.scml"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.expected {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.expected)
			}
		})
	}
}

func TestIsEmbedded(t *testing.T) {
	if !IsEmbedded(DemoProject) {
		t.Error("DemoProject should be embedded")
	}
	if IsEmbedded("assets/hero.scml") {
		t.Error("a disk path should not be embedded")
	}
}

func TestDemoFiles(t *testing.T) {
	if !Exists(DemoProject) {
		t.Fatal("demo project missing")
	}

	data, err := ReadFile(DemoProject)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `<entity id="0" name="stick">`) {
		t.Error("demo project should define the stick entity")
	}

	images, err := Glob("demo/stick/*.png")
	if err != nil {
		t.Fatal(err)
	}
	if len(images) != 3 {
		t.Errorf("images = %v, want 3", images)
	}

	f, err := Open("./demo/stick/head.png")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
}

func TestMissingFile(t *testing.T) {
	if Exists("demo/nothing.scml") {
		t.Error("Exists should be false for a missing file")
	}
	if _, err := ReadFile("demo/nothing.scml"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile error = %v, want fs.ErrNotExist", err)
	}
	if _, err := Open("demo/nothing.scml"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open error = %v, want fs.ErrNotExist", err)
	}
}
