package upload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStoreKeepsExtension(t *testing.T) {
	files, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	stored, err := files.Store(strings.NewReader("png-bytes"), "photo.png")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if !strings.HasSuffix(stored, ".png") {
		t.Fatalf("expected .png suffix, got %q", stored)
	}
	if !strings.HasPrefix(stored, "uploads/") {
		t.Fatalf("expected public uploads/ path, got %q", stored)
	}

	raw, err := os.ReadFile(filepath.Join(files.Dir(), filepath.Base(stored)))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(raw) != "png-bytes" {
		t.Fatalf("stored content mismatch: %q", raw)
	}
}

func TestStoreNoExtension(t *testing.T) {
	files, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	stored, err := files.Store(strings.NewReader("x"), "README")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if strings.Contains(filepath.Base(stored), ".") {
		t.Fatalf("expected no extension, got %q", stored)
	}
}

func TestStoreUniqueNames(t *testing.T) {
	files, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	a, err := files.Store(strings.NewReader("a"), "a.jpg")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	b, err := files.Store(strings.NewReader("b"), "a.jpg")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if a == b {
		t.Fatalf("expected unique stored names, got %q twice", a)
	}
}

func TestExtension(t *testing.T) {
	cases := map[string]string{
		"photo.png":   "png",
		"a.b.c.jpeg":  "jpeg",
		"noext":       "",
		"trailing.":   "",
		".hidden":     "hidden",
		"":            "",
	}
	for name, want := range cases {
		if got := extension(name); got != want {
			t.Errorf("extension(%q) = %q, want %q", name, got, want)
		}
	}
}
