// Package upload stores post cover files under random names with the
// original extension preserved.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrStorage = errors.New("storage error")

type Files struct {
	dir string
}

func New(dir string) (*Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return &Files{dir: dir}, nil
}

// Dir returns the directory backing the public /uploads/ route.
func (f *Files) Dir() string {
	return f.dir
}

// Store writes src to a random file name, then renames it to carry the
// extension of originalName. A name without a dot yields a file without an
// extension. The returned path is the public one (uploads/<name>).
func (f *Files) Store(src io.Reader, originalName string) (string, error) {
	name := uuid.NewString()
	tmp := filepath.Join(f.dir, name)
	dst, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}

	stored := tmp
	if ext := extension(originalName); ext != "" {
		stored = tmp + "." + ext
		if err := os.Rename(tmp, stored); err != nil {
			_ = os.Remove(tmp)
			return "", fmt.Errorf("%w: %v", ErrStorage, err)
		}
	}
	return path.Join("uploads", filepath.Base(stored)), nil
}

// extension returns the last dot-delimited segment of name, or "" when name
// has no extension.
func extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return name[i+1:]
}
