package fs

import (
	"errors"
	"os"
	"path"
	"path/filepath"
)

var ErrNotFound = errors.New("file not found")

// FS is the narrow file system view used for reading inputs and their
// source maps. The mock implementation used by tests should not depend on
// file system behavior (i.e. different slashes for Windows) while the real
// implementation should.
type FS interface {
	ReadFile(path string) (string, error)
	Exists(path string) bool

	Abs(path string) (string, bool)
	Dir(path string) string
	Base(path string) string
	Join(parts ...string) string
}

////////////////////////////////////////////////////////////////////////////////

type mockFS struct {
	files map[string]string
}

// MockFS serves files from memory. Paths always use forward slashes.
func MockFS(input map[string]string) FS {
	files := make(map[string]string, len(input))
	for k, v := range input {
		files[path.Clean(k)] = v
	}
	return &mockFS{files}
}

func (fs *mockFS) ReadFile(p string) (string, error) {
	contents, ok := fs.files[path.Clean(p)]
	if !ok {
		return "", &os.PathError{Op: "open", Path: p, Err: ErrNotFound}
	}
	return contents, nil
}

func (fs *mockFS) Exists(p string) bool {
	_, ok := fs.files[path.Clean(p)]
	return ok
}

func (*mockFS) Abs(p string) (string, bool) {
	return path.Clean(path.Join("/", p)), true
}

func (*mockFS) Dir(p string) string {
	return path.Dir(p)
}

func (*mockFS) Base(p string) string {
	return path.Base(p)
}

func (*mockFS) Join(parts ...string) string {
	return path.Clean(path.Join(parts...))
}

////////////////////////////////////////////////////////////////////////////////

type realFS struct{}

func RealFS() FS {
	return realFS{}
}

func (realFS) ReadFile(p string) (string, error) {
	buffer, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	return string(buffer), nil
}

func (realFS) Exists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func (realFS) Abs(p string) (string, bool) {
	abs, err := filepath.Abs(p)
	return abs, err == nil
}

func (realFS) Dir(p string) string {
	return filepath.Dir(p)
}

func (realFS) Base(p string) string {
	return filepath.Base(p)
}

func (realFS) Join(parts ...string) string {
	return filepath.Clean(filepath.Join(parts...))
}
