package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockFSBasic(t *testing.T) {
	fs := MockFS(map[string]string{
		"/README.md":        "// README.md",
		"/src/index.js":     "// src/index.js",
		"/src/index.js.map": "{}",
	})

	// Test a missing file
	_, err := fs.ReadFile("/missing.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, fs.Exists("/missing.txt"))

	// Test an existing nested file
	index, err := fs.ReadFile("/src/./index.js")
	require.NoError(t, err)
	assert.Equal(t, "// src/index.js", index)
	assert.True(t, fs.Exists("/src/index.js.map"))

	assert.Equal(t, "/src", fs.Dir("/src/index.js"))
	assert.Equal(t, "index.js", fs.Base("/src/index.js"))
	assert.Equal(t, "/src/lib/a.js.map", fs.Join("/src", "lib/../lib", "a.js.map"))

	abs, ok := fs.Abs("src/index.js")
	assert.True(t, ok)
	assert.Equal(t, "/src/index.js", abs)
}

func TestRealFS(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "input.js")
	require.NoError(t, os.WriteFile(file, []byte("let x = 1;\n"), 0o644))

	fs := RealFS()
	contents, err := fs.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "let x = 1;\n", contents)
	assert.True(t, fs.Exists(file))
	assert.False(t, fs.Exists(dir))
	assert.False(t, fs.Exists(filepath.Join(dir, "missing.js")))

	_, err = fs.ReadFile(filepath.Join(dir, "missing.js"))
	assert.Error(t, err)
}
