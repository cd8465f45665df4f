package api_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jymfony/scriba/pkg/api"
)

const firstID = "00000000-0000-0000-0000-000000000000"

func TestCompileAndReflect(t *testing.T) {
	s := api.NewServices(api.ServicesOptions{Deterministic: true})
	_, err := s.Compile(`/** A class */
class A {
  /** A method */
  m(a, { b }, [c] = [], d = 42, ...e) {}
  static #x = 1;
  accessor y;
}`, "/src/a.js", api.CompileOptions{Namespace: "App"})
	require.NoError(t, err)

	assert.Equal(t, []string{firstID}, s.ReflectionIDs())
	data, ok := s.GetReflectionData(firstID)
	require.True(t, ok)
	assert.Equal(t, "App.A", data.FQCN)
	assert.Equal(t, "A", data.ClassName)
	assert.Equal(t, "App", data.Namespace)
	assert.Equal(t, "/src/a.js", data.Filename)
	assert.Equal(t, "/** A class */", data.Docblock)
	require.Len(t, data.Members, 3)

	m := data.Members[0]
	assert.Equal(t, "method", m.Kind)
	assert.Equal(t, "m", m.Name)
	assert.Equal(t, "/** A method */", m.Docblock)
	assert.Equal(t, []api.ParamData{
		{Name: "a", Index: 0},
		{Index: 1, IsObjectPattern: true},
		{Index: 2, HasDefault: true, IsArrayPattern: true},
		{Name: "d", Index: 3, HasDefault: true, Default: "42"},
		{Name: "e", Index: 4, IsRestElement: true},
	}, m.Params)

	x := data.Members[1]
	assert.Equal(t, api.MemberData{Kind: "field", Name: "x", Static: true, Private: true, Index: 1}, x)
	assert.Equal(t, "accessor", data.Members[2].Kind)

	text, err := json.Marshal(data)
	require.NoError(t, err)
	assert.Contains(t, string(text), `"fqcn":"App.A"`)
	assert.Contains(t, string(text), `"kind":"accessor"`)
	assert.Contains(t, string(text), `"default":"42"`)
}

func TestGetReflectionDataMisses(t *testing.T) {
	s := api.NewServices(api.ServicesOptions{Deterministic: true})

	_, ok := s.GetReflectionData(firstID)
	assert.False(t, ok)
	_, ok = s.GetReflectionData("not a uuid")
	assert.False(t, ok)
}

func TestCompileSyntaxError(t *testing.T) {
	_, err := api.Compile("class {", "broken.js", api.CompileOptions{})
	require.Error(t, err)

	var syntaxError *api.SyntaxError
	require.True(t, errors.As(err, &syntaxError))
	assert.Equal(t, "broken.js", syntaxError.Filename)
	assert.Contains(t, err.Error(), "while parsing broken.js")
}

func TestRemap(t *testing.T) {
	s := api.NewServices(api.ServicesOptions{Deterministic: true})
	output, err := s.Compile("function foo() {\n  throw new Error();\n}\n", "/src/a.js", api.CompileOptions{})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(output, "\"use strict\";\nfunction foo() {\n  throw new Error();\n}\n"))

	frames := []api.Frame{{Filename: "/src/a.js", Line: 3, Column: 3, FunctionName: "foo", IsTopLevel: true}}
	assert.Equal(t, "Error\n\n    at foo (/src/a.js:2:3)", s.Remap("Error", frames, nil))

	assert.Equal(t, "Error: x\n\n    at foo (/src/a.js:2:3)\n    at other.js:1:1",
		s.RemapText("Error: x\n    at foo (/src/a.js:3:3)\n    at other.js:1:1"))

	unmapped := "Error: x\n    at other.js:1:1"
	assert.Equal(t, unmapped, s.RemapText(unmapped))

	hook := s.InstallStackHook(func(message string, frames []api.Frame) string { return "previous" })
	assert.Equal(t, "previous", hook("Error", []api.Frame{{Filename: "other.js", Raw: "other.js:1:1"}}))
	assert.Equal(t, "Error\n\n    at foo (/src/a.js:2:3)", hook("Error", frames))
}

func TestIsValidIdentifier(t *testing.T) {
	for _, text := range []string{"foo", "$a", "_", "ünïcode", "a1"} {
		assert.True(t, api.IsValidIdentifier(text), text)
	}
	for _, text := range []string{"", "1a", "a-b", "class", "a b"} {
		assert.False(t, api.IsValidIdentifier(text), text)
	}
}

func TestGetArgumentNames(t *testing.T) {
	names, err := api.GetArgumentNames("function (a, b = 1, { c, d }, [e], ...f) {}")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "{ c, d }", "[e]", "...f"}, names)

	names, err = api.GetArgumentNames("(x, y) => x + y")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, names)

	names, err = api.GetArgumentNames("async () => {}")
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = api.GetArgumentNames("1 + 2")
	assert.ErrorIs(t, err, api.ErrNotAFunction)

	_, err = api.GetArgumentNames("function (")
	assert.ErrorIs(t, err, api.ErrNotAFunction)
}

func TestCompileFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.js")
	bad := filepath.Join(dir, "bad.js")
	missing := filepath.Join(dir, "missing.js")
	require.NoError(t, os.WriteFile(good, []byte("export const a = 1;\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("class {"), 0o644))

	s := api.NewServices(api.ServicesOptions{Deterministic: true})
	results, err := s.CompileFiles([]string{good, bad, missing}, api.CompileOptions{}, 2)
	require.Error(t, err)

	require.Len(t, results, 1)
	assert.Contains(t, results[good], "const a = 1;")

	var errs *multierror.Error
	require.True(t, errors.As(err, &errs))
	assert.Len(t, errs.Errors, 2)
	assert.Contains(t, err.Error(), bad)
	assert.Contains(t, err.Error(), missing)
}

func TestCompileFilesBoundedWorkers(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		path := filepath.Join(dir, name+".js")
		require.NoError(t, os.WriteFile(path, []byte("export const "+name+" = 1;\n"), 0o644))
		paths = append(paths, path)
	}

	for _, workers := range []int{0, 1, 2, 10} {
		s := api.NewServices(api.ServicesOptions{Deterministic: true})
		results, err := s.CompileFiles(paths, api.CompileOptions{}, workers)
		require.NoError(t, err)
		require.Len(t, results, len(paths))
		assert.Contains(t, results[paths[3]], "const d = 1;")
	}
}
