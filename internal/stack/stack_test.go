package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jymfony/scriba/internal/sourcemap"
)

func registryForTest(withContent bool) *Registry {
	sm := &sourcemap.SourceMap{
		Sources: []string{"a.js"},
		Mappings: []sourcemap.Mapping{
			{GeneratedLine: 0, GeneratedColumn: 0, OriginalLine: 4, OriginalColumn: 2, OriginalName: sourcemap.NoName},
			{GeneratedLine: 2, GeneratedColumn: 10, OriginalLine: 7, OriginalColumn: 0, OriginalName: sourcemap.NoName},
		},
		GeneratedNames: map[string]string{
			"foo":             "foo",
			"_foo1":           "bar",
			"_anonymous_xΞ1": "",
		},
	}
	if withContent {
		sm.SourcesContent = []sourcemap.SourceContent{{Quoted: `"x"`}}
	}

	r := NewRegistry()
	r.Register("a.js", sm)
	return r
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, 0, r.Len())

	first := &sourcemap.SourceMap{}
	second := &sourcemap.SourceMap{}
	r.Register("a.js", first)
	r.Register("a.js", second)

	sm, ok := r.Lookup("a.js")
	require.True(t, ok)
	assert.Same(t, second, sm)
	assert.Equal(t, 1, r.Len())

	_, ok = r.Lookup("b.js")
	assert.False(t, ok)
}

func TestRemapFrames(t *testing.T) {
	r := registryForTest(true)
	at := func(frame Frame) string {
		t.Helper()
		return r.Remap("Error: boom", []Frame{frame}, nil)
	}

	assert.Equal(t, "Error: boom\n\n    at A.foo (a.js:5:3)",
		at(Frame{Filename: "a.js", Line: 1, Column: 5, FunctionName: "foo", TypeName: "A", MethodName: "foo"}))
	assert.Equal(t, "Error: boom\n\n    at A.bar [as foo] (a.js:5:3)",
		at(Frame{Filename: "a.js", Line: 1, Column: 5, FunctionName: "_foo1", TypeName: "A", MethodName: "foo"}))
	assert.Equal(t, "Error: boom\n\n    at A.<anonymous> (a.js:5:3)",
		at(Frame{Filename: "a.js", Line: 1, Column: 1, TypeName: "A"}))
	assert.Equal(t, "Error: boom\n\n    at new <anonymous> (a.js:5:3)",
		at(Frame{Filename: "a.js", Line: 1, Column: 1, IsConstructor: true}))
	assert.Equal(t, "Error: boom\n\n    at new foo (a.js:5:3)",
		at(Frame{Filename: "a.js", Line: 1, Column: 1, FunctionName: "foo", IsConstructor: true}))
	assert.Equal(t, "Error: boom\n\n    at foo (a.js:8:1)",
		at(Frame{Filename: "a.js", Line: 3, Column: 12, FunctionName: "foo", IsTopLevel: true}))
	assert.Equal(t, "Error: boom\n\n    at a.js:8:1",
		at(Frame{Filename: "a.js", Line: 3, Column: 12, FunctionName: "_anonymous_xΞ1", IsTopLevel: true}))
	assert.Equal(t, "Error: boom\n\n    at async foo (a.js:5:3)",
		at(Frame{Filename: "a.js", Line: 1, Column: 1, FunctionName: "foo", IsTopLevel: true, IsAsync: true}))
	assert.Equal(t, "Error: boom\n\n    at Promise.all (index 2) foo (a.js:5:3)",
		at(Frame{Filename: "a.js", Line: 1, Column: 1, FunctionName: "foo", IsTopLevel: true, IsPromiseAll: true, PromiseIndex: 2}))
}

func TestRemapKeepsUnmappedFrames(t *testing.T) {
	r := registryForTest(true)
	frames := []Frame{
		{Filename: "a.js", Line: 1, Column: 1, FunctionName: "foo", IsTopLevel: true},
		{Filename: "other.js", Line: 1, Column: 1, Raw: "bar (other.js:1:1)"},
		{IsNative: true, Raw: "Array.map (native)"},
		{Filename: "a.js", Line: 2, Column: 1, Raw: "baz (a.js:2:1)"},
	}

	assert.Equal(t,
		"Error\n\n    at foo (a.js:5:3)\n    at bar (other.js:1:1)\n    at Array.map (native)\n    at baz (a.js:2:1)",
		r.Remap("Error", frames, nil))
}

func TestRemapDropsLazyConstructFrames(t *testing.T) {
	r := registryForTest(true)
	frames := []Frame{
		{Filename: "a.js", Line: 1, Column: 1, FunctionName: LazyConstructHelper, IsTopLevel: true},
		{Filename: "a.js", Line: 1, Column: 1, FunctionName: "foo", IsTopLevel: true},
	}
	assert.Equal(t, "Error\n\n    at foo (a.js:5:3)", r.Remap("Error", frames, nil))
}

func TestRemapWithoutSourceContent(t *testing.T) {
	r := registryForTest(false)
	frames := []Frame{{Filename: "a.js", Line: 1, Column: 1, FunctionName: "_foo1", IsTopLevel: true}}
	assert.Equal(t, "Error\n\n    at _foo1 (a.js:5:3)", r.Remap("Error", frames, nil))
}

func TestRemapFallsBackToPrevious(t *testing.T) {
	r := registryForTest(true)
	previous := "previous stack"

	unmapped := []Frame{{Filename: "other.js", Line: 1, Column: 1, Raw: "other.js:1:1"}}
	assert.Equal(t, previous, r.Remap("Error", unmapped, &previous))
	assert.Equal(t, "Error\n\n    at other.js:1:1", r.Remap("Error", unmapped, nil))

	mapped := []Frame{{Filename: "a.js", Line: 1, Column: 1, FunctionName: "foo", IsTopLevel: true}}
	assert.Equal(t, "Error\n\n    at foo (a.js:5:3)", r.Remap("Error", mapped, &previous))
}

func TestHook(t *testing.T) {
	r := registryForTest(true)
	calls := 0
	hook := r.Hook(func(message string, frames []Frame) string {
		calls++
		return "from previous formatter"
	})

	unmapped := []Frame{{Filename: "other.js", Raw: "other.js:1:1"}}
	assert.Equal(t, "from previous formatter", hook("Error", unmapped))
	assert.Equal(t, 1, calls)

	bare := r.Hook(nil)
	assert.Equal(t, "Error\n\n    at other.js:1:1", bare("Error", unmapped))
}

func TestParseV8Stack(t *testing.T) {
	message, frames := ParseV8Stack(`TypeError: boom
    on two lines
    at A.foo (/src/a.js:3:12)
    at A.bar [as baz] (/src/a.js:4:1)
    at Object.<anonymous> (/src/a.js:10:5)
    at new Service (/src/b.js:1:2)
    at main (/src/c.js:7:3)
    at async run (/src/c.js:9:1)
    at Array.map (native)
    at async Promise.all (index 3)
    at /src/d.js:1:1`)

	assert.Equal(t, "TypeError: boom\n    on two lines", message)
	require.Len(t, frames, 9)

	assert.Equal(t, Frame{Filename: "/src/a.js", Line: 3, Column: 12, FunctionName: "foo", MethodName: "foo", TypeName: "A",
		Raw: "A.foo (/src/a.js:3:12)"}, frames[0])
	assert.Equal(t, Frame{Filename: "/src/a.js", Line: 4, Column: 1, FunctionName: "bar", MethodName: "baz", TypeName: "A",
		Raw: "A.bar [as baz] (/src/a.js:4:1)"}, frames[1])
	assert.Equal(t, "Object", frames[2].TypeName)
	assert.Equal(t, "", frames[2].FunctionName)

	assert.True(t, frames[3].IsConstructor)
	assert.Equal(t, "Service", frames[3].FunctionName)
	assert.Equal(t, "/src/b.js", frames[3].Filename)

	assert.True(t, frames[4].IsTopLevel)
	assert.Equal(t, "main", frames[4].FunctionName)

	assert.True(t, frames[5].IsAsync)
	assert.Equal(t, "run", frames[5].FunctionName)

	assert.True(t, frames[6].IsNative)
	assert.Equal(t, "Array.map (native)", frames[6].Raw)

	assert.True(t, frames[7].IsPromiseAll)
	assert.True(t, frames[7].IsAsync)
	assert.Equal(t, 3, frames[7].PromiseIndex)

	assert.True(t, frames[8].IsTopLevel)
	assert.Equal(t, "/src/d.js", frames[8].Filename)
	assert.Equal(t, 1, frames[8].Line)
}

func TestParseAndRemap(t *testing.T) {
	r := registryForTest(true)
	message, frames := ParseV8Stack("Error: boom\n    at A.foo (a.js:1:1)\n    at x.js:1:1")
	assert.Equal(t, "Error: boom\n\n    at A.foo (a.js:5:3)\n    at x.js:1:1", r.Remap(message, frames, nil))
}
