package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jymfony/scriba/internal/config"
	"github.com/jymfony/scriba/internal/fs"
	"github.com/jymfony/scriba/internal/helpers"
	"github.com/jymfony/scriba/internal/reflection"
	"github.com/jymfony/scriba/internal/stack"
	"github.com/jymfony/scriba/internal/transform"
)

func envForTest() Env {
	return Env{
		Reflection: reflection.NewStore(),
		SourceMaps: stack.NewRegistry(),
		IDs:        &reflection.SequentialIDs{},
		Names:      &transform.CounterNames{},
	}
}

func compileForTest(t *testing.T, env Env, contents string, filename string, options config.CompileOptions) string {
	t.Helper()
	unit, err := Parse(nil, contents, filename)
	require.NoError(t, err)
	output, err := unit.Compile(env, options)
	require.NoError(t, err)
	return output
}

func inlineMap(t *testing.T, output string) string {
	t.Helper()
	const prefix = "\n\n//# sourceMappingURL="
	i := strings.LastIndex(output, prefix)
	require.NotEqual(t, -1, i)
	text, err := helpers.DecodeDataURL(output[i+len(prefix):])
	require.NoError(t, err)
	return text
}

func TestCompileDefaultExport(t *testing.T) {
	env := envForTest()
	output := compileForTest(t, env, "export default class X { f = 1; }", "", config.CompileOptions{})

	assert.Contains(t, output, "class X extends (__jymfony_JObject = __jymfony.JObject) {")
	assert.Contains(t, output, "super(...args);")
	assert.Contains(t, output, "_init_f(this, 1)")
	assert.Contains(t, output, "_apply_decs_2203_r(this, ")
	assert.Contains(t, output, "Object.defineProperty(exports, \"default\"")
	assert.NotContains(t, output, "sourceMappingURL")

	record, ok := env.Reflection.Lookup("00000000-0000-0000-0000-000000000000")
	require.True(t, ok)
	assert.Equal(t, "X", record.Name)
	assert.Equal(t, 0, env.SourceMaps.Len())
}

func TestCompileIsReproducible(t *testing.T) {
	contents := "@dec class A { @observe accessor x = 1; m(@inject a) {} }\nexport const b = class {};"
	first := compileForTest(t, envForTest(), contents, "/src/a.js", config.CompileOptions{})
	second := compileForTest(t, envForTest(), contents, "/src/a.js", config.CompileOptions{})
	assert.Equal(t, first, second)
}

func TestCompileOptionalImportPlacement(t *testing.T) {
	output := compileForTest(t, envForTest(), "import Pkg from 'mod' with { optional: true };\nconsole.log(Pkg);", "", config.CompileOptions{})

	binding := strings.Index(output, "const Pkg = void 0 !== _r ? ")
	use := strings.Index(output, "console.log(Pkg);")
	require.NotEqual(t, -1, binding)
	require.NotEqual(t, -1, use)
	assert.Less(t, binding, use)
}

func TestCompileOptions(t *testing.T) {
	output := compileForTest(t, envForTest(), "__assert(x); new A()", "", config.CompileOptions{})
	assert.Contains(t, output, "void 0;\n")
	assert.Contains(t, output, "new A();")

	output = compileForTest(t, envForTest(), "__assert(x); new A()", "", config.CompileOptions{Debug: true, LazyConstruct: true})
	assert.Contains(t, output, "__assert(x);")
	assert.Contains(t, output, "_construct_jobject(A);")

	output = compileForTest(t, envForTest(), "export const a = 1", "", config.CompileOptions{AsFunction: true})
	assert.True(t, strings.HasPrefix(output, "(function(exports, require, module, __filename, __dirname) {\n  \"use strict\";\n"))

	output = compileForTest(t, envForTest(), "export const a = 1", "", config.CompileOptions{AsModule: true, AsFunction: true})
	assert.Equal(t, "export const a = 1;\n", output)
}

func TestCompilePublishesSourceMap(t *testing.T) {
	env := envForTest()
	output := compileForTest(t, env, "a();\nb();\n", "/src/a.js", config.CompileOptions{})

	assert.True(t, strings.HasPrefix(output, "\"use strict\";\na();\nb();\n"))
	assert.Contains(t, output, "\n\n//# sourceMappingURL=data:application/json;charset=utf-8;base64,")
	assert.Contains(t, inlineMap(t, output), "\"sources\":[\"/src/a.js\"]")

	sm, ok := env.SourceMaps.Lookup("/src/a.js")
	require.True(t, ok)
	mapping := sm.Find(2, 0)
	require.NotNil(t, mapping)
	assert.Equal(t, int32(1), mapping.OriginalLine)
	assert.True(t, sm.HasSourceContent(mapping.SourceIndex))
}

func TestCompileComposesInputSourceMap(t *testing.T) {
	env := envForTest()
	first := compileForTest(t, env, "a();\nb();\n", "a.js", config.CompileOptions{})
	compileForTest(t, env, first, "b.js", config.CompileOptions{})

	sm, ok := env.SourceMaps.Lookup("b.js")
	require.True(t, ok)
	assert.Equal(t, []string{"a.js"}, sm.Sources)

	mapping := sm.Find(2, 0)
	require.NotNil(t, mapping)
	assert.Equal(t, int32(1), mapping.OriginalLine)
}

func TestParseSidecarSourceMap(t *testing.T) {
	env := envForTest()
	first := compileForTest(t, env, "a();\nb();\n", "a.js", config.CompileOptions{})
	original, _ := env.SourceMaps.Lookup("a.js")

	code := first[:strings.LastIndex(first, "\n\n//# sourceMappingURL=")]
	fsys := fs.MockFS(map[string]string{
		"/out/b.js":     code + "\n//# sourceMappingURL=b.js.map\n",
		"/out/b.js.map": string(original.Encode()),
	})
	contents, err := fsys.ReadFile("/out/b.js")
	require.NoError(t, err)

	unit, err := Parse(fsys, contents, "/out/b.js")
	require.NoError(t, err)
	require.NotNil(t, unit.InputSourceMap)
	assert.Equal(t, []string{"a.js"}, unit.InputSourceMap.Sources)
}

func TestParseTypeScript(t *testing.T) {
	unit, err := Parse(nil, "let x: number = 1;", "a.ts")
	require.NoError(t, err)
	assert.True(t, unit.IsTypeScript)

	output, err := unit.Compile(envForTest(), config.CompileOptions{AsModule: true})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(output, "let x = 1;\n"))
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse(nil, "\nnew class ext impl test {[]}\n", "a.js")
	require.Error(t, err)

	var syntaxError *SyntaxError
	require.True(t, errors.As(err, &syntaxError))
	assert.Equal(t, 2, syntaxError.Line)
	assert.Equal(t, 15, syntaxError.Column)
	assert.True(t, strings.HasPrefix(err.Error(), "SyntaxError: "))
	assert.True(t, strings.HasSuffix(err.Error(), " on line 2, column 15 while parsing a.js"))

	_, err = Parse(nil, "let = ;", "")
	require.Error(t, err)
	assert.True(t, strings.HasSuffix(err.Error(), "while parsing <no filename provided>"))
}

func TestUnitIsConsumed(t *testing.T) {
	unit, err := Parse(nil, "a()", "")
	require.NoError(t, err)

	_, err = unit.Compile(envForTest(), config.CompileOptions{})
	require.NoError(t, err)
	_, err = unit.Compile(envForTest(), config.CompileOptions{})
	assert.ErrorIs(t, err, ErrUnitConsumed)
}

func TestCompileSelfSeesDecoratedClass(t *testing.T) {
	output := compileForTest(t, envForTest(), `export class x {
  m() { return __self.y; }
  static make() { return new x(); }
}
const p = class { t() { return __self.x; } };
`, "", config.CompileOptions{})

	assert.Contains(t, output, "c: [_x, _initClass")
	assert.Contains(t, output, "return _x.y;")
	assert.Contains(t, output, "return new _x();")
	assert.Contains(t, output, "return __anonymous_xΞ1.x;")
}
