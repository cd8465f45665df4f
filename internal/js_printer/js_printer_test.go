package js_printer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jymfony/scriba/internal/js_ast"
	"github.com/jymfony/scriba/internal/js_parser"
	"github.com/jymfony/scriba/internal/logger"
	"github.com/jymfony/scriba/internal/sourcemap"
	"github.com/jymfony/scriba/internal/test"
)

func expectPrintedCommon(t *testing.T, name string, contents string, expected string, options js_parser.Options) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		tree, ok := js_parser.Parse(log, test.SourceForTest(contents), options)
		msgs := log.Done()
		text := ""
		for _, msg := range msgs {
			text += msg.String(logger.OutputOptions{}, logger.TerminalInfo{})
		}
		test.AssertEqualWithDiff(t, text, "")
		if !ok {
			t.Fatal("Parse error")
		}
		js := Print(tree, Options{}).JS
		test.AssertEqualWithDiff(t, string(js), expected)
	})
}

func expectPrinted(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents, contents, expected, js_parser.Options{})
}

func expectPrintedTS(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents+" [ts]", contents, expected, js_parser.Options{TS: true})
}

func TestNumber(t *testing.T) {
	expectPrinted(t, "x = 1", "x = 1;\n")
	expectPrinted(t, "x = 1e3", "x = 1000;\n")
	expectPrinted(t, "x = 0.5", "x = 0.5;\n")
	expectPrinted(t, "x = -1", "x = -1;\n")
	expectPrinted(t, "x = 0xff", "x = 255;\n")
	expectPrinted(t, "x = 10n", "x = 10n;\n")
}

func TestString(t *testing.T) {
	expectPrinted(t, "x = 'abc'", "x = \"abc\";\n")
	expectPrinted(t, "x = 'it\\'s'", "x = \"it's\";\n")
	expectPrinted(t, "x = '\"'", "x = '\"';\n")
	expectPrinted(t, "x = `a${b}c`", "x = `a${b}c`;\n")
	expectPrinted(t, "x = tag`a\\n${b}`", "x = tag`a\\n${b}`;\n")
}

func TestOperators(t *testing.T) {
	expectPrinted(t, "a = b + c * d", "a = b + c * d;\n")
	expectPrinted(t, "(a + b) * c", "(a + b) * c;\n")
	expectPrinted(t, "a = b ? c : d", "a = b ? c : d;\n")
	expectPrinted(t, "a ?? (b || c)", "a ?? (b || c);\n")
	expectPrinted(t, "a = typeof b", "a = typeof b;\n")
	expectPrinted(t, "a = - -b", "a = - -b;\n")
	expectPrinted(t, "a++", "a++;\n")
	expectPrinted(t, "a?.b.c", "a?.b.c;\n")
	expectPrinted(t, "(a?.b).c", "(a?.b).c;\n")
	expectPrinted(t, "new A", "new A();\n")
	expectPrinted(t, "new (a())()", "new (a())();\n")
}

func TestFunction(t *testing.T) {
	expectPrinted(t, "function foo(a, b = 1, ...c) { return a }", "function foo(a, b = 1, ...c) {\n  return a;\n}\n")
	expectPrinted(t, "async function* foo() {}", "async function* foo() {\n}\n")
	expectPrinted(t, "(function () {})()", "(function() {\n})();\n")
	expectPrinted(t, "x = async (a) => a", "x = async (a) => a;\n")
	expectPrinted(t, "x = () => ({})", "x = () => ({});\n")
	expectPrinted(t, "x = () => { y() }", "x = () => {\n  y();\n};\n")
}

func TestDestructuring(t *testing.T) {
	expectPrinted(t, "let { a, b: c = 1, ...d } = e", "let { a, b: c = 1, ...d } = e;\n")
	expectPrinted(t, "let [a, , b] = c", "let [a, , b] = c;\n")
	expectPrinted(t, "({ a } = b)", "({ a } = b);\n")
}

func TestClass(t *testing.T) {
	expectPrinted(t, "class A extends B { static x = 1; #y; get z() { return this.#y } }",
		"class A extends B {\n  static x = 1;\n  #y;\n  get z() {\n    return this.#y;\n  }\n}\n")
	expectPrinted(t, "class A { static { init() } }", "class A {\n  static {\n    init();\n  }\n}\n")
	expectPrinted(t, "class A { accessor x = 1 }", "class A {\n  accessor x = 1;\n}\n")
	expectPrinted(t, "class A { async *gen() {} ['computed']() {} }",
		"class A {\n  async *gen() {\n  }\n  [\"computed\"]() {\n  }\n}\n")
	expectPrinted(t, "x = class {}", "x = class {\n};\n")
}

func TestDecorators(t *testing.T) {
	expectPrinted(t, "@dec class A { @observe method() {} }",
		"@dec\nclass A {\n  @observe\n  method() {\n  }\n}\n")
	expectPrinted(t, "@a.b() export class A {}", "@a.b()\nexport class A {\n}\n")
	expectPrinted(t, "class A { m(@inject x) {} }", "class A {\n  m(@inject x) {\n  }\n}\n")
}

func TestImportExport(t *testing.T) {
	expectPrinted(t, "import a, { b as c } from 'mod'", "import a, { b as c } from \"mod\";\n")
	expectPrinted(t, "import * as ns from 'mod'", "import * as ns from \"mod\";\n")
	expectPrinted(t, "import 'mod'", "import \"mod\";\n")
	expectPrinted(t, "export { a as b }", "export { a as b };\n")
	expectPrinted(t, "export * from 'mod'", "export * from \"mod\";\n")
	expectPrinted(t, "export default class {}", "export default class {\n}\n")
	expectPrinted(t, "export default 1 + 2", "export default 1 + 2;\n")
	expectPrinted(t, "export const a = 1", "export const a = 1;\n")
}

func TestStatements(t *testing.T) {
	expectPrinted(t, "if (a) b(); else c()", "if (a)\n  b();\nelse\n  c();\n")
	expectPrinted(t, "if (a) { b() } else if (c) { d() }", "if (a) {\n  b();\n} else if (c) {\n  d();\n}\n")
	expectPrinted(t, "for (let i = 0; i < 1; i++) {}", "for (let i = 0; i < 1; i++) {\n}\n")
	expectPrinted(t, "for (const x of y) z(x)", "for (const x of y)\n  z(x);\n")
	expectPrinted(t, "try { a() } catch { b() } finally { c() }", "try {\n  a();\n} catch {\n  b();\n} finally {\n  c();\n}\n")
	expectPrinted(t, "switch (a) { case 1: b(); break; default: c() }",
		"switch (a) {\n  case 1:\n    b();\n    break;\n  default:\n    c();\n}\n")
	expectPrinted(t, "'use strict'; a()", "\"use strict\";\na();\n")
}

func TestComments(t *testing.T) {
	expectPrinted(t, "// hello\nfoo()", "// hello\nfoo();\n")
	expectPrinted(t, "/**\n * Doc\n */\nclass A {\n  /** field */\n  x;\n}",
		"/**\n * Doc\n */\nclass A {\n  /** field */\n  x;\n}\n")
	expectPrinted(t, "a()\n//# sourceMappingURL=a.js.map\n", "a();\n")
}

func TestTypeScript(t *testing.T) {
	expectPrintedTS(t, "let x: number = 1; interface I {}", "let x = 1;\n")
	expectPrintedTS(t, "function f<T>(a: T): T { return a }", "function f(a) {\n  return a;\n}\n")
	expectPrintedTS(t, "class A implements B { private x?: string; constructor(public y: number) {} }",
		"class A {\n  x;\n  constructor(y) {\n  }\n}\n")
	expectPrintedTS(t, "type X = string | number; x = y as X", "x = y;\n")
}

func TestSourceMapNames(t *testing.T) {
	contents := "function foo() {}\nfunction bar() {}\n"
	log := logger.NewDeferLog()
	tree, ok := js_parser.Parse(log, test.SourceForTest(contents), js_parser.Options{})
	require.True(t, ok)

	result := Print(tree, Options{
		AddSourceMappings: true,
		LineOffsetTables:  sourcemap.GenerateLineOffsetTables(contents),
		IsSynthesizedName: func(name string) bool { return name == "bar" },
	})

	chunk := result.SourceMapChunk
	assert.Equal(t, "foo", chunk.GeneratedNames["foo"])
	assert.Equal(t, "", chunk.GeneratedNames["bar"])
	assert.Contains(t, chunk.Names, "foo")
	assert.NotContains(t, chunk.Names, "bar")
	assert.NotEmpty(t, chunk.Mappings)

	// The second function starts on the second generated line
	var found bool
	for _, mapping := range chunk.Mappings {
		if mapping.GeneratedLine == 2 && mapping.OriginalLine == 1 {
			found = true
		}
	}
	assert.True(t, found)
}

func TestHelpersHaveNoMappings(t *testing.T) {
	contents := "// unit comment\nfoo()\n"
	log := logger.NewDeferLog()
	tree, ok := js_parser.Parse(log, test.SourceForTest(contents), js_parser.Options{})
	require.True(t, ok)

	helperSource := test.SourceForTest("// helper comment\nfunction helper() { return 1 }\n")
	helperTree, ok := js_parser.Parse(log, helperSource, js_parser.Options{})
	require.True(t, ok)

	tree.Stmts = append([]js_ast.Stmt{{Data: &js_ast.SHelpers{Names: []string{"helper"}, Stmts: helperTree.Stmts}}}, tree.Stmts...)
	result := Print(tree, Options{
		AddSourceMappings: true,
		LineOffsetTables:  sourcemap.GenerateLineOffsetTables(contents),
	})

	test.AssertEqualWithDiff(t, string(result.JS), "function helper() {\n  return 1;\n}\n// unit comment\nfoo();\n")
	for _, mapping := range result.SourceMapChunk.Mappings {
		assert.GreaterOrEqual(t, mapping.GeneratedLine, int32(3))
	}
}

func TestPrintArg(t *testing.T) {
	log := logger.NewDeferLog()
	expr, ok := js_parser.ParseExpr(log, test.SourceForTest("function (a = 1, { b, c: d }, [e, , f], ...g) {}"), js_parser.Options{})
	require.True(t, ok)

	fn := expr.Data.(*js_ast.EFunction).Fn
	require.Len(t, fn.Args, 4)
	assert.Equal(t, "a", PrintArg(fn.Args[0], false))
	assert.Equal(t, "{ b, c: d }", PrintArg(fn.Args[1], false))
	assert.Equal(t, "[e, , f]", PrintArg(fn.Args[2], false))
	assert.Equal(t, "...g", PrintArg(fn.Args[3], true))
}
