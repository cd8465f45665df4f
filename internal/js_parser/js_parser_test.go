package js_parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jymfony/scriba/internal/js_ast"
	"github.com/jymfony/scriba/internal/js_printer"
	"github.com/jymfony/scriba/internal/logger"
	"github.com/jymfony/scriba/internal/test"
)

func expectParseErrorCommon(t *testing.T, contents string, expected string, options Options) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		_, ok := Parse(log, test.SourceForTest(contents), options)
		msgs := log.Done()
		require.False(t, ok)
		text := ""
		for _, msg := range msgs {
			text += msg.String(logger.OutputOptions{}, logger.TerminalInfo{})
		}
		assert.Contains(t, text, expected)
	})
}

func expectParseError(t *testing.T, contents string, expected string) {
	t.Helper()
	expectParseErrorCommon(t, contents, expected, Options{})
}

func expectParseErrorTS(t *testing.T, contents string, expected string) {
	t.Helper()
	expectParseErrorCommon(t, contents, expected, Options{TS: true})
}

func expectPrintedCommon(t *testing.T, contents string, expected string, options Options) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		tree, ok := Parse(log, test.SourceForTest(contents), options)
		msgs := log.Done()
		text := ""
		for _, msg := range msgs {
			if msg.Kind != logger.Warning {
				text += msg.String(logger.OutputOptions{}, logger.TerminalInfo{})
			}
		}
		test.AssertEqualWithDiff(t, text, "")
		if !ok {
			t.Fatal("Parse error")
		}
		js := js_printer.Print(tree, js_printer.Options{}).JS
		test.AssertEqualWithDiff(t, string(js), expected)
	})
}

func expectPrinted(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents, expected, Options{})
}

func expectPrintedTS(t *testing.T, contents string, expected string) {
	t.Helper()
	expectPrintedCommon(t, contents, expected, Options{TS: true})
}

func parseForTest(t *testing.T, contents string, options Options) js_ast.AST {
	t.Helper()
	log := logger.NewDeferLog()
	tree, ok := Parse(log, test.SourceForTest(contents), options)
	require.True(t, ok, "%v", log.Done())
	return tree
}

func TestASI(t *testing.T) {
	expectPrinted(t, "a\nb", "a;\nb;\n")
	expectPrinted(t, "return\nx", "return;\nx;\n")
	expectPrinted(t, "a\n++b", "a;\n++b;\n")
	expectParseError(t, "a b", "Expected \";\" but found \"b\"")
}

func TestDecls(t *testing.T) {
	expectPrinted(t, "var a, b = 1", "var a, b = 1;\n")
	expectPrinted(t, "let {a = 1} = b", "let { a = 1 } = b;\n")
	expectPrinted(t, "const [a = 1, ...b] = c", "const [a = 1, ...b] = c;\n")
	expectPrinted(t, "let\nx = 1", "let x = 1;\n")
}

func TestFor(t *testing.T) {
	expectPrinted(t, "for (;;) ;", "for (;;)\n  ;\n")
	expectPrinted(t, "for (a in b) {}", "for (a in b) {\n}\n")
	expectPrinted(t, "for await (const x of y) {}", "for await (const x of y) {\n}\n")
	expectPrinted(t, "for (var i = ('x' in y); i;) {}", "for (var i = (\"x\" in y); i;) {\n}\n")
}

func TestArrow(t *testing.T) {
	expectPrinted(t, "x = a => a", "x = (a) => a;\n")
	expectPrinted(t, "x = (a, b) => a + b", "x = (a, b) => a + b;\n")
	expectPrinted(t, "x = (a, b)", "x = (a, b);\n")
	expectPrinted(t, "x = async a => await a", "x = async (a) => await a;\n")
	expectPrinted(t, "x = ({ a }, [b]) => {}", "x = ({ a }, [b]) => {\n};\n")
	expectPrinted(t, "x = async()", "x = async();\n")
}

func TestObject(t *testing.T) {
	expectPrinted(t, "x = { a, b: 1, 'c d': 2, [e]: 3, ...f }", "x = { a, b: 1, \"c d\": 2, [e]: 3, ...f };\n")
	expectPrinted(t, "x = { get a() { return 1 } }", "x = {\n  get a() {\n    return 1;\n  }\n};\n")
	expectPrinted(t, "x = { async *m() {} }", "x = {\n  async *m() {\n  }\n};\n")
}

func TestTemplate(t *testing.T) {
	expectPrinted(t, "x = `a`", "x = `a`;\n")
	expectPrinted(t, "x = `a${b}c${d}e`", "x = `a${b}c${d}e`;\n")
	expectPrinted(t, "x = `${`${a}`}`", "x = `${`${a}`}`;\n")
}

func TestRegExp(t *testing.T) {
	expectPrinted(t, "x = /a\\/b/gi", "x = /a\\/b/gi;\n")
	expectPrinted(t, "x = a / b / c", "x = a / b / c;\n")
}

func TestImportMeta(t *testing.T) {
	expectPrinted(t, "x = import.meta.url", "x = import.meta.url;\n")
	expectPrinted(t, "x = import('a')", "x = import(\"a\");\n")
	expectPrinted(t, "x = import('a', { with: { type: 'json' } })", "x = import(\"a\", { with: { type: \"json\" } });\n")
	expectPrinted(t, "import a from 'a' with { type: 'json' }", "import a from \"a\" with { type: \"json\" };\n")
}

func TestClassMembers(t *testing.T) {
	expectPrinted(t, "class A { static async m() {} }", "class A {\n  static async m() {\n  }\n}\n")
	expectPrinted(t, "class A { static = 1; get = 2; async }", "class A {\n  static = 1;\n  get = 2;\n  async;\n}\n")
	expectPrinted(t, "class A { 'quoted'() {} 1() {} }", "class A {\n  quoted() {\n  }\n  1() {\n  }\n}\n")
	expectPrinted(t, "class A { #p() {} static #q = 1 }", "class A {\n  #p() {\n  }\n  static #q = 1;\n}\n")
	expectPrinted(t, "class A { m() { return #p in this } }", "class A {\n  m() {\n    return #p in this;\n  }\n}\n")
}

func TestClassAST(t *testing.T) {
	tree := parseForTest(t, "@a @b(1) class A extends B { @c static accessor x = 1; static {} }", Options{})
	require.Len(t, tree.Stmts, 1)

	s, ok := tree.Stmts[0].Data.(*js_ast.SClass)
	require.True(t, ok)
	assert.Len(t, s.Class.Decorators, 2)
	require.NotNil(t, s.Class.Name)
	assert.Equal(t, "A", s.Class.Name.Name)
	require.NotNil(t, s.Class.Extends)
	assert.True(t, js_ast.IsIdentifierNamed(*s.Class.Extends, "B"))

	require.Len(t, s.Class.Properties, 2)
	accessor := s.Class.Properties[0]
	assert.Equal(t, js_ast.PropertyAutoAccessor, accessor.Kind)
	assert.True(t, accessor.IsStatic)
	assert.Len(t, accessor.Decorators, 1)
	require.NotNil(t, accessor.Initializer)

	assert.Equal(t, js_ast.PropertyClassStaticBlock, s.Class.Properties[1].Kind)
}

func TestParamDecorators(t *testing.T) {
	tree := parseForTest(t, "class A { constructor(@inject('x') a, b) {} }", Options{})
	s := tree.Stmts[0].Data.(*js_ast.SClass)
	ctor := s.Class.Properties[0]
	fn, ok := ctor.Value.Data.(*js_ast.EFunction)
	require.True(t, ok)
	require.Len(t, fn.Fn.Args, 2)
	assert.Len(t, fn.Fn.Args[0].Decorators, 1)
	assert.Empty(t, fn.Fn.Args[1].Decorators)
}

func TestComments(t *testing.T) {
	tree := parseForTest(t, "/** doc */\nclass A {}\n// tail\n", Options{})
	comments := tree.LeadingComments(tree.Stmts[0].Loc)
	require.Len(t, comments, 1)
	assert.True(t, comments[0].IsDocblock())

	tail := tree.LeadingComments(logger.Loc{Start: int32(len(tree.Source.Contents))})
	require.Len(t, tail, 1)
	assert.Equal(t, "// tail", tail[0].Text)
}

func TestHashbang(t *testing.T) {
	tree := parseForTest(t, "#!/usr/bin/env node\nfoo()", Options{})
	assert.Equal(t, "#!/usr/bin/env node", tree.Hashbang)
	expectPrinted(t, "#!/usr/bin/env node\nfoo()", "#!/usr/bin/env node\nfoo();\n")
}

func TestParseErrors(t *testing.T) {
	expectParseError(t, "x = ", "Unexpected end of file")
	expectParseError(t, "class { }", "Expected identifier")
	expectParseError(t, "switch (a) { default: default: }", "Multiple default clauses are not allowed")
	expectParseError(t, "x = a?.b`c`", "Template literals cannot have an optional chain as a tag")
}

func TestParseExpr(t *testing.T) {
	log := logger.NewDeferLog()
	expr, ok := ParseExpr(log, test.SourceForTest("{ \"a\": [1, true, null] }"), Options{})
	require.True(t, ok)
	obj, ok := expr.Data.(*js_ast.EObject)
	require.True(t, ok)
	require.Len(t, obj.Properties, 1)

	_, ok = ParseExpr(logger.NewDeferLog(), test.SourceForTest("a b"), Options{})
	assert.False(t, ok)
}

func TestLargeInput(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 500; i++ {
		sb.WriteString("function f() { return [1, 2, 3].map((x) => x * 2) }\n")
	}
	tree := parseForTest(t, sb.String(), Options{})
	assert.Len(t, tree.Stmts, 500)
}
