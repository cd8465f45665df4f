package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jymfony/scriba/internal/js_parser"
	"github.com/jymfony/scriba/internal/js_printer"
	"github.com/jymfony/scriba/internal/logger"
	"github.com/jymfony/scriba/internal/test"
)

type passBuilder func(temps *TempNames) []Pass

func only(pass Pass) passBuilder {
	return func(*TempNames) []Pass { return []Pass{pass} }
}

func transformForTest(t *testing.T, contents string, build passBuilder) string {
	t.Helper()
	log := logger.NewDeferLog()
	tree, ok := js_parser.Parse(log, test.SourceForTest(contents), js_parser.Options{})
	require.True(t, ok, "parse error: %v", log.Done())
	tree = Run(tree, build(NewTempNames(contents))...)
	return string(js_printer.Print(tree, js_printer.Options{}).JS)
}

func expectTransformed(t *testing.T, contents string, expected string, build passBuilder) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		test.AssertEqualWithDiff(t, transformForTest(t, contents, build), expected)
	})
}

func TestTempNames(t *testing.T) {
	temps := NewTempNames("const _dec = 1, _dec1 = 'a _dec2 b'; // _r")
	assert.Equal(t, "_dec3", temps.Fresh("_dec"))
	assert.Equal(t, "_dec4", temps.Fresh("_dec"))
	assert.Equal(t, "_r1", temps.Fresh("_r"))
	assert.Equal(t, "_initProto", temps.Fresh("_initProto"))

	assert.True(t, temps.IsSynthesized("_dec3"))
	assert.True(t, temps.IsSynthesized(AnonymousPrefix+"1F"))
	assert.False(t, temps.IsSynthesized("_dec"))
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "a_b", sanitizeName("a-b"))
	assert.Equal(t, "_", sanitizeName(""))
	assert.Equal(t, "ünïcode", sanitizeName("ünïcode"))
}

func TestCounterNames(t *testing.T) {
	names := &CounterNames{}
	assert.Equal(t, AnonymousPrefix+"1", names.NextName())
	for i := 0; i < 8; i++ {
		names.NextName()
	}
	assert.Equal(t, AnonymousPrefix+"A", names.NextName())
}

func TestRandomNames(t *testing.T) {
	name := RandomNames().NextName()
	assert.True(t, IsAnonymousName(name))
	assert.Greater(t, len(name), len(AnonymousPrefix))
}

func TestNameAnonymous(t *testing.T) {
	naming := func(*TempNames) []Pass { return []Pass{NameAnonymous(&CounterNames{})} }

	expectTransformed(t, "x = class {}", "x = class _anonymous_xΞ1 {\n};\n", naming)
	expectTransformed(t, "x = function () {}", "x = function _anonymous_xΞ1() {\n};\n", naming)
	expectTransformed(t, "x = class Named {}", "x = class Named {\n};\n", naming)
	expectTransformed(t, "x = () => {}", "x = () => {\n};\n", naming)
	expectTransformed(t, "export default class {}", "export default class _anonymous_xΞ1 {\n}\n", naming)
	expectTransformed(t, "export default function () {}", "export default function _anonymous_xΞ1() {\n}\n", naming)
	expectTransformed(t, "x = { m() {} }", "x = {\n  m() {\n  }\n};\n", naming)

	// Inner expressions are named first
	expectTransformed(t, "x = class { m() { return class {} } }",
		"x = class _anonymous_xΞ2 {\n  m() {\n    return class _anonymous_xΞ1 {\n    };\n  }\n};\n", naming)
}

func TestResolveSelf(t *testing.T) {
	self := only(ResolveSelf())

	expectTransformed(t, "class A { m() { return __self } }", "class A {\n  m() {\n    return A;\n  }\n}\n", self)
	expectTransformed(t, "__self", "__self;\n", self)
	expectTransformed(t, "class A { m(__self) { return __self } }", "class A {\n  m(__self) {\n    return __self;\n  }\n}\n", self)
	expectTransformed(t, "class A { m() { { let __self = 1; __self } return __self } }",
		"class A {\n  m() {\n    {\n      let __self = 1;\n      __self;\n    }\n    return A;\n  }\n}\n", self)
	expectTransformed(t, "class A { static x = class B { y = __self }; z = __self }",
		"class A {\n  static x = class B {\n    y = B;\n  };\n  z = A;\n}\n", self)
}

func TestInjectBaseClass(t *testing.T) {
	base := only(InjectBaseClass())

	expectTransformed(t, "class A {}",
		"class A extends __jymfony.JObject {\n  constructor(...args) {\n    super(...args);\n  }\n}\n", base)
	expectTransformed(t, "class A { constructor(a) { this.a = a } }",
		"class A extends __jymfony.JObject {\n  constructor(a) {\n    super();\n    this.a = a;\n  }\n}\n", base)
	expectTransformed(t, "class A extends B {}", "class A extends B {\n}\n", base)

	// Running twice changes nothing more
	twice := func(*TempNames) []Pass { return []Pass{InjectBaseClass(), InjectBaseClass()} }
	expectTransformed(t, "class A {}",
		"class A extends __jymfony.JObject {\n  constructor(...args) {\n    super(...args);\n  }\n}\n", twice)
}

func TestStripAsserts(t *testing.T) {
	strip := only(StripAsserts())

	expectTransformed(t, "__assert(a > 1); b()", "void 0;\nb();\n", strip)
	expectTransformed(t, "x = __assert(a) || y", "x = void 0 || y;\n", strip)
	expectTransformed(t, "obj.__assert(a)", "obj.__assert(a);\n", strip)
}

func TestLazyConstruct(t *testing.T) {
	lazy := only(LazyConstruct())

	expectTransformed(t, "x = new A(1, 2)", "x = _construct_jobject(A, 1, 2);\n", lazy)
	expectTransformed(t, "x = new A", "x = _construct_jobject(A);\n", lazy)
	expectTransformed(t, "x = new (a.b)(new C())", "x = _construct_jobject(a.b, _construct_jobject(C));\n", lazy)
	expectTransformed(t, "class A extends B { constructor() { super(1) } }",
		"class A extends B {\n  constructor() {\n    super(1);\n  }\n}\n", lazy)
}

func TestWrapInFunction(t *testing.T) {
	expectTransformed(t, "a(); b()",
		"(function(exports, require, module, __filename, __dirname) {\n  a();\n  b();\n});\n", only(WrapInFunction()))
}
