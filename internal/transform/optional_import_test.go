package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func optionalImports(temps *TempNames) []Pass {
	return []Pass{LowerOptionalImports(temps)}
}

func TestLowerOptionalImportSideEffect(t *testing.T) {
	expectTransformed(t, "import 'm' with { optional: true }; a()", `(function() {
  try {
    return require("m");
  } catch {
    return void 0;
  }
})();
a();
`, optionalImports)
}

func TestLowerOptionalImportBindings(t *testing.T) {
	output := transformForTest(t, "import D, { n } from 'm' with { optional: true }; D(n)", optionalImports)
	assert.Contains(t, output, "const _r = function() {\n  try {\n    return require(\"m\");\n  } catch {\n    return void 0;\n  }\n}();\n")
	assert.Contains(t, output, "const D = void 0 !== _r ? _interop_require_default(_r, true).default : void 0;\n")
	assert.Contains(t, output, "const n = _r?.n;\n")
	assert.Contains(t, output, "function _interop_require_default(obj) {")
	assert.NotContains(t, output, "import")

	output = transformForTest(t, "import * as NS from 'm' with { optional: true }", optionalImports)
	assert.Contains(t, output, "const NS = void 0 !== _r ? _interop_require_wildcard(_r, true) : void 0;\n")
}

func TestLowerOptionalImportPlacement(t *testing.T) {
	output := transformForTest(t, "import a from 'a'; import b from 'b' with { optional: true }; function f() {} export { a }; class C extends b {}", optionalImports)
	assert.Contains(t, output, "import a from \"a\";\nfunction f() {\n}\nexport { a };\nconst _r = ")
	assert.Contains(t, output, "void 0;\nclass C extends b {")
}

func TestLowerOptionalImportIgnoresOtherAttributes(t *testing.T) {
	expectTransformed(t, "import a from 'a' with { optional: false }", "import a from \"a\" with { optional: false };\n", optionalImports)
	expectTransformed(t, "import a from 'a' with { type: 'json' }", "import a from \"a\" with { type: \"json\" };\n", optionalImports)
}

func TestLowerOptionalImportFreshNames(t *testing.T) {
	output := transformForTest(t, "const _r = 1; import x from 'm' with { optional: true }; import y from 'n' with { optional: true }", optionalImports)
	assert.Contains(t, output, "const _r1 = function")
	assert.Contains(t, output, "const _r2 = function")
}
