package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func commonJSPasses(temps *TempNames) []Pass {
	return []Pass{LowerCommonJS(temps)}
}

func TestLowerCommonJSPlainScript(t *testing.T) {
	expectTransformed(t, "a()", "\"use strict\";\na();\n", commonJSPasses)
	expectTransformed(t, "'use strict'; a()", "\"use strict\";\na();\n", commonJSPasses)
}

func TestLowerCommonJSImports(t *testing.T) {
	expectTransformed(t, "import 'm'; import { a, b as c } from 'n'", `"use strict";
require("m");
const { a, b: c } = require("n");
`, commonJSPasses)

	output := transformForTest(t, "import D from './lib/d.js'; import * as NS from 'ns'; import E, { f } from 'e'", commonJSPasses)
	assert.Contains(t, output, "const D = _interop_require_default(require(\"./lib/d.js\")).default;\n")
	assert.Contains(t, output, "const NS = _interop_require_wildcard(require(\"ns\"));\n")
	assert.Contains(t, output, "const _e = require(\"e\");\nconst E = _interop_require_default(_e).default;\nconst { f } = _e;\n")
	assert.Contains(t, output, "function _interop_require_default(obj) {")
	assert.Contains(t, output, "function _interop_require_wildcard(obj, nodeInterop) {")
	assert.NotContains(t, output, "__esModule\", {")

	// Each helper is declared once
	assert.Equal(t, 1, strings.Count(output, "function _interop_require_default("))
}

func TestLowerCommonJSExports(t *testing.T) {
	output := transformForTest(t, "export const a = 1, { b } = c; export function f() {} export class K {} let d; export { d as e }", commonJSPasses)
	assert.True(t, strings.HasPrefix(output, "\"use strict\";\nObject.defineProperty(exports, \"__esModule\", { value: true });\n"))
	for _, name := range []string{"a", "b", "f", "K", "e"} {
		assert.Contains(t, output, "Object.defineProperty(exports, \""+name+"\", { enumerable: true, get: function() {\n")
	}
	assert.Contains(t, output, "  return d;\n")
	assert.Contains(t, output, "const a = 1, { b } = c;\n")
	assert.Contains(t, output, "function f() {\n}\n")
	assert.Contains(t, output, "class K {\n}\n")
	assert.NotContains(t, output, "export ")
}

func TestLowerCommonJSDefaultExport(t *testing.T) {
	output := transformForTest(t, "export default 1 + 2", commonJSPasses)
	assert.Contains(t, output, "const _default = 1 + 2;\n")
	assert.Contains(t, output, "Object.defineProperty(exports, \"default\", { enumerable: true, get: function() {\n  return _default;\n} });\n")

	output = transformForTest(t, "export default class A {}", commonJSPasses)
	assert.Contains(t, output, "class A {\n}\n")
	assert.Contains(t, output, "return A;")

	output = transformForTest(t, "export default function () {}", commonJSPasses)
	assert.Contains(t, output, "function _default() {\n}\n")
}

func TestLowerCommonJSReexports(t *testing.T) {
	output := transformForTest(t, "export * from 'a'; export * as ns from 'b'; export { x, y as z } from './c'", commonJSPasses)
	assert.Contains(t, output, "_export_star(require(\"a\"), exports);\n")
	assert.Contains(t, output, "const _ns = _interop_require_wildcard(require(\"b\"));\n")
	assert.Contains(t, output, "const _c = require(\"./c\");\n")
	assert.Contains(t, output, "return _c.x;")
	assert.Contains(t, output, "return _c.y;")
	assert.Contains(t, output, "Object.defineProperty(exports, \"z\"")
	assert.Contains(t, output, "function _export_star(from, to) {")
}

func TestModuleTempName(t *testing.T) {
	assert.Equal(t, "_foo", moduleTempName("./lib/foo.js"))
	assert.Equal(t, "_pkg", moduleTempName("@scope/pkg"))
	assert.Equal(t, "_lodash", moduleTempName("lodash"))
	assert.Equal(t, "_a_b", moduleTempName("a-b"))
}
