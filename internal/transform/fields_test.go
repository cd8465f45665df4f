package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fields(temps *TempNames) []Pass {
	return []Pass{HoistFields(temps)}
}

func TestHoistFields(t *testing.T) {
	expectTransformed(t, "class A { x = 1; y; static z = 2; #p = 3 }", `class A {
  static z = 2;
  #p = 3;
  [Symbol.__jymfony_field_initialization]() {
    const superCall = super[Symbol.__jymfony_field_initialization];
    if (void 0 !== superCall)
      superCall.apply(this);
    this.x = 1;
    this.y = void 0;
  }
}
`, fields)

	expectTransformed(t, "class A { static z = 2; m() {} }", "class A {\n  static z = 2;\n  m() {\n  }\n}\n", fields)
}

func TestHoistFieldsKeys(t *testing.T) {
	expectTransformed(t, "class A { 'a-b' = 1; 2 = 3; [k()] = 4 }", `var _computedKey;
_computedKey = k();
class A {
  [Symbol.__jymfony_field_initialization]() {
    const superCall = super[Symbol.__jymfony_field_initialization];
    if (void 0 !== superCall)
      superCall.apply(this);
    this["a-b"] = 1;
    this[2] = 3;
    this[_computedKey] = 4;
  }
}
`, fields)
}

func TestHoistFieldsKeepsDocblocks(t *testing.T) {
	output := transformForTest(t, "class A {\n  /** The answer */\n  x = 42;\n}", fields)
	assert.Contains(t, output, "    /** The answer */\n    this.x = 42;\n")
}

func TestHoistFieldsClassExpression(t *testing.T) {
	output := transformForTest(t, "x = class { [a] = 1 }", fields)
	assert.Contains(t, output, "var _computedKey;\nx = (_computedKey = a, class {\n")
	assert.Contains(t, output, "this[_computedKey] = 1;")
}
