package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jymfony/scriba/internal/js_ast"
	"github.com/jymfony/scriba/internal/js_parser"
	"github.com/jymfony/scriba/internal/logger"
)

func decorators(temps *TempNames) []Pass {
	return []Pass{LowerDecorators(temps)}
}

func TestLowerDecoratorsMethod(t *testing.T) {
	expectTransformed(t, "class A { @dec m() {} }", `var _dec, _initProto;
_dec = dec;
class A {
  static {
    ({ e: [_initProto] } = _apply_decs_2203_r(this, [[_dec, 2, "m"]], []));
  }
  constructor() {
    _initProto(this);
  }
  m() {
  }
}
`, decorators)
}

func TestLowerDecoratorsClass(t *testing.T) {
	expectTransformed(t, "@dec class A {}", `var _initClass, _A, _dec;
_dec = dec;
class A {
  static {
    ({ c: [_A, _initClass] } = _apply_decs_2203_r(this, [], [_dec]));
  }
  static {
    _initClass();
  }
}
A = _A;
`, decorators)
}

func TestLowerDecoratorsField(t *testing.T) {
	expectTransformed(t, "class A { @dec x = 1; @a @b y }", `var _dec, _dec1, _dec2, _init_x, _init_y;
_dec = dec, _dec1 = a, _dec2 = b;
class A {
  static {
    ({ e: [_init_x, _init_y] } = _apply_decs_2203_r(this, [[_dec, 0, "x"], [[_dec1, _dec2], 0, "y"]], []));
  }
  x = _init_x(this, 1);
  y = _init_y(this);
}
`, decorators)
}

func TestLowerDecoratorsParameters(t *testing.T) {
	expectTransformed(t, "class A { m(@inject x) {} }", `var _dec;
_dec = inject;
class A {
  static {
    _apply_decs_2203_r(this, [[_dec, 10, "m", 0, "x", false]], []);
  }
  m(x) {
  }
}
`, decorators)

	output := transformForTest(t, "class A { constructor(a, @inject ...rest) {} static s(@one {b}) {} }", decorators)
	assert.Contains(t, output, `[_dec, 10, void 0, 1, "rest", true]`)
	assert.Contains(t, output, `[_dec1, 15, "s", 0, void 0, false]`)
	assert.Contains(t, output, "constructor(a, ...rest) {")
	assert.NotContains(t, output, "_initProto")
	assert.NotContains(t, output, "_initStatic")
}

func TestLowerDecoratorsExtends(t *testing.T) {
	expectTransformed(t, "class A extends B { @dec m() {} }", `var _B, _dec, _initProto;
_dec = dec;
class A extends (_B = B) {
  static {
    ({ e: [_initProto] } = _apply_decs_2203_r(this, [[_dec, 2, "m"]], [], _B));
  }
  constructor(...args) {
    super(...args);
    _initProto(this);
  }
  m() {
  }
}
`, decorators)

	output := transformForTest(t, "class A extends __jymfony.JObject { constructor() { super(); this.x = 1 } @dec m() {} }", decorators)
	assert.Contains(t, output, "class A extends (__jymfony_JObject = __jymfony.JObject) {")
	assert.Contains(t, output, "super();\n    _initProto(this);\n    this.x = 1;")
	assert.Contains(t, output, "_apply_decs_2203_r(this, [[_dec, 2, \"m\"]], [], __jymfony_JObject)")
}

func TestLowerDecoratorsInitProtoChaining(t *testing.T) {
	output := transformForTest(t, "class A { #p = 1; @dec get g() { return 1 } }", decorators)
	assert.Contains(t, output, "#p = (_initProto(this), 1);")
	assert.Contains(t, output, `[_dec, 3, "g"]`)
	assert.NotContains(t, output, "constructor")
}

func TestLowerDecoratorsStatic(t *testing.T) {
	output := transformForTest(t, "class A { @dec static m() {} @dec static set s(v) {} }", decorators)
	assert.Contains(t, output, `[[_dec, 7, "m"], [_dec1, 9, "s"]]`)
	assert.Contains(t, output, "({ e: [_initStatic] } = _apply_decs_2203_r(")
	assert.Contains(t, output, "    _initStatic(this);\n  }")
	assert.NotContains(t, output, "_initProto")
}

func TestLowerDecoratorsPrivate(t *testing.T) {
	output := transformForTest(t, "class A { @dec #m() { return 1 } @dec get #g() { return 2 } @dec set #s(v) {} @dec #f = 3 }", decorators)
	assert.Contains(t, output, "var _dec, _dec1, _dec2, _dec3, _call_m, _call_g, _call_s, _init_f, _initProto;")
	assert.Contains(t, output, "[_dec, 2, \"m\", function() {\n      return 1;\n    }]")
	assert.Contains(t, output, "  get #m() {\n    return _call_m;\n  }")
	assert.Contains(t, output, "  get #g() {\n    return _call_g(this);\n  }")
	assert.Contains(t, output, "  set #s(v) {\n    _call_s(this, v);\n  }")
	assert.Contains(t, output, "[_dec3, 0, \"f\", function() {\n      return this.#f;\n    }, function(value) {\n      this.#f = value;\n    }]")
	assert.Contains(t, output, "#f = (_initProto(this), _init_f(this, 3));")
}

func TestLowerAccessors(t *testing.T) {
	expectTransformed(t, "class A { accessor x = 1 }", `class A {
  #___private_x = 1;
  get x() {
    return this.#___private_x;
  }
  set x(v) {
    this.#___private_x = v;
  }
}
`, decorators)

	output := transformForTest(t, "class A { @dec accessor x; @dec accessor #y = 2; static accessor [k()] }", decorators)
	assert.Contains(t, output, "#___private_x = (_initProto(this), _init_x(this));")
	assert.Contains(t, output, "#___private_y = _init_y(this, 2);")
	assert.Contains(t, output, "get #y() {\n    return _get_y(this);\n  }")
	assert.Contains(t, output, "set #y(v) {\n    _set_y(this, v);\n  }")
	assert.Contains(t, output, "e: [_init_x, _init_y, _get_y, _set_y, _initProto]")
	assert.Contains(t, output, "static #___private_computedKey;")
	assert.Contains(t, output, "static get [_computedKey]() {")
	assert.Contains(t, output, "_computedKey = k()")
}

func TestLowerDecoratorsComputedKey(t *testing.T) {
	output := transformForTest(t, "class A { @dec [key()]() {} }", decorators)
	assert.Contains(t, output, "var _dec, _computedKey, _initProto;")
	assert.Contains(t, output, "_dec = dec, _computedKey = key();")
	assert.Contains(t, output, "[[_dec, 2, _computedKey]]")
	assert.Contains(t, output, "  [_computedKey]() {")
}

func TestLowerDecoratorsClassExpression(t *testing.T) {
	output := transformForTest(t, "x = @dec class A {}", decorators)
	assert.Contains(t, output, "var _initClass, _A, _dec;")
	assert.Contains(t, output, "x = (_dec = dec, class A {")
	assert.Contains(t, output, "}, _A);")
}

func TestLowerDecoratorsNested(t *testing.T) {
	// Temporaries of a class inside a method are declared in that method
	output := transformForTest(t, "class A { m() { return class B { @dec n() {} } } }", decorators)
	assert.Contains(t, output, "  m() {\n    var _dec, _initProto;\n    return _dec = dec, class B {")
	assert.NotContains(t, output, "var _dec, _initProto;\nclass A")
}

func TestLowerDecoratorsUntouched(t *testing.T) {
	expectTransformed(t, "class A { m() {} }", "class A {\n  m() {\n  }\n}\n", decorators)
}

func TestLowerDecoratorsKeepsSourceOrder(t *testing.T) {
	log := logger.NewDeferLog()
	contents := "class A { @a x; @b m() {} @c static y }"
	tree, ok := js_parser.Parse(log, logger.Source{Contents: contents}, js_parser.Options{})
	require.True(t, ok)
	tree = Run(tree, LowerDecorators(NewTempNames(contents)))

	// "_initProto" is chained into the initializer of x, no constructor is added
	class := tree.Stmts[len(tree.Stmts)-1].Data.(*js_ast.SClass).Class
	require.Equal(t, js_ast.PropertyClassStaticBlock, class.Properties[0].Kind)

	var names []string
	for _, prop := range class.Properties[1:] {
		if name, ok := js_ast.StaticKeyName(prop.Key); ok {
			names = append(names, name)
		}
	}
	assert.Equal(t, []string{"x", "m", "y"}, names)
}

func TestLowerDecoratorsClassReplacementInBody(t *testing.T) {
	output := transformForTest(t, `@dec class X {
  m() { return X.y }
  static make() { return new X() }
  n(X) { return X }
  static { X.ready = true }
  [X.key]() {}
}`, decorators)
	assert.Contains(t, output, "({ c: [_X, _initClass] } = _apply_decs_2203_r(this, [], [_dec]));")
	assert.Contains(t, output, "return _X.y;")
	assert.Contains(t, output, "return new _X();")
	assert.Contains(t, output, "n(X) {\n    return X;\n  }")
	assert.Contains(t, output, "_X.ready = true;")
	assert.Contains(t, output, "[X.key]() {")
	assert.Contains(t, output, "X = _X;")

	// Undecorated classes keep their own name
	output = transformForTest(t, "class X { @dec m() { return X } }", decorators)
	assert.Contains(t, output, "return X;")
}

func TestLowerDecoratorsClassReplacementSelf(t *testing.T) {
	pipeline := func(temps *TempNames) []Pass {
		return []Pass{NameAnonymous(&CounterNames{}), ResolveSelf(), LowerDecorators(temps)}
	}

	output := transformForTest(t, "export class x { @dec m() { return __self.y } }\n@dec class z { m() { return __self.y } }", pipeline)
	assert.Contains(t, output, "return x.y;")
	assert.Contains(t, output, "return _z.y;")

	output = transformForTest(t, "const p = @dec class { t() { return __self.x } }", pipeline)
	assert.Contains(t, output, "return __anonymous_xΞ1.x;")
	assert.NotContains(t, output, "return _anonymous_xΞ1.x;")
}
