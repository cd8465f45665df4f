package runtime

import (
	"fmt"

	"github.com/jymfony/scriba/internal/js_ast"
	"github.com/jymfony/scriba/internal/js_parser"
	"github.com/jymfony/scriba/internal/logger"
)

const (
	InteropRequireDefault  = "_interop_require_default"
	InteropRequireWildcard = "_interop_require_wildcard"
	ExportStar             = "_export_star"
)

// These helpers are injected into CommonJS output when import or export
// statements need them. Each one is a standalone function declaration so it
// can be copied into a unit on its own.
const Code = `
	// Converts a CommonJS module to something with a "default" export
	function _interop_require_default(obj) {
		return obj && obj.__esModule ? obj : { default: obj }
	}

	// Used for "import * as ns". With "nodeInterop" the module is always
	// copied, even when it says it was compiled from ES module syntax.
	function _interop_require_wildcard(obj, nodeInterop) {
		if (!nodeInterop && obj && obj.__esModule)
			return obj
		if (obj === null || typeof obj !== 'object' && typeof obj !== 'function')
			return { default: obj }
		var ns = { __proto__: null }
		for (var key in obj) {
			if (key !== 'default' && Object.prototype.hasOwnProperty.call(obj, key)) {
				var desc = Object.getOwnPropertyDescriptor(obj, key)
				if (desc && (desc.get || desc.set))
					Object.defineProperty(ns, key, desc)
				else
					ns[key] = obj[key]
			}
		}
		ns.default = obj
		return ns
	}

	// Used for "export * from". Names already exported by the module win.
	function _export_star(from, to) {
		Object.keys(from).forEach(function (k) {
			if (k !== 'default' && !Object.prototype.hasOwnProperty.call(to, k))
				Object.defineProperty(to, k, { enumerable: true, get: function () { return from[k] } })
		})
		return from
	}
`

// Source is the helper file. Locations of helper statements point into it.
var Source = logger.Source{
	PrettyPath: "<runtime>",
	Contents:   Code,
}

// Helpers returns fresh declarations of the named helpers in the order they
// appear in the helper source. Unknown names panic.
func Helpers(names ...string) []js_ast.Stmt {
	log := logger.NewDeferLog()
	tree, ok := js_parser.Parse(log, Source, js_parser.Options{})
	if !ok {
		panic(fmt.Sprintf("Internal error: cannot parse runtime helpers: %v", log.Done()))
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	var stmts []js_ast.Stmt
	for _, stmt := range tree.Stmts {
		if fn, ok := stmt.Data.(*js_ast.SFunction); ok && fn.Fn.Name != nil && wanted[fn.Fn.Name.Name] {
			stmts = append(stmts, stmt)
			delete(wanted, fn.Fn.Name.Name)
		}
	}
	for name := range wanted {
		panic(fmt.Sprintf("Internal error: unknown runtime helper %q", name))
	}
	return stmts
}

// The decorator transform produces calls to "_apply_decs_2203_r", which is
// provided by the framework at run time and is never injected. Here is what
// the transform does with a decorated class:
//
// ============================ Class decorator ==============================
//
//   @dec                      var _initClass, _A, _dec;
//   class A {                 _dec = dec;
//   }                         class A extends (__jymfony_JObject = __jymfony.JObject) {
//                               static {
//                                 ({ c: [_A, _initClass] } = _apply_decs_2203_r(this, [], [_dec], __jymfony_JObject));
//                               }
//                               static {
//                                 _initClass();
//                               }
//                             }
//                             A = _A;
//
// ============================ Method decorator =============================
//
//   class A {                 var _dec, _initProto;
//     @dec                    _dec = dec;
//     foo() {}                class A {
//   }                           static {
//                                 ({ e: [_initProto] } = _apply_decs_2203_r(this, [[_dec, 2, "foo"]], []));
//                               }
//                               constructor(...args) {
//                                 super(...args);
//                                 _initProto(this);
//                               }
//                               foo() {
//                               }
//                             }
//
// ============================= Field decorator =============================
//
//   class A {                 var _dec, _init_foo;
//     @dec                    _dec = dec;
//     foo = 1                 class A {
//   }                           static {
//                                 ({ e: [_init_foo] } = _apply_decs_2203_r(this, [[_dec, 0, "foo"]], []));
//                               }
//                               foo = _init_foo(this, 1);
//                             }
//
// Descriptors are "[decorators, kind, name, ...extra]". The kind is one of
// FIELD (0), ACCESSOR (1), METHOD (2), GETTER (3) or SETTER (4), plus 5 for
// static elements. Parameter decorators use kind 10 (15 when static) and
// carry the parameter index: "[decorators, 10, key, index, name, isRest]".
