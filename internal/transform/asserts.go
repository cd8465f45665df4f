package transform

import (
	"github.com/jymfony/scriba/internal/js_ast"
)

// StripAsserts turns every "__assert(...)" call into "void 0". Only direct
// calls through the bare identifier are affected.
func StripAsserts() Pass {
	return Pass{Name: "strip-asserts", Run: func(tree js_ast.AST) js_ast.AST {
		w := js_ast.Walker{
			ExitExpr: func(expr js_ast.Expr) js_ast.Expr {
				if call, ok := expr.Data.(*js_ast.ECall); ok && js_ast.IsIdentifierNamed(call.Target, "__assert") {
					return js_ast.Undefined(expr.Loc)
				}
				return expr
			},
		}
		tree.Stmts = w.VisitStmts(tree.Stmts)
		return tree
	}}
}
