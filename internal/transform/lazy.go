package transform

import (
	"github.com/jymfony/scriba/internal/js_ast"
)

// LazyConstruct rewrites "new C(a, b)" into "_construct_jobject(C, a, b)".
// It runs late so it also sees "new" expressions added by earlier passes.
func LazyConstruct() Pass {
	return Pass{Name: "lazy-construct", Run: func(tree js_ast.AST) js_ast.AST {
		w := js_ast.Walker{
			ExitExpr: func(expr js_ast.Expr) js_ast.Expr {
				e, ok := expr.Data.(*js_ast.ENew)
				if !ok {
					return expr
				}
				args := append([]js_ast.Expr{e.Target}, e.Args...)
				return js_ast.Call(expr.Loc, js_ast.Ident(expr.Loc, "_construct_jobject"), args...)
			},
		}
		tree.Stmts = w.VisitStmts(tree.Stmts)
		return tree
	}}
}
