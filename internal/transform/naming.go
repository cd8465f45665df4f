package transform

import (
	"github.com/jymfony/scriba/internal/js_ast"
	"github.com/jymfony/scriba/internal/logger"
)

// NameAnonymous gives a name to every anonymous class expression and
// function expression, innermost first. Arrow functions and methods keep
// their shape. Anonymous "export default" declarations are named too, so
// every class reaching the later passes has a name.
func NameAnonymous(names NameSource) Pass {
	newName := func(loc logger.Loc) *js_ast.LocName {
		return &js_ast.LocName{Loc: loc, Name: names.NextName()}
	}

	return Pass{Name: "naming", Run: func(tree js_ast.AST) js_ast.AST {
		w := js_ast.Walker{
			ExitExpr: func(expr js_ast.Expr) js_ast.Expr {
				switch e := expr.Data.(type) {
				case *js_ast.EClass:
					if e.Class.Name == nil {
						e.Class.Name = newName(expr.Loc)
					}
				case *js_ast.EFunction:
					if e.Fn.Name == nil {
						e.Fn.Name = newName(expr.Loc)
					}
				}
				return expr
			},

			ExitStmt: func(stmt js_ast.Stmt) []js_ast.Stmt {
				if s, ok := stmt.Data.(*js_ast.SExportDefault); ok && s.Value.Stmt != nil {
					switch inner := s.Value.Stmt.Data.(type) {
					case *js_ast.SClass:
						if inner.Class.Name == nil {
							inner.Class.Name = newName(s.Value.Stmt.Loc)
						}
					case *js_ast.SFunction:
						if inner.Fn.Name == nil {
							inner.Fn.Name = newName(s.Value.Stmt.Loc)
						}
					}
				}
				return []js_ast.Stmt{stmt}
			},
		}

		tree.Stmts = w.VisitStmts(tree.Stmts)
		return tree
	}}
}
