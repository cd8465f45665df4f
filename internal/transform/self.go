package transform

import (
	"github.com/jymfony/scriba/internal/js_ast"
)

const selfName = "__self"

func declares(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// ResolveSelf replaces "__self" with the name of the innermost enclosing
// class. References outside of any class and references to a local
// "__self" binding are left alone. Must run after NameAnonymous.
func ResolveSelf() Pass {
	return Pass{Name: "self", Run: func(tree js_ast.AST) js_ast.AST {
		var classes []string

		// One entry per scope or block, true if it binds "__self"
		var shadows []bool
		shadowCount := 0
		push := func(shadowed bool) {
			shadows = append(shadows, shadowed)
			if shadowed {
				shadowCount++
			}
		}
		pop := func() {
			if shadows[len(shadows)-1] {
				shadowCount--
			}
			shadows = shadows[:len(shadows)-1]
		}

		w := js_ast.Walker{
			EnterClass: func(class *js_ast.Class) {
				name := ""
				if class.Name != nil {
					name = class.Name.Name
				}
				classes = append(classes, name)
			},
			ExitClass: func(*js_ast.Class) {
				classes = classes[:len(classes)-1]
			},

			EnterScope: func(scope js_ast.Scope) {
				shadowed := declares(js_ast.DeclaredNames(*scope.Stmts), selfName)
				for _, arg := range scope.Args {
					shadowed = shadowed || declares(js_ast.BindingNames(arg.Binding), selfName)
				}
				push(shadowed)
			},
			ExitScope: func(js_ast.Scope) { pop() },

			EnterStmt: func(stmt *js_ast.Stmt) bool {
				if s, ok := stmt.Data.(*js_ast.SBlock); ok {
					push(declares(js_ast.DeclaredNames(s.Stmts), selfName))
				}
				return true
			},
			ExitStmt: func(stmt js_ast.Stmt) []js_ast.Stmt {
				if _, ok := stmt.Data.(*js_ast.SBlock); ok {
					pop()
				}
				return []js_ast.Stmt{stmt}
			},

			ExitExpr: func(expr js_ast.Expr) js_ast.Expr {
				if len(classes) == 0 || shadowCount > 0 || !js_ast.IsIdentifierNamed(expr, selfName) {
					return expr
				}
				if name := classes[len(classes)-1]; name != "" {
					return js_ast.Ident(expr.Loc, name)
				}
				return expr
			},
		}

		push(declares(js_ast.DeclaredNames(tree.Stmts), selfName))
		tree.Stmts = w.VisitStmts(tree.Stmts)
		pop()
		return tree
	}}
}
