package transform

import (
	"github.com/jymfony/scriba/internal/js_ast"
	"github.com/jymfony/scriba/internal/logger"
	"github.com/jymfony/scriba/internal/reflection"
)

// InjectBaseClass makes "__jymfony.JObject" the base of every class that
// extends nothing. An explicit constructor then calls "super()" first, and
// a class without one gets a constructor forwarding its arguments.
func InjectBaseClass() Pass {
	return Pass{Name: "base-class", Run: func(tree js_ast.AST) js_ast.AST {
		w := js_ast.Walker{
			ExitClass: func(class *js_ast.Class) {
				if class.Extends != nil {
					return
				}

				loc := class.Loc
				base := js_ast.Dot(loc, js_ast.Ident(loc, "__jymfony"), "JObject")
				class.Extends = &base

				if i, ok := reflection.ConstructorIndex(class); ok {
					fn := class.Properties[i].Value.Data.(*js_ast.EFunction)
					superCall := exprStmt(js_ast.Call(loc, js_ast.Expr{Loc: loc, Data: &js_ast.ESuper{}}))
					fn.Fn.Body.Stmts = append([]js_ast.Stmt{superCall}, fn.Fn.Body.Stmts...)
					return
				}

				ctor := forwardingConstructor(loc)
				class.Properties = append([]js_ast.Property{ctor}, class.Properties...)
			},
		}

		tree.Stmts = w.VisitStmts(tree.Stmts)
		return tree
	}}
}

// "constructor(...args) { super(...args); }" plus any extra statements
func forwardingConstructor(loc logger.Loc, extra ...js_ast.Stmt) js_ast.Property {
	args := js_ast.Ident(loc, "args")
	superCall := js_ast.Call(loc, js_ast.Expr{Loc: loc, Data: &js_ast.ESuper{}},
		js_ast.Expr{Loc: loc, Data: &js_ast.ESpread{Value: args}})
	body := append([]js_ast.Stmt{exprStmt(superCall)}, extra...)

	value := js_ast.Expr{Loc: loc, Data: &js_ast.EFunction{Fn: js_ast.Fn{
		Args:       []js_ast.Arg{argNamed(loc, "args")},
		Body:       js_ast.FnBody{Loc: loc, Stmts: body},
		HasRestArg: true,
	}}}
	return js_ast.Property{
		Loc:      js_ast.NoLoc,
		Key:      js_ast.String(loc, "constructor"),
		Value:    &value,
		IsMethod: true,
	}
}
