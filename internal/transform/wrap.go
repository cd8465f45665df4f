package transform

import (
	"github.com/jymfony/scriba/internal/js_ast"
)

var moduleWrapperArgs = []string{"exports", "require", "module", "__filename", "__dirname"}

// WrapInFunction turns the whole unit into
//
//   (function (exports, require, module, __filename, __dirname) { ... });
//
// so the host can evaluate it and supply the module environment. The unit
// must not contain import or export statements anymore.
func WrapInFunction() Pass {
	return Pass{Name: "wrap", Run: func(tree js_ast.AST) js_ast.AST {
		args := make([]js_ast.Arg, len(moduleWrapperArgs))
		for i, name := range moduleWrapperArgs {
			args[i] = argNamed(js_ast.NoLoc, name)
		}

		wrapper := fnExpr(js_ast.NoLoc, args, tree.Stmts)
		tree.Stmts = []js_ast.Stmt{{Loc: js_ast.NoLoc, Data: &js_ast.SExpr{Value: wrapper}}}
		return tree
	}}
}
