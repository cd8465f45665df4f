package transform

import (
	"github.com/jymfony/scriba/internal/js_ast"
	"github.com/jymfony/scriba/internal/js_lexer"
	"github.com/jymfony/scriba/internal/logger"
	"github.com/jymfony/scriba/internal/runtime"
)

// LowerOptionalImports replaces imports carrying the attribute
// "optional: true" with guarded "require" calls: a module that cannot be
// loaded leaves its bindings undefined instead of failing the whole unit.
func LowerOptionalImports(temps *TempNames) Pass {
	return Pass{Name: "optional-import", Run: func(tree js_ast.AST) js_ast.AST {
		var lowered []js_ast.Stmt
		var helperNames []string
		stmts := make([]js_ast.Stmt, 0, len(tree.Stmts))

		for _, stmt := range tree.Stmts {
			s, ok := stmt.Data.(*js_ast.SImport)
			if !ok || !isOptionalImport(s) {
				stmts = append(stmts, stmt)
				continue
			}
			converted, used := lowerOptionalImport(temps, stmt.Loc, s)
			lowered = append(lowered, converted...)
			helperNames = append(helperNames, used...)
		}

		if len(lowered) == 0 {
			return tree
		}

		// Imports are hoisted so the lowered code goes after the remaining
		// module declarations, and after hoisted functions which cannot
		// observe it anyway
		at := len(stmts)
		for i, stmt := range stmts {
			if !isModuleHeader(stmt) {
				at = i
				break
			}
		}

		result := make([]js_ast.Stmt, 0, len(stmts)+len(lowered))
		result = append(result, stmts[:at]...)
		result = append(result, lowered...)
		tree.Stmts = injectHelpers(append(result, stmts[at:]...), helperNames...)
		return tree
	}}
}

func isModuleHeader(stmt js_ast.Stmt) bool {
	switch stmt.Data.(type) {
	case *js_ast.SDirective, *js_ast.SHelpers, *js_ast.SImport, *js_ast.SExportClause,
		*js_ast.SExportFrom, *js_ast.SExportStar, *js_ast.SFunction:
		return true
	}
	return false
}

func isOptionalImport(s *js_ast.SImport) bool {
	if s.Attributes == nil {
		return false
	}
	obj, ok := s.Attributes.Data.(*js_ast.EObject)
	if !ok {
		return false
	}
	for _, prop := range obj.Properties {
		if prop.Value == nil || prop.IsComputed {
			continue
		}
		if name, ok := js_ast.StaticKeyName(prop.Key); !ok || name != "optional" {
			continue
		}
		if value, ok := prop.Value.Data.(*js_ast.EBoolean); ok && value.Value {
			return true
		}
	}
	return false
}

func lowerOptionalImport(temps *TempNames, loc logger.Loc, s *js_ast.SImport) ([]js_ast.Stmt, []string) {
	tryRequire := tryRequireFn(s.PathLoc, s.Path)

	if s.DefaultName == nil && s.StarName == nil && (s.Items == nil || len(*s.Items) == 0) {
		return []js_ast.Stmt{exprStmt(js_ast.Call(loc, tryRequire))}, nil
	}

	module := temps.Fresh("_r")
	stmts := []js_ast.Stmt{localStmt(loc, js_ast.LocalConst, module, js_ast.Call(loc, tryRequire))}
	var used []string

	// "void 0 !== _r ? value : void 0"
	guarded := func(value js_ast.Expr) js_ast.Expr {
		test := binary(loc, js_ast.BinOpStrictNe, js_ast.Undefined(loc), js_ast.Ident(loc, module))
		return js_ast.Expr{Loc: loc, Data: &js_ast.EIf{Test: test, Yes: value, No: js_ast.Undefined(loc)}}
	}
	interop := func(helper string) js_ast.Expr {
		used = append(used, helper)
		return js_ast.Call(loc, js_ast.Ident(loc, helper), js_ast.Ident(loc, module), js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: true}})
	}

	if s.DefaultName != nil {
		value := guarded(js_ast.Dot(loc, interop(runtime.InteropRequireDefault), "default"))
		stmts = append(stmts, localStmt(s.DefaultName.Loc, js_ast.LocalConst, s.DefaultName.Name, value))
	}
	if s.StarName != nil {
		value := guarded(interop(runtime.InteropRequireWildcard))
		stmts = append(stmts, localStmt(s.StarName.Loc, js_ast.LocalConst, s.StarName.Name, value))
	}
	if s.Items != nil {
		for _, item := range *s.Items {
			value := optionalMember(item.AliasLoc, js_ast.Ident(loc, module), item.Alias)
			stmts = append(stmts, localStmt(item.Name.Loc, js_ast.LocalConst, item.Name.Name, value))
		}
	}
	return stmts, used
}

// "target?.name" or "target?.["name"]"
func optionalMember(loc logger.Loc, target js_ast.Expr, name string) js_ast.Expr {
	if js_lexer.IsIdentifier(name) {
		return js_ast.Expr{Loc: loc, Data: &js_ast.EDot{Target: target, Name: name, NameLoc: loc, OptionalChain: js_ast.OptionalChainStart}}
	}
	return js_ast.Expr{Loc: loc, Data: &js_ast.EIndex{
		Target:        target,
		Index:         js_ast.String(loc, name),
		OptionalChain: js_ast.OptionalChainStart,
	}}
}
