package transform

import (
	"strings"

	"github.com/jymfony/scriba/internal/helpers"
	"github.com/jymfony/scriba/internal/js_ast"
	"github.com/jymfony/scriba/internal/logger"
	"github.com/jymfony/scriba/internal/runtime"
)

type cjsExport struct {
	name  string
	value func() js_ast.Expr
}

type commonJS struct {
	temps       *TempNames
	exports     []cjsExport
	helperNames []string
}

// LowerCommonJS rewrites import and export statements into "require"
// calls and getters on "exports". Imports are evaluated eagerly where they
// stand. Exports stay live: every exported name is a getter reading the
// local binding.
func LowerCommonJS(temps *TempNames) Pass {
	return Pass{Name: "commonjs", Run: func(tree js_ast.AST) js_ast.AST {
		c := &commonJS{temps: temps}
		stmts := make([]js_ast.Stmt, 0, len(tree.Stmts))
		for _, stmt := range tree.Stmts {
			stmts = append(stmts, c.lowerStmt(stmt)...)
		}

		var header []js_ast.Stmt
		if len(c.exports) > 0 {
			header = append(header, exprStmt(defineProperty(js_ast.NoLoc, "__esModule",
				objectLiteral(js_ast.NoLoc, keyValue("value", trueExpr())))))
			for _, export := range c.exports {
				getter := fnExpr(js_ast.NoLoc, nil, []js_ast.Stmt{returnStmt(js_ast.NoLoc, export.value())})
				header = append(header, exprStmt(defineProperty(js_ast.NoLoc, export.name,
					objectLiteral(js_ast.NoLoc, keyValue("enumerable", trueExpr()), keyValue("get", getter)))))
			}
		}

		stmts = insertAfterHeader(stmts, header...)
		if !hasUseStrict(stmts) {
			stmts = append([]js_ast.Stmt{{Loc: js_ast.NoLoc, Data: &js_ast.SDirective{Value: helpers.StringToUTF16("use strict")}}}, stmts...)
		}
		tree.Stmts = injectHelpers(stmts, c.helperNames...)
		return tree
	}}
}

func hasUseStrict(stmts []js_ast.Stmt) bool {
	for _, stmt := range stmts {
		directive, ok := stmt.Data.(*js_ast.SDirective)
		if !ok {
			return false
		}
		if helpers.UTF16EqualsString(directive.Value, "use strict") {
			return true
		}
	}
	return false
}

// Inserts after the directives and the injected helpers
func insertAfterHeader(stmts []js_ast.Stmt, inserted ...js_ast.Stmt) []js_ast.Stmt {
	if len(inserted) == 0 {
		return stmts
	}
	i := 0
	for i < len(stmts) {
		switch stmts[i].Data.(type) {
		case *js_ast.SDirective, *js_ast.SHelpers:
			i++
			continue
		}
		break
	}
	result := make([]js_ast.Stmt, 0, len(stmts)+len(inserted))
	result = append(result, stmts[:i]...)
	result = append(result, inserted...)
	return append(result, stmts[i:]...)
}

// "Object.defineProperty(exports, name, descriptor)"
func defineProperty(loc logger.Loc, name string, descriptor js_ast.Expr) js_ast.Expr {
	return js_ast.Call(loc, js_ast.Dot(loc, js_ast.Ident(loc, "Object"), "defineProperty"),
		js_ast.Ident(loc, "exports"), js_ast.String(loc, name), descriptor)
}

func objectLiteral(loc logger.Loc, props ...js_ast.Property) js_ast.Expr {
	return js_ast.Expr{Loc: loc, Data: &js_ast.EObject{Properties: props}}
}

func keyValue(key string, value js_ast.Expr) js_ast.Property {
	return js_ast.Property{Loc: js_ast.NoLoc, Key: js_ast.String(value.Loc, key), Value: &value}
}

func trueExpr() js_ast.Expr {
	return js_ast.Expr{Loc: js_ast.NoLoc, Data: &js_ast.EBoolean{Value: true}}
}

// "_foo" for "./lib/foo.js"
func moduleTempName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i != -1 {
		path = path[i+1:]
	}
	if i := strings.IndexByte(path, '.'); i > 0 {
		path = path[:i]
	}
	return "_" + sanitizeName(path)
}

func requireCall(loc logger.Loc, path string) js_ast.Expr {
	return js_ast.Call(loc, js_ast.Ident(loc, "require"), js_ast.String(loc, path))
}

func (c *commonJS) export(name string, local string) {
	c.exports = append(c.exports, cjsExport{name: name, value: func() js_ast.Expr {
		return js_ast.Ident(js_ast.NoLoc, local)
	}})
}

func (c *commonJS) helper(name string) string {
	c.helperNames = append(c.helperNames, name)
	return name
}

// "helper(value)"
func (c *commonJS) interop(loc logger.Loc, helper string, value js_ast.Expr) js_ast.Expr {
	return js_ast.Call(loc, js_ast.Ident(loc, c.helper(helper)), value)
}

func (c *commonJS) lowerStmt(stmt js_ast.Stmt) []js_ast.Stmt {
	loc := stmt.Loc

	switch s := stmt.Data.(type) {
	case *js_ast.SImport:
		return c.lowerImport(loc, s)

	case *js_ast.SExportClause:
		for _, item := range s.Items {
			c.export(item.Alias, item.Name.Name)
		}
		return nil

	case *js_ast.SExportFrom:
		module := c.temps.Fresh(moduleTempName(s.Path))
		for _, item := range s.Items {
			imported := item.Name.Name
			c.exports = append(c.exports, cjsExport{name: item.Alias, value: func() js_ast.Expr {
				return optionalMemberOf(js_ast.Ident(js_ast.NoLoc, module), imported)
			}})
		}
		return []js_ast.Stmt{localStmt(loc, js_ast.LocalConst, module, requireCall(loc, s.Path))}

	case *js_ast.SExportStar:
		if s.Alias == nil {
			call := js_ast.Call(loc, js_ast.Ident(loc, c.helper(runtime.ExportStar)),
				requireCall(loc, s.Path), js_ast.Ident(loc, "exports"))
			return []js_ast.Stmt{{Loc: loc, Data: &js_ast.SExpr{Value: call}}}
		}
		ns := c.temps.Fresh("_" + sanitizeName(s.Alias.Name))
		c.export(s.Alias.Name, ns)
		return []js_ast.Stmt{localStmt(loc, js_ast.LocalConst, ns, c.interop(loc, runtime.InteropRequireWildcard, requireCall(loc, s.Path)))}

	case *js_ast.SExportDefault:
		if s.Value.Stmt != nil {
			inner := *s.Value.Stmt
			switch d := inner.Data.(type) {
			case *js_ast.SFunction:
				if d.Fn.Name == nil {
					d.Fn.Name = &js_ast.LocName{Loc: s.DefaultLoc, Name: c.temps.Fresh("_default")}
				}
				c.export("default", d.Fn.Name.Name)
			case *js_ast.SClass:
				if d.Class.Name == nil {
					d.Class.Name = &js_ast.LocName{Loc: s.DefaultLoc, Name: c.temps.Fresh("_default")}
				}
				c.export("default", d.Class.Name.Name)
			}
			inner.Loc = loc
			return []js_ast.Stmt{inner}
		}
		name := c.temps.Fresh("_default")
		c.export("default", name)
		value := *s.Value.Expr
		return []js_ast.Stmt{{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalConst, Decls: []js_ast.Decl{{
			Binding: js_ast.Binding{Loc: s.DefaultLoc, Data: &js_ast.BIdentifier{Name: name}},
			Value:   &value,
		}}}}}

	case *js_ast.SLocal:
		if s.IsExport {
			s.IsExport = false
			for _, decl := range s.Decls {
				for _, name := range js_ast.BindingNames(decl.Binding) {
					c.export(name, name)
				}
			}
		}

	case *js_ast.SFunction:
		if s.IsExport {
			s.IsExport = false
			c.export(s.Fn.Name.Name, s.Fn.Name.Name)
		}

	case *js_ast.SClass:
		if s.IsExport {
			s.IsExport = false
			c.export(s.Class.Name.Name, s.Class.Name.Name)
		}
	}

	return []js_ast.Stmt{stmt}
}

// "target.name" or "target["name"]"
func optionalMemberOf(target js_ast.Expr, name string) js_ast.Expr {
	member := optionalMember(target.Loc, target, name)
	switch e := member.Data.(type) {
	case *js_ast.EDot:
		e.OptionalChain = js_ast.OptionalChainNone
	case *js_ast.EIndex:
		e.OptionalChain = js_ast.OptionalChainNone
	}
	return member
}

func (c *commonJS) lowerImport(loc logger.Loc, s *js_ast.SImport) []js_ast.Stmt {
	hasItems := s.Items != nil && len(*s.Items) > 0
	count := 0
	if s.DefaultName != nil {
		count++
	}
	if s.StarName != nil {
		count++
	}
	if hasItems {
		count++
	}

	if count == 0 {
		return []js_ast.Stmt{{Loc: loc, Data: &js_ast.SExpr{Value: requireCall(s.PathLoc, s.Path)}}}
	}

	// Several kinds of bindings share one "require" call
	var stmts []js_ast.Stmt
	module := func() js_ast.Expr { return requireCall(s.PathLoc, s.Path) }
	if count > 1 {
		name := c.temps.Fresh(moduleTempName(s.Path))
		stmts = append(stmts, localStmt(loc, js_ast.LocalConst, name, requireCall(s.PathLoc, s.Path)))
		module = func() js_ast.Expr { return js_ast.Ident(s.PathLoc, name) }
	}

	if s.DefaultName != nil {
		value := js_ast.Dot(loc, c.interop(loc, runtime.InteropRequireDefault, module()), "default")
		stmts = append(stmts, localStmt(s.DefaultName.Loc, js_ast.LocalConst, s.DefaultName.Name, value))
	}
	if s.StarName != nil {
		value := c.interop(loc, runtime.InteropRequireWildcard, module())
		stmts = append(stmts, localStmt(s.StarName.Loc, js_ast.LocalConst, s.StarName.Name, value))
	}
	if hasItems {
		props := make([]js_ast.PropertyBinding, len(*s.Items))
		for i, item := range *s.Items {
			props[i] = js_ast.PropertyBinding{
				Key:   js_ast.String(item.AliasLoc, item.Alias),
				Value: js_ast.Binding{Loc: item.Name.Loc, Data: &js_ast.BIdentifier{Name: item.Name.Name}},
			}
		}
		value := module()
		stmts = append(stmts, js_ast.Stmt{Loc: js_ast.NoLoc, Data: &js_ast.SLocal{Kind: js_ast.LocalConst, Decls: []js_ast.Decl{{
			Binding: js_ast.Binding{Loc: loc, Data: &js_ast.BObject{Properties: props}},
			Value:   &value,
		}}}})
	}

	// The first statement keeps the import's comments
	stmts[0].Loc = loc
	return stmts
}
