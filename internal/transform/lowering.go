package transform

import (
	"github.com/jymfony/scriba/internal/js_ast"
)

// What a pass did to one class. "before" is evaluated right before the
// class is defined. "value" replaces the class as the value of a class
// expression and as the binding of a class declaration.
type classRewrite struct {
	before []js_ast.Expr
	value  *js_ast.Expr
}

type tempScope struct {
	stmts *[]js_ast.Stmt
	names []string
}

// classLowering is the machinery shared by the passes that rewrite classes
// from the outside in: temporaries are hoisted into one "var" at the top of
// the nearest function, static block or module, and the expressions a class
// needs are spliced in front of its declaration or expression.
type classLowering struct {
	temps   *TempNames
	scopes  []*tempScope
	pending map[*js_ast.Class]*classRewrite

	// The class of "export default class", which is rewritten together with
	// its export statement
	exportDefaultClass *js_ast.Class

	// Returns nil when the class was left alone
	lowerClass func(class *js_ast.Class) *classRewrite
}

func newClassLowering(temps *TempNames, lowerClass func(class *js_ast.Class) *classRewrite) *classLowering {
	return &classLowering{
		temps:      temps,
		pending:    make(map[*js_ast.Class]*classRewrite),
		lowerClass: lowerClass,
	}
}

// temp mints a name and declares it in the current scope.
func (l *classLowering) temp(base string) string {
	name := l.temps.Fresh(base)
	scope := l.scopes[len(l.scopes)-1]
	scope.names = append(scope.names, name)
	return name
}

func (l *classLowering) pushScope(stmts *[]js_ast.Stmt) {
	l.scopes = append(l.scopes, &tempScope{stmts: stmts})
}

func (l *classLowering) popScope() {
	scope := l.scopes[len(l.scopes)-1]
	l.scopes = l.scopes[:len(l.scopes)-1]
	if len(scope.names) == 0 {
		return
	}

	decls := make([]js_ast.Decl, len(scope.names))
	for i, name := range scope.names {
		decls[i] = js_ast.Decl{Binding: js_ast.Binding{Loc: js_ast.NoLoc, Data: &js_ast.BIdentifier{Name: name}}}
	}
	*scope.stmts = insertAfterDirectives(*scope.stmts, js_ast.Stmt{Loc: js_ast.NoLoc, Data: &js_ast.SLocal{Kind: js_ast.LocalVar, Decls: decls}})
}

func (l *classLowering) run(tree js_ast.AST) js_ast.AST {
	w := js_ast.Walker{
		EnterScope: func(scope js_ast.Scope) { l.pushScope(scope.Stmts) },
		ExitScope:  func(js_ast.Scope) { l.popScope() },

		EnterStmt: func(stmt *js_ast.Stmt) bool {
			if s, ok := stmt.Data.(*js_ast.SExportDefault); ok && s.Value.Stmt != nil {
				if class, ok := s.Value.Stmt.Data.(*js_ast.SClass); ok {
					l.exportDefaultClass = &class.Class
				}
			}
			return true
		},

		ExitClass: func(class *js_ast.Class) {
			if rewrite := l.lowerClass(class); rewrite != nil {
				l.pending[class] = rewrite
			}
		},

		ExitStmt: l.exitStmt,
		ExitExpr: l.exitExpr,
	}

	l.pushScope(&tree.Stmts)
	tree.Stmts = w.VisitStmts(tree.Stmts)
	l.popScope()
	return tree
}

func (l *classLowering) take(class *js_ast.Class) *classRewrite {
	rewrite := l.pending[class]
	delete(l.pending, class)
	return rewrite
}

func (l *classLowering) exitStmt(stmt js_ast.Stmt) []js_ast.Stmt {
	var class *js_ast.Class
	switch s := stmt.Data.(type) {
	case *js_ast.SClass:
		if &s.Class == l.exportDefaultClass {
			return []js_ast.Stmt{stmt}
		}
		class = &s.Class

	case *js_ast.SExportDefault:
		if s.Value.Stmt == nil {
			return []js_ast.Stmt{stmt}
		}
		inner, ok := s.Value.Stmt.Data.(*js_ast.SClass)
		if !ok {
			return []js_ast.Stmt{stmt}
		}
		l.exportDefaultClass = nil
		class = &inner.Class

	default:
		return []js_ast.Stmt{stmt}
	}

	rewrite := l.take(class)
	if rewrite == nil {
		return []js_ast.Stmt{stmt}
	}

	var stmts []js_ast.Stmt
	if len(rewrite.before) > 0 {
		stmts = append(stmts, js_ast.Stmt{Loc: js_ast.NoLoc, Data: &js_ast.SExpr{Value: js_ast.JoinAllWithComma(rewrite.before)}})
	}
	stmts = append(stmts, stmt)
	if rewrite.value != nil && class.Name != nil {
		assign := js_ast.Assign(js_ast.Ident(js_ast.NoLoc, class.Name.Name), *rewrite.value)
		stmts = append(stmts, js_ast.Stmt{Loc: js_ast.NoLoc, Data: &js_ast.SExpr{Value: assign}})
	}
	return stmts
}

func (l *classLowering) exitExpr(expr js_ast.Expr) js_ast.Expr {
	e, ok := expr.Data.(*js_ast.EClass)
	if !ok {
		return expr
	}
	rewrite := l.take(&e.Class)
	if rewrite == nil {
		return expr
	}

	parts := append(append([]js_ast.Expr{}, rewrite.before...), expr)
	if rewrite.value != nil {
		parts = append(parts, *rewrite.value)
	}
	return js_ast.JoinAllWithComma(parts)
}

// Evaluates "value" once, before the class, and returns a reference to it.
// Identifiers minted by the compiler are stable already.
func (l *classLowering) capture(rewrite *classRewrite, base string, value js_ast.Expr) js_ast.Expr {
	if id, ok := value.Data.(*js_ast.EIdentifier); ok && l.temps.IsSynthesized(id.Name) {
		return value
	}
	name := l.temp(base)
	rewrite.before = append(rewrite.before, js_ast.Assign(js_ast.Ident(value.Loc, name), value))
	return js_ast.Ident(value.Loc, name)
}
