package js_ast

import (
	"math"
	"strconv"

	"github.com/jymfony/scriba/internal/helpers"
	"github.com/jymfony/scriba/internal/logger"
)

func Ident(loc logger.Loc, name string) Expr {
	return Expr{Loc: loc, Data: &EIdentifier{Name: name}}
}

func String(loc logger.Loc, text string) Expr {
	return Expr{Loc: loc, Data: &EString{Value: helpers.StringToUTF16(text)}}
}

func Number(loc logger.Loc, value float64) Expr {
	return Expr{Loc: loc, Data: &ENumber{Value: value}}
}

func Undefined(loc logger.Loc) Expr {
	return Expr{Loc: loc, Data: &EUndefined{}}
}

func This(loc logger.Loc) Expr {
	return Expr{Loc: loc, Data: &EThis{}}
}

func Call(loc logger.Loc, target Expr, args ...Expr) Expr {
	return Expr{Loc: loc, Data: &ECall{Target: target, Args: args}}
}

func Dot(loc logger.Loc, target Expr, name string) Expr {
	return Expr{Loc: loc, Data: &EDot{Target: target, Name: name, NameLoc: loc}}
}

func Assign(a Expr, b Expr) Expr {
	return Expr{a.Loc, &EBinary{BinOpAssign, a, b}}
}

func JoinWithComma(a Expr, b Expr) Expr {
	return Expr{a.Loc, &EBinary{BinOpComma, a, b}}
}

func JoinAllWithComma(all []Expr) Expr {
	result := all[0]
	for _, value := range all[1:] {
		result = JoinWithComma(result, value)
	}
	return result
}

func IsSuperCall(stmt Stmt) bool {
	if expr, ok := stmt.Data.(*SExpr); ok {
		if call, ok := expr.Value.Data.(*ECall); ok {
			if _, ok := call.Target.Data.(*ESuper); ok {
				return true
			}
		}
	}
	return false
}

func IsIdentifierNamed(expr Expr, name string) bool {
	id, ok := expr.Data.(*EIdentifier)
	return ok && id.Name == name
}

// StaticKeyName returns the property name of a non-computed key. Private
// names keep their "#".
func StaticKeyName(key Expr) (string, bool) {
	switch k := key.Data.(type) {
	case *EString:
		return helpers.UTF16ToString(k.Value), true
	case *ENumber:
		return NumberToString(k.Value), true
	case *EPrivateIdentifier:
		return k.Name, true
	case *EIdentifier:
		return k.Name, true
	}
	return "", false
}

func NumberToString(value float64) string {
	if value == math.Trunc(value) && math.Abs(value) < 1e21 {
		return strconv.FormatFloat(value, 'f', -1, 64)
	}
	return strconv.FormatFloat(value, 'g', -1, 64)
}

// BindingNames lists every identifier a binding pattern declares, in order.
func BindingNames(binding Binding) []string {
	var names []string
	var visit func(b Binding)
	visit = func(b Binding) {
		switch d := b.Data.(type) {
		case *BIdentifier:
			names = append(names, d.Name)
		case *BArray:
			for _, item := range d.Items {
				visit(item.Binding)
			}
		case *BObject:
			for _, prop := range d.Properties {
				visit(prop.Value)
			}
		}
	}
	visit(binding)
	return names
}

// DeclaredNames lists the names bound directly by a statement list: "var",
// "let" and "const" declarations, functions, classes and imports. Nested
// blocks are not searched.
func DeclaredNames(stmts []Stmt) []string {
	var names []string
	for _, stmt := range stmts {
		switch s := stmt.Data.(type) {
		case *SLocal:
			for _, decl := range s.Decls {
				names = append(names, BindingNames(decl.Binding)...)
			}
		case *SFunction:
			if s.Fn.Name != nil {
				names = append(names, s.Fn.Name.Name)
			}
		case *SClass:
			if s.Class.Name != nil {
				names = append(names, s.Class.Name.Name)
			}
		case *SImport:
			if s.DefaultName != nil {
				names = append(names, s.DefaultName.Name)
			}
			if s.StarName != nil {
				names = append(names, s.StarName.Name)
			}
			if s.Items != nil {
				for _, item := range *s.Items {
					names = append(names, item.Name.Name)
				}
			}
		}
	}
	return names
}

type Scope struct {
	// Nil for class static blocks
	Args          []Arg
	Stmts         *[]Stmt
	IsStaticBlock bool
}

// Walker traverses a tree in source order. Nil hooks are skipped. Methods,
// getters and setters are visited as functions, so expression hooks never
// see the function value of a class or object method.
type Walker struct {
	// Runs before the children are visited. The expression may be replaced
	// in place; returning false skips its children and the exit hook.
	EnterExpr func(expr *Expr) bool

	// Runs after the children have been visited.
	ExitExpr func(expr Expr) Expr

	EnterStmt func(stmt *Stmt) bool

	// Runs after the children have been visited and may expand a statement
	// into several.
	ExitStmt func(stmt Stmt) []Stmt

	EnterClass func(class *Class)
	ExitClass  func(class *Class)

	// Function bodies, arrow bodies and class static blocks
	EnterScope func(scope Scope)
	ExitScope  func(scope Scope)
}

func (w *Walker) VisitStmts(stmts []Stmt) []Stmt {
	result := make([]Stmt, 0, len(stmts))
	for _, stmt := range stmts {
		result = append(result, w.VisitStmt(stmt)...)
	}
	return result
}

func (w *Walker) visitSingleStmt(stmt Stmt) Stmt {
	result := w.VisitStmt(stmt)
	if len(result) == 1 {
		return result[0]
	}
	return Stmt{Loc: stmt.Loc, Data: &SBlock{Stmts: result}}
}

func (w *Walker) visitOptionalExpr(expr *Expr) *Expr {
	if expr == nil {
		return nil
	}
	value := w.VisitExpr(*expr)
	return &value
}

func (w *Walker) visitExprs(exprs []Expr) {
	for i, expr := range exprs {
		exprs[i] = w.VisitExpr(expr)
	}
}

func (w *Walker) VisitStmt(stmt Stmt) []Stmt {
	if w.EnterStmt != nil && !w.EnterStmt(&stmt) {
		return []Stmt{stmt}
	}

	switch s := stmt.Data.(type) {
	case *SBlock:
		s.Stmts = w.VisitStmts(s.Stmts)

	case *SExportFrom:
		s.Attributes = w.visitOptionalExpr(s.Attributes)

	case *SExportStar:
		s.Attributes = w.visitOptionalExpr(s.Attributes)

	case *SImport:
		s.Attributes = w.visitOptionalExpr(s.Attributes)

	case *SExportDefault:
		if s.Value.Expr != nil {
			s.Value.Expr = w.visitOptionalExpr(s.Value.Expr)
		} else if s.Value.Stmt != nil {
			inner := w.visitSingleStmt(*s.Value.Stmt)
			s.Value.Stmt = &inner
		}

	case *SExpr:
		s.Value = w.VisitExpr(s.Value)

	case *SFunction:
		w.visitFn(&s.Fn)

	case *SClass:
		w.VisitClass(&s.Class)

	case *SLabel:
		s.Stmt = w.visitSingleStmt(s.Stmt)

	case *SIf:
		s.Test = w.VisitExpr(s.Test)
		s.Yes = w.visitSingleStmt(s.Yes)
		if s.No != nil {
			no := w.visitSingleStmt(*s.No)
			s.No = &no
		}

	case *SFor:
		if s.Init != nil {
			init := w.visitSingleStmt(*s.Init)
			s.Init = &init
		}
		s.Test = w.visitOptionalExpr(s.Test)
		s.Update = w.visitOptionalExpr(s.Update)
		s.Body = w.visitSingleStmt(s.Body)

	case *SForIn:
		s.Init = w.visitSingleStmt(s.Init)
		s.Value = w.VisitExpr(s.Value)
		s.Body = w.visitSingleStmt(s.Body)

	case *SForOf:
		s.Init = w.visitSingleStmt(s.Init)
		s.Value = w.VisitExpr(s.Value)
		s.Body = w.visitSingleStmt(s.Body)

	case *SDoWhile:
		s.Body = w.visitSingleStmt(s.Body)
		s.Test = w.VisitExpr(s.Test)

	case *SWhile:
		s.Test = w.VisitExpr(s.Test)
		s.Body = w.visitSingleStmt(s.Body)

	case *SWith:
		s.Value = w.VisitExpr(s.Value)
		s.Body = w.visitSingleStmt(s.Body)

	case *STry:
		s.Body = w.VisitStmts(s.Body)
		if s.Catch != nil {
			if s.Catch.Binding != nil {
				w.visitBinding(s.Catch.Binding)
			}
			s.Catch.Body = w.VisitStmts(s.Catch.Body)
		}
		if s.Finally != nil {
			s.Finally.Stmts = w.VisitStmts(s.Finally.Stmts)
		}

	case *SSwitch:
		s.Test = w.VisitExpr(s.Test)
		for i := range s.Cases {
			c := &s.Cases[i]
			c.Value = w.visitOptionalExpr(c.Value)
			c.Body = w.VisitStmts(c.Body)
		}

	case *SReturn:
		s.Value = w.visitOptionalExpr(s.Value)

	case *SThrow:
		s.Value = w.VisitExpr(s.Value)

	case *SLocal:
		for i := range s.Decls {
			w.visitBinding(&s.Decls[i].Binding)
			s.Decls[i].Value = w.visitOptionalExpr(s.Decls[i].Value)
		}
	}

	if w.ExitStmt != nil {
		return w.ExitStmt(stmt)
	}
	return []Stmt{stmt}
}

func (w *Walker) visitBinding(binding *Binding) {
	switch b := binding.Data.(type) {
	case *BArray:
		for i := range b.Items {
			item := &b.Items[i]
			w.visitBinding(&item.Binding)
			item.DefaultValue = w.visitOptionalExpr(item.DefaultValue)
		}

	case *BObject:
		for i := range b.Properties {
			prop := &b.Properties[i]
			if prop.IsComputed {
				prop.Key = w.VisitExpr(prop.Key)
			}
			w.visitBinding(&prop.Value)
			prop.DefaultValue = w.visitOptionalExpr(prop.DefaultValue)
		}
	}
}

func (w *Walker) visitArgs(args []Arg) {
	for i := range args {
		arg := &args[i]
		w.visitExprs(arg.Decorators)
		w.visitBinding(&arg.Binding)
		arg.Default = w.visitOptionalExpr(arg.Default)
	}
}

func (w *Walker) visitFn(fn *Fn) {
	w.visitArgs(fn.Args)
	w.visitScope(Scope{Args: fn.Args, Stmts: &fn.Body.Stmts})
}

func (w *Walker) visitScope(scope Scope) {
	if w.EnterScope != nil {
		w.EnterScope(scope)
	}
	*scope.Stmts = w.VisitStmts(*scope.Stmts)
	if w.ExitScope != nil {
		w.ExitScope(scope)
	}
}

func (w *Walker) visitProperty(prop *Property) {
	w.visitExprs(prop.Decorators)

	if prop.Kind == PropertyClassStaticBlock {
		w.visitScope(Scope{Stmts: &prop.ClassStaticBlock.Stmts, IsStaticBlock: true})
		return
	}

	if prop.IsComputed || prop.Kind == PropertySpread {
		prop.Key = w.VisitExpr(prop.Key)
	}

	if prop.Value != nil {
		if fn, ok := prop.Value.Data.(*EFunction); ok && (prop.IsMethod || prop.Kind == PropertyGet || prop.Kind == PropertySet) {
			w.visitFn(&fn.Fn)
		} else {
			prop.Value = w.visitOptionalExpr(prop.Value)
		}
	}
	prop.Initializer = w.visitOptionalExpr(prop.Initializer)
}

func (w *Walker) VisitClass(class *Class) {
	if w.EnterClass != nil {
		w.EnterClass(class)
	}
	w.visitExprs(class.Decorators)
	class.Extends = w.visitOptionalExpr(class.Extends)
	for i := range class.Properties {
		w.visitProperty(&class.Properties[i])
	}
	if w.ExitClass != nil {
		w.ExitClass(class)
	}
}

func (w *Walker) VisitExpr(expr Expr) Expr {
	if w.EnterExpr != nil && !w.EnterExpr(&expr) {
		return expr
	}

	switch e := expr.Data.(type) {
	case *EArray:
		w.visitExprs(e.Items)

	case *EUnary:
		e.Value = w.VisitExpr(e.Value)

	case *EBinary:
		e.Left = w.VisitExpr(e.Left)
		e.Right = w.VisitExpr(e.Right)

	case *ENew:
		e.Target = w.VisitExpr(e.Target)
		w.visitExprs(e.Args)

	case *ECall:
		e.Target = w.VisitExpr(e.Target)
		w.visitExprs(e.Args)

	case *EDot:
		e.Target = w.VisitExpr(e.Target)

	case *EIndex:
		e.Target = w.VisitExpr(e.Target)
		e.Index = w.VisitExpr(e.Index)

	case *EArrow:
		w.visitArgs(e.Args)
		w.visitScope(Scope{Args: e.Args, Stmts: &e.Body.Stmts})

	case *EFunction:
		w.visitFn(&e.Fn)

	case *EClass:
		w.VisitClass(&e.Class)

	case *EObject:
		for i := range e.Properties {
			w.visitProperty(&e.Properties[i])
		}

	case *ESpread:
		e.Value = w.VisitExpr(e.Value)

	case *ETemplate:
		e.Tag = w.visitOptionalExpr(e.Tag)
		for i := range e.Parts {
			e.Parts[i].Value = w.VisitExpr(e.Parts[i].Value)
		}

	case *EAwait:
		e.Value = w.VisitExpr(e.Value)

	case *EYield:
		e.Value = w.visitOptionalExpr(e.Value)

	case *EIf:
		e.Test = w.VisitExpr(e.Test)
		e.Yes = w.VisitExpr(e.Yes)
		e.No = w.VisitExpr(e.No)

	case *EImportCall:
		e.Expr = w.VisitExpr(e.Expr)
		e.Options = w.visitOptionalExpr(e.Options)
	}

	if w.ExitExpr != nil {
		return w.ExitExpr(expr)
	}
	return expr
}
