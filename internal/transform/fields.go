package transform

import (
	"github.com/jymfony/scriba/internal/js_ast"
	"github.com/jymfony/scriba/internal/js_lexer"
	"github.com/jymfony/scriba/internal/logger"
)

const fieldInitializationSymbol = "__jymfony_field_initialization"

// HoistFields moves public instance fields into a method keyed by
// "Symbol.__jymfony_field_initialization", which the base class calls once
// the whole hierarchy is constructed:
//
//   class A {                  class A {
//     x = 1;                     [Symbol.__jymfony_field_initialization]() {
//     y;                           const superCall = super[Symbol.__jymfony_field_initialization];
//   }                              if (void 0 !== superCall) superCall.apply(this);
//                                  this.x = 1;
//                                  this.y = void 0;
//                                }
//                              }
//
// Static fields, private fields and accessors stay where they are. Computed
// keys are evaluated once, before the class.
func HoistFields(temps *TempNames) Pass {
	return Pass{Name: "fields", Run: func(tree js_ast.AST) js_ast.AST {
		var l *classLowering
		l = newClassLowering(temps, func(class *js_ast.Class) *classRewrite {
			return hoistClassFields(l, class)
		})
		return l.run(tree)
	}}
}

func isHoistedField(prop js_ast.Property) bool {
	return prop.IsField() && !prop.IsStatic && !prop.IsPrivate()
}

func hoistClassFields(l *classLowering, class *js_ast.Class) *classRewrite {
	hasFields := false
	for _, prop := range class.Properties {
		if isHoistedField(prop) {
			hasFields = true
			break
		}
	}
	if !hasFields {
		return nil
	}

	loc := class.Loc
	rewrite := &classRewrite{}
	symbol := func() js_ast.Expr {
		return js_ast.Dot(loc, js_ast.Ident(loc, "Symbol"), fieldInitializationSymbol)
	}
	superCall := func() js_ast.Expr { return js_ast.Ident(loc, "superCall") }
	body := []js_ast.Stmt{
		localStmt(loc, js_ast.LocalConst, "superCall", js_ast.Expr{Loc: loc, Data: &js_ast.EIndex{
			Target: js_ast.Expr{Loc: loc, Data: &js_ast.ESuper{}},
			Index:  symbol(),
		}}),
		{Loc: js_ast.NoLoc, Data: &js_ast.SIf{
			Test: binary(loc, js_ast.BinOpStrictNe, js_ast.Undefined(loc), superCall()),
			Yes:  exprStmt(js_ast.Call(loc, js_ast.Dot(loc, superCall(), "apply"), js_ast.This(loc))),
		}},
	}

	kept := class.Properties[:0]
	for _, prop := range class.Properties {
		if !isHoistedField(prop) {
			kept = append(kept, prop)
			continue
		}

		value := js_ast.Undefined(prop.Loc)
		if prop.Initializer != nil {
			value = *prop.Initializer
		}
		target := thisMember(l, rewrite, prop)
		body = append(body, js_ast.Stmt{Loc: prop.Loc, Data: &js_ast.SExpr{Value: js_ast.Assign(target, value)}})
	}

	method := fnExpr(loc, nil, body)
	class.Properties = append(kept, js_ast.Property{
		Loc:        js_ast.NoLoc,
		Key:        symbol(),
		Value:      &method,
		IsComputed: true,
		IsMethod:   true,
	})
	return rewrite
}

// "this.key", "this["key"]" or "this[_computedKey]"
func thisMember(l *classLowering, rewrite *classRewrite, prop js_ast.Property) js_ast.Expr {
	loc := prop.Key.Loc
	this := js_ast.This(loc)

	if prop.IsComputed {
		key := l.capture(rewrite, "_computedKey", prop.Key)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EIndex{Target: this, Index: key}}
	}
	if key, ok := prop.Key.Data.(*js_ast.EString); ok && js_lexer.IsIdentifierUTF16(key.Value) {
		name, _ := js_ast.StaticKeyName(prop.Key)
		return js_ast.Dot(loc, this, name)
	}
	return js_ast.Expr{Loc: loc, Data: &js_ast.EIndex{Target: this, Index: prop.Key}}
}

func privateName(loc logger.Loc, name string) js_ast.Expr {
	return js_ast.Expr{Loc: loc, Data: &js_ast.EPrivateIdentifier{Name: name}}
}

// "this.#name"
func thisPrivate(loc logger.Loc, name string) js_ast.Expr {
	return js_ast.Expr{Loc: loc, Data: &js_ast.EIndex{Target: js_ast.This(loc), Index: privateName(loc, name)}}
}
