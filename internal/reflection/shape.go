package reflection

import (
	"strings"

	"github.com/jymfony/scriba/internal/helpers"
	"github.com/jymfony/scriba/internal/js_ast"
	"github.com/jymfony/scriba/internal/logger"
)

type MemberKind string

const (
	MemberConstructor MemberKind = "constructor"
	MemberMethod      MemberKind = "method"
	MemberGetter      MemberKind = "getter"
	MemberSetter      MemberKind = "setter"
	MemberField       MemberKind = "field"
	MemberAccessor    MemberKind = "accessor"
)

type Param struct {
	// Empty for destructuring patterns
	Name  string
	Index int

	HasDefault bool

	// JavaScript text of a literal default value. Empty when there is no
	// default or when the default is not a plain literal.
	Default string

	IsObjectPattern bool
	IsArrayPattern  bool
	IsRestElement   bool
}

type Member struct {
	Kind MemberKind

	// Private names are stored without their "#". Computed keys have no name.
	Name       string
	IsComputed bool
	IsStatic   bool
	IsPrivate  bool

	// Position in the class body as written
	Index int

	Docblock string
	Params   []Param
}

// ClassShape is a snapshot of a class body taken before any pass rewrites
// it. Static blocks are not members but still count for member indices.
type ClassShape struct {
	Members []Member

	// -1 when the class has no explicit constructor
	ConstructorIndex int
}

// ConstructorIndex returns the position of the explicit constructor in the
// class body.
func ConstructorIndex(class *js_ast.Class) (int, bool) {
	for i, prop := range class.Properties {
		if IsConstructor(prop) {
			return i, true
		}
	}
	return 0, false
}

func IsConstructor(prop js_ast.Property) bool {
	if !prop.IsMethod || prop.Kind != js_ast.PropertyNormal || prop.IsStatic || prop.IsComputed {
		return false
	}
	name, ok := prop.Key.Data.(*js_ast.EString)
	return ok && helpers.UTF16EqualsString(name.Value, "constructor")
}

// Docblocks returns the text of the last "/** ... */" comment in front of
// the given location, delimiters included.
type Docblocks func(loc logger.Loc) string

// ShapeOf snapshots a class. "docblocks" may be nil.
func ShapeOf(class *js_ast.Class, docblocks Docblocks) ClassShape {
	shape := ClassShape{ConstructorIndex: -1}

	for i, prop := range class.Properties {
		if prop.Kind == js_ast.PropertyClassStaticBlock || prop.Kind == js_ast.PropertySpread {
			continue
		}

		member := Member{
			Index:      i,
			IsStatic:   prop.IsStatic,
			IsComputed: prop.IsComputed,
			IsPrivate:  prop.IsPrivate(),
		}
		if !prop.IsComputed {
			if name, ok := js_ast.StaticKeyName(prop.Key); ok {
				member.Name = strings.TrimPrefix(name, "#")
			}
		}
		if docblocks != nil {
			member.Docblock = docblocks(prop.Loc)
		}

		var fn *js_ast.Fn
		if prop.Value != nil {
			if value, ok := prop.Value.Data.(*js_ast.EFunction); ok {
				fn = &value.Fn
			}
		}

		switch {
		case IsConstructor(prop):
			member.Kind = MemberConstructor
			shape.ConstructorIndex = i
		case prop.Kind == js_ast.PropertyGet:
			member.Kind = MemberGetter
		case prop.Kind == js_ast.PropertySet:
			member.Kind = MemberSetter
		case prop.Kind == js_ast.PropertyAutoAccessor:
			member.Kind = MemberAccessor
		case prop.IsMethod:
			member.Kind = MemberMethod
		default:
			member.Kind = MemberField
			fn = nil
		}

		if fn != nil {
			member.Params = paramsOf(*fn)
		}
		shape.Members = append(shape.Members, member)
	}

	return shape
}

func paramsOf(fn js_ast.Fn) []Param {
	params := make([]Param, 0, len(fn.Args))
	for i, arg := range fn.Args {
		param := Param{
			Index:         i,
			HasDefault:    arg.Default != nil,
			IsRestElement: fn.HasRestArg && i == len(fn.Args)-1,
		}
		switch b := arg.Binding.Data.(type) {
		case *js_ast.BIdentifier:
			param.Name = b.Name
		case *js_ast.BObject:
			param.IsObjectPattern = true
		case *js_ast.BArray:
			param.IsArrayPattern = true
		}
		if arg.Default != nil {
			param.Default, _ = LiteralText(*arg.Default)
		}
		params = append(params, param)
	}
	return params
}

// LiteralText renders numbers, strings, booleans, null, regular expressions
// and big integers back to JavaScript. Other expressions are not literals.
func LiteralText(expr js_ast.Expr) (string, bool) {
	switch e := expr.Data.(type) {
	case *js_ast.ENumber:
		return js_ast.NumberToString(e.Value), true
	case *js_ast.EString:
		return string(helpers.QuoteForJSON(helpers.UTF16ToString(e.Value))), true
	case *js_ast.EBoolean:
		if e.Value {
			return "true", true
		}
		return "false", true
	case *js_ast.ENull:
		return "null", true
	case *js_ast.ERegExp:
		return e.Value, true
	case *js_ast.EBigInt:
		return e.Value + "n", true
	case *js_ast.EUnary:
		if e.Op == js_ast.UnOpNeg {
			if text, ok := LiteralText(e.Value); ok {
				switch e.Value.Data.(type) {
				case *js_ast.ENumber, *js_ast.EBigInt:
					return "-" + text, true
				}
			}
		}
	}
	return "", false
}
