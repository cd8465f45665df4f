package js_printer

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/jymfony/scriba/internal/helpers"
	"github.com/jymfony/scriba/internal/js_ast"
	"github.com/jymfony/scriba/internal/js_lexer"
	"github.com/jymfony/scriba/internal/logger"
	"github.com/jymfony/scriba/internal/sourcemap"
)

type printer struct {
	tree            *js_ast.AST
	options         Options
	builder         sourcemap.ChunkBuilder
	printedComments map[logger.Loc]bool
	js              []byte

	// Set while printing runtime helpers, whose locations do not belong to
	// the unit being printed
	inHelpers bool

	stmtStart          int
	exportDefaultStart int
	arrowExprStart     int
	forOfInitStart     int
	prevOpEnd          int
	prevNumEnd         int
	prevRegExpEnd      int
	prevOp             js_ast.OpCode
}

type printExprFlags uint8

const (
	forbidCall printExprFlags = 1 << iota
	forbidIn
	hasNonOptionalChainParent
	isFollowedByOf
	isInsideForAwait
)

func (p *printer) print(text string) {
	p.js = append(p.js, text...)
}

// This is the same as "print(string(bytes))" without any unnecessary temporary
// allocations
func (p *printer) printBytes(bytes []byte) {
	p.js = append(p.js, bytes...)
}

func (p *printer) addSourceMapping(loc logger.Loc) {
	if p.options.AddSourceMappings && !p.inHelpers && loc.Start >= 0 {
		p.builder.AddSourceMapping(loc, "", "", p.js)
	}
}

// Names the compiler made up have no original name, so stack traces must not
// resolve them to anything.
func (p *printer) addSourceMappingForName(loc logger.Loc, name string) {
	if p.options.AddSourceMappings && !p.inHelpers && loc.Start >= 0 {
		originalName := name
		if p.options.IsSynthesizedName != nil && p.options.IsSynthesizedName(name) {
			originalName = ""
		}
		p.builder.AddSourceMapping(loc, originalName, name, p.js)
	}
}

func (p *printer) printIndent() {
	for i := 0; i < p.options.Indent; i++ {
		p.print("  ")
	}
}

func (p *printer) printSpace() {
	p.print(" ")
}

func (p *printer) printNewline() {
	p.print("\n")
}

func (p *printer) printName(loc logger.Loc, name string) {
	p.printSpaceBeforeIdentifier()
	p.addSourceMappingForName(loc, name)
	p.print(name)
}

func (p *printer) printClauseAlias(alias string) {
	if js_lexer.IsIdentifier(alias) {
		p.printSpaceBeforeIdentifier()
		p.print(alias)
	} else {
		p.printQuotedUTF16(helpers.StringToUTF16(alias))
	}
}

func (p *printer) printQuotedUTF16(data []uint16) {
	singleCost := 0
	doubleCost := 0
	for _, c := range data {
		switch c {
		case '\'':
			singleCost++
		case '"':
			doubleCost++
		}
	}

	quote := byte('"')
	if doubleCost > singleCost {
		quote = '\''
	}
	p.printBytes(helpers.QuoteUTF16(data, quote))
}

func (p *printer) printNumber(value float64, level js_ast.L) {
	absValue := math.Abs(value)

	if value != value {
		p.printSpaceBeforeIdentifier()
		p.print("NaN")
		return
	}

	if math.IsInf(value, 0) {
		wrap := value < 0 && level >= js_ast.LPrefix
		if wrap {
			p.print("(")
		}
		if value < 0 {
			p.printSpaceBeforeOperator(js_ast.UnOpNeg)
			p.print("-")
		} else {
			p.printSpaceBeforeIdentifier()
		}
		p.print("Infinity")
		if wrap {
			p.print(")")
		}
		return
	}

	if !math.Signbit(value) {
		p.printSpaceBeforeIdentifier()
		p.print(js_ast.NumberToString(absValue))

		// Remember the end of the latest number
		p.prevNumEnd = len(p.js)
	} else if level >= js_ast.LPrefix {
		// Expressions such as "(-1).toString" need to wrap negative numbers
		p.print("(-")
		p.print(js_ast.NumberToString(absValue))
		p.print(")")
	} else {
		p.printSpaceBeforeOperator(js_ast.UnOpNeg)
		p.print("-")
		p.print(js_ast.NumberToString(absValue))
		p.prevNumEnd = len(p.js)
	}
}

func (p *printer) printBinding(binding js_ast.Binding) {
	switch b := binding.Data.(type) {
	case *js_ast.BMissing:
		p.addSourceMapping(binding.Loc)

	case *js_ast.BIdentifier:
		p.printName(binding.Loc, b.Name)

	case *js_ast.BArray:
		p.addSourceMapping(binding.Loc)
		p.print("[")
		for i, item := range b.Items {
			if i != 0 {
				p.print(",")
				p.printSpace()
			}
			if b.HasSpread && i+1 == len(b.Items) {
				p.print("...")
			}
			p.printBinding(item.Binding)

			if item.DefaultValue != nil {
				p.printSpace()
				p.print("=")
				p.printSpace()
				p.printExpr(*item.DefaultValue, js_ast.LComma, 0)
			}

			// Make sure there's a comma after trailing missing items
			if _, ok := item.Binding.Data.(*js_ast.BMissing); ok && i == len(b.Items)-1 {
				p.print(",")
			}
		}
		p.print("]")

	case *js_ast.BObject:
		p.addSourceMapping(binding.Loc)
		p.print("{")
		for i, property := range b.Properties {
			if i != 0 {
				p.print(",")
			}
			p.printSpace()

			if property.IsSpread {
				p.print("...")
				p.printBinding(property.Value)
				continue
			}

			if property.IsComputed {
				p.print("[")
				p.printExpr(property.Key, js_ast.LComma, 0)
				p.print("]:")
				p.printSpace()
			} else if str, ok := property.Key.Data.(*js_ast.EString); ok && js_lexer.IsIdentifierUTF16(str.Value) {
				p.addSourceMapping(property.Key.Loc)
				p.printSpaceBeforeIdentifier()
				p.print(helpers.UTF16ToString(str.Value))

				// Use a shorthand property if the names are the same
				if id, ok := property.Value.Data.(*js_ast.BIdentifier); ok && helpers.UTF16EqualsString(str.Value, id.Name) {
					p.printDefault(property.DefaultValue)
					continue
				}
				p.print(":")
				p.printSpace()
			} else {
				p.printExpr(property.Key, js_ast.LLowest, 0)
				p.print(":")
				p.printSpace()
			}

			p.printBinding(property.Value)
			p.printDefault(property.DefaultValue)
		}
		if len(b.Properties) > 0 {
			p.printSpace()
		}
		p.print("}")

	default:
		panic(fmt.Sprintf("Unexpected binding of type %T", binding.Data))
	}
}

func (p *printer) printDefault(value *js_ast.Expr) {
	if value != nil {
		p.printSpace()
		p.print("=")
		p.printSpace()
		p.printExpr(*value, js_ast.LComma, 0)
	}
}

func (p *printer) printSpaceBeforeOperator(next js_ast.OpCode) {
	if p.prevOpEnd == len(p.js) {
		prev := p.prevOp

		// "+ + y" => "+ +y"
		// "+ ++ y" => "+ ++y"
		// "x + + y" => "x+ +y"
		// "x ++ + y" => "x+++y"
		// "x + ++ y" => "x+ ++y"
		// "-- >" => "-- >"
		// "< ! --" => "<! --"
		if ((prev == js_ast.BinOpAdd || prev == js_ast.UnOpPos) && (next == js_ast.BinOpAdd || next == js_ast.UnOpPos || next == js_ast.UnOpPreInc)) ||
			((prev == js_ast.BinOpSub || prev == js_ast.UnOpNeg) && (next == js_ast.BinOpSub || next == js_ast.UnOpNeg || next == js_ast.UnOpPreDec)) ||
			(prev == js_ast.UnOpPostDec && next == js_ast.BinOpGt) ||
			(prev == js_ast.UnOpNot && next == js_ast.UnOpPreDec && len(p.js) > 1 && p.js[len(p.js)-2] == '<') {
			p.print(" ")
		}
	}
}

func (p *printer) printSemicolonAfterStatement() {
	p.print(";\n")
}

func (p *printer) printSpaceBeforeIdentifier() {
	if len(p.js) == 0 {
		return
	}
	if c, _ := utf8.DecodeLastRune(p.js); js_lexer.IsIdentifierContinue(c) || len(p.js) == p.prevRegExpEnd {
		p.print(" ")
	}
}

func (p *printer) printDecorators(decorators []js_ast.Expr, onOwnLine bool) {
	for _, decorator := range decorators {
		p.addSourceMapping(decorator.Loc)
		p.print("@")

		wrap := true
		for expr := decorator; ; {
			switch e := expr.Data.(type) {
			case *js_ast.EIdentifier:
				wrap = false
			case *js_ast.EDot:
				if e.OptionalChain == js_ast.OptionalChainNone {
					expr = e.Target
					continue
				}
			case *js_ast.ECall:
				if e.OptionalChain == js_ast.OptionalChainNone {
					expr = e.Target
					continue
				}
			}
			break
		}

		if wrap {
			p.print("(")
			p.printExpr(decorator, js_ast.LLowest, 0)
			p.print(")")
		} else {
			p.printExpr(decorator, js_ast.LPostfix, 0)
		}

		if onOwnLine {
			p.printNewline()
			p.printIndent()
		} else {
			p.printSpace()
		}
	}
}

func (p *printer) printFnArgs(args []js_ast.Arg, hasRestArg bool) {
	p.print("(")
	for i, arg := range args {
		if i != 0 {
			p.print(",")
			p.printSpace()
		}
		p.printDecorators(arg.Decorators, false)
		if hasRestArg && i+1 == len(args) {
			p.print("...")
		}
		p.printBinding(arg.Binding)
		p.printDefault(arg.Default)
	}
	p.print(")")
}

func (p *printer) printFn(fn js_ast.Fn) {
	p.printFnArgs(fn.Args, fn.HasRestArg)
	p.printSpace()
	p.printBlock(fn.Body.Loc, fn.Body.Stmts)
}

func (p *printer) printFnHead(fn js_ast.Fn) {
	p.printSpaceBeforeIdentifier()
	if fn.IsAsync {
		p.print("async ")
	}
	p.print("function")
	if fn.IsGenerator {
		p.print("*")
	}
	if fn.Name != nil {
		if fn.IsGenerator {
			p.printSpace()
		}
		p.printName(fn.Name.Loc, fn.Name.Name)
	}
}

func (p *printer) printClassHead(class js_ast.Class) {
	p.printSpaceBeforeIdentifier()
	p.print("class")
	if class.Name != nil {
		p.printName(class.Name.Loc, class.Name.Name)
	}
}

func (p *printer) printClass(class js_ast.Class) {
	if class.Extends != nil {
		p.print(" extends")
		p.printSpace()
		p.printExpr(*class.Extends, js_ast.LNew-1, 0)
	}
	p.printSpace()

	p.addSourceMapping(class.BodyLoc)
	p.print("{")
	p.printNewline()
	p.options.Indent++

	for _, item := range class.Properties {
		p.printLeadingComments(item.Loc)
		p.printIndent()

		if item.Kind == js_ast.PropertyClassStaticBlock {
			p.addSourceMapping(item.Loc)
			p.print("static")
			p.printSpace()
			p.printBlock(item.ClassStaticBlock.Loc, item.ClassStaticBlock.Stmts)
			p.printNewline()
			continue
		}

		p.printDecorators(item.Decorators, true)
		p.printProperty(item)

		// Need semicolons after class fields
		if _, ok := p.methodValue(item); !ok {
			p.printSemicolonAfterStatement()
		} else {
			p.printNewline()
		}
	}

	p.options.Indent--
	p.printIndent()
	p.print("}")
}

func (p *printer) methodValue(item js_ast.Property) (*js_ast.EFunction, bool) {
	if item.Value == nil {
		return nil, false
	}
	fn, ok := item.Value.Data.(*js_ast.EFunction)
	if !ok || (!item.IsMethod && item.Kind != js_ast.PropertyGet && item.Kind != js_ast.PropertySet) {
		return nil, false
	}
	return fn, true
}

func (p *printer) printProperty(item js_ast.Property) {
	if item.Kind == js_ast.PropertySpread {
		p.print("...")
		p.printExpr(*item.Value, js_ast.LComma, 0)
		return
	}

	if item.IsStatic {
		p.printSpaceBeforeIdentifier()
		p.print("static")
		p.printSpace()
	}

	switch item.Kind {
	case js_ast.PropertyGet:
		p.printSpaceBeforeIdentifier()
		p.print("get")
		p.printSpace()

	case js_ast.PropertySet:
		p.printSpaceBeforeIdentifier()
		p.print("set")
		p.printSpace()

	case js_ast.PropertyAutoAccessor:
		p.printSpaceBeforeIdentifier()
		p.print("accessor")
		p.printSpace()
	}

	fn, isMethod := p.methodValue(item)
	if isMethod && item.IsMethod {
		if fn.Fn.IsAsync {
			p.printSpaceBeforeIdentifier()
			p.print("async")
			p.printSpace()
		}
		if fn.Fn.IsGenerator {
			p.print("*")
		}
	}

	if item.IsComputed {
		p.addSourceMapping(item.Key.Loc)
		p.print("[")
		p.printExpr(item.Key, js_ast.LComma, 0)
		p.print("]")
	} else {
		switch key := item.Key.Data.(type) {
		case *js_ast.EPrivateIdentifier:
			p.printName(item.Key.Loc, key.Name)

		case *js_ast.EString:
			if js_lexer.IsIdentifierUTF16(key.Value) {
				name := helpers.UTF16ToString(key.Value)
				p.printName(item.Key.Loc, name)

				// Use a shorthand property if the names are the same
				if item.Value != nil && !item.IsMethod && item.Kind == js_ast.PropertyNormal {
					if id, ok := item.Value.Data.(*js_ast.EIdentifier); ok && id.Name == name && item.WasShorthand {
						p.printDefault(item.Initializer)
						return
					}
				}
			} else {
				p.addSourceMapping(item.Key.Loc)
				p.printQuotedUTF16(key.Value)
			}

		default:
			p.printExpr(item.Key, js_ast.LLowest, 0)
		}
	}

	if isMethod {
		p.printFn(fn.Fn)
		return
	}

	if item.Value != nil {
		p.print(":")
		p.printSpace()
		p.printExpr(*item.Value, js_ast.LComma, 0)
	}

	p.printDefault(item.Initializer)
}

func (p *printer) printExpr(expr js_ast.Expr, level js_ast.L, flags printExprFlags) {
	if id, ok := expr.Data.(*js_ast.EIdentifier); ok {
		wrap := len(p.js) == p.forOfInitStart && (id.Name == "let" ||
			((flags&isFollowedByOf) != 0 && (flags&isInsideForAwait) == 0 && id.Name == "async"))
		if wrap {
			p.print("(")
		}
		p.printName(expr.Loc, id.Name)
		if wrap {
			p.print(")")
		}
		return
	}

	p.addSourceMapping(expr.Loc)

	switch e := expr.Data.(type) {
	case *js_ast.EMissing:

	case *js_ast.EUndefined:
		wrap := level >= js_ast.LPrefix
		if wrap {
			p.print("(")
		}
		p.printSpaceBeforeIdentifier()
		p.print("void 0")
		if wrap {
			p.print(")")
		}

	case *js_ast.ESuper:
		p.printSpaceBeforeIdentifier()
		p.print("super")

	case *js_ast.ENull:
		p.printSpaceBeforeIdentifier()
		p.print("null")

	case *js_ast.EThis:
		p.printSpaceBeforeIdentifier()
		p.print("this")

	case *js_ast.ESpread:
		p.print("...")
		p.printExpr(e.Value, js_ast.LComma, 0)

	case *js_ast.ENewTarget:
		p.printSpaceBeforeIdentifier()
		p.print("new.target")

	case *js_ast.EImportMeta:
		p.printSpaceBeforeIdentifier()
		p.print("import.meta")

	case *js_ast.EPrivateIdentifier:
		p.printName(expr.Loc, e.Name)

	case *js_ast.ENew:
		wrap := level >= js_ast.LCall
		if wrap {
			p.print("(")
		}

		p.printSpaceBeforeIdentifier()
		p.print("new")
		p.printSpace()
		p.printExpr(e.Target, js_ast.LNew, forbidCall)

		p.print("(")
		for i, arg := range e.Args {
			if i != 0 {
				p.print(",")
				p.printSpace()
			}
			p.printExpr(arg, js_ast.LComma, 0)
		}
		p.print(")")

		if wrap {
			p.print(")")
		}

	case *js_ast.ECall:
		wrap := level >= js_ast.LNew || (flags&forbidCall) != 0
		var targetFlags printExprFlags
		if e.OptionalChain == js_ast.OptionalChainNone {
			targetFlags = hasNonOptionalChainParent
		} else if (flags & hasNonOptionalChainParent) != 0 {
			wrap = true
		}

		if wrap {
			p.print("(")
		}

		p.printExpr(e.Target, js_ast.LPostfix, targetFlags)

		if e.OptionalChain == js_ast.OptionalChainStart {
			p.print("?.")
		}
		p.print("(")
		for i, arg := range e.Args {
			if i != 0 {
				p.print(",")
				p.printSpace()
			}
			p.printExpr(arg, js_ast.LComma, 0)
		}
		p.print(")")
		if wrap {
			p.print(")")
		}

	case *js_ast.EImportCall:
		wrap := level >= js_ast.LNew || (flags&forbidCall) != 0
		if wrap {
			p.print("(")
		}
		p.printSpaceBeforeIdentifier()
		p.print("import(")
		p.printExpr(e.Expr, js_ast.LComma, 0)
		if e.Options != nil {
			p.print(",")
			p.printSpace()
			p.printExpr(*e.Options, js_ast.LComma, 0)
		}
		p.print(")")
		if wrap {
			p.print(")")
		}

	case *js_ast.EDot:
		wrap := false
		if e.OptionalChain == js_ast.OptionalChainNone {
			flags |= hasNonOptionalChainParent
		} else {
			if (flags & hasNonOptionalChainParent) != 0 {
				wrap = true
				p.print("(")
			}
			flags &= ^hasNonOptionalChainParent
		}
		p.printExpr(e.Target, js_ast.LPostfix, flags&(forbidCall|hasNonOptionalChainParent))
		if js_lexer.IsIdentifier(e.Name) {
			if e.OptionalChain != js_ast.OptionalChainStart && p.prevNumEnd == len(p.js) {
				// "1.toString" is a syntax error, so print "1 .toString" instead
				p.print(" ")
			}
			if e.OptionalChain == js_ast.OptionalChainStart {
				p.print("?.")
			} else {
				p.print(".")
			}
			p.addSourceMappingForName(e.NameLoc, e.Name)
			p.print(e.Name)
		} else {
			if e.OptionalChain == js_ast.OptionalChainStart {
				p.print("?.")
			}
			p.print("[")
			p.addSourceMapping(e.NameLoc)
			p.printQuotedUTF16(helpers.StringToUTF16(e.Name))
			p.print("]")
		}
		if wrap {
			p.print(")")
		}

	case *js_ast.EIndex:
		wrap := false
		if e.OptionalChain == js_ast.OptionalChainNone {
			flags |= hasNonOptionalChainParent
		} else {
			if (flags & hasNonOptionalChainParent) != 0 {
				wrap = true
				p.print("(")
			}
			flags &= ^hasNonOptionalChainParent
		}
		p.printExpr(e.Target, js_ast.LPostfix, flags&(forbidCall|hasNonOptionalChainParent))
		if e.OptionalChain == js_ast.OptionalChainStart {
			p.print("?.")
		}

		if private, ok := e.Index.Data.(*js_ast.EPrivateIdentifier); ok {
			if e.OptionalChain != js_ast.OptionalChainStart {
				p.print(".")
			}
			p.printName(e.Index.Loc, private.Name)
		} else {
			p.print("[")
			p.printExpr(e.Index, js_ast.LLowest, 0)
			p.print("]")
		}

		if wrap {
			p.print(")")
		}

	case *js_ast.EIf:
		wrap := level >= js_ast.LConditional
		if wrap {
			p.print("(")
			flags &= ^forbidIn
		}
		p.printExpr(e.Test, js_ast.LConditional, flags&forbidIn)
		p.printSpace()
		p.print("?")
		p.printSpace()
		p.printExpr(e.Yes, js_ast.LYield, 0)
		p.printSpace()
		p.print(":")
		p.printSpace()
		p.printExpr(e.No, js_ast.LYield, flags&forbidIn)
		if wrap {
			p.print(")")
		}

	case *js_ast.EArrow:
		wrap := level >= js_ast.LAssign

		if wrap {
			p.print("(")
		}
		if e.IsAsync {
			p.printSpaceBeforeIdentifier()
			p.print("async")
			p.printSpace()
		}

		p.printFnArgs(e.Args, e.HasRestArg)
		p.printSpace()
		p.print("=>")
		p.printSpace()

		wasPrinted := false
		if len(e.Body.Stmts) == 1 && e.PreferExpr {
			if s, ok := e.Body.Stmts[0].Data.(*js_ast.SReturn); ok && s.Value != nil {
				p.arrowExprStart = len(p.js)
				p.printExpr(*s.Value, js_ast.LComma, flags&forbidIn)
				wasPrinted = true
			}
		}
		if !wasPrinted {
			p.printBlock(e.Body.Loc, e.Body.Stmts)
		}
		if wrap {
			p.print(")")
		}

	case *js_ast.EFunction:
		n := len(p.js)
		wrap := p.stmtStart == n || p.exportDefaultStart == n
		if wrap {
			p.print("(")
		}
		p.printFnHead(e.Fn)
		p.printFn(e.Fn)
		if wrap {
			p.print(")")
		}

	case *js_ast.EClass:
		n := len(p.js)
		wrap := p.stmtStart == n || p.exportDefaultStart == n
		if wrap {
			p.print("(")
		}
		p.printDecorators(e.Class.Decorators, false)
		p.printClassHead(e.Class)
		p.printClass(e.Class)
		if wrap {
			p.print(")")
		}

	case *js_ast.EArray:
		p.print("[")
		for i, item := range e.Items {
			if i != 0 {
				p.print(",")
				p.printSpace()
			}
			p.printExpr(item, js_ast.LComma, 0)

			// Make sure there's a comma after trailing missing items
			if _, ok := item.Data.(*js_ast.EMissing); ok && i == len(e.Items)-1 {
				p.print(",")
			}
		}
		p.print("]")

	case *js_ast.EObject:
		n := len(p.js)
		wrap := p.stmtStart == n || p.arrowExprStart == n
		if wrap {
			p.print("(")
		}
		p.print("{")
		if len(e.Properties) != 0 {
			// Objects holding functions are easier to read one member per line
			isSingleLine := true
			for _, item := range e.Properties {
				if _, ok := p.methodValue(item); ok {
					isSingleLine = false
					break
				}
			}
			if !isSingleLine {
				p.options.Indent++
			}

			for i, item := range e.Properties {
				if i != 0 {
					p.print(",")
				}
				if isSingleLine {
					p.printSpace()
				} else {
					p.printNewline()
					p.printIndent()
				}
				p.printProperty(item)
			}

			if !isSingleLine {
				p.options.Indent--
				p.printNewline()
				p.printIndent()
			} else {
				p.printSpace()
			}
		}
		p.print("}")
		if wrap {
			p.print(")")
		}

	case *js_ast.EBoolean:
		p.printSpaceBeforeIdentifier()
		if e.Value {
			p.print("true")
		} else {
			p.print("false")
		}

	case *js_ast.EString:
		p.printQuotedUTF16(e.Value)

	case *js_ast.ETemplate:
		if e.Tag != nil {
			// Optional chains are forbidden in template tags
			if isOptionalChain(*e.Tag) {
				p.print("(")
				p.printExpr(*e.Tag, js_ast.LLowest, 0)
				p.print(")")
			} else {
				p.printExpr(*e.Tag, js_ast.LPostfix, 0)
			}
		}
		p.print("`")
		p.print(e.HeadRaw)
		for _, part := range e.Parts {
			p.print("${")
			p.printExpr(part.Value, js_ast.LLowest, 0)
			p.print("}")
			p.print(part.TailRaw)
		}
		p.print("`")

	case *js_ast.ERegExp:
		if n := len(p.js); n > 0 && p.js[n-1] == '/' {
			// Avoid forming a single-line comment
			p.print(" ")
		}
		p.printSpaceBeforeIdentifier()
		p.print(e.Value)

		// Need a space before the next identifier to avoid it turning into flags
		p.prevRegExpEnd = len(p.js)

	case *js_ast.EBigInt:
		p.printSpaceBeforeIdentifier()
		p.print(e.Value)
		p.print("n")

	case *js_ast.ENumber:
		p.printNumber(e.Value, level)

	case *js_ast.EAwait:
		wrap := level >= js_ast.LPrefix

		if wrap {
			p.print("(")
		}

		p.printSpaceBeforeIdentifier()
		p.print("await")
		p.printSpace()
		p.printExpr(e.Value, js_ast.LPrefix-1, 0)

		if wrap {
			p.print(")")
		}

	case *js_ast.EYield:
		wrap := level >= js_ast.LAssign

		if wrap {
			p.print("(")
		}

		p.printSpaceBeforeIdentifier()
		p.print("yield")

		if e.Value != nil {
			if e.IsStar {
				p.print("*")
			}
			p.printSpace()
			p.printExpr(*e.Value, js_ast.LYield, 0)
		}

		if wrap {
			p.print(")")
		}

	case *js_ast.EUnary:
		entry := js_ast.OpTable[e.Op]
		wrap := level >= entry.Level

		if wrap {
			p.print("(")
		}

		if !e.Op.IsPrefix() {
			p.printExpr(e.Value, js_ast.LPostfix-1, 0)
		}

		if entry.IsKeyword {
			p.printSpaceBeforeIdentifier()
			p.print(entry.Text)
			p.printSpace()
		} else {
			p.printSpaceBeforeOperator(e.Op)
			p.print(entry.Text)
			p.prevOp = e.Op
			p.prevOpEnd = len(p.js)
		}

		if e.Op.IsPrefix() {
			p.printExpr(e.Value, js_ast.LPrefix-1, 0)
		}

		if wrap {
			p.print(")")
		}

	case *js_ast.EBinary:
		entry := js_ast.OpTable[e.Op]
		wrap := level >= entry.Level || (e.Op == js_ast.BinOpIn && (flags&forbidIn) != 0)

		// Destructuring assignments must be parenthesized
		if n := len(p.js); p.stmtStart == n || p.arrowExprStart == n {
			if _, ok := e.Left.Data.(*js_ast.EObject); ok {
				wrap = true
			}
		}

		if wrap {
			p.print("(")
			flags &= ^forbidIn
		}

		leftLevel := entry.Level - 1
		rightLevel := entry.Level - 1

		if e.Op.IsRightAssociative() {
			leftLevel = entry.Level
		}
		if e.Op.IsLeftAssociative() {
			rightLevel = entry.Level
		}

		switch e.Op {
		case js_ast.BinOpNullishCoalescing:
			// "??" can't directly contain "||" or "&&" without being wrapped in parentheses
			if left, ok := e.Left.Data.(*js_ast.EBinary); ok && (left.Op == js_ast.BinOpLogicalOr || left.Op == js_ast.BinOpLogicalAnd) {
				leftLevel = js_ast.LPrefix
			}
			if right, ok := e.Right.Data.(*js_ast.EBinary); ok && (right.Op == js_ast.BinOpLogicalOr || right.Op == js_ast.BinOpLogicalAnd) {
				rightLevel = js_ast.LPrefix
			}

		case js_ast.BinOpPow:
			// "**" can't contain certain unary expressions
			if left, ok := e.Left.Data.(*js_ast.EUnary); ok && left.Op.UnaryAssignTarget() == js_ast.AssignTargetNone {
				leftLevel = js_ast.LCall
			} else if _, ok := e.Left.Data.(*js_ast.EAwait); ok {
				leftLevel = js_ast.LCall
			} else if _, ok := e.Left.Data.(*js_ast.EUndefined); ok {
				// Undefined is printed as "void 0"
				leftLevel = js_ast.LCall
			} else if _, ok := e.Left.Data.(*js_ast.ENumber); ok {
				// Negative numbers are printed using a unary operator
				leftLevel = js_ast.LCall
			}
		}

		p.printExpr(e.Left, leftLevel, flags&forbidIn)

		if e.Op != js_ast.BinOpComma {
			p.printSpace()
		}

		if entry.IsKeyword {
			p.printSpaceBeforeIdentifier()
			p.print(entry.Text)
		} else {
			p.printSpaceBeforeOperator(e.Op)
			p.print(entry.Text)
			p.prevOp = e.Op
			p.prevOpEnd = len(p.js)
		}

		p.printSpace()
		p.printExpr(e.Right, rightLevel, flags&forbidIn)

		if wrap {
			p.print(")")
		}

	default:
		panic(fmt.Sprintf("Unexpected expression of type %T", expr.Data))
	}
}

func isOptionalChain(expr js_ast.Expr) bool {
	switch e := expr.Data.(type) {
	case *js_ast.EDot:
		return e.OptionalChain != js_ast.OptionalChainNone
	case *js_ast.EIndex:
		return e.OptionalChain != js_ast.OptionalChainNone
	case *js_ast.ECall:
		return e.OptionalChain != js_ast.OptionalChainNone
	}
	return false
}

func (p *printer) printDeclStmt(isExport bool, keyword string, decls []js_ast.Decl) {
	p.printIndent()
	p.printSpaceBeforeIdentifier()
	if isExport {
		p.print("export ")
	}
	p.printDecls(keyword, decls, 0)
	p.printSemicolonAfterStatement()
}

func (p *printer) printForLoopInit(init js_ast.Stmt, flags printExprFlags) {
	switch s := init.Data.(type) {
	case *js_ast.SExpr:
		p.printExpr(s.Value, js_ast.LLowest, flags)
	case *js_ast.SLocal:
		p.printDecls(localKeyword(s.Kind), s.Decls, flags)
	default:
		panic("Internal error")
	}
}

func localKeyword(kind js_ast.LocalKind) string {
	switch kind {
	case js_ast.LocalLet:
		return "let"
	case js_ast.LocalConst:
		return "const"
	}
	return "var"
}

func (p *printer) printDecls(keyword string, decls []js_ast.Decl, flags printExprFlags) {
	p.print(keyword)
	p.printSpace()

	for i, decl := range decls {
		if i != 0 {
			p.print(",")
			p.printSpace()
		}
		p.printBinding(decl.Binding)

		if decl.Value != nil {
			p.printSpace()
			p.print("=")
			p.printSpace()
			p.printExpr(*decl.Value, js_ast.LComma, flags)
		}
	}
}

func (p *printer) printBody(body js_ast.Stmt) {
	if block, ok := body.Data.(*js_ast.SBlock); ok {
		p.printSpace()
		p.printBlock(body.Loc, block.Stmts)
		p.printNewline()
	} else {
		p.printNewline()
		p.options.Indent++
		p.printStmt(body)
		p.options.Indent--
	}
}

func (p *printer) printBlock(loc logger.Loc, stmts []js_ast.Stmt) {
	p.addSourceMapping(loc)
	p.print("{")
	p.printNewline()

	p.options.Indent++
	for _, stmt := range stmts {
		p.printStmt(stmt)
	}
	p.options.Indent--

	p.printIndent()
	p.print("}")
}

func wrapToAvoidAmbiguousElse(s js_ast.S) bool {
	for {
		switch current := s.(type) {
		case *js_ast.SIf:
			if current.No == nil {
				return true
			}
			s = current.No.Data

		case *js_ast.SFor:
			s = current.Body.Data

		case *js_ast.SForIn:
			s = current.Body.Data

		case *js_ast.SForOf:
			s = current.Body.Data

		case *js_ast.SWhile:
			s = current.Body.Data

		case *js_ast.SWith:
			s = current.Body.Data

		case *js_ast.SLabel:
			s = current.Stmt.Data

		default:
			return false
		}
	}
}

func (p *printer) printIf(s *js_ast.SIf) {
	p.printSpaceBeforeIdentifier()
	p.print("if")
	p.printSpace()
	p.print("(")
	p.printExpr(s.Test, js_ast.LLowest, 0)
	p.print(")")

	if yes, ok := s.Yes.Data.(*js_ast.SBlock); ok {
		p.printSpace()
		p.printBlock(s.Yes.Loc, yes.Stmts)

		if s.No != nil {
			p.printSpace()
		} else {
			p.printNewline()
		}
	} else if wrapToAvoidAmbiguousElse(s.Yes.Data) {
		p.printSpace()
		p.print("{")
		p.printNewline()

		p.options.Indent++
		p.printStmt(s.Yes)
		p.options.Indent--

		p.printIndent()
		p.print("}")

		if s.No != nil {
			p.printSpace()
		} else {
			p.printNewline()
		}
	} else {
		p.printNewline()
		p.options.Indent++
		p.printStmt(s.Yes)
		p.options.Indent--

		if s.No != nil {
			p.printIndent()
		}
	}

	if s.No != nil {
		no := *s.No
		p.printSpaceBeforeIdentifier()
		p.print("else")

		if block, ok := no.Data.(*js_ast.SBlock); ok {
			p.printSpace()
			p.printBlock(no.Loc, block.Stmts)
			p.printNewline()
		} else if ifStmt, ok := no.Data.(*js_ast.SIf); ok {
			p.printSpace()
			p.printIf(ifStmt)
		} else {
			p.printNewline()
			p.options.Indent++
			p.printStmt(no)
			p.options.Indent--
		}
	}
}

// Source map comments of the input are dropped. The compiler appends its own.
func isSourceMapComment(text string) bool {
	return strings.Contains(text, "sourceMappingURL=")
}

func (p *printer) printLeadingComments(loc logger.Loc) {
	if p.inHelpers || loc.Start < 0 || p.printedComments[loc] {
		return
	}
	comments := p.tree.LeadingComments(loc)
	if len(comments) == 0 {
		return
	}
	p.printedComments[loc] = true

	for _, comment := range comments {
		if isSourceMapComment(comment.Text) {
			continue
		}
		p.printIndentedComment(comment)
	}
}

func (p *printer) printIndentedComment(comment js_ast.Comment) {
	text := comment.Text

	if comment.IsBlock() {
		contents := p.tree.Source.Contents
		if int(comment.Loc.Start) <= len(contents) {
			text = helpers.RemoveMultiLineCommentIndent(contents[:comment.Loc.Start], text)
		}

		// Re-indent multi-line comments
		for {
			newline := strings.IndexByte(text, '\n')
			if newline == -1 {
				break
			}
			p.printIndent()
			p.print(text[:newline+1])
			text = text[newline+1:]
		}
		p.printIndent()
		p.print(text)
		p.printNewline()
	} else {
		// Print a mandatory newline after single-line comments
		p.printIndent()
		p.print(text)
		p.print("\n")
	}
}

func (p *printer) printPath(path string, attributes *js_ast.Expr) {
	p.printQuotedUTF16(helpers.StringToUTF16(path))

	if attributes != nil {
		p.printSpace()
		p.print("with")
		p.printSpace()
		p.printExpr(*attributes, js_ast.LComma, 0)
	}
}

func (p *printer) printExportItems(items []js_ast.ClauseItem, isFrom bool) {
	p.print("{")
	for i, item := range items {
		if i != 0 {
			p.print(",")
		}
		p.printSpace()

		p.addSourceMapping(item.Name.Loc)
		if isFrom {
			p.printClauseAlias(item.Name.Name)
		} else {
			p.printName(item.Name.Loc, item.Name.Name)
		}
		if item.Name.Name != item.Alias {
			p.printSpace()
			p.printSpaceBeforeIdentifier()
			p.print("as")
			p.printSpace()
			p.printClauseAlias(item.Alias)
		}
	}
	if len(items) > 0 {
		p.printSpace()
	}
	p.print("}")
}

func (p *printer) printHelpers(s *js_ast.SHelpers) {
	wasInHelpers := p.inHelpers
	p.inHelpers = true
	for _, stmt := range s.Stmts {
		p.printStmt(stmt)
	}
	p.inHelpers = wasInHelpers
}

func (p *printer) printStmt(stmt js_ast.Stmt) {
	if s, ok := stmt.Data.(*js_ast.SHelpers); ok {
		p.printHelpers(s)
		return
	}

	p.printLeadingComments(stmt.Loc)
	p.addSourceMapping(stmt.Loc)

	switch s := stmt.Data.(type) {
	case *js_ast.SFunction:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		if s.IsExport {
			p.print("export ")
		}
		p.printFnHead(s.Fn)
		p.printFn(s.Fn)
		p.printNewline()

	case *js_ast.SClass:
		p.printIndent()
		p.printDecorators(s.Class.Decorators, true)
		p.printSpaceBeforeIdentifier()
		if s.IsExport {
			p.print("export ")
		}
		p.printClassHead(s.Class)
		p.printClass(s.Class)
		p.printNewline()

	case *js_ast.SEmpty:
		p.printIndent()
		p.print(";")
		p.printNewline()

	case *js_ast.SExportDefault:
		p.printIndent()
		p.printSpaceBeforeIdentifier()

		if s.Value.Stmt != nil {
			switch s2 := s.Value.Stmt.Data.(type) {
			case *js_ast.SFunction:
				p.print("export default")
				p.printSpace()
				p.printFnHead(s2.Fn)
				p.printFn(s2.Fn)
				p.printNewline()

			case *js_ast.SClass:
				p.printDecorators(s2.Class.Decorators, true)
				p.printSpaceBeforeIdentifier()
				p.print("export default")
				p.printSpace()
				p.printClassHead(s2.Class)
				p.printClass(s2.Class)
				p.printNewline()

			default:
				panic("Internal error")
			}
			break
		}

		p.print("export default")
		p.printSpace()

		// Functions and classes must be wrapped to avoid confusion with their statement forms
		p.exportDefaultStart = len(p.js)
		p.printExpr(*s.Value.Expr, js_ast.LComma, 0)
		p.printSemicolonAfterStatement()

	case *js_ast.SExportStar:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.print("export")
		p.printSpace()
		p.print("*")
		p.printSpace()
		if s.Alias != nil {
			p.print("as")
			p.printSpace()
			p.printClauseAlias(s.Alias.Name)
			p.printSpace()
			p.printSpaceBeforeIdentifier()
		}
		p.print("from")
		p.printSpace()
		p.printPath(s.Path, s.Attributes)
		p.printSemicolonAfterStatement()

	case *js_ast.SExportClause:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.print("export")
		p.printSpace()
		p.printExportItems(s.Items, false)
		p.printSemicolonAfterStatement()

	case *js_ast.SExportFrom:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.print("export")
		p.printSpace()
		p.printExportItems(s.Items, true)
		p.printSpace()
		p.print("from")
		p.printSpace()
		p.printPath(s.Path, s.Attributes)
		p.printSemicolonAfterStatement()

	case *js_ast.SLocal:
		p.printDeclStmt(s.IsExport, localKeyword(s.Kind), s.Decls)

	case *js_ast.SIf:
		p.printIndent()
		p.printIf(s)

	case *js_ast.SDoWhile:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.print("do")
		if block, ok := s.Body.Data.(*js_ast.SBlock); ok {
			p.printSpace()
			p.printBlock(s.Body.Loc, block.Stmts)
			p.printSpace()
		} else {
			p.printNewline()
			p.options.Indent++
			p.printStmt(s.Body)
			p.options.Indent--
			p.printIndent()
		}
		p.print("while")
		p.printSpace()
		p.print("(")
		p.printExpr(s.Test, js_ast.LLowest, 0)
		p.print(")")
		p.printSemicolonAfterStatement()

	case *js_ast.SForIn:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.print("for")
		p.printSpace()
		p.print("(")
		p.printForLoopInit(s.Init, forbidIn)
		p.printSpace()
		p.printSpaceBeforeIdentifier()
		p.print("in")
		p.printSpace()
		p.printExpr(s.Value, js_ast.LLowest, 0)
		p.print(")")
		p.printBody(s.Body)

	case *js_ast.SForOf:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.print("for")
		if s.IsAwait {
			p.print(" await")
		}
		p.printSpace()
		p.print("(")
		p.forOfInitStart = len(p.js)
		flags := forbidIn | isFollowedByOf
		if s.IsAwait {
			flags |= isInsideForAwait
		}
		p.printForLoopInit(s.Init, flags)
		p.printSpace()
		p.printSpaceBeforeIdentifier()
		p.print("of")
		p.printSpace()
		p.printExpr(s.Value, js_ast.LComma, 0)
		p.print(")")
		p.printBody(s.Body)

	case *js_ast.SWhile:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.print("while")
		p.printSpace()
		p.print("(")
		p.printExpr(s.Test, js_ast.LLowest, 0)
		p.print(")")
		p.printBody(s.Body)

	case *js_ast.SWith:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.print("with")
		p.printSpace()
		p.print("(")
		p.printExpr(s.Value, js_ast.LLowest, 0)
		p.print(")")
		p.printBody(s.Body)

	case *js_ast.SLabel:
		p.printIndent()
		p.printName(s.Name.Loc, s.Name.Name)
		p.print(":")
		p.printBody(s.Stmt)

	case *js_ast.STry:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.print("try")
		p.printSpace()
		p.printBlock(stmt.Loc, s.Body)

		if s.Catch != nil {
			p.printSpace()
			p.print("catch")
			if s.Catch.Binding != nil {
				p.printSpace()
				p.print("(")
				p.printBinding(*s.Catch.Binding)
				p.print(")")
			}
			p.printSpace()
			p.printBlock(s.Catch.Loc, s.Catch.Body)
		}

		if s.Finally != nil {
			p.printSpace()
			p.print("finally")
			p.printSpace()
			p.printBlock(s.Finally.Loc, s.Finally.Stmts)
		}

		p.printNewline()

	case *js_ast.SFor:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.print("for")
		p.printSpace()
		p.print("(")
		if s.Init != nil {
			p.printForLoopInit(*s.Init, forbidIn)
		}
		p.print(";")
		if s.Test != nil {
			p.printSpace()
			p.printExpr(*s.Test, js_ast.LLowest, 0)
		}
		p.print(";")
		if s.Update != nil {
			p.printSpace()
			p.printExpr(*s.Update, js_ast.LLowest, 0)
		}
		p.print(")")
		p.printBody(s.Body)

	case *js_ast.SSwitch:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.print("switch")
		p.printSpace()
		p.print("(")
		p.printExpr(s.Test, js_ast.LLowest, 0)
		p.print(")")
		p.printSpace()
		p.print("{")
		p.printNewline()
		p.options.Indent++

		for _, c := range s.Cases {
			p.printIndent()

			if c.Value != nil {
				p.print("case")
				p.printSpace()
				p.printExpr(*c.Value, js_ast.LLogicalAnd, 0)
			} else {
				p.print("default")
			}
			p.print(":")

			if len(c.Body) == 1 {
				if block, ok := c.Body[0].Data.(*js_ast.SBlock); ok {
					p.printSpace()
					p.printBlock(c.Body[0].Loc, block.Stmts)
					p.printNewline()
					continue
				}
			}

			p.printNewline()
			p.options.Indent++
			for _, stmt := range c.Body {
				p.printStmt(stmt)
			}
			p.options.Indent--
		}

		p.options.Indent--
		p.printIndent()
		p.print("}")
		p.printNewline()

	case *js_ast.SImport:
		itemCount := 0

		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.print("import")
		p.printSpace()

		if s.DefaultName != nil {
			p.printName(s.DefaultName.Loc, s.DefaultName.Name)
			itemCount++
		}

		if s.Items != nil {
			if itemCount > 0 {
				p.print(",")
				p.printSpace()
			}

			p.print("{")
			for i, item := range *s.Items {
				if i != 0 {
					p.print(",")
				}
				p.printSpace()

				p.addSourceMapping(item.AliasLoc)
				p.printClauseAlias(item.Alias)
				if item.Name.Name != item.Alias {
					p.printSpace()
					p.printSpaceBeforeIdentifier()
					p.print("as")
					p.printSpace()
					p.printName(item.Name.Loc, item.Name.Name)
				}
			}
			if len(*s.Items) > 0 {
				p.printSpace()
			}
			p.print("}")
			itemCount++
		}

		if s.StarName != nil {
			if itemCount > 0 {
				p.print(",")
				p.printSpace()
			}

			p.print("*")
			p.printSpace()
			p.print("as")
			p.printName(s.StarName.Loc, s.StarName.Name)
			itemCount++
		}

		if itemCount > 0 {
			p.printSpace()
			p.printSpaceBeforeIdentifier()
			p.print("from")
			p.printSpace()
		}

		p.addSourceMapping(s.PathLoc)
		p.printPath(s.Path, s.Attributes)
		p.printSemicolonAfterStatement()

	case *js_ast.SBlock:
		p.printIndent()
		p.printBlock(stmt.Loc, s.Stmts)
		p.printNewline()

	case *js_ast.SDebugger:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.print("debugger")
		p.printSemicolonAfterStatement()

	case *js_ast.SDirective:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.printQuotedUTF16(s.Value)
		p.printSemicolonAfterStatement()

	case *js_ast.SBreak:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.print("break")
		if s.Label != nil {
			p.print(" ")
			p.printName(s.Label.Loc, s.Label.Name)
		}
		p.printSemicolonAfterStatement()

	case *js_ast.SContinue:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.print("continue")
		if s.Label != nil {
			p.print(" ")
			p.printName(s.Label.Loc, s.Label.Name)
		}
		p.printSemicolonAfterStatement()

	case *js_ast.SReturn:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.print("return")
		if s.Value != nil {
			p.printSpace()
			p.printExpr(*s.Value, js_ast.LLowest, 0)
		}
		p.printSemicolonAfterStatement()

	case *js_ast.SThrow:
		p.printIndent()
		p.printSpaceBeforeIdentifier()
		p.print("throw")
		p.printSpace()
		p.printExpr(s.Value, js_ast.LLowest, 0)
		p.printSemicolonAfterStatement()

	case *js_ast.SExpr:
		p.printIndent()
		p.stmtStart = len(p.js)
		p.printExpr(s.Value, js_ast.LLowest, 0)
		p.printSemicolonAfterStatement()

	default:
		panic(fmt.Sprintf("Unexpected statement of type %T", stmt.Data))
	}
}

type Options struct {
	// This will be present if the input file had a source map. In that case we
	// want to map all the way back to the original input file(s).
	InputSourceMap *sourcemap.SourceMap

	// If we're writing out a source map, this table of line start indices lets
	// us do binary search on to figure out what line a given AST node came from
	LineOffsetTables []sourcemap.LineOffsetTable

	// Reports names the compiler generated. They are recorded in the source
	// map without an original name.
	IsSynthesizedName func(name string) bool

	Indent            int
	AddSourceMappings bool
}

type PrintResult struct {
	JS []byte

	// This source map chunk just contains the VLQ-encoded offsets for the "JS"
	// field above. It's not a full source map.
	SourceMapChunk sourcemap.Chunk
}

func Print(tree js_ast.AST, options Options) PrintResult {
	p := &printer{
		tree:               &tree,
		options:            options,
		printedComments:    make(map[logger.Loc]bool),
		stmtStart:          -1,
		exportDefaultStart: -1,
		arrowExprStart:     -1,
		forOfInitStart:     -1,
		prevOpEnd:          -1,
		prevNumEnd:         -1,
		prevRegExpEnd:      -1,
		builder:            sourcemap.MakeChunkBuilder(options.InputSourceMap, options.LineOffsetTables),
	}

	if tree.Hashbang != "" {
		p.print(tree.Hashbang)
		p.printNewline()
	}

	for _, stmt := range tree.Stmts {
		p.printStmt(stmt)
	}

	// Comments at the end of the file are keyed by the end-of-file token
	p.printLeadingComments(logger.Loc{Start: int32(len(tree.Source.Contents))})

	return PrintResult{
		JS:             p.js,
		SourceMapChunk: p.builder.GenerateChunk(p.js),
	}
}

// PrintArg renders a function parameter without its default value, the way
// it would appear in a parameter list.
func PrintArg(arg js_ast.Arg, isRest bool) string {
	p := &printer{
		tree:               &js_ast.AST{},
		printedComments:    make(map[logger.Loc]bool),
		stmtStart:          -1,
		exportDefaultStart: -1,
		arrowExprStart:     -1,
		forOfInitStart:     -1,
		prevOpEnd:          -1,
		prevNumEnd:         -1,
		prevRegExpEnd:      -1,
	}
	if isRest {
		p.print("...")
	}
	p.printBinding(arg.Binding)
	return string(p.js)
}
