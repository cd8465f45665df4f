// This file contains code for parsing TypeScript syntax. The parser just skips
// over type expressions as if they are whitespace and doesn't bother
// generating an AST because nothing uses type information.

package js_parser

import (
	"github.com/jymfony/scriba/internal/js_ast"
	"github.com/jymfony/scriba/internal/js_lexer"
	"github.com/jymfony/scriba/internal/logger"
)

func (p *parser) skipTypeScriptTypeAnnotation() {
	if p.lexer.Token == js_lexer.TColon {
		p.lexer.Next()
		p.skipTypeScriptType(js_ast.LLowest)
	}
}

// Return types may also be type predicates: "x is T" and "asserts x is T"
func (p *parser) skipTypeScriptReturnType() {
	if p.lexer.Token != js_lexer.TColon {
		return
	}
	p.lexer.Next()

	if p.lexer.IsContextualKeyword("asserts") {
		oldLexer := p.lexer
		p.lexer.Next()
		if (p.lexer.Token == js_lexer.TIdentifier || p.lexer.Token == js_lexer.TThis) && !p.lexer.HasNewlineBefore {
			p.lexer.Next()
			if p.lexer.IsContextualKeyword("is") {
				p.lexer.Next()
				p.skipTypeScriptType(js_ast.LLowest)
			}
			return
		}
		p.lexer = oldLexer
	}

	if p.lexer.Token == js_lexer.TIdentifier || p.lexer.Token == js_lexer.TThis {
		oldLexer := p.lexer
		p.lexer.Next()
		if p.lexer.IsContextualKeyword("is") && !p.lexer.HasNewlineBefore {
			p.lexer.Next()
			p.skipTypeScriptType(js_ast.LLowest)
			return
		}
		p.lexer = oldLexer
	}

	p.skipTypeScriptType(js_ast.LLowest)
}

func (p *parser) skipTypeScriptType(level js_ast.L) {
	p.skipTypeScriptTypePrefix()
	p.skipTypeScriptTypeSuffix(level)
}

// Type operators such as "keyof T". They are only operators when something
// that can start a type follows.
var typeScriptTypeOperators = map[string]bool{
	"keyof":    true,
	"unique":   true,
	"readonly": true,
	"infer":    true,
	"abstract": true,
}

func (p *parser) canStartTypeScriptType() bool {
	switch p.lexer.Token {
	case js_lexer.TComma, js_lexer.TCloseParen, js_lexer.TCloseBracket, js_lexer.TCloseBrace,
		js_lexer.TGreaterThan, js_lexer.TEquals, js_lexer.TSemicolon, js_lexer.TColon,
		js_lexer.TBar, js_lexer.TAmpersand, js_lexer.TQuestion, js_lexer.TEndOfFile,
		js_lexer.TEqualsGreaterThan:
		return false
	}
	return true
}

func (p *parser) skipTypeScriptTypePrefix() {
	switch p.lexer.Token {
	case js_lexer.TBar, js_lexer.TAmpersand:
		// Leading "|" or "&" in a union or intersection
		p.lexer.Next()
		p.skipTypeScriptTypePrefix()

	case js_lexer.TNumericLiteral, js_lexer.TBigIntegerLiteral, js_lexer.TStringLiteral,
		js_lexer.TNoSubstitutionTemplateLiteral, js_lexer.TTrue, js_lexer.TFalse,
		js_lexer.TNull, js_lexer.TVoid, js_lexer.TThis:
		p.lexer.Next()

	case js_lexer.TTemplateHead:
		p.skipTypeScriptTemplateType()

	case js_lexer.TMinus:
		// "-1" and "-1n"
		p.lexer.Next()
		if p.lexer.Token == js_lexer.TBigIntegerLiteral {
			p.lexer.Next()
		} else {
			p.lexer.Expect(js_lexer.TNumericLiteral)
		}

	case js_lexer.TTypeof:
		p.lexer.Next()
		if p.lexer.Token == js_lexer.TImport {
			p.skipTypeScriptImportType()
		} else {
			p.skipTypeScriptEntityName()
		}

	case js_lexer.TImport:
		p.skipTypeScriptImportType()

	case js_lexer.TNew:
		// "new () => Foo"
		p.lexer.Next()
		p.skipTypeScriptTypeParameters()
		p.skipTypeScriptParenOrFnType()

	case js_lexer.TLessThan:
		// "<T>() => Foo"
		p.skipTypeScriptTypeParameters()
		p.skipTypeScriptParenOrFnType()

	case js_lexer.TOpenParen:
		p.skipTypeScriptParenOrFnType()

	case js_lexer.TOpenBracket:
		p.skipTypeScriptBalanced()

	case js_lexer.TOpenBrace:
		p.skipTypeScriptBalanced()

	case js_lexer.TIdentifier:
		if typeScriptTypeOperators[p.lexer.Identifier] {
			oldLexer := p.lexer
			p.lexer.Next()
			if !p.lexer.HasNewlineBefore && p.canStartTypeScriptType() {
				p.skipTypeScriptTypePrefix()

				// "infer U extends V"
				if oldLexer.Identifier == "infer" && p.lexer.Token == js_lexer.TExtends {
					p.trySpeculative(func() {
						p.lexer.Next()
						p.skipTypeScriptType(js_ast.LConditional)
						if p.lexer.Token == js_lexer.TQuestion {
							p.lexer.Unexpected()
						}
					})
				}
				return
			}
			p.lexer = oldLexer
		}
		p.skipTypeScriptEntityName()

	default:
		if p.lexer.IsIdentifierOrKeyword() {
			p.skipTypeScriptEntityName()
			return
		}
		p.lexer.Unexpected()
	}
}

func (p *parser) skipTypeScriptTypeSuffix(level js_ast.L) {
	for {
		switch p.lexer.Token {
		case js_lexer.TBar:
			if level >= js_ast.LBitwiseOr {
				return
			}
			p.lexer.Next()
			p.skipTypeScriptType(js_ast.LBitwiseOr)

		case js_lexer.TAmpersand:
			if level >= js_ast.LBitwiseAnd {
				return
			}
			p.lexer.Next()
			p.skipTypeScriptType(js_ast.LBitwiseAnd)

		case js_lexer.TOpenBracket:
			// "T[]" and "T[K]" must be on the same line
			if p.lexer.HasNewlineBefore {
				return
			}
			p.lexer.Next()
			if p.lexer.Token != js_lexer.TCloseBracket {
				p.skipTypeScriptType(js_ast.LLowest)
			}
			p.lexer.Expect(js_lexer.TCloseBracket)

		case js_lexer.TDot:
			p.lexer.Next()
			if !p.lexer.IsIdentifierOrKeyword() {
				p.lexer.Expect(js_lexer.TIdentifier)
			}
			p.lexer.Next()
			p.skipTypeScriptTypeArguments()

		case js_lexer.TExtends:
			// "A extends B ? C : D"
			if p.lexer.HasNewlineBefore || level >= js_ast.LConditional {
				return
			}
			p.lexer.Next()
			p.skipTypeScriptType(js_ast.LConditional)
			p.lexer.Expect(js_lexer.TQuestion)
			p.skipTypeScriptType(js_ast.LLowest)
			p.lexer.Expect(js_lexer.TColon)
			p.skipTypeScriptType(js_ast.LLowest)

		default:
			return
		}
	}
}

func (p *parser) skipTypeScriptEntityName() {
	if !p.lexer.IsIdentifierOrKeyword() {
		p.lexer.Expect(js_lexer.TIdentifier)
	}
	p.lexer.Next()
	for p.lexer.Token == js_lexer.TDot {
		p.lexer.Next()
		if !p.lexer.IsIdentifierOrKeyword() {
			p.lexer.Expect(js_lexer.TIdentifier)
		}
		p.lexer.Next()
	}
	if !p.lexer.HasNewlineBefore {
		p.skipTypeScriptTypeArguments()
	}
}

// "import('path').Foo<T>"
func (p *parser) skipTypeScriptImportType() {
	p.lexer.Expect(js_lexer.TImport)
	p.lexer.Expect(js_lexer.TOpenParen)
	p.lexer.Expect(js_lexer.TStringLiteral)
	p.lexer.Expect(js_lexer.TCloseParen)
	for p.lexer.Token == js_lexer.TDot {
		p.lexer.Next()
		if !p.lexer.IsIdentifierOrKeyword() {
			p.lexer.Expect(js_lexer.TIdentifier)
		}
		p.lexer.Next()
	}
	p.skipTypeScriptTypeArguments()
}

func (p *parser) skipTypeScriptTemplateType() {
	for {
		p.lexer.Next()
		p.skipTypeScriptType(js_ast.LLowest)
		p.lexer.RescanCloseBraceAsTemplateToken()
		if p.lexer.Token == js_lexer.TTemplateTail {
			p.lexer.Next()
			return
		}
	}
}

// Either "(T)" or "(a: T) => U"
func (p *parser) skipTypeScriptParenOrFnType() {
	p.skipTypeScriptBalanced()
	if p.lexer.Token == js_lexer.TEqualsGreaterThan {
		p.lexer.Next()
		p.skipTypeScriptReturnTypeAfterArrow()
	}
}

func (p *parser) skipTypeScriptReturnTypeAfterArrow() {
	if p.lexer.Token == js_lexer.TIdentifier || p.lexer.Token == js_lexer.TThis {
		oldLexer := p.lexer
		p.lexer.Next()
		if p.lexer.IsContextualKeyword("is") && !p.lexer.HasNewlineBefore {
			p.lexer.Next()
			p.skipTypeScriptType(js_ast.LLowest)
			return
		}
		p.lexer = oldLexer
	}
	p.skipTypeScriptType(js_ast.LLowest)
}

// Skips a bracketed group starting at the current "(", "[" or "{" token,
// including everything nested inside it.
func (p *parser) skipTypeScriptBalanced() {
	depth := 0
	for {
		switch p.lexer.Token {
		case js_lexer.TOpenParen, js_lexer.TOpenBracket, js_lexer.TOpenBrace:
			depth++

		case js_lexer.TCloseParen, js_lexer.TCloseBracket, js_lexer.TCloseBrace:
			depth--

		case js_lexer.TTemplateHead:
			p.skipTypeScriptTemplateType()
			continue

		case js_lexer.TEndOfFile:
			p.lexer.Unexpected()
		}

		p.lexer.Next()
		if depth == 0 {
			return
		}
	}
}

func (p *parser) skipTypeScriptTypeParameters() {
	if p.lexer.Token != js_lexer.TLessThan {
		return
	}
	p.lexer.Next()

	for p.lexer.Token != js_lexer.TGreaterThan {
		// "<const T>", "<in T>", "<out T>"
		for p.lexer.Token == js_lexer.TConst || p.lexer.Token == js_lexer.TIn || p.lexer.IsContextualKeyword("out") {
			oldLexer := p.lexer
			p.lexer.Next()
			if p.lexer.Token != js_lexer.TIdentifier && p.lexer.Token != js_lexer.TIn {
				p.lexer = oldLexer
				break
			}
		}

		p.lexer.Expect(js_lexer.TIdentifier)

		// "class Foo<T extends number> {}"
		if p.lexer.Token == js_lexer.TExtends {
			p.lexer.Next()
			p.skipTypeScriptType(js_ast.LLowest)
		}

		// "class Foo<T = void> {}"
		if p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			p.skipTypeScriptType(js_ast.LLowest)
		}

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.ExpectGreaterThan()
}

func (p *parser) skipTypeScriptTypeArguments() {
	if p.lexer.Token != js_lexer.TLessThan {
		return
	}
	p.lexer.Next()

	for {
		p.skipTypeScriptType(js_ast.LLowest)
		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.ExpectGreaterThan()
}

// "f<T>(x)" is a call with explicit type arguments, but "a < b" is a
// comparison. The type arguments are only consumed when a call or a tagged
// template follows them.
func (p *parser) tryParseTypeArgumentsInExpression() bool {
	return p.trySpeculative(func() {
		p.skipTypeScriptTypeArguments()
		switch p.lexer.Token {
		case js_lexer.TOpenParen, js_lexer.TNoSubstitutionTemplateLiteral, js_lexer.TTemplateHead:

		default:
			p.lexer.Unexpected()
		}
	})
}

// Parameter properties: "constructor(private readonly x: number) {}"
func (p *parser) skipTypeScriptParameterModifiers() {
	for p.lexer.Token == js_lexer.TIdentifier {
		switch p.lexer.Identifier {
		case "public", "private", "protected", "readonly", "override":
			oldLexer := p.lexer
			p.lexer.Next()
			switch p.lexer.Token {
			case js_lexer.TIdentifier, js_lexer.TOpenBrace, js_lexer.TOpenBracket:
				continue
			}
			p.lexer = oldLexer
		}
		return
	}
}

// Parses declarations that start with a contextual keyword and only exist in
// TypeScript. Returns false when the identifier turns out to be an expression.
func (p *parser) parseTypeScriptDecl(loc logger.Loc, opts parseStmtOpts) (js_ast.Stmt, bool) {
	oldLexer := p.lexer
	keyword := p.lexer.Identifier
	p.lexer.Next()
	if p.lexer.HasNewlineBefore {
		p.lexer = oldLexer
		return js_ast.Stmt{}, false
	}

	typeOnly := func() (js_ast.Stmt, bool) {
		p.lastStmtWasType = true
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SEmpty{}}, true
	}

	switch keyword {
	case "type":
		// "export type { Foo } from 'path'"
		if p.lexer.Token == js_lexer.TOpenBrace {
			p.skipTypeScriptBalanced()
			if p.lexer.IsContextualKeyword("from") {
				p.lexer.Next()
				p.parsePath()
			}
			p.lexer.ExpectOrInsertSemicolon()
			return typeOnly()
		}

		// "type Foo<T> = Bar<T>"
		if p.lexer.Token == js_lexer.TIdentifier {
			p.lexer.Next()
			p.skipTypeScriptTypeParameters()
			p.lexer.Expect(js_lexer.TEquals)
			p.skipTypeScriptType(js_ast.LLowest)
			p.lexer.ExpectOrInsertSemicolon()
			return typeOnly()
		}

	case "interface":
		if p.lexer.Token == js_lexer.TIdentifier {
			p.lexer.Next()
			p.skipTypeScriptTypeParameters()
			if p.lexer.Token == js_lexer.TExtends {
				p.lexer.Next()
				for {
					p.skipTypeScriptType(js_ast.LLowest)
					if p.lexer.Token != js_lexer.TComma {
						break
					}
					p.lexer.Next()
				}
			}
			if p.lexer.Token != js_lexer.TOpenBrace {
				p.lexer.Expected(js_lexer.TOpenBrace)
			}
			p.skipTypeScriptBalanced()
			return typeOnly()
		}

	case "abstract":
		if p.lexer.Token == js_lexer.TClass {
			return p.parseClassStmt(loc, opts.decorators, false), true
		}

	case "declare":
		switch {
		case p.lexer.IsContextualKeyword("module"), p.lexer.IsContextualKeyword("namespace"),
			p.lexer.IsContextualKeyword("global"), p.lexer.Token == js_lexer.TEnum:
			// "declare module 'path' { ... }"
			for p.lexer.Token != js_lexer.TOpenBrace && p.lexer.Token != js_lexer.TSemicolon {
				if p.lexer.Token == js_lexer.TEndOfFile {
					p.lexer.Unexpected()
				}
				p.lexer.Next()
			}
			if p.lexer.Token == js_lexer.TOpenBrace {
				p.skipTypeScriptBalanced()
			} else {
				p.lexer.Next()
			}
			return typeOnly()

		case p.lexer.Token == js_lexer.TIdentifier, p.lexer.Token == js_lexer.TVar, p.lexer.Token == js_lexer.TConst,
			p.lexer.Token == js_lexer.TFunction, p.lexer.Token == js_lexer.TClass:
			// Ambient declarations are parsed normally and then discarded
			p.parseStmt(parseStmtOpts{allowLexicalDecls: true})
			return typeOnly()
		}

	case "namespace", "module":
		if p.lexer.Token == js_lexer.TIdentifier || p.lexer.Token == js_lexer.TStringLiteral {
			p.addRangeError(logger.Range{Loc: loc, Len: int32(len(keyword))}, "TypeScript namespaces are not supported")
		}
	}

	p.lexer = oldLexer
	return js_ast.Stmt{}, false
}
