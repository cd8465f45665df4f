package js_parser

import (
	"github.com/jymfony/scriba/internal/helpers"
	"github.com/jymfony/scriba/internal/js_ast"
	"github.com/jymfony/scriba/internal/js_lexer"
	"github.com/jymfony/scriba/internal/logger"
)

// This parser does two things:
//
// 1. Parse the source code into an AST
// 2. Erase TypeScript-only syntax (type annotations, interfaces, modifiers)
//
// Names are not bound to symbols. The passes that run afterwards operate on
// identifier text and track whatever scope information they need.

type Options struct {
	TS bool
}

type parser struct {
	log     logger.Log
	source  logger.Source
	lexer   js_lexer.Lexer
	options Options

	allowIn   bool
	fnOrArrow fnOrArrowDataParse

	// Set when a statement was a TypeScript-only declaration that produced
	// no code
	lastStmtWasType bool
}

type fnOrArrowDataParse struct {
	allowAwait bool
	allowYield bool
}

type parseStmtOpts struct {
	isModuleScope     bool
	allowDirectives   bool
	allowLexicalDecls bool
	decorators        []js_ast.Expr
	decoratorsLoc     *logger.Loc
}

func Parse(log logger.Log, source logger.Source, options Options) (result js_ast.AST, ok bool) {
	ok = true
	defer func() {
		r := recover()
		if _, isLexerPanic := r.(js_lexer.LexerPanic); isLexerPanic {
			ok = false
		} else if r != nil {
			panic(r)
		}
	}()

	p := &parser{
		log:     log,
		source:  source,
		lexer:   js_lexer.NewLexer(log, source),
		options: options,
		allowIn: true,

		// Top-level await is allowed in modules
		fnOrArrow: fnOrArrowDataParse{allowAwait: true},
	}

	// Consume a leading hashbang comment
	if p.lexer.Token == js_lexer.THashbang {
		result.Hashbang = p.lexer.Identifier
		p.lexer.Next()
	}

	result.Stmts = p.parseStmtsUpTo(js_lexer.TEndOfFile, parseStmtOpts{
		isModuleScope:     true,
		allowDirectives:   true,
		allowLexicalDecls: true,
	})
	result.Comments = p.lexer.Comments()
	result.Source = source
	return
}

// ParseExpr parses a standalone expression such as a function or arrow
// function. The whole input must be consumed.
func ParseExpr(log logger.Log, source logger.Source, options Options) (expr js_ast.Expr, ok bool) {
	ok = true
	defer func() {
		r := recover()
		if _, isLexerPanic := r.(js_lexer.LexerPanic); isLexerPanic {
			ok = false
		} else if r != nil {
			panic(r)
		}
	}()

	p := &parser{
		log:     log,
		source:  source,
		lexer:   js_lexer.NewLexer(log, source),
		options: options,
		allowIn: true,
	}
	expr = p.parseExpr(js_ast.LComma)
	if p.lexer.Token == js_lexer.TSemicolon {
		p.lexer.Next()
	}
	p.lexer.Expect(js_lexer.TEndOfFile)
	return
}

func (p *parser) addRangeError(r logger.Range, text string) {
	if !p.lexer.IsLogDisabled {
		p.log.AddRangeError(&p.source, r, text)
	}
	panic(js_lexer.LexerPanic{})
}

// Runs "fn" with the log disabled. If it fails, the lexer is rewound and
// false is returned.
func (p *parser) trySpeculative(fn func()) (ok bool) {
	oldLexer := p.lexer
	oldAllowIn := p.allowIn
	p.lexer.IsLogDisabled = true

	defer func() {
		r := recover()
		if _, isLexerPanic := r.(js_lexer.LexerPanic); isLexerPanic {
			p.lexer = oldLexer
			p.allowIn = oldAllowIn
			ok = false
		} else if r != nil {
			panic(r)
		}
	}()

	fn()
	p.lexer.IsLogDisabled = oldLexer.IsLogDisabled
	return true
}

func (p *parser) parseStmtsUpTo(end js_lexer.T, opts parseStmtOpts) []js_ast.Stmt {
	stmts := []js_ast.Stmt{}
	isDirectivePrologue := opts.allowDirectives
	opts.allowDirectives = false

	for p.lexer.Token != end {
		p.lastStmtWasType = false
		stmt := p.parseStmt(opts)

		// Skip TypeScript types entirely
		if _, ok := stmt.Data.(*js_ast.SEmpty); ok && p.lastStmtWasType {
			continue
		}

		if isDirectivePrologue {
			isDirectivePrologue = false
			if s, ok := stmt.Data.(*js_ast.SExpr); ok {
				if str, ok := s.Value.Data.(*js_ast.EString); ok && s.Value.Loc == stmt.Loc {
					if c := p.source.Contents[stmt.Loc.Start]; c == '"' || c == '\'' {
						stmt.Data = &js_ast.SDirective{Value: str.Value}
						isDirectivePrologue = true
					}
				}
			}
		}

		stmts = append(stmts, stmt)
	}

	return stmts
}

func (p *parser) parseFnBody(data fnOrArrowDataParse) js_ast.FnBody {
	oldFnOrArrow := p.fnOrArrow
	oldAllowIn := p.allowIn
	p.fnOrArrow = data
	p.allowIn = true

	loc := p.lexer.Loc()
	p.lexer.Expect(js_lexer.TOpenBrace)
	stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace, parseStmtOpts{
		allowDirectives:   true,
		allowLexicalDecls: true,
	})
	p.lexer.Next()

	p.fnOrArrow = oldFnOrArrow
	p.allowIn = oldAllowIn
	return js_ast.FnBody{Loc: loc, Stmts: stmts}
}

func (p *parser) parseStmt(opts parseStmtOpts) js_ast.Stmt {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TSemicolon:
		p.lexer.Next()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SEmpty{}}

	case js_lexer.TExport:
		return p.parseExportStmt(loc, opts)

	case js_lexer.TAt:
		decorators := p.parseDecorators()
		if p.lexer.Token == js_lexer.TExport {
			opts.decorators = decorators
			opts.decoratorsLoc = &loc
			return p.parseExportStmt(loc, opts)
		}
		if p.options.TS && p.lexer.IsContextualKeyword("abstract") {
			p.lexer.Next()
		}
		if p.lexer.Token != js_lexer.TClass {
			p.lexer.Expected(js_lexer.TClass)
		}
		return p.parseClassStmt(loc, decorators, false)

	case js_lexer.TFunction:
		p.lexer.Next()
		return p.parseFnStmt(loc, false, false)

	case js_lexer.TEnum:
		if p.options.TS {
			p.addRangeError(p.lexer.Range(), "TypeScript enums are not supported")
		}
		p.lexer.Unexpected()

	case js_lexer.TClass:
		return p.parseClassStmt(loc, nil, false)

	case js_lexer.TVar:
		p.lexer.Next()
		decls := p.parseAndDeclareDecls()
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalVar, Decls: decls}}

	case js_lexer.TConst:
		p.lexer.Next()
		decls := p.parseAndDeclareDecls()
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalConst, Decls: decls}}

	case js_lexer.TIf:
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseParenContents()
		p.lexer.Expect(js_lexer.TCloseParen)
		yes := p.parseStmt(parseStmtOpts{})
		var no *js_ast.Stmt
		if p.lexer.Token == js_lexer.TElse {
			p.lexer.Next()
			stmt := p.parseStmt(parseStmtOpts{})
			no = &stmt
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SIf{Test: test, Yes: yes, No: no}}

	case js_lexer.TDo:
		p.lexer.Next()
		body := p.parseStmt(parseStmtOpts{})
		p.lexer.Expect(js_lexer.TWhile)
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseParenContents()
		p.lexer.Expect(js_lexer.TCloseParen)

		// This is a weird corner case where automatic semicolon insertion applies
		// even without a newline present
		if p.lexer.Token == js_lexer.TSemicolon {
			p.lexer.Next()
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SDoWhile{Body: body, Test: test}}

	case js_lexer.TWhile:
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseParenContents()
		p.lexer.Expect(js_lexer.TCloseParen)
		body := p.parseStmt(parseStmtOpts{})
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SWhile{Test: test, Body: body}}

	case js_lexer.TWith:
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseParenContents()
		p.lexer.Expect(js_lexer.TCloseParen)
		body := p.parseStmt(parseStmtOpts{})
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SWith{Value: test, Body: body}}

	case js_lexer.TSwitch:
		return p.parseSwitchStmt(loc)

	case js_lexer.TTry:
		return p.parseTryStmt(loc)

	case js_lexer.TFor:
		return p.parseForStmt(loc)

	case js_lexer.TImport:
		return p.parseImportStmt(loc)

	case js_lexer.TOpenBrace:
		p.lexer.Next()
		stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace, parseStmtOpts{allowLexicalDecls: true})
		p.lexer.Next()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SBlock{Stmts: stmts}}

	case js_lexer.TReturn:
		p.lexer.Next()
		var value *js_ast.Expr
		if p.lexer.Token != js_lexer.TSemicolon &&
			!p.lexer.HasNewlineBefore &&
			p.lexer.Token != js_lexer.TCloseBrace &&
			p.lexer.Token != js_lexer.TEndOfFile {
			expr := p.parseExpr(js_ast.LLowest)
			value = &expr
		}
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SReturn{Value: value}}

	case js_lexer.TThrow:
		p.lexer.Next()
		if p.lexer.HasNewlineBefore {
			p.addRangeError(logger.Range{Loc: logger.Loc{Start: loc.Start + 5}},
				"Unexpected newline after \"throw\"")
		}
		expr := p.parseExpr(js_ast.LLowest)
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SThrow{Value: expr}}

	case js_lexer.TBreak, js_lexer.TContinue:
		isBreak := p.lexer.Token == js_lexer.TBreak
		p.lexer.Next()
		var label *js_ast.LocName
		if p.lexer.Token == js_lexer.TIdentifier && !p.lexer.HasNewlineBefore {
			label = &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
			p.lexer.Next()
		}
		p.lexer.ExpectOrInsertSemicolon()
		if isBreak {
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SBreak{Label: label}}
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SContinue{Label: label}}

	case js_lexer.TDebugger:
		p.lexer.Next()
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SDebugger{}}

	case js_lexer.TIdentifier:
		switch p.lexer.Identifier {
		case "async":
			// "async function foo() {}"
			oldLexer := p.lexer
			p.lexer.Next()
			if p.lexer.Token == js_lexer.TFunction && !p.lexer.HasNewlineBefore {
				p.lexer.Next()
				return p.parseFnStmt(loc, true, false)
			}
			p.lexer = oldLexer

		case "let":
			// "let x" is a declaration but "let" alone may be an identifier
			oldLexer := p.lexer
			p.lexer.Next()
			switch p.lexer.Token {
			case js_lexer.TIdentifier, js_lexer.TOpenBracket, js_lexer.TOpenBrace:
				decls := p.parseAndDeclareDecls()
				p.lexer.ExpectOrInsertSemicolon()
				return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalLet, Decls: decls}}
			}
			p.lexer = oldLexer

		default:
			if p.options.TS {
				if stmt, ok := p.parseTypeScriptDecl(loc, opts); ok {
					return stmt
				}
			}
		}
	}

	// Parse either an expression or a label
	expr := p.parseExpr(js_ast.LLowest)
	if id, ok := expr.Data.(*js_ast.EIdentifier); ok && p.lexer.Token == js_lexer.TColon {
		p.lexer.Next()
		stmt := p.parseStmt(parseStmtOpts{})
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLabel{Name: js_ast.LocName{Loc: expr.Loc, Name: id.Name}, Stmt: stmt}}
	}
	p.lexer.ExpectOrInsertSemicolon()
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: expr}}
}

func (p *parser) parseExportStmt(loc logger.Loc, opts parseStmtOpts) js_ast.Stmt {
	p.lexer.Next()

	switch p.lexer.Token {
	case js_lexer.TDefault:
		defaultLoc := p.lexer.Loc()
		p.lexer.Next()

		// "export default @dec class {}"
		decorators := opts.decorators
		classLoc := loc
		if p.lexer.Token == js_lexer.TAt {
			classLoc = p.lexer.Loc()
			decorators = append(decorators, p.parseDecorators()...)
		}
		if opts.decoratorsLoc != nil {
			classLoc = *opts.decoratorsLoc
		}

		if p.options.TS && p.lexer.IsContextualKeyword("abstract") {
			p.lexer.Next()
		}

		if p.lexer.Token == js_lexer.TClass {
			if decorators == nil {
				classLoc = p.lexer.Loc()
			}
			class := p.parseClass(classLoc, decorators, true)
			stmt := js_ast.Stmt{Loc: classLoc, Data: &js_ast.SClass{Class: class}}
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{DefaultLoc: defaultLoc, Value: js_ast.ExprOrStmt{Stmt: &stmt}}}
		}
		if decorators != nil {
			p.lexer.Expected(js_lexer.TClass)
		}

		if p.lexer.Token == js_lexer.TFunction || p.lexer.IsContextualKeyword("async") {
			fnLoc := p.lexer.Loc()
			isAsync := false
			oldLexer := p.lexer
			if p.lexer.IsContextualKeyword("async") {
				p.lexer.Next()
				if p.lexer.Token != js_lexer.TFunction || p.lexer.HasNewlineBefore {
					p.lexer = oldLexer
					goto expression
				}
				isAsync = true
			}
			p.lexer.Next()
			stmt := p.parseFnStmt(fnLoc, isAsync, true)
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{DefaultLoc: defaultLoc, Value: js_ast.ExprOrStmt{Stmt: &stmt}}}
		}

	expression:
		expr := p.parseExpr(js_ast.LComma)
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportDefault{DefaultLoc: defaultLoc, Value: js_ast.ExprOrStmt{Expr: &expr}}}

	case js_lexer.TAsterisk:
		p.lexer.Next()
		var alias *js_ast.LocName
		if p.lexer.IsContextualKeyword("as") {
			p.lexer.Next()
			name := p.parseClauseAlias()
			alias = &js_ast.LocName{Loc: p.lexer.Loc(), Name: name}
			p.lexer.Next()
		}
		p.lexer.ExpectContextualKeyword("from")
		path := p.parsePath()
		attributes := p.parseImportAttributes()
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportStar{Alias: alias, Path: path, Attributes: attributes}}

	case js_lexer.TOpenBrace:
		items := p.parseExportClause()
		if p.lexer.IsContextualKeyword("from") {
			p.lexer.Next()
			path := p.parsePath()
			attributes := p.parseImportAttributes()
			p.lexer.ExpectOrInsertSemicolon()
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportFrom{Items: items, Path: path, Attributes: attributes}}
		}
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExportClause{Items: items}}

	case js_lexer.TAt:
		decorators := append(opts.decorators, p.parseDecorators()...)
		if p.lexer.Token != js_lexer.TClass {
			p.lexer.Expected(js_lexer.TClass)
		}
		return p.parseClassStmt(loc, decorators, true)

	case js_lexer.TClass:
		return p.parseClassStmt(loc, opts.decorators, true)
	}

	if opts.decorators != nil {
		p.lexer.Expected(js_lexer.TClass)
	}

	stmt := p.parseStmt(parseStmtOpts{isModuleScope: opts.isModuleScope, allowLexicalDecls: true})
	stmt.Loc = loc
	switch s := stmt.Data.(type) {
	case *js_ast.SLocal:
		s.IsExport = true
	case *js_ast.SFunction:
		s.IsExport = true
	case *js_ast.SClass:
		s.IsExport = true
	case *js_ast.SEmpty:
		// Erased TypeScript declaration
	default:
		p.addRangeError(logger.Range{Loc: loc, Len: 6}, "Unexpected export")
	}
	return stmt
}

func (p *parser) parseClauseAlias() string {
	if p.lexer.Token == js_lexer.TStringLiteral {
		return helpers.UTF16ToString(p.lexer.StringLiteral)
	}
	if !p.lexer.IsIdentifierOrKeyword() {
		p.lexer.Expect(js_lexer.TIdentifier)
	}
	return p.lexer.Identifier
}

func (p *parser) parseExportClause() []js_ast.ClauseItem {
	items := []js_ast.ClauseItem{}
	p.lexer.Expect(js_lexer.TOpenBrace)

	for p.lexer.Token != js_lexer.TCloseBrace {
		// TypeScript "export { type Foo }"
		if p.options.TS && p.lexer.IsContextualKeyword("type") {
			oldLexer := p.lexer
			p.lexer.Next()
			if p.lexer.IsIdentifierOrKeyword() {
				p.lexer.Next()
				if p.lexer.Token == js_lexer.TComma {
					p.lexer.Next()
				}
				continue
			}
			p.lexer = oldLexer
		}

		nameLoc := p.lexer.Loc()
		name := p.parseClauseAlias()
		p.lexer.Next()
		alias := name
		aliasLoc := nameLoc

		if p.lexer.IsContextualKeyword("as") {
			p.lexer.Next()
			aliasLoc = p.lexer.Loc()
			alias = p.parseClauseAlias()
			p.lexer.Next()
		}

		items = append(items, js_ast.ClauseItem{
			Alias:    alias,
			AliasLoc: aliasLoc,
			Name:     js_ast.LocName{Loc: nameLoc, Name: name},
		})

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TCloseBrace)
	return items
}

func (p *parser) parsePath() string {
	if p.lexer.Token != js_lexer.TStringLiteral && p.lexer.Token != js_lexer.TNoSubstitutionTemplateLiteral {
		p.lexer.Expect(js_lexer.TStringLiteral)
	}
	var path string
	if p.lexer.Token == js_lexer.TNoSubstitutionTemplateLiteral {
		path = p.lexer.RawTemplateContents()
	} else {
		path = helpers.UTF16ToString(p.lexer.StringLiteral)
	}
	p.lexer.Next()
	return path
}

// "with { type: 'json' }" or the legacy "assert { type: 'json' }"
func (p *parser) parseImportAttributes() *js_ast.Expr {
	if (p.lexer.Token == js_lexer.TWith || p.lexer.IsContextualKeyword("assert")) && !p.lexer.HasNewlineBefore {
		p.lexer.Next()
		loc := p.lexer.Loc()
		if p.lexer.Token != js_lexer.TOpenBrace {
			p.lexer.Expected(js_lexer.TOpenBrace)
		}
		expr := p.parseObjectLiteral(loc)
		return &expr
	}
	return nil
}

func (p *parser) parseImportStmt(loc logger.Loc) js_ast.Stmt {
	previousLexer := p.lexer
	p.lexer.Next()

	// "import()" and "import.meta" are expressions
	if p.lexer.Token == js_lexer.TOpenParen || p.lexer.Token == js_lexer.TDot {
		p.lexer = previousLexer
		expr := p.parseExpr(js_ast.LLowest)
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: expr}}
	}

	stmt := &js_ast.SImport{}

	switch p.lexer.Token {
	case js_lexer.TStringLiteral, js_lexer.TNoSubstitutionTemplateLiteral:
		// "import 'path'"

	case js_lexer.TAsterisk:
		// "import * as ns from 'path'"
		p.lexer.Next()
		p.lexer.ExpectContextualKeyword("as")
		stmt.StarName = &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
		p.lexer.Expect(js_lexer.TIdentifier)
		p.lexer.ExpectContextualKeyword("from")

	case js_lexer.TOpenBrace:
		// "import {item1, item2} from 'path'"
		items := p.parseImportClause()
		stmt.Items = &items
		p.lexer.ExpectContextualKeyword("from")

	case js_lexer.TIdentifier:
		// TypeScript "import type Foo from 'path'" is erased
		if p.options.TS && p.lexer.Identifier == "type" {
			oldLexer := p.lexer
			p.lexer.Next()
			if p.lexer.Token == js_lexer.TIdentifier || p.lexer.Token == js_lexer.TOpenBrace || p.lexer.Token == js_lexer.TAsterisk {
				if !p.lexer.IsContextualKeyword("from") {
					p.skipTypeScriptImport()
					return js_ast.Stmt{Loc: loc, Data: &js_ast.SEmpty{}}
				}
			}
			p.lexer = oldLexer
		}

		// "import defaultItem from 'path'"
		stmt.DefaultName = &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
		p.lexer.Next()

		if p.lexer.Token == js_lexer.TComma {
			p.lexer.Next()
			switch p.lexer.Token {
			case js_lexer.TAsterisk:
				// "import defaultItem, * as ns from 'path'"
				p.lexer.Next()
				p.lexer.ExpectContextualKeyword("as")
				stmt.StarName = &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
				p.lexer.Expect(js_lexer.TIdentifier)

			case js_lexer.TOpenBrace:
				// "import defaultItem, {item1, item2} from 'path'"
				items := p.parseImportClause()
				stmt.Items = &items

			default:
				p.lexer.Unexpected()
			}
		}
		p.lexer.ExpectContextualKeyword("from")

	default:
		p.lexer.Unexpected()
	}

	stmt.PathLoc = p.lexer.Loc()
	stmt.Path = p.parsePath()
	stmt.Attributes = p.parseImportAttributes()
	p.lexer.ExpectOrInsertSemicolon()
	return js_ast.Stmt{Loc: loc, Data: stmt}
}

func (p *parser) skipTypeScriptImport() {
	for p.lexer.Token != js_lexer.TEndOfFile && !p.lexer.IsContextualKeyword("from") {
		p.lexer.Next()
	}
	p.lexer.ExpectContextualKeyword("from")
	p.parsePath()
	p.lexer.ExpectOrInsertSemicolon()
}

func (p *parser) parseImportClause() []js_ast.ClauseItem {
	items := []js_ast.ClauseItem{}
	p.lexer.Expect(js_lexer.TOpenBrace)

	for p.lexer.Token != js_lexer.TCloseBrace {
		if p.options.TS && p.lexer.IsContextualKeyword("type") {
			oldLexer := p.lexer
			p.lexer.Next()
			if p.lexer.IsIdentifierOrKeyword() && !p.lexer.IsContextualKeyword("as") {
				p.lexer.Next()
				if p.lexer.IsContextualKeyword("as") {
					p.lexer.Next()
					p.lexer.Next()
				}
				if p.lexer.Token == js_lexer.TComma {
					p.lexer.Next()
				}
				continue
			}
			p.lexer = oldLexer
		}

		aliasLoc := p.lexer.Loc()
		alias := p.parseClauseAlias()
		isIdentifier := p.lexer.Token == js_lexer.TIdentifier
		p.lexer.Next()
		name := js_ast.LocName{Loc: aliasLoc, Name: alias}

		// "import { x as y } from 'path'"
		if p.lexer.IsContextualKeyword("as") {
			p.lexer.Next()
			name = js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
			p.lexer.Expect(js_lexer.TIdentifier)
		} else if !isIdentifier {
			// "import { default } from 'path'" is not allowed
			p.lexer.ExpectContextualKeyword("as")
		}

		items = append(items, js_ast.ClauseItem{Alias: alias, AliasLoc: aliasLoc, Name: name})

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TCloseBrace)
	return items
}

func (p *parser) parseSwitchStmt(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()
	p.lexer.Expect(js_lexer.TOpenParen)
	test := p.parseParenContents()
	p.lexer.Expect(js_lexer.TCloseParen)
	p.lexer.Expect(js_lexer.TOpenBrace)

	cases := []js_ast.Case{}
	foundDefault := false

	for p.lexer.Token != js_lexer.TCloseBrace {
		var value *js_ast.Expr
		body := []js_ast.Stmt{}

		if p.lexer.Token == js_lexer.TDefault {
			if foundDefault {
				p.addRangeError(p.lexer.Range(), "Multiple default clauses are not allowed")
			}
			foundDefault = true
			p.lexer.Next()
			p.lexer.Expect(js_lexer.TColon)
		} else {
			p.lexer.Expect(js_lexer.TCase)
			expr := p.parseExpr(js_ast.LLowest)
			value = &expr
			p.lexer.Expect(js_lexer.TColon)
		}

	caseBody:
		for {
			switch p.lexer.Token {
			case js_lexer.TCloseBrace, js_lexer.TCase, js_lexer.TDefault:
				break caseBody

			default:
				body = append(body, p.parseStmt(parseStmtOpts{allowLexicalDecls: true}))
			}
		}

		cases = append(cases, js_ast.Case{Value: value, Body: body})
	}

	p.lexer.Expect(js_lexer.TCloseBrace)
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SSwitch{Test: test, Cases: cases}}
}

func (p *parser) parseTryStmt(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()
	p.lexer.Expect(js_lexer.TOpenBrace)
	body := p.parseStmtsUpTo(js_lexer.TCloseBrace, parseStmtOpts{allowLexicalDecls: true})
	p.lexer.Next()

	var catch *js_ast.Catch
	var finally *js_ast.Finally

	if p.lexer.Token == js_lexer.TCatch {
		catchLoc := p.lexer.Loc()
		p.lexer.Next()
		var binding *js_ast.Binding

		// The catch binding is optional, and can be omitted
		if p.lexer.Token == js_lexer.TOpenParen {
			p.lexer.Next()
			value := p.parseBinding()
			p.skipTypeScriptTypeAnnotation()
			p.lexer.Expect(js_lexer.TCloseParen)
			binding = &value
		}

		p.lexer.Expect(js_lexer.TOpenBrace)
		stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace, parseStmtOpts{allowLexicalDecls: true})
		p.lexer.Next()
		catch = &js_ast.Catch{Loc: catchLoc, Binding: binding, Body: stmts}
	}

	if p.lexer.Token == js_lexer.TFinally || catch == nil {
		finallyLoc := p.lexer.Loc()
		p.lexer.Expect(js_lexer.TFinally)
		p.lexer.Expect(js_lexer.TOpenBrace)
		stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace, parseStmtOpts{allowLexicalDecls: true})
		p.lexer.Next()
		finally = &js_ast.Finally{Loc: finallyLoc, Stmts: stmts}
	}

	return js_ast.Stmt{Loc: loc, Data: &js_ast.STry{Body: body, Catch: catch, Finally: finally}}
}

func (p *parser) parseForStmt(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()

	// "for await (let x of y) {}"
	isForAwait := p.lexer.IsContextualKeyword("await")
	if isForAwait {
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TOpenParen)

	var init *js_ast.Stmt
	var test *js_ast.Expr
	var update *js_ast.Expr

	// "in" expressions aren't allowed here
	p.allowIn = false

	initLoc := p.lexer.Loc()
	switch p.lexer.Token {
	case js_lexer.TVar:
		p.lexer.Next()
		init = &js_ast.Stmt{Loc: initLoc, Data: &js_ast.SLocal{Kind: js_ast.LocalVar, Decls: p.parseAndDeclareDecls()}}

	case js_lexer.TConst:
		p.lexer.Next()
		init = &js_ast.Stmt{Loc: initLoc, Data: &js_ast.SLocal{Kind: js_ast.LocalConst, Decls: p.parseAndDeclareDecls()}}

	case js_lexer.TSemicolon:

	default:
		if p.lexer.IsContextualKeyword("let") {
			oldLexer := p.lexer
			p.lexer.Next()
			switch p.lexer.Token {
			case js_lexer.TIdentifier, js_lexer.TOpenBracket, js_lexer.TOpenBrace:
				init = &js_ast.Stmt{Loc: initLoc, Data: &js_ast.SLocal{Kind: js_ast.LocalLet, Decls: p.parseAndDeclareDecls()}}
			default:
				p.lexer = oldLexer
			}
		}
		if init == nil {
			expr := p.parseExpr(js_ast.LLowest)
			init = &js_ast.Stmt{Loc: initLoc, Data: &js_ast.SExpr{Value: expr}}
		}
	}

	p.allowIn = true

	// Detect for-of loops
	if p.lexer.IsContextualKeyword("of") || isForAwait {
		p.lexer.ExpectContextualKeyword("of")
		value := p.parseExpr(js_ast.LComma)
		p.lexer.Expect(js_lexer.TCloseParen)
		body := p.parseStmt(parseStmtOpts{})
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SForOf{IsAwait: isForAwait, Init: *init, Value: value, Body: body}}
	}

	// Detect for-in loops
	if p.lexer.Token == js_lexer.TIn {
		p.lexer.Next()
		value := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		body := p.parseStmt(parseStmtOpts{})
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SForIn{Init: *init, Value: value, Body: body}}
	}

	p.lexer.Expect(js_lexer.TSemicolon)

	if p.lexer.Token != js_lexer.TSemicolon {
		expr := p.parseExpr(js_ast.LLowest)
		test = &expr
	}

	p.lexer.Expect(js_lexer.TSemicolon)

	if p.lexer.Token != js_lexer.TCloseParen {
		expr := p.parseExpr(js_ast.LLowest)
		update = &expr
	}

	p.lexer.Expect(js_lexer.TCloseParen)
	body := p.parseStmt(parseStmtOpts{})
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SFor{Init: init, Test: test, Update: update, Body: body}}
}

func (p *parser) parseAndDeclareDecls() []js_ast.Decl {
	decls := []js_ast.Decl{}

	for {
		local := p.parseBinding()

		// Skip over types
		if p.options.TS {
			// "let foo!"
			if _, ok := local.Data.(*js_ast.BIdentifier); ok && p.lexer.Token == js_lexer.TExclamation {
				p.lexer.Next()
			}
			p.skipTypeScriptTypeAnnotation()
		}

		var value *js_ast.Expr
		if p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			expr := p.parseExpr(js_ast.LComma)
			value = &expr
		}

		decls = append(decls, js_ast.Decl{Binding: local, Value: value})

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	return decls
}

func (p *parser) parseBinding() js_ast.Binding {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TIdentifier:
		name := p.lexer.Identifier
		p.lexer.Next()
		return js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Name: name}}

	case js_lexer.TOpenBracket:
		p.lexer.Next()
		items := []js_ast.ArrayBinding{}
		hasSpread := false

		for p.lexer.Token != js_lexer.TCloseBracket {
			if p.lexer.Token == js_lexer.TComma {
				items = append(items, js_ast.ArrayBinding{Binding: js_ast.Binding{Loc: p.lexer.Loc(), Data: &js_ast.BMissing{}}})
			} else {
				if p.lexer.Token == js_lexer.TDotDotDot {
					p.lexer.Next()
					hasSpread = true
				}

				binding := p.parseBinding()
				var defaultValue *js_ast.Expr
				if !hasSpread && p.lexer.Token == js_lexer.TEquals {
					p.lexer.Next()
					value := p.parseExpr(js_ast.LComma)
					defaultValue = &value
				}
				items = append(items, js_ast.ArrayBinding{Binding: binding, DefaultValue: defaultValue})

				// Commas after spread elements are not allowed
				if hasSpread {
					break
				}
			}

			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}

		p.lexer.Expect(js_lexer.TCloseBracket)
		return js_ast.Binding{Loc: loc, Data: &js_ast.BArray{Items: items, HasSpread: hasSpread}}

	case js_lexer.TOpenBrace:
		p.lexer.Next()
		properties := []js_ast.PropertyBinding{}

		for p.lexer.Token != js_lexer.TCloseBrace {
			property := p.parsePropertyBinding()
			properties = append(properties, property)

			// Commas after spread elements are not allowed
			if property.IsSpread {
				break
			}

			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}

		p.lexer.Expect(js_lexer.TCloseBrace)
		return js_ast.Binding{Loc: loc, Data: &js_ast.BObject{Properties: properties}}
	}

	p.lexer.Expect(js_lexer.TIdentifier)
	return js_ast.Binding{}
}

func (p *parser) parsePropertyBinding() js_ast.PropertyBinding {
	var key js_ast.Expr
	isComputed := false

	switch p.lexer.Token {
	case js_lexer.TDotDotDot:
		p.lexer.Next()
		value := js_ast.Binding{Loc: p.lexer.Loc(), Data: &js_ast.BIdentifier{Name: p.lexer.Identifier}}
		p.lexer.Expect(js_lexer.TIdentifier)
		return js_ast.PropertyBinding{IsSpread: true, Value: value}

	case js_lexer.TNumericLiteral:
		key = js_ast.Number(p.lexer.Loc(), p.lexer.Number)
		p.lexer.Next()

	case js_lexer.TStringLiteral:
		key = js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EString{Value: p.lexer.StringLiteral}}
		p.lexer.Next()

	case js_lexer.TBigIntegerLiteral:
		key = js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EBigInt{Value: p.lexer.Identifier}}
		p.lexer.Next()

	case js_lexer.TOpenBracket:
		isComputed = true
		p.lexer.Next()
		key = p.parseExpr(js_ast.LComma)
		p.lexer.Expect(js_lexer.TCloseBracket)

	default:
		name := p.lexer.Identifier
		loc := p.lexer.Loc()
		isIdentifier := p.lexer.Token == js_lexer.TIdentifier
		if !p.lexer.IsIdentifierOrKeyword() {
			p.lexer.Expect(js_lexer.TIdentifier)
		}
		p.lexer.Next()
		key = js_ast.String(loc, name)

		if isIdentifier && p.lexer.Token != js_lexer.TColon && p.lexer.Token != js_lexer.TOpenParen {
			value := js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Name: name}}

			var defaultValue *js_ast.Expr
			if p.lexer.Token == js_lexer.TEquals {
				p.lexer.Next()
				expr := p.parseExpr(js_ast.LComma)
				defaultValue = &expr
			}

			return js_ast.PropertyBinding{Key: key, Value: value, DefaultValue: defaultValue}
		}
	}

	p.lexer.Expect(js_lexer.TColon)
	value := p.parseBinding()

	var defaultValue *js_ast.Expr
	if p.lexer.Token == js_lexer.TEquals {
		p.lexer.Next()
		expr := p.parseExpr(js_ast.LComma)
		defaultValue = &expr
	}

	return js_ast.PropertyBinding{IsComputed: isComputed, Key: key, Value: value, DefaultValue: defaultValue}
}

func (p *parser) parseFnStmt(loc logger.Loc, isAsync bool, isExportDefault bool) js_ast.Stmt {
	isGenerator := p.lexer.Token == js_lexer.TAsterisk
	if isGenerator {
		p.lexer.Next()
	}

	var name *js_ast.LocName

	// The name is optional for "export default function() {}"
	if p.lexer.Token == js_lexer.TIdentifier || !isExportDefault {
		name = &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
		p.lexer.Expect(js_lexer.TIdentifier)
	}

	fn, hasBody := p.parseFn(name, fnOrArrowDataParse{allowAwait: isAsync, allowYield: isGenerator}, true)

	// TypeScript overload signatures have no body
	if !hasBody {
		p.lastStmtWasType = true
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SEmpty{}}
	}

	fn.IsAsync = isAsync
	fn.IsGenerator = isGenerator
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SFunction{Fn: fn}}
}

func (p *parser) parseFn(name *js_ast.LocName, data fnOrArrowDataParse, allowMissingBody bool) (fn js_ast.Fn, hasBody bool) {
	if p.options.TS {
		p.skipTypeScriptTypeParameters()
	}

	fn.Name = name
	fn.Args, fn.HasRestArg = p.parseFnArgs(data)

	// "function foo(): any {}"
	if p.options.TS {
		p.skipTypeScriptReturnType()

		if allowMissingBody && p.lexer.Token != js_lexer.TOpenBrace {
			p.lexer.ExpectOrInsertSemicolon()
			return fn, false
		}
	}

	fn.Body = p.parseFnBody(data)
	return fn, true
}

func (p *parser) parseFnArgs(data fnOrArrowDataParse) (args []js_ast.Arg, hasRestArg bool) {
	oldFnOrArrow := p.fnOrArrow
	oldAllowIn := p.allowIn
	p.fnOrArrow = data
	p.allowIn = true

	p.lexer.Expect(js_lexer.TOpenParen)
	args = []js_ast.Arg{}

	for p.lexer.Token != js_lexer.TCloseParen {
		// Skip over "this" type annotations
		if p.options.TS && p.lexer.Token == js_lexer.TThis {
			p.lexer.Next()
			p.skipTypeScriptTypeAnnotation()
			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
			continue
		}

		var decorators []js_ast.Expr
		if p.lexer.Token == js_lexer.TAt {
			decorators = p.parseDecorators()
		}

		if !hasRestArg && p.lexer.Token == js_lexer.TDotDotDot {
			p.lexer.Next()
			hasRestArg = true
		}

		// TypeScript parameter properties
		if p.options.TS {
			p.skipTypeScriptParameterModifiers()
		}

		arg := p.parseBinding()

		if p.options.TS {
			// "(a?) => {}"
			if p.lexer.Token == js_lexer.TQuestion {
				p.lexer.Next()
			}
			p.skipTypeScriptTypeAnnotation()
		}

		var defaultValue *js_ast.Expr
		if !hasRestArg && p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			value := p.parseExpr(js_ast.LComma)
			defaultValue = &value
		}

		args = append(args, js_ast.Arg{Decorators: decorators, Binding: arg, Default: defaultValue})

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		if hasRestArg {
			// JavaScript does not allow a comma after a rest argument
			p.lexer.Expected(js_lexer.TCloseParen)
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TCloseParen)
	p.fnOrArrow = oldFnOrArrow
	p.allowIn = oldAllowIn
	return
}

func (p *parser) parseDecorators() []js_ast.Expr {
	decorators := []js_ast.Expr{}

	for p.lexer.Token == js_lexer.TAt {
		p.lexer.Next()
		decorators = append(decorators, p.parseDecorator())
	}

	return decorators
}

// Decorators are a restricted expression: a parenthesized expression, or a
// member chain optionally followed by a single call.
func (p *parser) parseDecorator() js_ast.Expr {
	loc := p.lexer.Loc()

	if p.lexer.Token == js_lexer.TOpenParen {
		p.lexer.Next()
		value := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		return value
	}

	name := p.lexer.Identifier
	p.lexer.Expect(js_lexer.TIdentifier)
	value := js_ast.Ident(loc, name)

	for p.lexer.Token == js_lexer.TDot {
		p.lexer.Next()
		nameLoc := p.lexer.Loc()
		if p.lexer.Token == js_lexer.TPrivateIdentifier {
			value = js_ast.Expr{Loc: loc, Data: &js_ast.EIndex{
				Target: value,
				Index:  js_ast.Expr{Loc: nameLoc, Data: &js_ast.EPrivateIdentifier{Name: p.lexer.Identifier}},
			}}
			p.lexer.Next()
			continue
		}
		if !p.lexer.IsIdentifierOrKeyword() {
			p.lexer.Expect(js_lexer.TIdentifier)
		}
		value = js_ast.Expr{Loc: loc, Data: &js_ast.EDot{Target: value, Name: p.lexer.Identifier, NameLoc: nameLoc}}
		p.lexer.Next()
	}

	if p.options.TS {
		p.skipTypeScriptTypeArguments()
	}

	if p.lexer.Token == js_lexer.TOpenParen {
		args := p.parseCallArgs()
		value = js_ast.Expr{Loc: loc, Data: &js_ast.ECall{Target: value, Args: args}}
	}

	return value
}

func (p *parser) parseClassStmt(loc logger.Loc, decorators []js_ast.Expr, isExport bool) js_ast.Stmt {
	classLoc := p.lexer.Loc()
	if decorators != nil && !isExport {
		classLoc = loc
	}
	class := p.parseClass(classLoc, decorators, false)
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SClass{Class: class, IsExport: isExport}}
}

func (p *parser) parseClass(loc logger.Loc, decorators []js_ast.Expr, isNameOptional bool) js_ast.Class {
	p.lexer.Expect(js_lexer.TClass)

	var name *js_ast.LocName
	if p.lexer.Token == js_lexer.TIdentifier && !(p.lexer.Identifier == "implements" && p.options.TS) {
		name = &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
		p.lexer.Next()
	} else if !isNameOptional {
		p.lexer.Expect(js_lexer.TIdentifier)
	}

	if p.options.TS {
		p.skipTypeScriptTypeParameters()
	}

	var extends *js_ast.Expr
	if p.lexer.Token == js_lexer.TExtends {
		p.lexer.Next()
		value := p.parseExpr(js_ast.LNew - 1)
		extends = &value

		if p.options.TS {
			p.skipTypeScriptTypeArguments()
		}
	}

	if p.options.TS && p.lexer.IsContextualKeyword("implements") {
		p.lexer.Next()
		for {
			p.skipTypeScriptType(js_ast.LLowest)
			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}
	}

	bodyLoc := p.lexer.Loc()
	p.lexer.Expect(js_lexer.TOpenBrace)
	properties := []js_ast.Property{}

	// Class bodies are always strict mode code, and "await" and "yield" are
	// only contextual inside members
	oldFnOrArrow := p.fnOrArrow
	oldAllowIn := p.allowIn
	p.fnOrArrow = fnOrArrowDataParse{}
	p.allowIn = true

	for p.lexer.Token != js_lexer.TCloseBrace {
		if p.lexer.Token == js_lexer.TSemicolon {
			p.lexer.Next()
			continue
		}

		if property, ok := p.parseClassMember(); ok {
			properties = append(properties, property)
		}
	}

	p.fnOrArrow = oldFnOrArrow
	p.allowIn = oldAllowIn
	p.lexer.Expect(js_lexer.TCloseBrace)

	return js_ast.Class{
		Loc:        loc,
		Decorators: decorators,
		Name:       name,
		Extends:    extends,
		BodyLoc:    bodyLoc,
		Properties: properties,
	}
}

// Returns false for members that only exist in TypeScript's type system.
func (p *parser) parseClassMember() (js_ast.Property, bool) {
	loc := p.lexer.Loc()
	var decorators []js_ast.Expr
	if p.lexer.Token == js_lexer.TAt {
		decorators = p.parseDecorators()
	}

	prop := js_ast.Property{Loc: loc, Decorators: decorators}
	isTypeOnly := false
	isAsync := false
	isGenerator := false

	// Modifiers are only modifiers when followed by something that can start
	// a member name. Otherwise they are the member name.
	isModifier := func() bool {
		switch p.lexer.Token {
		case js_lexer.TOpenParen, js_lexer.TEquals, js_lexer.TSemicolon, js_lexer.TCloseBrace,
			js_lexer.TColon, js_lexer.TQuestion, js_lexer.TExclamation, js_lexer.TLessThan:
			return false
		}
		return true
	}

modifiers:
	for p.lexer.Token == js_lexer.TIdentifier {
		raw := p.lexer.Identifier
		oldLexer := p.lexer

		switch raw {
		case "static":
			p.lexer.Next()
			if p.lexer.Token == js_lexer.TOpenBrace && !prop.IsStatic && decorators == nil {
				return p.parseClassStaticBlock(loc), true
			}
			if !isModifier() {
				p.lexer = oldLexer
				break modifiers
			}
			prop.IsStatic = true

		case "accessor":
			p.lexer.Next()
			if p.lexer.HasNewlineBefore || !isModifier() {
				p.lexer = oldLexer
				break modifiers
			}
			prop.Kind = js_ast.PropertyAutoAccessor

		case "async":
			p.lexer.Next()
			if p.lexer.HasNewlineBefore || !isModifier() {
				p.lexer = oldLexer
				break modifiers
			}
			isAsync = true

		case "get", "set":
			p.lexer.Next()
			if !isModifier() || p.lexer.Token == js_lexer.TAsterisk {
				p.lexer = oldLexer
				break modifiers
			}
			if raw == "get" {
				prop.Kind = js_ast.PropertyGet
			} else {
				prop.Kind = js_ast.PropertySet
			}
			break modifiers

		case "public", "private", "protected", "readonly", "abstract", "override", "declare":
			if !p.options.TS {
				break modifiers
			}
			p.lexer.Next()
			if !isModifier() {
				p.lexer = oldLexer
				break modifiers
			}
			if raw == "abstract" || raw == "declare" {
				isTypeOnly = true
			}

		default:
			break modifiers
		}
	}

	if p.lexer.Token == js_lexer.TAsterisk && prop.Kind == js_ast.PropertyNormal {
		p.lexer.Next()
		isGenerator = true
	}

	// TypeScript index signatures "[key: string]: any;"
	if p.options.TS && p.lexer.Token == js_lexer.TOpenBracket {
		if p.trySpeculative(func() {
			p.lexer.Next()
			p.lexer.Expect(js_lexer.TIdentifier)
			p.lexer.Expect(js_lexer.TColon)
		}) {
			p.skipTypeScriptType(js_ast.LLowest)
			p.lexer.Expect(js_lexer.TCloseBracket)
			p.skipTypeScriptTypeAnnotation()
			p.lexer.ExpectOrInsertSemicolon()
			return prop, false
		}
	}

	prop.Key, prop.IsComputed = p.parsePropertyKey()

	// Methods
	if p.lexer.Token == js_lexer.TOpenParen || (p.options.TS && p.lexer.Token == js_lexer.TLessThan) {
		if prop.Kind == js_ast.PropertyAutoAccessor {
			p.lexer.Expected(js_lexer.TEquals)
		}

		fnLoc := p.lexer.Loc()
		fn, hasBody := p.parseFn(nil, fnOrArrowDataParse{allowAwait: isAsync, allowYield: isGenerator}, p.options.TS)
		if !hasBody || isTypeOnly {
			return prop, false
		}
		fn.IsAsync = isAsync
		fn.IsGenerator = isGenerator
		prop.IsMethod = true
		value := js_ast.Expr{Loc: fnLoc, Data: &js_ast.EFunction{Fn: fn}}
		prop.Value = &value
		return prop, true
	}

	if prop.Kind == js_ast.PropertyGet || prop.Kind == js_ast.PropertySet || isAsync || isGenerator {
		p.lexer.Expected(js_lexer.TOpenParen)
	}

	// Fields
	if p.options.TS {
		// "a?: number" or "a!: number"
		if p.lexer.Token == js_lexer.TQuestion || p.lexer.Token == js_lexer.TExclamation {
			p.lexer.Next()
		}
		p.skipTypeScriptTypeAnnotation()
	}

	if p.lexer.Token == js_lexer.TEquals {
		p.lexer.Next()
		oldFnOrArrow := p.fnOrArrow
		p.fnOrArrow = fnOrArrowDataParse{}
		value := p.parseExpr(js_ast.LComma)
		p.fnOrArrow = oldFnOrArrow
		prop.Initializer = &value
	}

	p.lexer.ExpectOrInsertSemicolon()
	return prop, !isTypeOnly
}

func (p *parser) parseClassStaticBlock(loc logger.Loc) js_ast.Property {
	blockLoc := p.lexer.Loc()
	oldFnOrArrow := p.fnOrArrow
	p.fnOrArrow = fnOrArrowDataParse{}

	p.lexer.Expect(js_lexer.TOpenBrace)
	stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace, parseStmtOpts{allowLexicalDecls: true})
	p.lexer.Next()

	p.fnOrArrow = oldFnOrArrow
	return js_ast.Property{
		Loc:              loc,
		Kind:             js_ast.PropertyClassStaticBlock,
		ClassStaticBlock: &js_ast.ClassStaticBlock{Loc: blockLoc, Stmts: stmts},
	}
}

func (p *parser) parsePropertyKey() (key js_ast.Expr, isComputed bool) {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TNumericLiteral:
		key = js_ast.Number(loc, p.lexer.Number)
		p.lexer.Next()

	case js_lexer.TStringLiteral:
		key = js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: p.lexer.StringLiteral}}
		p.lexer.Next()

	case js_lexer.TBigIntegerLiteral:
		key = js_ast.Expr{Loc: loc, Data: &js_ast.EBigInt{Value: p.lexer.Identifier}}
		p.lexer.Next()

	case js_lexer.TPrivateIdentifier:
		key = js_ast.Expr{Loc: loc, Data: &js_ast.EPrivateIdentifier{Name: p.lexer.Identifier}}
		p.lexer.Next()

	case js_lexer.TOpenBracket:
		isComputed = true
		p.lexer.Next()
		oldAllowIn := p.allowIn
		p.allowIn = true
		key = p.parseExpr(js_ast.LComma)
		p.allowIn = oldAllowIn
		p.lexer.Expect(js_lexer.TCloseBracket)

	default:
		if !p.lexer.IsIdentifierOrKeyword() {
			p.lexer.Expect(js_lexer.TIdentifier)
		}
		key = js_ast.String(loc, p.lexer.Identifier)
		p.lexer.Next()
	}

	return
}

func (p *parser) parseCallArgs() []js_ast.Expr {
	oldAllowIn := p.allowIn
	p.allowIn = true

	args := []js_ast.Expr{}
	p.lexer.Expect(js_lexer.TOpenParen)

	for p.lexer.Token != js_lexer.TCloseParen {
		loc := p.lexer.Loc()
		isSpread := p.lexer.Token == js_lexer.TDotDotDot
		if isSpread {
			p.lexer.Next()
		}
		arg := p.parseExpr(js_ast.LComma)
		if isSpread {
			arg = js_ast.Expr{Loc: loc, Data: &js_ast.ESpread{Value: arg}}
		}
		args = append(args, arg)
		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TCloseParen)
	p.allowIn = oldAllowIn
	return args
}

func (p *parser) parseParenContents() js_ast.Expr {
	oldAllowIn := p.allowIn
	p.allowIn = true
	value := p.parseExpr(js_ast.LLowest)
	p.allowIn = oldAllowIn
	return value
}

func (p *parser) parseExpr(level js_ast.L) js_ast.Expr {
	return p.parseSuffix(p.parsePrefix(level), level)
}

func (p *parser) parseYieldExpr(loc logger.Loc) js_ast.Expr {
	isStar := false
	if p.lexer.Token == js_lexer.TAsterisk && !p.lexer.HasNewlineBefore {
		isStar = true
		p.lexer.Next()
	}

	var value *js_ast.Expr

	// The yield expression only has a value in certain cases
	if isStar {
		expr := p.parseExpr(js_ast.LYield)
		value = &expr
	} else if !p.lexer.HasNewlineBefore {
		switch p.lexer.Token {
		case js_lexer.TCloseBrace, js_lexer.TCloseBracket, js_lexer.TCloseParen,
			js_lexer.TColon, js_lexer.TComma, js_lexer.TSemicolon, js_lexer.TEndOfFile:

		default:
			expr := p.parseExpr(js_ast.LYield)
			value = &expr
		}
	}

	return js_ast.Expr{Loc: loc, Data: &js_ast.EYield{Value: value, IsStar: isStar}}
}

// Attempts to parse "(args) =>" at the current "(" token. The lexer is left
// untouched if this isn't an arrow function.
func (p *parser) tryParseParenArrowArgs(isAsync bool) (args []js_ast.Arg, hasRestArg bool, ok bool) {
	ok = p.trySpeculative(func() {
		if p.options.TS {
			p.skipTypeScriptTypeParameters()
		}
		args, hasRestArg = p.parseFnArgs(fnOrArrowDataParse{allowAwait: isAsync})
		if p.options.TS && p.lexer.Token == js_lexer.TColon {
			p.skipTypeScriptReturnType()
		}
		if p.lexer.Token != js_lexer.TEqualsGreaterThan || p.lexer.HasNewlineBefore {
			p.lexer.Unexpected()
		}
	})
	return
}

func (p *parser) parseArrowBody(loc logger.Loc, args []js_ast.Arg, hasRestArg bool, isAsync bool) js_ast.Expr {
	p.lexer.Expect(js_lexer.TEqualsGreaterThan)
	data := fnOrArrowDataParse{allowAwait: isAsync}
	arrow := &js_ast.EArrow{Args: args, IsAsync: isAsync, HasRestArg: hasRestArg}

	if p.lexer.Token == js_lexer.TOpenBrace {
		arrow.Body = p.parseFnBody(data)
		return js_ast.Expr{Loc: loc, Data: arrow}
	}

	oldFnOrArrow := p.fnOrArrow
	p.fnOrArrow = data
	bodyLoc := p.lexer.Loc()
	value := p.parseExpr(js_ast.LComma)
	p.fnOrArrow = oldFnOrArrow

	arrow.Body = js_ast.FnBody{Loc: bodyLoc, Stmts: []js_ast.Stmt{{Loc: bodyLoc, Data: &js_ast.SReturn{Value: &value}}}}
	arrow.PreferExpr = true
	return js_ast.Expr{Loc: loc, Data: arrow}
}

func (p *parser) parseAsyncPrefixExpr(loc logger.Loc, level js_ast.L) js_ast.Expr {
	// "async => {}" and "async\nfunction" are not async functions
	if p.lexer.HasNewlineBefore {
		return js_ast.Ident(loc, "async")
	}

	switch p.lexer.Token {
	case js_lexer.TFunction:
		p.lexer.Next()
		return p.parseFnExpr(loc, true)

	case js_lexer.TIdentifier:
		// "async x => {}"
		if level <= js_ast.LAssign {
			name := p.lexer.Identifier
			argLoc := p.lexer.Loc()
			oldLexer := p.lexer
			p.lexer.Next()
			if p.lexer.Token == js_lexer.TEqualsGreaterThan && !p.lexer.HasNewlineBefore {
				arg := js_ast.Arg{Binding: js_ast.Binding{Loc: argLoc, Data: &js_ast.BIdentifier{Name: name}}}
				return p.parseArrowBody(loc, []js_ast.Arg{arg}, false, true)
			}
			p.lexer = oldLexer
		}

	case js_lexer.TOpenParen, js_lexer.TLessThan:
		// "async () => {}"
		if level <= js_ast.LAssign && (p.lexer.Token == js_lexer.TOpenParen || p.options.TS) {
			if args, hasRestArg, ok := p.tryParseParenArrowArgs(true); ok {
				return p.parseArrowBody(loc, args, hasRestArg, true)
			}
		}
	}

	// Otherwise "async" is an identifier, and "async(x)" is a call
	return js_ast.Ident(loc, "async")
}

func (p *parser) parseFnExpr(loc logger.Loc, isAsync bool) js_ast.Expr {
	isGenerator := p.lexer.Token == js_lexer.TAsterisk
	if isGenerator {
		p.lexer.Next()
	}

	var name *js_ast.LocName
	if p.lexer.Token == js_lexer.TIdentifier {
		name = &js_ast.LocName{Loc: p.lexer.Loc(), Name: p.lexer.Identifier}
		p.lexer.Next()
	}

	fn, _ := p.parseFn(name, fnOrArrowDataParse{allowAwait: isAsync, allowYield: isGenerator}, false)
	fn.IsAsync = isAsync
	fn.IsGenerator = isGenerator
	return js_ast.Expr{Loc: loc, Data: &js_ast.EFunction{Fn: fn}}
}

func (p *parser) parseTemplateParts() (parts []js_ast.TemplatePart) {
	for {
		value := p.parseExpr(js_ast.LLowest)
		p.lexer.RescanCloseBraceAsTemplateToken()
		tailLoc := p.lexer.Loc()
		tailRaw := p.lexer.RawTemplateContents()
		parts = append(parts, js_ast.TemplatePart{Value: value, TailLoc: tailLoc, TailRaw: tailRaw})
		if p.lexer.Token == js_lexer.TTemplateTail {
			p.lexer.Next()
			return
		}
		p.lexer.Next()
	}
}

func (p *parser) parseTemplate(loc logger.Loc, tag *js_ast.Expr) js_ast.Expr {
	oldAllowIn := p.allowIn
	p.allowIn = true
	defer func() { p.allowIn = oldAllowIn }()

	headRaw := p.lexer.RawTemplateContents()
	if p.lexer.Token == js_lexer.TNoSubstitutionTemplateLiteral {
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ETemplate{Tag: tag, HeadRaw: headRaw}}
	}
	p.lexer.Next()
	parts := p.parseTemplateParts()
	return js_ast.Expr{Loc: loc, Data: &js_ast.ETemplate{Tag: tag, HeadRaw: headRaw, Parts: parts}}
}

func (p *parser) parsePrefix(level js_ast.L) js_ast.Expr {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TSuper:
		p.lexer.Next()
		switch p.lexer.Token {
		case js_lexer.TOpenParen, js_lexer.TDot, js_lexer.TOpenBracket:
		default:
			p.addRangeError(logger.Range{Loc: loc, Len: 5}, "Unexpected \"super\"")
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.ESuper{}}

	case js_lexer.TOpenParen:
		// Arrow functions are parsed speculatively, since "(a, b)" may also be
		// a parenthesized comma expression
		if level <= js_ast.LAssign {
			if args, hasRestArg, ok := p.tryParseParenArrowArgs(false); ok {
				return p.parseArrowBody(loc, args, hasRestArg, false)
			}
		}

		p.lexer.Next()
		value := p.parseParenContents()
		p.lexer.Expect(js_lexer.TCloseParen)
		return value

	case js_lexer.TFalse:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: false}}

	case js_lexer.TTrue:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: true}}

	case js_lexer.TNull:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENull{}}

	case js_lexer.TThis:
		p.lexer.Next()
		return js_ast.This(loc)

	case js_lexer.TPrivateIdentifier:
		// "#x in obj"
		name := p.lexer.Identifier
		p.lexer.Next()
		if p.lexer.Token != js_lexer.TIn {
			p.lexer.Expected(js_lexer.TIn)
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EPrivateIdentifier{Name: name}}

	case js_lexer.TIdentifier:
		name := p.lexer.Identifier
		p.lexer.Next()

		switch name {
		case "async":
			return p.parseAsyncPrefixExpr(loc, level)

		case "await":
			if p.fnOrArrow.allowAwait {
				return js_ast.Expr{Loc: loc, Data: &js_ast.EAwait{Value: p.parseExpr(js_ast.LPrefix)}}
			}

		case "yield":
			if p.fnOrArrow.allowYield {
				if level > js_ast.LAssign {
					p.addRangeError(logger.Range{Loc: loc, Len: 5}, "Cannot use a \"yield\" expression here without parentheses")
				}
				return p.parseYieldExpr(loc)
			}
		}

		// "x => {}"
		if p.lexer.Token == js_lexer.TEqualsGreaterThan && !p.lexer.HasNewlineBefore && level <= js_ast.LAssign {
			arg := js_ast.Arg{Binding: js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Name: name}}}
			return p.parseArrowBody(loc, []js_ast.Arg{arg}, false, false)
		}

		return js_ast.Ident(loc, name)

	case js_lexer.TStringLiteral:
		value := p.lexer.StringLiteral
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: value}}

	case js_lexer.TNoSubstitutionTemplateLiteral, js_lexer.TTemplateHead:
		return p.parseTemplate(loc, nil)

	case js_lexer.TNumericLiteral:
		value := p.lexer.Number
		p.lexer.Next()
		return js_ast.Number(loc, value)

	case js_lexer.TBigIntegerLiteral:
		value := p.lexer.Identifier
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBigInt{Value: value}}

	case js_lexer.TSlash, js_lexer.TSlashEquals:
		p.lexer.ScanRegExp()
		value := p.lexer.Raw()
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ERegExp{Value: value}}

	case js_lexer.TVoid:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpVoid, Value: p.parseExpr(js_ast.LPrefix)}}

	case js_lexer.TTypeof:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpTypeof, Value: p.parseExpr(js_ast.LPrefix)}}

	case js_lexer.TDelete:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpDelete, Value: p.parseExpr(js_ast.LPrefix)}}

	case js_lexer.TPlus:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPos, Value: p.parseExpr(js_ast.LPrefix)}}

	case js_lexer.TMinus:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpNeg, Value: p.parseExpr(js_ast.LPrefix)}}

	case js_lexer.TTilde:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpCpl, Value: p.parseExpr(js_ast.LPrefix)}}

	case js_lexer.TExclamation:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpNot, Value: p.parseExpr(js_ast.LPrefix)}}

	case js_lexer.TMinusMinus:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPreDec, Value: p.parseExpr(js_ast.LPrefix)}}

	case js_lexer.TPlusPlus:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPreInc, Value: p.parseExpr(js_ast.LPrefix)}}

	case js_lexer.TFunction:
		p.lexer.Next()
		return p.parseFnExpr(loc, false)

	case js_lexer.TClass:
		class := p.parseClass(loc, nil, true)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EClass{Class: class}}

	case js_lexer.TAt:
		// "@dec class {}"
		decorators := p.parseDecorators()
		if p.lexer.Token != js_lexer.TClass {
			p.lexer.Expected(js_lexer.TClass)
		}
		class := p.parseClass(loc, decorators, true)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EClass{Class: class}}

	case js_lexer.TNew:
		p.lexer.Next()

		// Special-case the weird "new.target" expression here
		if p.lexer.Token == js_lexer.TDot {
			p.lexer.Next()
			if p.lexer.Token != js_lexer.TIdentifier || p.lexer.Raw() != "target" {
				p.lexer.Unexpected()
			}
			p.lexer.Next()
			return js_ast.Expr{Loc: loc, Data: &js_ast.ENewTarget{}}
		}

		target := p.parseExpr(js_ast.LMember)
		if p.options.TS && p.lexer.Token == js_lexer.TLessThan {
			p.skipTypeScriptTypeArguments()
		}

		args := []js_ast.Expr{}
		if p.lexer.Token == js_lexer.TOpenParen {
			args = p.parseCallArgs()
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENew{Target: target, Args: args}}

	case js_lexer.TOpenBracket:
		p.lexer.Next()
		items := []js_ast.Expr{}
		oldAllowIn := p.allowIn
		p.allowIn = true

		for p.lexer.Token != js_lexer.TCloseBracket {
			switch p.lexer.Token {
			case js_lexer.TComma:
				items = append(items, js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EMissing{}})

			case js_lexer.TDotDotDot:
				dotsLoc := p.lexer.Loc()
				p.lexer.Next()
				item := p.parseExpr(js_ast.LComma)
				items = append(items, js_ast.Expr{Loc: dotsLoc, Data: &js_ast.ESpread{Value: item}})

			default:
				items = append(items, p.parseExpr(js_ast.LComma))
			}

			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}

		p.lexer.Expect(js_lexer.TCloseBracket)
		p.allowIn = oldAllowIn
		return js_ast.Expr{Loc: loc, Data: &js_ast.EArray{Items: items}}

	case js_lexer.TOpenBrace:
		return p.parseObjectLiteral(loc)

	case js_lexer.TImport:
		p.lexer.Next()

		// "import.meta"
		if p.lexer.Token == js_lexer.TDot {
			p.lexer.Next()
			p.lexer.ExpectContextualKeyword("meta")
			return js_ast.Expr{Loc: loc, Data: &js_ast.EImportMeta{}}
		}

		// "import(path, options)"
		oldAllowIn := p.allowIn
		p.allowIn = true
		p.lexer.Expect(js_lexer.TOpenParen)
		value := p.parseExpr(js_ast.LComma)
		var options *js_ast.Expr
		if p.lexer.Token == js_lexer.TComma {
			p.lexer.Next()
			if p.lexer.Token != js_lexer.TCloseParen {
				expr := p.parseExpr(js_ast.LComma)
				options = &expr
				if p.lexer.Token == js_lexer.TComma {
					p.lexer.Next()
				}
			}
		}
		p.lexer.Expect(js_lexer.TCloseParen)
		p.allowIn = oldAllowIn
		return js_ast.Expr{Loc: loc, Data: &js_ast.EImportCall{Expr: value, Options: options}}

	case js_lexer.TLessThan:
		if p.options.TS {
			// "<T>(x: T) => x"
			if level <= js_ast.LAssign {
				if args, hasRestArg, ok := p.tryParseParenArrowArgs(false); ok {
					return p.parseArrowBody(loc, args, hasRestArg, false)
				}
			}

			// "<T>x" is a legacy type cast
			p.lexer.Next()
			p.skipTypeScriptType(js_ast.LLowest)
			p.lexer.ExpectGreaterThan()
			return p.parsePrefix(js_ast.LPrefix)
		}
	}

	p.lexer.Unexpected()
	return js_ast.Expr{}
}

func (p *parser) parseObjectLiteral(loc logger.Loc) js_ast.Expr {
	p.lexer.Expect(js_lexer.TOpenBrace)
	properties := []js_ast.Property{}
	oldAllowIn := p.allowIn
	p.allowIn = true

	for p.lexer.Token != js_lexer.TCloseBrace {
		if p.lexer.Token == js_lexer.TDotDotDot {
			dotsLoc := p.lexer.Loc()
			p.lexer.Next()
			value := p.parseExpr(js_ast.LComma)
			properties = append(properties, js_ast.Property{Loc: dotsLoc, Kind: js_ast.PropertySpread, Value: &value})
		} else {
			properties = append(properties, p.parseObjectProperty())
		}

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TCloseBrace)
	p.allowIn = oldAllowIn
	return js_ast.Expr{Loc: loc, Data: &js_ast.EObject{Properties: properties}}
}

func (p *parser) parseObjectProperty() js_ast.Property {
	loc := p.lexer.Loc()
	prop := js_ast.Property{Loc: loc}
	isAsync := false
	isGenerator := false

	// "async", "get" and "set" are only modifiers when followed by a key
	if p.lexer.Token == js_lexer.TIdentifier {
		switch raw := p.lexer.Identifier; raw {
		case "async", "get", "set":
			oldLexer := p.lexer
			p.lexer.Next()
			switch p.lexer.Token {
			case js_lexer.TOpenParen, js_lexer.TColon, js_lexer.TComma, js_lexer.TCloseBrace, js_lexer.TEquals:
				p.lexer = oldLexer

			default:
				if raw == "async" {
					if p.lexer.HasNewlineBefore {
						p.lexer = oldLexer
						break
					}
					isAsync = true
				} else if raw == "get" {
					prop.Kind = js_ast.PropertyGet
				} else {
					prop.Kind = js_ast.PropertySet
				}
			}
		}
	}

	if p.lexer.Token == js_lexer.TAsterisk && prop.Kind == js_ast.PropertyNormal {
		p.lexer.Next()
		isGenerator = true
	}

	isIdentifier := p.lexer.Token == js_lexer.TIdentifier
	keyLoc := p.lexer.Loc()
	name := p.lexer.Identifier
	prop.Key, prop.IsComputed = p.parsePropertyKey()

	if p.lexer.Token == js_lexer.TOpenParen || (p.options.TS && p.lexer.Token == js_lexer.TLessThan) {
		fnLoc := p.lexer.Loc()
		fn, _ := p.parseFn(nil, fnOrArrowDataParse{allowAwait: isAsync, allowYield: isGenerator}, false)
		fn.IsAsync = isAsync
		fn.IsGenerator = isGenerator
		value := js_ast.Expr{Loc: fnLoc, Data: &js_ast.EFunction{Fn: fn}}
		prop.Value = &value
		prop.IsMethod = true
		return prop
	}

	if prop.Kind != js_ast.PropertyNormal || isAsync || isGenerator {
		p.lexer.Expected(js_lexer.TOpenParen)
	}

	if p.lexer.Token == js_lexer.TColon {
		p.lexer.Next()
		value := p.parseExpr(js_ast.LComma)
		prop.Value = &value
		return prop
	}

	// Shorthand "{ a }" or "{ a = 1 }" in a destructuring pattern
	if !isIdentifier || prop.IsComputed {
		p.lexer.Expect(js_lexer.TColon)
	}
	value := js_ast.Ident(keyLoc, name)
	prop.Value = &value
	prop.WasShorthand = true
	if p.lexer.Token == js_lexer.TEquals {
		p.lexer.Next()
		initializer := p.parseExpr(js_ast.LComma)
		prop.Initializer = &initializer
	}
	return prop
}

type binaryOp struct {
	op    js_ast.OpCode
	level js_ast.L
}

var binaryOps = map[js_lexer.T]binaryOp{
	js_lexer.TPlus:                             {js_ast.BinOpAdd, js_ast.LAdd},
	js_lexer.TMinus:                            {js_ast.BinOpSub, js_ast.LAdd},
	js_lexer.TAsterisk:                         {js_ast.BinOpMul, js_ast.LMultiply},
	js_lexer.TSlash:                            {js_ast.BinOpDiv, js_ast.LMultiply},
	js_lexer.TPercent:                          {js_ast.BinOpRem, js_ast.LMultiply},
	js_lexer.TLessThan:                         {js_ast.BinOpLt, js_ast.LCompare},
	js_lexer.TLessThanEquals:                   {js_ast.BinOpLe, js_ast.LCompare},
	js_lexer.TGreaterThan:                      {js_ast.BinOpGt, js_ast.LCompare},
	js_lexer.TGreaterThanEquals:                {js_ast.BinOpGe, js_ast.LCompare},
	js_lexer.TInstanceof:                       {js_ast.BinOpInstanceof, js_ast.LCompare},
	js_lexer.TLessThanLessThan:                 {js_ast.BinOpShl, js_ast.LShift},
	js_lexer.TGreaterThanGreaterThan:           {js_ast.BinOpShr, js_ast.LShift},
	js_lexer.TGreaterThanGreaterThanGreaterThan: {js_ast.BinOpUShr, js_ast.LShift},
	js_lexer.TEqualsEquals:                     {js_ast.BinOpLooseEq, js_ast.LEquals},
	js_lexer.TExclamationEquals:                {js_ast.BinOpLooseNe, js_ast.LEquals},
	js_lexer.TEqualsEqualsEquals:               {js_ast.BinOpStrictEq, js_ast.LEquals},
	js_lexer.TExclamationEqualsEquals:          {js_ast.BinOpStrictNe, js_ast.LEquals},
	js_lexer.TQuestionQuestion:                 {js_ast.BinOpNullishCoalescing, js_ast.LNullishCoalescing},
	js_lexer.TBarBar:                           {js_ast.BinOpLogicalOr, js_ast.LLogicalOr},
	js_lexer.TAmpersandAmpersand:               {js_ast.BinOpLogicalAnd, js_ast.LLogicalAnd},
	js_lexer.TBar:                              {js_ast.BinOpBitwiseOr, js_ast.LBitwiseOr},
	js_lexer.TAmpersand:                        {js_ast.BinOpBitwiseAnd, js_ast.LBitwiseAnd},
	js_lexer.TCaret:                            {js_ast.BinOpBitwiseXor, js_ast.LBitwiseXor},
}

var assignOps = map[js_lexer.T]js_ast.OpCode{
	js_lexer.TEquals:                                  js_ast.BinOpAssign,
	js_lexer.TPlusEquals:                              js_ast.BinOpAddAssign,
	js_lexer.TMinusEquals:                             js_ast.BinOpSubAssign,
	js_lexer.TAsteriskEquals:                          js_ast.BinOpMulAssign,
	js_lexer.TSlashEquals:                             js_ast.BinOpDivAssign,
	js_lexer.TPercentEquals:                           js_ast.BinOpRemAssign,
	js_lexer.TAsteriskAsteriskEquals:                  js_ast.BinOpPowAssign,
	js_lexer.TLessThanLessThanEquals:                  js_ast.BinOpShlAssign,
	js_lexer.TGreaterThanGreaterThanEquals:            js_ast.BinOpShrAssign,
	js_lexer.TGreaterThanGreaterThanGreaterThanEquals: js_ast.BinOpUShrAssign,
	js_lexer.TBarEquals:                               js_ast.BinOpBitwiseOrAssign,
	js_lexer.TAmpersandEquals:                         js_ast.BinOpBitwiseAndAssign,
	js_lexer.TCaretEquals:                             js_ast.BinOpBitwiseXorAssign,
	js_lexer.TQuestionQuestionEquals:                  js_ast.BinOpNullishCoalescingAssign,
	js_lexer.TBarBarEquals:                            js_ast.BinOpLogicalOrAssign,
	js_lexer.TAmpersandAmpersandEquals:                js_ast.BinOpLogicalAndAssign,
}

func (p *parser) parseSuffix(left js_ast.Expr, level js_ast.L) js_ast.Expr {
	optionalChain := js_ast.OptionalChainNone

	for {
		oldOptionalChain := optionalChain
		optionalChain = js_ast.OptionalChainNone

		continueChain := js_ast.OptionalChainNone
		if oldOptionalChain != js_ast.OptionalChainNone {
			continueChain = js_ast.OptionalChainContinue
		}

		switch p.lexer.Token {
		case js_lexer.TDot:
			p.lexer.Next()
			nameLoc := p.lexer.Loc()

			if p.lexer.Token == js_lexer.TPrivateIdentifier {
				index := js_ast.Expr{Loc: nameLoc, Data: &js_ast.EPrivateIdentifier{Name: p.lexer.Identifier}}
				p.lexer.Next()
				left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EIndex{Target: left, Index: index, OptionalChain: continueChain}}
			} else {
				if !p.lexer.IsIdentifierOrKeyword() {
					p.lexer.Expect(js_lexer.TIdentifier)
				}
				name := p.lexer.Identifier
				p.lexer.Next()
				left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EDot{Target: left, Name: name, NameLoc: nameLoc, OptionalChain: continueChain}}
			}
			optionalChain = continueChain

		case js_lexer.TQuestionDot:
			p.lexer.Next()

			switch p.lexer.Token {
			case js_lexer.TOpenBracket:
				p.lexer.Next()
				index := p.parseParenContents()
				p.lexer.Expect(js_lexer.TCloseBracket)
				left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EIndex{Target: left, Index: index, OptionalChain: js_ast.OptionalChainStart}}

			case js_lexer.TOpenParen, js_lexer.TLessThan:
				if level >= js_ast.LCall {
					return left
				}
				if p.lexer.Token == js_lexer.TLessThan {
					if !p.options.TS {
						p.lexer.Expected(js_lexer.TIdentifier)
					}
					p.skipTypeScriptTypeArguments()
				}
				args := p.parseCallArgs()
				left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.ECall{Target: left, Args: args, OptionalChain: js_ast.OptionalChainStart}}

			case js_lexer.TPrivateIdentifier:
				index := js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EPrivateIdentifier{Name: p.lexer.Identifier}}
				p.lexer.Next()
				left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EIndex{Target: left, Index: index, OptionalChain: js_ast.OptionalChainStart}}

			default:
				nameLoc := p.lexer.Loc()
				if !p.lexer.IsIdentifierOrKeyword() {
					p.lexer.Expect(js_lexer.TIdentifier)
				}
				name := p.lexer.Identifier
				p.lexer.Next()
				left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EDot{Target: left, Name: name, NameLoc: nameLoc, OptionalChain: js_ast.OptionalChainStart}}
			}
			optionalChain = js_ast.OptionalChainContinue

		case js_lexer.TNoSubstitutionTemplateLiteral, js_lexer.TTemplateHead:
			if oldOptionalChain != js_ast.OptionalChainNone {
				p.addRangeError(p.lexer.Range(), "Template literals cannot have an optional chain as a tag")
			}
			tag := left
			left = p.parseTemplate(left.Loc, &tag)

		case js_lexer.TOpenBracket:
			p.lexer.Next()
			index := p.parseParenContents()
			p.lexer.Expect(js_lexer.TCloseBracket)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EIndex{Target: left, Index: index, OptionalChain: continueChain}}
			optionalChain = continueChain

		case js_lexer.TOpenParen:
			if level >= js_ast.LCall {
				return left
			}
			args := p.parseCallArgs()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.ECall{Target: left, Args: args, OptionalChain: continueChain}}
			optionalChain = continueChain

		case js_lexer.TQuestion:
			if level >= js_ast.LConditional {
				return left
			}
			p.lexer.Next()

			yes := p.parseParenContents()
			p.lexer.Expect(js_lexer.TColon)
			no := p.parseExpr(js_ast.LComma)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EIf{Test: left, Yes: yes, No: no}}

		case js_lexer.TExclamation:
			// TypeScript non-null assertion "a!"
			if !p.options.TS || p.lexer.HasNewlineBefore {
				return left
			}
			p.lexer.Next()
			optionalChain = oldOptionalChain

		case js_lexer.TMinusMinus, js_lexer.TPlusPlus:
			if p.lexer.HasNewlineBefore || level >= js_ast.LPostfix {
				return left
			}
			op := js_ast.UnOpPostInc
			if p.lexer.Token == js_lexer.TMinusMinus {
				op = js_ast.UnOpPostDec
			}
			p.lexer.Next()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EUnary{Op: op, Value: left}}

		case js_lexer.TComma:
			if level >= js_ast.LComma {
				return left
			}
			p.lexer.Next()
			right := p.parseExpr(js_ast.LComma)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: js_ast.BinOpComma, Left: left, Right: right}}

		case js_lexer.TAsteriskAsterisk:
			if level >= js_ast.LExponentiation {
				return left
			}
			p.lexer.Next()
			right := p.parseExpr(js_ast.LExponentiation - 1)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: js_ast.BinOpPow, Left: left, Right: right}}

		case js_lexer.TIn:
			if level >= js_ast.LCompare || !p.allowIn {
				return left
			}
			p.lexer.Next()
			right := p.parseExpr(js_ast.LCompare)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: js_ast.BinOpIn, Left: left, Right: right}}

		case js_lexer.TIdentifier:
			// TypeScript "x as T" and "x satisfies T"
			if p.options.TS && !p.lexer.HasNewlineBefore && level < js_ast.LCompare &&
				(p.lexer.Identifier == "as" || p.lexer.Identifier == "satisfies") {
				p.lexer.Next()
				p.skipTypeScriptType(js_ast.LLowest)
				continue
			}
			return left

		default:
			if p.lexer.Token == js_lexer.TLessThan && p.options.TS && p.tryParseTypeArgumentsInExpression() {
				continue
			}

			if op, ok := assignOps[p.lexer.Token]; ok {
				if level >= js_ast.LAssign {
					return left
				}
				p.lexer.Next()
				right := p.parseExpr(js_ast.LAssign - 1)
				left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: op, Left: left, Right: right}}
				continue
			}

			entry, ok := binaryOps[p.lexer.Token]
			if !ok || level >= entry.level {
				return left
			}
			p.lexer.Next()
			right := p.parseExpr(entry.level)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: entry.op, Left: left, Right: right}}
		}
	}
}
