package transform

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jymfony/scriba/internal/js_ast"
	"github.com/jymfony/scriba/internal/js_lexer"
	"github.com/jymfony/scriba/internal/logger"
	"github.com/jymfony/scriba/internal/logging"
	"github.com/jymfony/scriba/internal/runtime"
)

// A pass owns the tree while it runs and returns the tree for the next one.
type Pass struct {
	Name string
	Run  func(tree js_ast.AST) js_ast.AST
}

// Run applies the passes in order.
func Run(tree js_ast.AST, passes ...Pass) js_ast.AST {
	log := logging.For("transform")
	for _, pass := range passes {
		start := time.Now()
		tree = pass.Run(tree)
		log.Debug().
			Str("pass", pass.Name).
			Str("file", tree.Source.PrettyPath).
			Dur("elapsed", time.Since(start)).
			Msg("pass done")
	}
	return tree
}

var ErrUnnamedClass = errors.New("class has no name")

const AnonymousPrefix = "_anonymous_xΞ"

func IsAnonymousName(name string) bool {
	return strings.HasPrefix(name, AnonymousPrefix)
}

// NameSource hands out names for anonymous classes and functions.
type NameSource interface {
	NextName() string
}

type randomNames struct{}

func (randomNames) NextName() string {
	return fmt.Sprintf("%s%X", AnonymousPrefix, rand.Intn(1000000))
}

// RandomNames draws a number in [0, 1000000) for every name. Two units may
// get the same name, which is fine since each one is its own scope.
func RandomNames() NameSource {
	return randomNames{}
}

// CounterNames numbers anonymous expressions 1, 2, 3 and so on.
type CounterNames struct {
	next int
}

func (c *CounterNames) NextName() string {
	c.next++
	return fmt.Sprintf("%s%X", AnonymousPrefix, c.next)
}

// TempNames mints identifiers that collide with nothing written in the
// unit. Every identifier-like run of the source text counts as taken, which
// also covers words inside strings and comments.
type TempNames struct {
	used   map[string]bool
	minted map[string]bool
}

func NewTempNames(contents string) *TempNames {
	t := &TempNames{
		used:   make(map[string]bool),
		minted: make(map[string]bool),
	}

	start := -1
	for i, c := range contents {
		if start == -1 {
			if js_lexer.IsIdentifierStart(c) {
				start = i
			}
		} else if !js_lexer.IsIdentifierContinue(c) {
			t.used[contents[start:i]] = true
			start = -1
			if js_lexer.IsIdentifierStart(c) {
				start = i
			}
		}
	}
	if start != -1 {
		t.used[contents[start:]] = true
	}
	return t
}

// Fresh returns "base" if it is free, otherwise the first free "baseN" with
// N counting from 1.
func (t *TempNames) Fresh(base string) string {
	name := base
	for i := 1; t.used[name]; i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	t.used[name] = true
	t.minted[name] = true
	return name
}

// IsSynthesized reports names that do not come from the source: anonymous
// expression names and minted temporaries.
func (t *TempNames) IsSynthesized(name string) bool {
	return IsAnonymousName(name) || t.minted[name]
}

// Turns arbitrary text into something usable inside an identifier.
func sanitizeName(text string) string {
	sb := strings.Builder{}
	for _, c := range text {
		if js_lexer.IsIdentifierContinue(c) {
			sb.WriteRune(c)
		} else {
			sb.WriteByte('_')
		}
	}
	if sb.Len() == 0 {
		return "_"
	}
	return sb.String()
}

func insertAfterDirectives(stmts []js_ast.Stmt, inserted ...js_ast.Stmt) []js_ast.Stmt {
	i := 0
	for i < len(stmts) {
		if _, ok := stmts[i].Data.(*js_ast.SDirective); !ok {
			break
		}
		i++
	}
	result := make([]js_ast.Stmt, 0, len(stmts)+len(inserted))
	result = append(result, stmts[:i]...)
	result = append(result, inserted...)
	return append(result, stmts[i:]...)
}

// Adds runtime helper declarations after the directives of a unit, merging
// them with helpers injected by an earlier pass.
func injectHelpers(stmts []js_ast.Stmt, names ...string) []js_ast.Stmt {
	if len(names) == 0 {
		return stmts
	}

	for i, stmt := range stmts {
		switch s := stmt.Data.(type) {
		case *js_ast.SDirective:
			continue

		case *js_ast.SHelpers:
			all := append(append([]string{}, s.Names...), names...)
			stmts[i].Data = newHelpers(all)
			return stmts
		}
		break
	}

	return insertAfterDirectives(stmts, js_ast.Stmt{Data: newHelpers(names)})
}

func newHelpers(names []string) *js_ast.SHelpers {
	seen := make(map[string]bool)
	var unique []string
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			unique = append(unique, name)
		}
	}
	return &js_ast.SHelpers{Names: unique, Stmts: runtime.Helpers(unique...)}
}

func localStmt(loc logger.Loc, kind js_ast.LocalKind, name string, value js_ast.Expr) js_ast.Stmt {
	return js_ast.Stmt{Loc: js_ast.NoLoc, Data: &js_ast.SLocal{
		Kind: kind,
		Decls: []js_ast.Decl{{
			Binding: js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Name: name}},
			Value:   &value,
		}},
	}}
}

func unary(loc logger.Loc, op js_ast.OpCode, value js_ast.Expr) js_ast.Expr {
	return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: op, Value: value}}
}

func binary(loc logger.Loc, op js_ast.OpCode, left js_ast.Expr, right js_ast.Expr) js_ast.Expr {
	return js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: op, Left: left, Right: right}}
}

func fnExpr(loc logger.Loc, args []js_ast.Arg, stmts []js_ast.Stmt) js_ast.Expr {
	return js_ast.Expr{Loc: loc, Data: &js_ast.EFunction{Fn: js_ast.Fn{
		Args: args,
		Body: js_ast.FnBody{Loc: loc, Stmts: stmts},
	}}}
}

func argNamed(loc logger.Loc, name string) js_ast.Arg {
	return js_ast.Arg{Binding: js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Name: name}}}
}

func returnStmt(loc logger.Loc, value js_ast.Expr) js_ast.Stmt {
	return js_ast.Stmt{Loc: js_ast.NoLoc, Data: &js_ast.SReturn{Value: &value}}
}

// Statements the compiler adds use no location, so they never pick up the
// comments that precede some source node.
func exprStmt(value js_ast.Expr) js_ast.Stmt {
	return js_ast.Stmt{Loc: js_ast.NoLoc, Data: &js_ast.SExpr{Value: value}}
}

// "function () { try { return require(path); } catch { return void 0; } }"
func tryRequireFn(loc logger.Loc, path string) js_ast.Expr {
	require := js_ast.Call(loc, js_ast.Ident(loc, "require"), js_ast.String(loc, path))
	return fnExpr(loc, nil, []js_ast.Stmt{{Loc: js_ast.NoLoc, Data: &js_ast.STry{
		Body:  []js_ast.Stmt{returnStmt(loc, require)},
		Catch: &js_ast.Catch{Loc: loc, Body: []js_ast.Stmt{returnStmt(loc, js_ast.Undefined(loc))}},
	}}})
}
